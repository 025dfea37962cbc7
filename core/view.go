package voicechat

type StatusKind string

const (
	StatusNeutral    StatusKind = "neutral"
	StatusListening  StatusKind = "listening"
	StatusProcessing StatusKind = "processing"
	StatusSpeaking   StatusKind = "speaking"
	StatusError      StatusKind = "error"
)

// Status is the text of the status indicator and how it is styled.
type Status struct {
	Text string
	Kind StatusKind
}

var (
	StatusReady       = Status{Text: "Ready", Kind: StatusNeutral}
	StatusListen      = Status{Text: "Listening...", Kind: StatusListening}
	StatusProcess     = Status{Text: "Processing...", Kind: StatusProcessing}
	StatusBotSpeaking = Status{Text: "Bot is speaking...", Kind: StatusSpeaking}
	StatusStopped     = Status{Text: "Stopped", Kind: StatusNeutral}
	StatusFailed      = Status{Text: "Error occurred", Kind: StatusError}
	StatusStartFailed = Status{Text: "Error starting speech recognition", Kind: StatusError}
	StatusUnsupported = Status{Text: "Speech recognition not supported", Kind: StatusError}
)

// RecognitionErrorStatus reports a recognition failure with its code.
func RecognitionErrorStatus(code string) Status {
	return Status{Text: "Error: " + code, Kind: StatusError}
}

// Animations are the indicator flags of the presentation.
type Animations struct {
	// Wave is the active-speaking indicator.
	Wave bool
	// Listening is the listening indicator.
	Listening bool
}

// Controls is the enabled state of the start and stop controls. They are
// never enabled at the same time.
type Controls struct {
	StartEnabled bool
	StopEnabled  bool
}

// View is a point-in-time snapshot of everything the presentation shows.
type View struct {
	State      State
	Status     Status
	Controls   Controls
	Animations Animations
	// Tone is the tone detected for the latest reply.
	Tone string
	// ToneHighlighted is set briefly after Tone changes.
	ToneHighlighted bool
	Transcript      []Message
}
