package voicechat

// State is the phase of the turn-taking cycle.
type State int

const (
	StateIdle State = iota
	StateListening
	StateProcessing
	StateSpeaking
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateSpeaking:
		return "speaking"
	case StateError:
		return "error"
	}
	return "unknown"
}

// turnInFlight reports whether a request or its spoken reply is underway.
func (s State) turnInFlight() bool {
	return s == StateProcessing || s == StateSpeaking
}
