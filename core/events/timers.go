package events

const (
	KindRestartDue            Kind = "timer.restart_due"
	KindListeningAnimationDue Kind = "timer.listening_animation_due"
	KindToneHighlightExpired  Kind = "timer.tone_highlight_expired"
)

type RestartReason string

const (
	// RestartAfterRecognitionEnded follows the end of a recognizer paused
	// for a turn.
	RestartAfterRecognitionEnded RestartReason = "recognition_ended"
	// RestartAfterReplyFailed follows a failed turn request.
	RestartAfterReplyFailed RestartReason = "reply_failed"
)

// RestartDue is a delayed recognition restart coming due.
type RestartDue struct {
	Base
	Reason RestartReason
}

func NewRestartDue(reason RestartReason) RestartDue {
	return RestartDue{Base: NewBase(KindRestartDue), Reason: reason}
}

type ListeningAnimationDue struct{ Base }

func NewListeningAnimationDue() ListeningAnimationDue {
	return ListeningAnimationDue{Base: NewBase(KindListeningAnimationDue)}
}

// ToneHighlightExpired ends the highlight of tone update Generation.
type ToneHighlightExpired struct {
	Base
	Generation int
}

func NewToneHighlightExpired(generation int) ToneHighlightExpired {
	return ToneHighlightExpired{Base: NewBase(KindToneHighlightExpired), Generation: generation}
}
