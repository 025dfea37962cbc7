package voicechat

import "time"

const (
	restartAfterRecognitionEndDelay = 300 * time.Millisecond
	restartAfterReplyFailureDelay   = 1000 * time.Millisecond
	listeningAnimationDelay         = 300 * time.Millisecond
	toneHighlightDuration           = 300 * time.Millisecond
)

// scheduler runs fire-and-forget delayed work. Scheduled work cannot be
// cancelled, so whatever it posts is re-checked against the current state
// when handled.
type scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }
