package events

const (
	KindStartRequested Kind = "controls.start_requested"
	KindStopRequested  Kind = "controls.stop_requested"
)

// StartRequested is a press of the start control.
type StartRequested struct{ Base }

func NewStartRequested() StartRequested {
	return StartRequested{Base: NewBase(KindStartRequested)}
}

// StopRequested is a press of the stop control.
type StopRequested struct{ Base }

func NewStopRequested() StopRequested {
	return StopRequested{Base: NewBase(KindStopRequested)}
}
