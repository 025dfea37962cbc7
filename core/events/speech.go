package events

const (
	KindSpeechStarted Kind = "speech.started"
	KindSpeechEnded   Kind = "speech.ended"
	KindSpeechFailed  Kind = "speech.failed"
)

type SpeechStarted struct {
	Base
	UtteranceID string
}

func NewSpeechStarted(utteranceID string) SpeechStarted {
	return SpeechStarted{Base: NewBase(KindSpeechStarted), UtteranceID: utteranceID}
}

type SpeechEnded struct {
	Base
	UtteranceID string
}

func NewSpeechEnded(utteranceID string) SpeechEnded {
	return SpeechEnded{Base: NewBase(KindSpeechEnded), UtteranceID: utteranceID}
}

// SpeechFailed marks that the utterance did not play to the end.
type SpeechFailed struct {
	Base
	UtteranceID string
	Err         error
}

func NewSpeechFailed(utteranceID string, err error) SpeechFailed {
	return SpeechFailed{Base: NewBase(KindSpeechFailed), UtteranceID: utteranceID, Err: err}
}
