package events

const (
	// KindRecognitionResult identifies a speech recognition result.
	KindRecognitionResult Kind = "recognition.result"
	// KindRecognitionFailed identifies a runtime speech recognition failure.
	KindRecognitionFailed Kind = "recognition.failed"
	// KindRecognitionEnded identifies the end of a recognition session.
	KindRecognitionEnded Kind = "recognition.ended"
)

// RecognitionResult carries the transcript of the most recent recognition
// result.
type RecognitionResult struct {
	Base
	Transcript string
	IsFinal    bool
}

func NewRecognitionResult(transcript string, isFinal bool) RecognitionResult {
	return RecognitionResult{Base: NewBase(KindRecognitionResult), Transcript: transcript, IsFinal: isFinal}
}

// RecognitionFailed carries the code of a recognition failure, e.g.
// "no-speech" or "network".
type RecognitionFailed struct {
	Base
	Code string
}

func NewRecognitionFailed(code string) RecognitionFailed {
	return RecognitionFailed{Base: NewBase(KindRecognitionFailed), Code: code}
}

// RecognitionEnded marks that the recognizer stopped.
type RecognitionEnded struct{ Base }

func NewRecognitionEnded() RecognitionEnded {
	return RecognitionEnded{Base: NewBase(KindRecognitionEnded)}
}
