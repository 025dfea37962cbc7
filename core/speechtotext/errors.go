package speechtotext

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyActive is returned by Start when recognition is running.
	ErrAlreadyActive = errors.New("recognition already active")
	// ErrNotSupported is returned when recognition cannot run in this
	// environment at all.
	ErrNotSupported = errors.New("speech recognition not supported")
)

// RecognitionError is a runtime recognition failure identified by a short
// code, e.g. "network", "no-speech" or "audio-capture".
type RecognitionError struct {
	Code string
	Err  error
}

func (e *RecognitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recognition error %s: %v", e.Code, e.Err)
	}
	return "recognition error " + e.Code
}

func (e *RecognitionError) Unwrap() error { return e.Err }

// ErrorCode extracts the recognition error code from err. Errors that are not
// a RecognitionError are reported as "unknown".
func ErrorCode(err error) string {
	var recognitionErr *RecognitionError
	if errors.As(err, &recognitionErr) && recognitionErr.Code != "" {
		return recognitionErr.Code
	}
	return "unknown"
}
