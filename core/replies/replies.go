// Package replies defines the answer the remote speech endpoint gives to a
// finalized utterance.
package replies

import "strings"

// Reply is the detected tone of an utterance and the response to voice back.
type Reply struct {
	Tone     string
	Response string
}

// DisplayTone is the tone as it should be shown, without the surrounding
// whitespace the endpoint may add.
func (r Reply) DisplayTone() string {
	return strings.TrimSpace(r.Tone)
}
