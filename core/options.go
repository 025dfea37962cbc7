package voicechat

import (
	"context"

	"github.com/koscakluka/tonechat/core/replies"
	"github.com/koscakluka/tonechat/core/speechtotext"
	"github.com/koscakluka/tonechat/core/texttospeech"
)

type ControllerOption func(*Controller)

// SpeechToText is a continuous speech recognizer. Start must fail with an
// error matching [speechtotext.ErrAlreadyActive] while a previous session has
// not ended yet.
type SpeechToText interface {
	Start(ctx context.Context, opts ...speechtotext.RecognitionOption) error
	Stop() error
}

func WithSpeechToTextClient(client SpeechToText) ControllerOption {
	return func(c *Controller) { c.speechToText.set(client) }
}

// TextToSpeech voices one utterance at a time.
type TextToSpeech interface {
	Speak(ctx context.Context, text string, opts ...texttospeech.UtteranceOption) error
	Cancel() error
}

func WithTextToSpeechClient(client TextToSpeech) ControllerOption {
	return func(c *Controller) { c.textToSpeech.set(client) }
}

// ReplyGenerator answers a finalized transcript with its tone and a response.
type ReplyGenerator interface {
	ProcessSpeech(ctx context.Context, text string) (replies.Reply, error)
}

func WithReplyGenerator(generator ReplyGenerator) ControllerOption {
	return func(c *Controller) { c.replies = generator }
}

// Presenter shows the controller's view. Render is called from the
// controller's event loop after every handled event and must not block for
// long.
type Presenter interface {
	Render(view View)
}

func WithPresenter(presenter Presenter) ControllerOption {
	return func(c *Controller) {
		if presenter != nil {
			c.presenter = presenter
		}
	}
}

// WithLocale sets the language tag used for both recognition and speech.
func WithLocale(locale string) ControllerOption {
	return func(c *Controller) {
		if locale != "" {
			c.locale = locale
		}
	}
}

// WithInterimResults asks the recognizer for interim results too. They are
// never sent as turns.
func WithInterimResults(interimResults bool) ControllerOption {
	return func(c *Controller) { c.interimResults = interimResults }
}

type noopPresenter struct{}

func (noopPresenter) Render(View) {}
