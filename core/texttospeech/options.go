package texttospeech

import (
	"errors"

	"github.com/koscakluka/tonechat/core/audio"
)

const DefaultLocale = "en-US"

// ErrCancelled is reported through the error callback of an utterance that
// was cancelled before it finished playing.
var ErrCancelled = errors.New("utterance cancelled")

type UtteranceOptions struct {
	// Locale is the BCP 47 language tag the utterance is voiced in.
	Locale string

	// StartedCallback is called once the first audio of the utterance plays.
	StartedCallback func()
	// EndedCallback is called once all audio of the utterance has played.
	EndedCallback func()
	// ErrorCallback is called instead of EndedCallback when the utterance
	// fails or is cancelled.
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type UtteranceOption func(*UtteranceOptions)

// NewUtteranceOptions applies opts over the defaults: the default locale and
// no-op callbacks.
func NewUtteranceOptions(opts ...UtteranceOption) UtteranceOptions {
	options := UtteranceOptions{
		Locale:          DefaultLocale,
		StartedCallback: func() {},
		EndedCallback:   func() {},
		ErrorCallback:   func(error) {},
		EncodingInfo:    audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func WithLocale(locale string) UtteranceOption {
	return func(o *UtteranceOptions) {
		if locale != "" {
			o.Locale = locale
		}
	}
}

func WithStartedCallback(callback func()) UtteranceOption {
	return func(o *UtteranceOptions) {
		if callback != nil {
			o.StartedCallback = callback
		}
	}
}

func WithEndedCallback(callback func()) UtteranceOption {
	return func(o *UtteranceOptions) {
		if callback != nil {
			o.EndedCallback = callback
		}
	}
}

func WithErrorCallback(callback func(error)) UtteranceOption {
	return func(o *UtteranceOptions) {
		if callback != nil {
			o.ErrorCallback = callback
		}
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) UtteranceOption {
	return func(o *UtteranceOptions) {
		if encodingInfo.SampleRate == 0 || encodingInfo.Format == "" {
			return
		}
		o.EncodingInfo = encodingInfo
	}
}
