package speechtotext

import "github.com/koscakluka/tonechat/core/audio"

const DefaultLocale = "en-US"

// Result is one recognition result. Only results with IsFinal set are
// complete utterances; the rest are interim hypotheses.
type Result struct {
	Transcript string
	IsFinal    bool
}

type RecognitionOptions struct {
	// Locale is the BCP 47 language tag recognition runs in.
	Locale string
	// Continuous keeps the recognizer running across utterances until Stop
	// is called.
	Continuous bool
	// InterimResults requests non-final results as well.
	InterimResults bool

	// ResultCallback is called for every result, in order.
	ResultCallback func(Result)
	// ErrorCallback is called when recognition fails at runtime. The
	// recognizer ends after reporting an error.
	ErrorCallback func(error)
	// EndCallback is called once the recognizer stopped, for any reason.
	EndCallback func()

	EncodingInfo audio.EncodingInfo
}

type RecognitionOption func(*RecognitionOptions)

// NewRecognitionOptions applies opts over the defaults: continuous, final
// results only, the default locale and no-op callbacks.
func NewRecognitionOptions(opts ...RecognitionOption) RecognitionOptions {
	options := RecognitionOptions{
		Locale:         DefaultLocale,
		Continuous:     true,
		ResultCallback: func(Result) {},
		ErrorCallback:  func(error) {},
		EndCallback:    func() {},
		EncodingInfo:   audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func WithLocale(locale string) RecognitionOption {
	return func(o *RecognitionOptions) {
		if locale != "" {
			o.Locale = locale
		}
	}
}

func WithContinuous(continuous bool) RecognitionOption {
	return func(o *RecognitionOptions) { o.Continuous = continuous }
}

func WithInterimResults(interimResults bool) RecognitionOption {
	return func(o *RecognitionOptions) { o.InterimResults = interimResults }
}

func WithResultCallback(callback func(Result)) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.ResultCallback = callback
		}
	}
}

func WithErrorCallback(callback func(error)) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.ErrorCallback = callback
		}
	}
}

func WithEndCallback(callback func()) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.EndCallback = callback
		}
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) RecognitionOption {
	return func(o *RecognitionOptions) {
		if !encodingInfo.IsZero() {
			o.EncodingInfo = encodingInfo
		}
	}
}
