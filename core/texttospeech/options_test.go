package texttospeech

import (
	"errors"
	"testing"

	"github.com/koscakluka/tonechat/core/audio"
)

func TestUtteranceOptionsIgnoreEmptyValues(t *testing.T) {
	options := NewUtteranceOptions(
		WithLocale(""),
		WithEndedCallback(nil),
		WithEncodingInfo(audio.EncodingInfo{SampleRate: 16000}),
	)

	if options.Locale != DefaultLocale {
		t.Fatalf("expected empty locale to keep %q, got %q", DefaultLocale, options.Locale)
	}
	if options.EndedCallback == nil {
		t.Fatalf("expected nil ended callback to keep the no-op default")
	}
	if options.EncodingInfo != audio.GetDefaultEncodingInfo() {
		t.Fatalf("expected incomplete encoding info to keep the default, got %+v", options.EncodingInfo)
	}

	options.StartedCallback()
	options.EndedCallback()
	options.ErrorCallback(errors.New("ignored"))
}

func TestUtteranceOptionsApply(t *testing.T) {
	var failed error
	options := NewUtteranceOptions(
		WithLocale("de-DE"),
		WithErrorCallback(func(err error) { failed = err }),
	)

	if options.Locale != "de-DE" {
		t.Fatalf("expected locale %q, got %q", "de-DE", options.Locale)
	}
	options.ErrorCallback(ErrCancelled)
	if !errors.Is(failed, ErrCancelled) {
		t.Fatalf("expected %v, got %v", ErrCancelled, failed)
	}
}
