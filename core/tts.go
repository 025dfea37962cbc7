package voicechat

import (
	"context"
	"fmt"

	"github.com/koscakluka/tonechat/core/texttospeech"
)

type textToSpeech struct {
	// client stores the configured text-to-speech implementation, replies
	// are only displayed without one.
	client TextToSpeech
}

func (t *textToSpeech) set(client TextToSpeech) {
	if t != nil {
		t.client = client
	}
}

func (t *textToSpeech) isConfigured() bool {
	return t != nil && t.client != nil
}

type textToSpeechCallbacks struct {
	onStarted func()
	onEnded   func()
	onError   func(error)
}

// speak cancels whatever is being spoken and starts voicing text.
func (t *textToSpeech) speak(ctx context.Context, text, locale string, callbacks textToSpeechCallbacks) error {
	if !t.isConfigured() {
		callbacks.onStarted()
		callbacks.onEnded()
		return nil
	}

	if err := t.client.Cancel(); err != nil {
		logger.WarnContext(ctx, "failed to cancel ongoing speech", "error", err)
	}

	if err := t.client.Speak(ctx, text,
		texttospeech.WithLocale(locale),
		texttospeech.WithStartedCallback(callbacks.onStarted),
		texttospeech.WithEndedCallback(callbacks.onEnded),
		texttospeech.WithErrorCallback(callbacks.onError),
	); err != nil {
		return fmt.Errorf("failed to start speech: %w", err)
	}
	return nil
}

func (t *textToSpeech) cancel() error {
	if !t.isConfigured() {
		return nil
	}
	return t.client.Cancel()
}
