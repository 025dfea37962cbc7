package voicechat

import (
	"context"
	"fmt"

	"github.com/koscakluka/tonechat/core/speechtotext"
)

type speechToText struct {
	// client stores the configured speech-to-text implementation.
	client SpeechToText
}

func (s *speechToText) set(client SpeechToText) {
	if s != nil {
		s.client = client
	}
}

func (s *speechToText) isConfigured() bool {
	return s != nil && s.client != nil
}

// supported runs the load time capability check.
func (s *speechToText) supported() error {
	if !s.isConfigured() {
		return speechtotext.ErrNotSupported
	}

	if checker, ok := s.client.(interface{ Supported() error }); ok {
		if err := checker.Supported(); err != nil {
			return fmt.Errorf("capability check failed: %w", err)
		}
	}
	return nil
}

type speechToTextCallbacks struct {
	onResult func(speechtotext.Result)
	onError  func(error)
	onEnd    func()
}

func (s *speechToText) start(ctx context.Context, locale string, interimResults bool, callbacks speechToTextCallbacks) error {
	if !s.isConfigured() {
		return speechtotext.ErrNotSupported
	}

	return s.client.Start(ctx,
		speechtotext.WithLocale(locale),
		speechtotext.WithContinuous(true),
		speechtotext.WithInterimResults(interimResults),
		speechtotext.WithResultCallback(callbacks.onResult),
		speechtotext.WithErrorCallback(callbacks.onError),
		speechtotext.WithEndCallback(callbacks.onEnd),
	)
}

func (s *speechToText) stop() error {
	if !s.isConfigured() {
		return nil
	}

	if err := s.client.Stop(); err != nil {
		return fmt.Errorf("failed to stop speech recognition: %w", err)
	}
	return nil
}
