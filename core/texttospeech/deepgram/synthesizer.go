package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/tonechat/core/audio"
	"github.com/koscakluka/tonechat/core/texttospeech"
)

const (
	defaultSpeakURL = "wss://api.deepgram.com/v1/speak"

	// Speak runs on the caller's event loop, so the handshake must be short.
	defaultHandshakeTimeout = 5 * time.Second
)

// AudioOutput plays synthesized speech. Mark calls back once every byte sent
// before it has been played.
type AudioOutput interface {
	EncodingInfo() audio.EncodingInfo
	SendAudio(audio []byte) error
	ClearBuffer()
	Mark(name string, callback func(string)) error
}

// Synthesizer voices one utterance at a time over the Deepgram streaming
// speak API. Speaking a new utterance cancels the one in flight.
type Synthesizer struct {
	output   AudioOutput
	apiKey   string
	voice    Voice
	speakURL string
	dialer   *websocket.Dialer

	mu      sync.Mutex
	current *utterance
}

type SynthesizerOption func(*Synthesizer)

// WithAPIKey sets the API key, by default it is read from DEEPGRAM_API_KEY.
func WithAPIKey(apiKey string) SynthesizerOption {
	return func(s *Synthesizer) { s.apiKey = apiKey }
}

func WithVoice(voice Voice) SynthesizerOption {
	return func(s *Synthesizer) { s.voice = voice }
}

func WithSpeakURL(speakURL string) SynthesizerOption {
	return func(s *Synthesizer) {
		if speakURL != "" {
			s.speakURL = speakURL
		}
	}
}

// WithHandshakeTimeout bounds how long Speak waits for the websocket
// handshake.
func WithHandshakeTimeout(timeout time.Duration) SynthesizerOption {
	return func(s *Synthesizer) {
		if timeout > 0 {
			s.dialer.HandshakeTimeout = timeout
		}
	}
}

func NewSynthesizer(output AudioOutput, opts ...SynthesizerOption) (*Synthesizer, error) {
	s := &Synthesizer{
		output:   output,
		apiKey:   os.Getenv("DEEPGRAM_API_KEY"),
		voice:    defaultVoice,
		speakURL: defaultSpeakURL,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultHandshakeTimeout,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if output == nil {
		return nil, fmt.Errorf("audio output is required")
	}
	if !isKnownVoice(s.voice) {
		return nil, fmt.Errorf("invalid voice %q", s.voice)
	}
	return s, nil
}

func (s *Synthesizer) Speak(ctx context.Context, text string, opts ...texttospeech.UtteranceOption) error {
	options := texttospeech.NewUtteranceOptions(append(
		[]texttospeech.UtteranceOption{texttospeech.WithEncodingInfo(s.output.EncodingInfo())},
		opts...)...)
	if !s.voice.supportsLocale(options.Locale) {
		return fmt.Errorf("voice %s cannot speak locale %s", s.voice, options.Locale)
	}

	if err := s.Cancel(); err != nil {
		logger.Warn("failed to cancel previous utterance", "error", err)
	}

	if s.apiKey == "" {
		return fmt.Errorf("deepgram api key not found")
	}

	conn, err := s.connect(ctx, options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	u := &utterance{id: uuid.NewString(), conn: conn, options: options, output: s.output}
	if err := u.send(speakMessage{Type: "Speak", Text: text}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to send text to deepgram: %w", err)
	}
	if err := u.send(websocketMessage{Type: "Flush"}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to flush deepgram buffer: %w", err)
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()

	go u.processIncomingMessages()
	return nil
}

// Cancel stops the utterance in flight, if any, and drops its queued audio.
func (s *Synthesizer) Cancel() error {
	s.mu.Lock()
	u := s.current
	s.current = nil
	s.mu.Unlock()

	if u == nil {
		return nil
	}
	return u.cancel()
}

func (s *Synthesizer) connect(ctx context.Context, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	speakURL, err := url.Parse(s.speakURL)
	if err != nil {
		return nil, fmt.Errorf("invalid speak url: %w", err)
	}

	urlValues := speakURL.Query()
	urlValues.Set("encoding", encodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", string(s.voice))
	urlValues.Set("container", "none")
	speakURL.RawQuery = urlValues.Encode()

	conn, _, err := s.dialer.DialContext(ctx, speakURL.String(),
		http.Header{"Authorization": {"token " + s.apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}
	return conn, nil
}

type websocketMessage struct {
	Type string `json:"type"`
}

type speakMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type utterance struct {
	id      string
	conn    *websocket.Conn
	options texttospeech.UtteranceOptions
	output  AudioOutput

	mu       sync.Mutex
	started  bool
	flushed  bool
	finished bool
}

func (u *utterance) send(msg any) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.finished {
		return fmt.Errorf("utterance already finished")
	}
	return u.conn.WriteJSON(msg)
}

// finish marks the utterance done and reports whether this call did it, so
// exactly one of ended, error or cancelled is reported.
func (u *utterance) finish() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.finished {
		return false
	}
	u.finished = true
	return true
}

func (u *utterance) cancel() error {
	if !u.finish() {
		return nil
	}
	u.output.ClearBuffer()
	err := u.conn.Close()
	u.options.ErrorCallback(texttospeech.ErrCancelled)
	return err
}

func (u *utterance) processIncomingMessages() {
	for {
		msgType, msg, err := u.conn.ReadMessage()
		if err != nil {
			u.mu.Lock()
			flushed := u.flushed
			u.mu.Unlock()
			// the socket closes on its own once everything was flushed
			if !flushed && u.finish() {
				_ = u.conn.Close()
				u.options.ErrorCallback(fmt.Errorf("speech synthesis failed: %w", err))
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			u.playAudio(msg)
		case websocket.TextMessage:
			var parsedMsg websocketMessage
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				logger.Warn("failed to unmarshal deepgram message", "error", err)
				continue
			}

			if parsedMsg.Type == "Flushed" {
				u.mu.Lock()
				u.flushed = true
				u.mu.Unlock()
				if err := u.output.Mark(u.id, u.onPlayed); err != nil {
					if u.finish() {
						_ = u.conn.Close()
						u.options.ErrorCallback(fmt.Errorf("failed to mark end of speech: %w", err))
					}
					return
				}
				_ = u.send(websocketMessage{Type: "Close"})
			}
		}
	}
}

func (u *utterance) playAudio(audio []byte) {
	u.mu.Lock()
	if u.finished {
		u.mu.Unlock()
		return
	}
	first := !u.started
	u.started = true
	u.mu.Unlock()

	if first {
		u.options.StartedCallback()
	}
	if err := u.output.SendAudio(audio); err != nil {
		logger.Error("failed to play synthesized audio", "error", err)
	}
}

func (u *utterance) onPlayed(string) {
	if !u.finish() {
		return
	}
	_ = u.conn.Close()

	u.mu.Lock()
	started := u.started
	u.mu.Unlock()
	if !started {
		// nothing was voiced, still report a started/ended pair
		u.options.StartedCallback()
	}
	u.options.EndedCallback()
}
