package deepgram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/tonechat/core/speechtotext"
)

const (
	defaultListenURL = "wss://api.deepgram.com/v1/listen"
	defaultModel     = "nova-3"

	keepAliveInterval = 5 * time.Second

	// Start runs on the caller's event loop, so the handshake must be short.
	defaultHandshakeTimeout = 5 * time.Second
)

// AudioInput is the microphone the recognizer listens to.
type AudioInput interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
}

// Recognizer is a continuous speech recognizer over the Deepgram streaming
// listen API. It behaves like a single recognition session: Start fails with
// [speechtotext.ErrAlreadyActive] until the previous session has ended.
type Recognizer struct {
	input     AudioInput
	apiKey    string
	model     string
	listenURL string
	dialer    *websocket.Dialer

	mu      sync.Mutex
	session *recognitionSession

	// lastAudio is the unix nano time audio was last sent
	lastAudio atomic.Int64
}

type RecognizerOption func(*Recognizer)

// WithAPIKey sets the API key, by default it is read from DEEPGRAM_API_KEY.
func WithAPIKey(apiKey string) RecognizerOption {
	return func(r *Recognizer) { r.apiKey = apiKey }
}

func WithModel(model string) RecognizerOption {
	return func(r *Recognizer) {
		if model != "" {
			r.model = model
		}
	}
}

func WithListenURL(listenURL string) RecognizerOption {
	return func(r *Recognizer) {
		if listenURL != "" {
			r.listenURL = listenURL
		}
	}
}

// WithHandshakeTimeout bounds how long Start waits for the websocket
// handshake.
func WithHandshakeTimeout(timeout time.Duration) RecognizerOption {
	return func(r *Recognizer) {
		if timeout > 0 {
			r.dialer.HandshakeTimeout = timeout
		}
	}
}

func NewRecognizer(input AudioInput, opts ...RecognizerOption) *Recognizer {
	r := &Recognizer{
		input:     input,
		apiKey:    os.Getenv("DEEPGRAM_API_KEY"),
		model:     defaultModel,
		listenURL: defaultListenURL,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultHandshakeTimeout,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Supported reports whether recognition can run at all.
func (r *Recognizer) Supported() error {
	if r.input == nil {
		return fmt.Errorf("%w: no audio input", speechtotext.ErrNotSupported)
	}
	if r.apiKey == "" {
		return fmt.Errorf("%w: deepgram api key not found", speechtotext.ErrNotSupported)
	}
	return nil
}

func (r *Recognizer) Start(ctx context.Context, opts ...speechtotext.RecognitionOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return speechtotext.ErrAlreadyActive
	}
	if err := r.Supported(); err != nil {
		return err
	}

	options := speechtotext.NewRecognitionOptions(opts...)
	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := r.connect(ctx, *encoding, options)
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	session := &recognitionSession{conn: conn, options: options, cancel: cancel}
	r.lastAudio.Store(time.Now().UnixNano())

	if err := r.input.StartCapture(sessionCtx, func(audio []byte) { r.sendAudio(session, audio) }); err != nil {
		cancel()
		_ = conn.Close()
		return fmt.Errorf("failed to start audio capture: %w", err)
	}

	r.session = session
	go r.keepAlive(sessionCtx, session)
	go r.readAndProcessMessages(session)

	return nil
}

// Stop asks Deepgram to finish the stream. The end callback fires once the
// server has flushed the remaining results and closed the socket.
func (r *Recognizer) Stop() error {
	r.mu.Lock()
	session := r.session
	r.mu.Unlock()
	if session == nil {
		return nil
	}

	if err := r.input.StopCapture(); err != nil {
		logger.Error("failed to stop audio capture", "error", err)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.stopping || session.ended {
		return nil
	}
	session.stopping = true

	if err := session.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		_ = session.conn.Close()
		return fmt.Errorf("failed to close deepgram stream: %w", err)
	}
	return nil
}

func (r *Recognizer) connect(ctx context.Context, encoding encodingInfo, options speechtotext.RecognitionOptions) (*websocket.Conn, error) {
	listenURL, err := url.Parse(r.listenURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listen url: %w", err)
	}

	queryParams := listenURL.Query()
	queryParams.Set("encoding", encoding.Format)
	queryParams.Set("sample_rate", strconv.Itoa(encoding.SampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", r.model)
	queryParams.Set("language", options.Locale)
	queryParams.Set("smart_format", "true")
	// utterance ends are detected from interim results
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")
	listenURL.RawQuery = queryParams.Encode()

	conn, _, err := r.dialer.DialContext(ctx, listenURL.String(),
		http.Header{"Authorization": {"Token " + r.apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}
	return conn, nil
}

func (r *Recognizer) sendAudio(session *recognitionSession, audio []byte) {
	r.lastAudio.Store(time.Now().UnixNano())

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.stopping || session.ended {
		return
	}
	if err := session.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		logger.Debug("failed to write audio to deepgram", "error", err)
	}
}

func (r *Recognizer) keepAlive(ctx context.Context, session *recognitionSession) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Since(time.Unix(0, r.lastAudio.Load())) < keepAliveInterval {
				continue
			}

			session.mu.Lock()
			if !session.stopping && !session.ended {
				if err := session.conn.WriteJSON(struct {
					Type string `json:"type"`
				}{Type: "KeepAlive"}); err != nil {
					logger.Debug("failed to send keep alive to deepgram", "error", err)
				}
			}
			session.mu.Unlock()
		}
	}
}

func (r *Recognizer) readAndProcessMessages(session *recognitionSession) {
	var readErr error
	for {
		msgType, msg, err := session.conn.ReadMessage()
		if err != nil {
			readErr = err
			break
		}
		if msgType == websocket.TextMessage {
			session.processMessage(msg)
		}
	}

	session.mu.Lock()
	stopping := session.stopping
	session.ended = true
	session.mu.Unlock()
	if !stopping && !websocket.IsCloseError(readErr, websocket.CloseNormalClosure) {
		code := "network"
		if errors.Is(readErr, context.Canceled) {
			code = "aborted"
		}
		session.options.ErrorCallback(&speechtotext.RecognitionError{Code: code, Err: readErr})
	}

	session.cancel()
	_ = session.conn.Close()
	if !stopping {
		if err := r.input.StopCapture(); err != nil {
			logger.Error("failed to stop audio capture", "error", err)
		}
	}

	r.mu.Lock()
	if r.session == session {
		r.session = nil
	}
	r.mu.Unlock()

	session.options.EndCallback()
}
