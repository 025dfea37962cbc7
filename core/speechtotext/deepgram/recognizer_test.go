package deepgram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/tonechat/core/speechtotext"
)

type audioInputStub struct {
	mu      sync.Mutex
	onAudio func([]byte)
	starts  int
	stops   int
}

func (a *audioInputStub) StartCapture(_ context.Context, onAudio func([]byte)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onAudio = onAudio
	a.starts++
	return nil
}

func (a *audioInputStub) StopCapture() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onAudio = nil
	a.stops++
	return nil
}

// newListenServer starts a fake listen endpoint. Every text frame written to
// script is forwarded to the client; a CloseStream request closes the socket
// normally.
func newListenServer(t *testing.T, script <-chan string) (*httptest.Server, <-chan *http.Request) {
	t.Helper()

	requests := make(chan *http.Request, 1)
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- r
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("failed to upgrade: %v", err)
			return
		}
		defer conn.Close()

		closeRequested := make(chan struct{})
		go func() {
			defer close(closeRequested)
			for {
				msgType, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if msgType == websocket.TextMessage && strings.Contains(string(msg), "CloseStream") {
					return
				}
			}
		}()

		for {
			select {
			case msg := <-script:
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
					return
				}
			case <-closeRequested:
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return server, requests
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestRecognizerEmitsFinalUtterance(t *testing.T) {
	script := make(chan string, 4)
	server, requests := newListenServer(t, script)
	input := &audioInputStub{}
	recognizer := NewRecognizer(input, WithAPIKey("secret"), WithListenURL(wsURL(server)))

	results := make(chan speechtotext.Result, 4)
	ended := make(chan struct{})
	err := recognizer.Start(context.Background(),
		speechtotext.WithResultCallback(func(result speechtotext.Result) { results <- result }),
		speechtotext.WithEndCallback(func() { close(ended) }),
	)
	if err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	req := <-requests
	if got := req.Header.Get("Authorization"); got != "Token secret" {
		t.Fatalf("expected authorization header %q, got %q", "Token secret", got)
	}
	if got := req.URL.Query().Get("language"); got != speechtotext.DefaultLocale {
		t.Fatalf("expected language %q, got %q", speechtotext.DefaultLocale, got)
	}

	script <- `{"type":"Results","is_final":false,"channel":{"alternatives":[{"transcript":"hel"}]}}`
	script <- `{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"hello"}]}}`
	script <- `{"type":"Results","is_final":true,"speech_final":true,"channel":{"alternatives":[{"transcript":"there"}]}}`

	select {
	case result := <-results:
		if !result.IsFinal || result.Transcript != "hello there" {
			t.Fatalf("expected final result %q, got %+v", "hello there", result)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a final result")
	}

	if err := recognizer.Start(context.Background()); !errors.Is(err, speechtotext.ErrAlreadyActive) {
		t.Fatalf("expected ErrAlreadyActive while running, got %v", err)
	}

	if err := recognizer.Stop(); err != nil {
		t.Fatalf("expected stop to succeed, got %v", err)
	}

	select {
	case <-ended:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected end callback after stop")
	}

	select {
	case result := <-results:
		t.Fatalf("expected interim result to be dropped, got %+v", result)
	default:
	}

	input.mu.Lock()
	defer input.mu.Unlock()
	if input.starts != 1 || input.stops == 0 {
		t.Fatalf("expected capture started once and stopped, got %d starts and %d stops", input.starts, input.stops)
	}
}

func TestRecognizerReportsAbnormalSocketClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.Close()
	}))
	defer server.Close()

	recognizer := NewRecognizer(&audioInputStub{}, WithAPIKey("secret"), WithListenURL(wsURL(server)))

	errs := make(chan error, 1)
	ended := make(chan struct{})
	err := recognizer.Start(context.Background(),
		speechtotext.WithErrorCallback(func(err error) { errs <- err }),
		speechtotext.WithEndCallback(func() { close(ended) }),
	)
	if err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	select {
	case err := <-errs:
		if code := speechtotext.ErrorCode(err); code != "network" {
			t.Fatalf("expected network error code, got %q", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected error callback")
	}
	select {
	case <-ended:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected end callback after error")
	}

	// the session is gone, so a new start must not be rejected as active
	err = recognizer.Start(context.Background())
	if errors.Is(err, speechtotext.ErrAlreadyActive) {
		t.Fatalf("expected recognizer to be inactive after end")
	}
	_ = recognizer.Stop()
}

func TestRecognizerSupported(t *testing.T) {
	if err := NewRecognizer(nil, WithAPIKey("secret")).Supported(); !errors.Is(err, speechtotext.ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported without audio input, got %v", err)
	}
	if err := NewRecognizer(&audioInputStub{}, WithAPIKey("")).Supported(); !errors.Is(err, speechtotext.ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported without api key, got %v", err)
	}
	if err := NewRecognizer(&audioInputStub{}, WithAPIKey("secret")).Supported(); err != nil {
		t.Fatalf("expected recognizer to be supported, got %v", err)
	}
}

func TestSessionProcessMessageUtteranceEnd(t *testing.T) {
	results := []speechtotext.Result{}
	session := &recognitionSession{options: speechtotext.NewRecognitionOptions(
		speechtotext.WithInterimResults(true),
		speechtotext.WithResultCallback(func(result speechtotext.Result) { results = append(results, result) }),
	)}

	session.processMessage([]byte(`{"type":"SpeechStarted"}`))
	session.processMessage([]byte(`{"type":"Results","is_final":false,"channel":{"alternatives":[{"transcript":"good"}]}}`))
	session.processMessage([]byte(`{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"good morning"}]}}`))
	session.processMessage([]byte(`{"type":"UtteranceEnd"}`))
	session.processMessage([]byte(`{"type":"UtteranceEnd"}`))
	session.processMessage([]byte(`not json`))

	if len(results) != 2 {
		t.Fatalf("expected interim and final results, got %+v", results)
	}
	if results[0].IsFinal || results[0].Transcript != "good" {
		t.Fatalf("expected interim result %q, got %+v", "good", results[0])
	}
	if !results[1].IsFinal || results[1].Transcript != "good morning" {
		t.Fatalf("expected final result %q, got %+v", "good morning", results[1])
	}
}

// newStalledServer accepts connections but never answers the handshake.
func newStalledServer(t *testing.T) *httptest.Server {
	t.Helper()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })
	return server
}

func TestRecognizerStartGivesUpOnStalledHandshake(t *testing.T) {
	server := newStalledServer(t)
	input := &audioInputStub{}
	recognizer := NewRecognizer(input,
		WithAPIKey("secret"),
		WithListenURL(wsURL(server)),
		WithHandshakeTimeout(50*time.Millisecond),
	)

	started := time.Now()
	if err := recognizer.Start(context.Background()); err == nil {
		t.Fatalf("expected start to fail on a stalled handshake")
	}
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("expected start to give up quickly, took %s", elapsed)
	}
	if input.starts != 0 {
		t.Fatalf("expected no audio capture, got %d starts", input.starts)
	}

	if got := NewRecognizer(input).dialer.HandshakeTimeout; got != defaultHandshakeTimeout {
		t.Fatalf("expected default handshake timeout %s, got %s", defaultHandshakeTimeout, got)
	}
}
