package voicechat

import (
	"context"
	"sync"
	"time"

	"github.com/koscakluka/tonechat/core/replies"
	"github.com/koscakluka/tonechat/core/speechtotext"
	"github.com/koscakluka/tonechat/core/texttospeech"
)

// speechToTextStub behaves like a recognizer that ends a session as soon as
// it is stopped.
type speechToTextStub struct {
	mu           sync.Mutex
	supportedErr error
	startErrs    []error
	active       bool
	starts       int
	stops        int
	options      speechtotext.RecognitionOptions
}

func (stub *speechToTextStub) Supported() error { return stub.supportedErr }

func (stub *speechToTextStub) Start(_ context.Context, opts ...speechtotext.RecognitionOption) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	stub.starts++
	if len(stub.startErrs) > 0 {
		err := stub.startErrs[0]
		stub.startErrs = stub.startErrs[1:]
		if err != nil {
			return err
		}
	}
	// A rejected start still owns the callbacks of the session it waits on.
	stub.options = speechtotext.NewRecognitionOptions(opts...)
	if stub.active {
		return speechtotext.ErrAlreadyActive
	}
	stub.active = true
	return nil
}

func (stub *speechToTextStub) Stop() error {
	stub.mu.Lock()
	stub.stops++
	wasActive := stub.active
	stub.active = false
	onEnd := stub.options.EndCallback
	stub.mu.Unlock()

	if wasActive && onEnd != nil {
		onEnd()
	}
	return nil
}

func (stub *speechToTextStub) failNextStart(err error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.startErrs = append(stub.startErrs, err)
}

func (stub *speechToTextStub) emitFinal(transcript string) {
	stub.recognitionOptions().ResultCallback(speechtotext.Result{Transcript: transcript, IsFinal: true})
}

// fail reports a runtime error and ends the session.
func (stub *speechToTextStub) fail(err error) {
	options := stub.recognitionOptions()
	options.ErrorCallback(err)

	stub.mu.Lock()
	stub.active = false
	stub.mu.Unlock()
	options.EndCallback()
}

// end finishes the active session on the recognizer's own initiative.
func (stub *speechToTextStub) end() {
	options := stub.recognitionOptions()

	stub.mu.Lock()
	stub.active = false
	stub.mu.Unlock()
	options.EndCallback()
}

func (stub *speechToTextStub) recognitionOptions() speechtotext.RecognitionOptions {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.options
}

func (stub *speechToTextStub) startCount() int {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.starts
}

func (stub *speechToTextStub) stopCount() int {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.stops
}

type textToSpeechStub struct {
	mu       sync.Mutex
	speakErr error
	spoken   []string
	cancels  int
	options  texttospeech.UtteranceOptions
}

func (stub *textToSpeechStub) Speak(_ context.Context, text string, opts ...texttospeech.UtteranceOption) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	if stub.speakErr != nil {
		return stub.speakErr
	}
	stub.spoken = append(stub.spoken, text)
	stub.options = texttospeech.NewUtteranceOptions(opts...)
	return nil
}

func (stub *textToSpeechStub) Cancel() error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.cancels++
	return nil
}

func (stub *textToSpeechStub) utteranceOptions() texttospeech.UtteranceOptions {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.options
}

func (stub *textToSpeechStub) started() { stub.utteranceOptions().StartedCallback() }
func (stub *textToSpeechStub) ended() { stub.utteranceOptions().EndedCallback() }
func (stub *textToSpeechStub) failed(err error) { stub.utteranceOptions().ErrorCallback(err) }

func (stub *textToSpeechStub) spokenTexts() []string {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return append([]string(nil), stub.spoken...)
}

func (stub *textToSpeechStub) cancelCount() int {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.cancels
}

// replyGeneratorStub answers every request with reply or err. With block
// set it waits for block to close or the request to be cancelled.
type replyGeneratorStub struct {
	reply replies.Reply
	err   error
	block chan struct{}

	mu    sync.Mutex
	texts []string
}

func (stub *replyGeneratorStub) ProcessSpeech(ctx context.Context, text string) (replies.Reply, error) {
	stub.mu.Lock()
	stub.texts = append(stub.texts, text)
	stub.mu.Unlock()

	if stub.block != nil {
		select {
		case <-stub.block:
		case <-ctx.Done():
			return replies.Reply{}, ctx.Err()
		}
	}
	if stub.err != nil {
		return replies.Reply{}, stub.err
	}
	return stub.reply, nil
}

func (stub *replyGeneratorStub) receivedTexts() []string {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return append([]string(nil), stub.texts...)
}

type presenterStub struct {
	mu    sync.Mutex
	views []View
}

func (stub *presenterStub) Render(view View) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.views = append(stub.views, view)
}

func (stub *presenterStub) rendered() []View {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return append([]View(nil), stub.views...)
}

type scheduledTask struct {
	delay time.Duration
	fn    func()
}

// manualScheduler holds scheduled work until a test fires it.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []scheduledTask
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, scheduledTask{delay: d, fn: f})
}

// fire runs every pending task scheduled with delay d and returns how many
// ran.
func (s *manualScheduler) fire(d time.Duration) int {
	s.mu.Lock()
	var due, rest []scheduledTask
	for _, task := range s.tasks {
		if task.delay == d {
			due = append(due, task)
		} else {
			rest = append(rest, task)
		}
	}
	s.tasks = rest
	s.mu.Unlock()

	for _, task := range due {
		task.fn()
	}
	return len(due)
}

func (s *manualScheduler) pending(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, task := range s.tasks {
		if task.delay == d {
			count++
		}
	}
	return count
}
