// Package voicechat implements a turn-taking voice conversation: listen for
// an utterance, send its transcript to the reply endpoint, show and speak the
// reply, then listen again.
package voicechat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/koscakluka/tonechat/core/events"
)

var ErrAlreadyRunning = errors.New("controller already running")

const eventBufferSize = 64

// Controller owns the conversation state machine. All state changes happen
// on the single goroutine running [Controller.Run]; collaborators, timers and
// user controls only post events to it.
type Controller struct {
	speechToText   speechToText
	textToSpeech   textToSpeech
	replies        ReplyGenerator
	presenter      Presenter
	scheduler      scheduler
	locale         string
	interimResults bool

	// event loop owned state
	session         session
	state           State
	unsupported     error
	status          Status
	controls        Controls
	animations      Animations
	tone            string
	toneHighlighted bool
	toneGeneration  int
	transcript      Transcript
	turn            *turn
	utteranceID     string

	baseContext context.Context
	events      chan events.Event
	done        chan struct{}
	running     atomic.Bool

	viewMu sync.RWMutex
	view   View
}

// turn is the request outstanding for a finalized transcript.
type turn struct {
	id     string
	cancel context.CancelFunc
}

// New creates a controller and runs the speech input capability check. When
// the check fails the start control stays disabled for good.
func New(opts ...ControllerOption) *Controller {
	c := &Controller{
		presenter:   noopPresenter{},
		scheduler:   timeScheduler{},
		locale:      "en-US",
		baseContext: context.Background(),
		events:      make(chan events.Event, eventBufferSize),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.speechToText.supported(); err != nil {
		logger.Error("speech recognition not supported", "error", err)
		c.unsupported = err
		c.status = StatusUnsupported
		c.controls = Controls{}
	} else {
		c.status = StatusReady
		c.controls = Controls{StartEnabled: true}
	}
	c.state = StateIdle
	c.publish()

	return c
}

// Run handles events until ctx is done. ctx is also the base context of all
// recognition, reply and speech calls.
//
// Run may only be called once.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(c.done)

	c.baseContext = ctx
	c.publish()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case event := <-c.events:
			c.handle(event)
		}
	}
}

// Start is a press of the start control.
func (c *Controller) Start() { c.post(events.NewStartRequested()) }

// Stop is a press of the stop control.
func (c *Controller) Stop() { c.post(events.NewStopRequested()) }

// Handle injects an event as if one of the controller's sources produced it.
func (c *Controller) Handle(event events.Event) { c.post(event) }

// View returns the latest published view.
func (c *Controller) View() View {
	c.viewMu.RLock()
	defer c.viewMu.RUnlock()
	return c.view
}

// Transcript returns the messages exchanged so far.
func (c *Controller) Transcript() []Message {
	return c.View().Transcript
}

// Unsupported returns why speech input is unavailable, nil if it is
// available.
func (c *Controller) Unsupported() error { return c.unsupported }

func (c *Controller) post(event events.Event) {
	select {
	case c.events <- event:
	case <-c.done:
	}
}

func (c *Controller) schedule(delay time.Duration, event events.Event) {
	c.scheduler.AfterFunc(delay, func() { c.post(event) })
}

func (c *Controller) publish() {
	view := View{
		State:           c.state,
		Status:          c.status,
		Controls:        c.controls,
		Animations:      c.animations,
		Tone:            c.tone,
		ToneHighlighted: c.toneHighlighted,
		Transcript:      c.transcript.Snapshot(),
	}

	c.viewMu.Lock()
	c.view = view
	c.viewMu.Unlock()

	c.presenter.Render(view)
}

func (c *Controller) shutdown() {
	c.session.endListening()
	c.cancelTurn()
	if err := c.speechToText.stop(); err != nil {
		logger.Warn("failed to stop speech recognition on shutdown", "error", err)
	}
	if err := c.textToSpeech.cancel(); err != nil {
		logger.Warn("failed to cancel speech on shutdown", "error", err)
	}
}
