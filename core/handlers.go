package voicechat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/koscakluka/tonechat/core/events"
	"github.com/koscakluka/tonechat/core/replies"
	"github.com/koscakluka/tonechat/core/speechtotext"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrNoReplyGenerator = errors.New("no reply generator configured")

// handle is the single entry point of every state change. It must only run
// on the event loop.
func (c *Controller) handle(event events.Event) {
	switch e := event.(type) {
	case events.StartRequested:
		c.handleStartRequested()
	case events.StopRequested:
		c.handleStopRequested()
	case events.RecognitionResult:
		c.handleRecognitionResult(e)
	case events.RecognitionFailed:
		c.handleRecognitionFailed(e)
	case events.RecognitionEnded:
		c.handleRecognitionEnded()
	case events.ReplyReceived:
		c.handleReplyReceived(e)
	case events.ReplyFailed:
		c.handleReplyFailed(e)
	case events.SpeechStarted:
		c.handleSpeechStarted(e)
	case events.SpeechEnded:
		c.handleSpeechFinished(e.UtteranceID, nil)
	case events.SpeechFailed:
		err := e.Err
		if err == nil {
			err = errors.New("speech failed")
		}
		c.handleSpeechFinished(e.UtteranceID, err)
	case events.RestartDue:
		c.handleRestartDue(e)
	case events.ListeningAnimationDue:
		if c.session.listening && !c.session.speaking && c.state == StateListening {
			c.animations.Listening = true
		}
	case events.ToneHighlightExpired:
		if e.Generation == c.toneGeneration {
			c.toneHighlighted = false
		}
	default:
		logger.Warn("unhandled event", "kind", event.Kind())
		return
	}

	c.publish()
}

func (c *Controller) handleStartRequested() {
	if !c.controls.StartEnabled {
		return
	}

	c.session.beginListening()
	if err := c.startRecognition(); err != nil {
		logger.Error("error starting recognition", "error", err)
		c.session.endListening()
		c.status = StatusStartFailed
		c.controls = Controls{StartEnabled: true}
		c.state = StateIdle
		return
	}

	c.controls = Controls{StopEnabled: true}
	c.status = StatusListen
	c.animations.Wave = true
	c.state = StateListening
	c.schedule(listeningAnimationDelay, events.NewListeningAnimationDue())
}

func (c *Controller) handleStopRequested() {
	c.session.endListening()
	c.cancelTurn()
	c.cancelSpeech()
	if err := c.speechToText.stop(); err != nil {
		logger.Error("error stopping recognition", "error", err)
	}

	c.controls = Controls{StartEnabled: c.unsupported == nil}
	c.status = StatusStopped
	c.animations = Animations{}
	c.state = StateIdle
}

func (c *Controller) handleRecognitionResult(e events.RecognitionResult) {
	if !e.IsFinal {
		return
	}
	text := strings.TrimSpace(e.Transcript)
	if text == "" {
		return
	}
	if c.state != StateListening {
		logger.Debug("dropping transcript outside of listening", "state", c.state.String())
		return
	}

	c.transcript.append(SenderUser, text)
	c.status = StatusProcess
	c.animations.Listening = false
	c.state = StateProcessing

	// Paused, not stopped: the end of this session restarts it.
	c.session.requestRestart()
	if err := c.speechToText.stop(); err != nil {
		logger.Error("error pausing recognition", "error", err)
	}

	c.beginTurn(text)
}

func (c *Controller) handleRecognitionFailed(e events.RecognitionFailed) {
	logger.Error("speech recognition error", "code", e.Code)

	c.session.endListening()
	c.cancelTurn()
	c.status = RecognitionErrorStatus(e.Code)
	c.controls = Controls{StartEnabled: c.unsupported == nil}
	c.animations = Animations{}
	c.state = StateError
}

func (c *Controller) handleRecognitionEnded() {
	switch {
	case c.session.listening && c.session.consumeRestart():
		c.schedule(restartAfterRecognitionEndDelay, events.NewRestartDue(events.RestartAfterRecognitionEnded))
	case !c.session.listening:
		if c.state == StateError {
			// Keep the error in view.
			return
		}
		c.controls = Controls{StartEnabled: c.unsupported == nil}
		c.status = StatusReady
		c.animations = Animations{}
		c.state = StateIdle
	default:
		logger.Info("recognition ended while listening")
	}
}

func (c *Controller) handleRestartDue(e events.RestartDue) {
	if !c.session.listening {
		return
	}
	if e.Reason == events.RestartAfterRecognitionEnded && c.state.turnInFlight() {
		// Resumed once the turn is over.
		return
	}

	if err := c.startRecognition(); err != nil {
		logger.Error("failed to restart recognition", "reason", string(e.Reason), "error", err)
		c.failRestart()
		return
	}

	c.status = StatusListen
	if !c.session.speaking {
		c.animations.Listening = true
	}
	c.state = StateListening
}

func (c *Controller) handleReplyReceived(e events.ReplyReceived) {
	if c.turn == nil || c.turn.id != e.TurnID {
		logger.Debug("dropping stale reply", "turn_id", e.TurnID)
		return
	}
	c.clearTurn()

	c.tone = e.Reply.DisplayTone()
	c.toneHighlighted = true
	c.toneGeneration++
	c.schedule(toneHighlightDuration, events.NewToneHighlightExpired(c.toneGeneration))

	c.transcript.append(SenderBot, e.Reply.Response)
	c.status = StatusBotSpeaking
	c.state = StateSpeaking

	c.speak(e.Reply.Response)
}

func (c *Controller) handleReplyFailed(e events.ReplyFailed) {
	if c.turn == nil || c.turn.id != e.TurnID {
		logger.Debug("dropping stale reply failure", "turn_id", e.TurnID)
		return
	}
	c.clearTurn()

	logger.Error("reply request failed", "turn_id", e.TurnID, "error", e.Err)
	c.status = StatusFailed

	if !c.session.listening {
		c.state = StateError
		return
	}
	// The state stays Processing until the restart is due: a restart
	// scheduled by the paused session's end is then skipped, so exactly one
	// restart happens.
	c.session.consumeRestart()
	c.schedule(restartAfterReplyFailureDelay, events.NewRestartDue(events.RestartAfterReplyFailed))
}

func (c *Controller) handleSpeechStarted(e events.SpeechStarted) {
	if e.UtteranceID == "" || e.UtteranceID != c.utteranceID {
		return
	}

	c.session.setSpeaking(true)
	c.animations.Listening = false
	c.animations.Wave = true
	c.status = StatusBotSpeaking
	c.state = StateSpeaking
}

// handleSpeechFinished settles an utterance that ended, with or without
// error. Failures take the same flow as a normal end.
func (c *Controller) handleSpeechFinished(utteranceID string, err error) {
	if utteranceID == "" || utteranceID != c.utteranceID {
		return
	}
	if err != nil {
		logger.Error("speech synthesis error", "utterance_id", utteranceID, "error", err)
	}
	c.finishSpeech()
}

func (c *Controller) finishSpeech() {
	c.utteranceID = ""
	c.session.setSpeaking(false)
	c.animations.Wave = false

	if !c.session.listening {
		c.status = StatusReady
		c.state = StateIdle
		return
	}

	c.status = StatusListen
	c.animations.Listening = true
	c.state = StateListening
	if err := c.startRecognition(); err != nil {
		logger.Error("error restarting recognition", "error", err)
		c.failRestart()
	}
}

// startRecognition starts the recognizer for the current session. A
// recognizer that is still active is not a failure: its end restarts it.
func (c *Controller) startRecognition() error {
	err := c.speechToText.start(c.baseContext, c.locale, c.interimResults, speechToTextCallbacks{
		onResult: func(result speechtotext.Result) {
			c.post(events.NewRecognitionResult(result.Transcript, result.IsFinal))
		},
		onError: func(err error) {
			c.post(events.NewRecognitionFailed(speechtotext.ErrorCode(err)))
		},
		onEnd: func() { c.post(events.NewRecognitionEnded()) },
	})
	if errors.Is(err, speechtotext.ErrAlreadyActive) {
		c.session.requestRestart()
		return nil
	}
	return err
}

func (c *Controller) failRestart() {
	c.session.endListening()
	c.status = StatusStartFailed
	c.controls = Controls{StartEnabled: c.unsupported == nil}
	c.animations = Animations{}
	c.state = StateError
}

// beginTurn issues the one outstanding request for text.
func (c *Controller) beginTurn(text string) {
	ctx, cancel := context.WithCancel(c.baseContext)
	id := uuid.NewString()
	c.turn = &turn{id: id, cancel: cancel}

	generator := c.replies
	go func() {
		defer cancel()
		reply, err := processTurn(ctx, generator, id, text)
		if err != nil {
			c.post(events.NewReplyFailed(id, err))
			return
		}
		c.post(events.NewReplyReceived(id, reply))
	}()
}

func processTurn(ctx context.Context, generator ReplyGenerator, turnID, text string) (replies.Reply, error) {
	ctx, span := tracer.Start(ctx, "process turn", trace.WithAttributes(
		attribute.String("turn.id", turnID),
		attribute.Int("turn.text_length", len(text)),
	))
	defer span.End()

	if generator == nil {
		span.SetStatus(codes.Error, ErrNoReplyGenerator.Error())
		return replies.Reply{}, ErrNoReplyGenerator
	}

	reply, err := generator.ProcessSpeech(ctx, text)
	if err != nil {
		err = fmt.Errorf("failed to process speech: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return replies.Reply{}, err
	}
	span.SetAttributes(attribute.String("reply.tone", reply.DisplayTone()))
	return reply, nil
}

func (c *Controller) cancelTurn() {
	if c.turn != nil {
		c.turn.cancel()
	}
	c.turn = nil
}

func (c *Controller) clearTurn() { c.turn = nil }

func (c *Controller) speak(text string) {
	id := uuid.NewString()
	c.utteranceID = id

	err := c.textToSpeech.speak(c.baseContext, text, c.locale, textToSpeechCallbacks{
		onStarted: func() { c.post(events.NewSpeechStarted(id)) },
		onEnded:   func() { c.post(events.NewSpeechEnded(id)) },
		onError:   func(err error) { c.post(events.NewSpeechFailed(id, err)) },
	})
	if err != nil {
		logger.Error("speech synthesis error", "utterance_id", id, "error", err)
		c.finishSpeech()
	}
}

// cancelSpeech stops the current utterance; its late callbacks are then
// stale.
func (c *Controller) cancelSpeech() {
	if c.utteranceID == "" {
		return
	}
	c.utteranceID = ""
	c.session.setSpeaking(false)
	if err := c.textToSpeech.cancel(); err != nil {
		logger.Error("error cancelling speech", "error", err)
	}
}
