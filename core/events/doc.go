// Package events defines the typed events that drive the conversation
// controller.
//
// Every event source of the controller posts its occurrences as events and
// the controller handles them one at a time. Event kinds are grouped by
// source:
//
//   - controls.*: user presses of the start and stop controls.
//   - recognition.*: speech input results, failures and end of stream.
//   - reply.*: outcome of the request sent for a finalized transcript.
//   - speech.*: lifecycle of a spoken reply utterance.
//   - timer.*: delayed work scheduled by the controller itself.
//
// controls events
//
//   - StartRequested (controls.start_requested)
//   - StopRequested (controls.stop_requested)
//
// recognition events
//
//   - RecognitionResult (recognition.result): a recognition result; only
//     final results carry a complete utterance.
//   - RecognitionFailed (recognition.failed): runtime failure with its code.
//   - RecognitionEnded (recognition.ended): the recognizer stopped.
//
// reply events
//
//   - ReplyReceived (reply.received): reply for the turn with TurnID.
//   - ReplyFailed (reply.failed): the request for the turn failed.
//
// speech events
//
//   - SpeechStarted (speech.started), SpeechEnded (speech.ended) and
//     SpeechFailed (speech.failed), each for the utterance with UtteranceID.
//
// timer events
//
//   - RestartDue (timer.restart_due): delayed recognition restart.
//   - ListeningAnimationDue (timer.listening_animation_due)
//   - ToneHighlightExpired (timer.tone_highlight_expired)
package events
