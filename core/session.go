package voicechat

// session is the single owned record of the user's intent and the speech
// output activity. Only the controller's event loop touches it.
type session struct {
	// listening is set while the user wants the conversation to go on.
	listening bool
	// speaking is set while a reply utterance is playing.
	speaking bool
	// pendingRestart is a one-shot request to restart recognition after
	// it was paused for a turn.
	pendingRestart bool
}

func (s *session) beginListening() { s.listening = true }

func (s *session) endListening() {
	s.listening = false
	s.pendingRestart = false
}

func (s *session) requestRestart() { s.pendingRestart = true }

// consumeRestart clears the restart request and reports whether there was
// one.
func (s *session) consumeRestart() bool {
	requested := s.pendingRestart
	s.pendingRestart = false
	return requested
}

func (s *session) setSpeaking(speaking bool) { s.speaking = speaking }
