package voicechat

import "testing"

func TestSessionRestartIsOneShot(t *testing.T) {
	var s session
	s.beginListening()
	s.requestRestart()

	if !s.consumeRestart() {
		t.Fatalf("expected a pending restart")
	}
	if s.consumeRestart() {
		t.Fatalf("expected restart to be consumed")
	}
}

func TestSessionEndListeningDropsRestart(t *testing.T) {
	var s session
	s.beginListening()
	s.requestRestart()
	s.endListening()

	if s.listening {
		t.Fatalf("expected listening to be cleared")
	}
	if s.pendingRestart {
		t.Fatalf("expected pending restart to be cleared")
	}
}

func TestStateTurnInFlight(t *testing.T) {
	inFlight := map[State]bool{
		StateIdle:       false,
		StateListening:  false,
		StateProcessing: true,
		StateSpeaking:   true,
		StateError:      false,
	}
	for state, expected := range inFlight {
		if got := state.turnInFlight(); got != expected {
			t.Fatalf("expected turnInFlight %v for %s, got %v", expected, state, got)
		}
	}
}
