package miniaudio

import (
	"testing"
	"time"
)

func TestCaptureDeliverDoesNotWaitForLock(t *testing.T) {
	c := &captureClient{bytesPerFrame: 2}
	received := make(chan []byte, 1)
	onAudio := func(audio []byte) { received <- audio }
	c.onAudio.Store(&onAudio)

	// Stop holds mu while the device thread finishes its last callback.
	c.mu.Lock()
	defer c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.deliver([]byte{1, 2, 3, 4, 5}, 2)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected delivery to finish while the client lock is held")
	}

	select {
	case audio := <-received:
		if len(audio) != 4 {
			t.Fatalf("expected 4 bytes, got %d", len(audio))
		}
	default:
		t.Fatalf("expected captured audio to be delivered")
	}
}

func TestCaptureDeliverSkipsShortOrUnconsumedInput(t *testing.T) {
	c := &captureClient{bytesPerFrame: 2}
	c.deliver([]byte{1, 2}, 1)

	calls := 0
	onAudio := func([]byte) { calls++ }
	c.onAudio.Store(&onAudio)
	c.deliver([]byte{1, 2}, 2)
	c.deliver(nil, 0)
	if calls != 0 {
		t.Fatalf("expected no deliveries, got %d", calls)
	}

	c.onAudio.Store(nil)
	c.deliver([]byte{1, 2}, 1)
	if calls != 0 {
		t.Fatalf("expected no deliveries after the consumer is cleared, got %d", calls)
	}
}
