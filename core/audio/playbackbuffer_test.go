package audio

import (
	"bytes"
	"testing"
	"time"
)

func TestPlaybackBufferFillCopiesQueuedAudio(t *testing.T) {
	var buffer PlaybackBuffer
	buffer.Write([]byte{1, 2, 3})
	buffer.Write([]byte{4, 5})

	out := make([]byte, 4)
	if n := buffer.Fill(out, 4); n != 4 {
		t.Fatalf("expected 4 bytes written, got %d", n)
	}
	if !bytes.Equal(out, []byte{1, 2, 3, 4}) {
		t.Fatalf("expected first four bytes, got %v", out)
	}

	out = []byte{9, 9, 9, 9}
	if n := buffer.Fill(out, 4); n != 1 {
		t.Fatalf("expected 1 byte written, got %d", n)
	}
	if !bytes.Equal(out, []byte{5, 0, 0, 0}) {
		t.Fatalf("expected remainder padded with silence, got %v", out)
	}
}

func TestPlaybackBufferMarkFiresAfterPrecedingAudio(t *testing.T) {
	var buffer PlaybackBuffer
	buffer.Write([]byte{1, 2, 3, 4})

	fired := make(chan string, 1)
	buffer.Mark("end", func(name string) { fired <- name })

	buffer.Fill(make([]byte, 2), 2)
	select {
	case name := <-fired:
		t.Fatalf("expected mark to wait for remaining audio, got %q", name)
	case <-time.After(20 * time.Millisecond):
	}

	buffer.Fill(make([]byte, 2), 2)
	select {
	case name := <-fired:
		if name != "end" {
			t.Fatalf("expected mark %q, got %q", "end", name)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected mark to fire once audio drained")
	}
}

func TestPlaybackBufferMarkOnEmptyBufferFiresOnNextFill(t *testing.T) {
	var buffer PlaybackBuffer

	fired := make(chan string, 1)
	buffer.Mark("now", func(name string) { fired <- name })
	buffer.Fill(make([]byte, 8), 8)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("expected mark on empty buffer to fire")
	}
}

func TestPlaybackBufferClearDropsAudioAndMarks(t *testing.T) {
	var buffer PlaybackBuffer
	buffer.Write([]byte{1, 2, 3})
	buffer.Mark("dropped", func(string) { t.Errorf("expected cleared mark not to fire") })

	buffer.Clear()

	if n := buffer.Fill(make([]byte, 3), 3); n != 0 {
		t.Fatalf("expected no audio after clear, got %d bytes", n)
	}
	time.Sleep(20 * time.Millisecond)
}
