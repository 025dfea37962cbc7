package audio

import "sync"

// PlaybackBuffer queues audio for a playback device and fires marks once
// every byte queued before them has been handed to the device.
type PlaybackBuffer struct {
	audio []byte
	marks []playbackMark

	mu sync.Mutex
}

type playbackMark struct {
	name     string
	position int
	callback func(string)
}

func (b *PlaybackBuffer) Write(audio []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.audio = append(b.audio, audio...)
}

func (b *PlaybackBuffer) Mark(name string, callback func(string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.marks = append(b.marks, playbackMark{name: name, position: len(b.audio), callback: callback})
}

func (b *PlaybackBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.audio = nil
	b.marks = nil
}

// Fill copies up to need bytes into out, zero-padding the rest, and returns
// the number of audio bytes written.
func (b *PlaybackBuffer) Fill(out []byte, need int) int {
	b.mu.Lock()
	n := min(need, len(b.audio), len(out))
	copy(out, b.audio[:n])
	clear(out[n:min(need, len(out))])
	b.audio = b.audio[n:]

	passed := 0
	for i := range b.marks {
		if b.marks[i].position <= n {
			passed++
			continue
		}
		b.marks[i].position -= n
	}
	toCall := b.marks[:passed]
	b.marks = b.marks[passed:]
	b.mu.Unlock()

	if len(toCall) > 0 {
		// the device callback must not block
		go func() {
			for _, mark := range toCall {
				mark.callback(mark.name)
			}
		}()
	}
	return n
}
