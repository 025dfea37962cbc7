package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/tonechat/core/audio"
)

const DefaultFramesPerBuffer = 480

// Client drives one blocking duplex PortAudio stream: every cycle reads a
// buffer of microphone audio and writes a buffer of queued playback.
type Client struct {
	framesPerBuffer int
	encodingInfo    audio.EncodingInfo
	stream          *portaudio.Stream

	in  []int16
	out []int16

	playback audio.PlaybackBuffer

	mu      sync.Mutex
	onAudio func(audio []byte)

	cancel context.CancelFunc
	done   chan struct{}
}

func NewClient(framesPerBuffer int) (*Client, error) {
	if framesPerBuffer <= 0 {
		framesPerBuffer = DefaultFramesPerBuffer
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	encodingInfo := audio.GetDefaultEncodingInfo()
	in := make([]int16, framesPerBuffer)
	out := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 1, float64(encodingInfo.SampleRate), framesPerBuffer, in, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		framesPerBuffer: framesPerBuffer,
		encodingInfo:    encodingInfo,
		stream:          stream,
		in:              in,
		out:             out,
		cancel:          cancel,
		done:            make(chan struct{}),
	}
	go c.pump(ctx)

	return c, nil
}

func (c *Client) pump(ctx context.Context) {
	defer close(c.done)

	outBytes := make([]byte, c.framesPerBuffer*2)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := c.stream.Read(); err != nil {
			logger.Warn("failed to read from portaudio stream", "error", err)
		}
		c.mu.Lock()
		onAudio := c.onAudio
		c.mu.Unlock()
		if onAudio != nil {
			onAudio(encodeSamples(c.in))
		}

		c.playback.Fill(outBytes, len(outBytes))
		decodeSamples(outBytes, c.out)
		if err := c.stream.Write(); err != nil {
			logger.Warn("failed to write to portaudio stream", "error", err)
		}
	}
}

func (c *Client) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAudio = onAudio
	return nil
}

func (c *Client) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAudio = nil
	return nil
}

func (c *Client) Close() {
	c.cancel()
	<-c.done
	c.playback.Clear()
	_ = c.stream.Stop()
	_ = c.stream.Close()
	_ = portaudio.Terminate()
}

func (c *Client) SendAudio(audio []byte) error {
	c.playback.Write(audio)
	return nil
}

func (c *Client) ClearBuffer() {
	c.playback.Clear()
}

func (c *Client) Mark(name string, callback func(string)) error {
	c.playback.Mark(name, callback)
	return nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return c.encodingInfo
}

func encodeSamples(samples []int16) []byte {
	buffer := bytes.Buffer{}
	buffer.Grow(len(samples) * 2)
	_ = binary.Write(&buffer, binary.LittleEndian, samples)
	return buffer.Bytes()
}

func decodeSamples(audio []byte, samples []int16) {
	_ = binary.Read(bytes.NewReader(audio[:len(samples)*2]), binary.LittleEndian, samples)
}
