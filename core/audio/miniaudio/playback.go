package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/tonechat/core/audio"
)

type playbackClient struct {
	device *malgo.Device
	config malgo.DeviceConfig

	buffer audio.PlaybackBuffer

	mu sync.Mutex
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext, encodingInfo audio.EncodingInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sampleRate := uint32(encodingInfo.SampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = sampleRate
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	c.config.Periods = 4

	var err error
	if c.device, err = malgo.InitDevice(
		audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: func(pOutput, _ []byte, frameCount uint32) {
			c.buffer.Fill(pOutput, int(frameCount)*bytesPerFrame)
		}},
	); err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	return nil
}

func (c *playbackClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	c.mu.Lock()
	device := c.device
	c.mu.Unlock()
	if device == nil {
		return fmt.Errorf("device not initialized")
	} else if !device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	c.buffer.Write(audio)
	return nil
}

func (c *playbackClient) ClearBuffer() {
	c.buffer.Clear()
}

func (c *playbackClient) Mark(name string, callback func(string)) error {
	c.buffer.Mark(name, callback)
	return nil
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return nil
	}

	c.device.Uninit()
	c.device = nil
	c.buffer.Clear()

	return nil
}
