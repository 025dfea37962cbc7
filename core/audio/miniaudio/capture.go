package miniaudio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/tonechat/core/audio"
)

type captureClient struct {
	device *malgo.Device
	config malgo.DeviceConfig

	// onAudio is read by the device thread without taking mu: Stop and
	// Uninit hold mu while waiting for that thread to finish.
	onAudio       atomic.Pointer[func(audio []byte)]
	bytesPerFrame int

	mu sync.Mutex
}

func (c *captureClient) Init(audioContext *malgo.AllocatedContext, encodingInfo audio.EncodingInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	channels := 1
	format := malgo.FormatS16
	c.bytesPerFrame = malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Capture)
	c.config.SampleRate = uint32(encodingInfo.SampleRate)
	c.config.Capture.Format = format
	c.config.Capture.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PerformanceProfile = malgo.LowLatency
	c.config.PeriodSizeInFrames = 480
	c.config.Periods = 3

	var err error
	c.device, err = malgo.InitDevice(audioContext.Context, c.config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			c.deliver(pInput, frameCount)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return nil
}

// deliver hands captured frames to the current consumer. It runs on the
// device thread.
func (c *captureClient) deliver(pInput []byte, frameCount uint32) {
	n := int(frameCount) * c.bytesPerFrame
	if len(pInput) < n || n == 0 {
		return
	}
	if onAudio := c.onAudio.Load(); onAudio != nil {
		(*onAudio)(pInput[:n])
	}
}

func (c *captureClient) Start(onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if onAudio != nil {
		c.onAudio.Store(&onAudio)
	} else {
		c.onAudio.Store(nil)
	}
	if c.device.IsStarted() {
		return nil
	}

	if err := c.device.Start(); err != nil {
		c.onAudio.Store(nil)
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.onAudio.Store(nil)
	if !c.device.IsStarted() {
		return nil
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}
	return nil
}

func (c *captureClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	c.onAudio.Store(nil)
	return nil
}
