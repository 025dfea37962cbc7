package miniaudio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/tonechat/core/audio"
)

// Client owns one miniaudio context with a capture device feeding speech
// recognition and a playback device voicing synthesized replies.
type Client struct {
	// audioContext is only kept to uninitialize it on Close
	audioContext *malgo.AllocatedContext
	encodingInfo audio.EncodingInfo

	playbackClient
	captureClient
}

func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug("miniaudio", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := Client{
		audioContext: audioCtx,
		encodingInfo: audio.GetDefaultEncodingInfo(),
	}

	if err := client.playbackClient.Init(audioCtx, client.encodingInfo); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}

	if err := client.playbackClient.Start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	if err := client.captureClient.Init(audioCtx, client.encodingInfo); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return &client, nil
}

func (c *Client) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	return c.captureClient.Start(onAudio)
}

func (c *Client) StopCapture() error {
	return c.captureClient.Stop()
}

func (c *Client) Close() {
	_ = c.captureClient.Uninit()
	_ = c.playbackClient.Uninit()
	if c.audioContext != nil {
		_ = c.audioContext.Uninit()
		c.audioContext.Free()
		c.audioContext = nil
	}
}

func (c *Client) SendAudio(audio []byte) error {
	return c.playbackClient.SendAudio(audio)
}

func (c *Client) ClearBuffer() {
	c.playbackClient.ClearBuffer()
}

func (c *Client) Mark(name string, callback func(string)) error {
	return c.playbackClient.Mark(name, callback)
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return c.encodingInfo
}
