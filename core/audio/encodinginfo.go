package audio

import "time"

const (
	DefaultSampleRate = 16000
	DefaultFormat     = EncodingLinear16
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: DefaultFormat}
}

// EncodingInfo describes mono audio exchanged between devices and the
// speech clients.
type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	case EncodingLinear16:
		return 0
	}

	return 0
}

// BytesFor returns the number of bytes needed to hold d of audio.
func (e EncodingInfo) BytesFor(d time.Duration) int {
	if e.IsZero() || e.Format.ByteSize() < 0 {
		return 0
	}
	return int(int64(e.SampleRate) * int64(e.Format.ByteSize()) * d.Milliseconds() / 1000)
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)
