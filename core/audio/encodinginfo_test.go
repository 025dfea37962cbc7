package audio

import (
	"testing"
	"time"
)

func TestDefaultEncodingInfo(t *testing.T) {
	info := GetDefaultEncodingInfo()
	if info.IsZero() {
		t.Fatalf("expected default encoding info to be set")
	}
	if info.SampleRate != DefaultSampleRate {
		t.Fatalf("expected sample rate %d, got %d", DefaultSampleRate, info.SampleRate)
	}
	if info.Format != EncodingLinear16 {
		t.Fatalf("expected format %q, got %q", EncodingLinear16, info.Format)
	}
}

func TestEncodingInfoBytesFor(t *testing.T) {
	info := EncodingInfo{SampleRate: 16000, Format: EncodingLinear16}
	if got := info.BytesFor(50 * time.Millisecond); got != 1600 {
		t.Fatalf("expected 1600 bytes for 50ms, got %d", got)
	}

	info = EncodingInfo{SampleRate: 8000, Format: EncodingMulaw}
	if got := info.BytesFor(time.Second); got != 8000 {
		t.Fatalf("expected 8000 bytes for 1s, got %d", got)
	}

	if got := (EncodingInfo{}).BytesFor(time.Second); got != 0 {
		t.Fatalf("expected zero info to need 0 bytes, got %d", got)
	}
}

func TestEncodingInfoSilenceValue(t *testing.T) {
	cases := map[encodingFormat]byte{
		EncodingALaw:     0x55,
		EncodingMulaw:    0xFF,
		EncodingLinear16: 0,
	}
	for format, want := range cases {
		info := EncodingInfo{SampleRate: 8000, Format: format}
		if got := info.SilenceValue(); got != want {
			t.Fatalf("expected silence value %#x for %s, got %#x", want, format, got)
		}
	}
}
