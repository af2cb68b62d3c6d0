// Package audio converts and measures the 16-bit mono PCM frames exchanged
// with the browser and the realtime voice API.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

const (
	// InputSampleRate is the rate of microphone audio sent upstream.
	InputSampleRate = 16000
	// OutputSampleRate is the rate of synthesized speech coming back.
	OutputSampleRate = 24000

	bytesPerSample = 2
)

// MIMEType returns the PCM MIME string for a sample rate,
// e.g. "audio/pcm;rate=16000".
func MIMEType(rate int) string {
	return fmt.Sprintf("audio/pcm;rate=%d", rate)
}

// FloatToPCM16 converts float samples in [-1, 1] to little-endian 16-bit
// PCM. Values outside the range are clamped.
func FloatToPCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		var n int16
		if v < 0 {
			n = int16(v * 0x8000)
		} else {
			n = int16(v * 0x7FFF)
		}
		binary.LittleEndian.PutUint16(out[i*bytesPerSample:], uint16(n))
	}
	return out
}

// PCM16ToFloat converts little-endian 16-bit PCM to floats in [-1, 1).
// A trailing odd byte is ignored.
func PCM16ToFloat(data []byte) []float32 {
	n := len(data) / bytesPerSample
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(data[i*bytesPerSample:]))
		out[i] = float32(s) / 32768.0
	}
	return out
}

// Duration is the playback length of a PCM16 mono buffer at rate.
func Duration(data []byte, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	samples := int64(len(data) / bytesPerSample)
	return time.Duration(samples) * time.Second / time.Duration(rate)
}

// Encode base64-encodes a frame.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode base64-decodes a frame.
func Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 audio frame: %w", err)
	}
	return b, nil
}
