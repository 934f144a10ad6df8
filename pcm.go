package rws

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

// ErrNotPCM is returned by PCMDecoder for compressed codecs.
var ErrNotPCM = errors.New("codec is not uncompressed PCM")

const (
	scalePCMInt16 = 32768.0
	maxPCMInt16   = 32767
)

// PCMDecoder decodes the uncompressed codecs: 16-bit little-endian PCM and
// 32-bit IEEE float. Float samples are converted to 16-bit integers.
var PCMDecoder SampleDecoder = SampleDecoderFunc(decodePCM)

func decodePCM(codec Codec, _ LayerConfig, _ *DSPExtension, data []byte) (*audio.IntBuffer, error) {
	switch codec.Kind {
	case CodecPCM16:
		buf := &audio.IntBuffer{Data: make([]int, len(data)/2), SourceBitDepth: 16}
		for i := range buf.Data {
			buf.Data[i] = int(int16(binary.LittleEndian.Uint16(data[2*i:])))
		}

		return buf, nil
	case CodecFloat:
		buf := &audio.IntBuffer{Data: make([]int, len(data)/4), SourceBitDepth: 16}
		for i := range buf.Data {
			buf.Data[i] = float32ToPCMInt16(math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:])))
		}

		return buf, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotPCM, codec)
	}
}

func clampFloat32(value, min, max float32) float32 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

func float32ToPCMInt16(value float32) int {
	if math.IsNaN(float64(value)) {
		return 0
	}

	value = clampFloat32(value, -1, 1)

	sample := min(int64(math.Round(float64(value)*scalePCMInt16)), maxPCMInt16)
	if sample < -scalePCMInt16 {
		sample = -scalePCMInt16
	}

	return int(sample)
}
