package rws

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-audio/audio"
	"github.com/zeebo/blake3"
)

// Limits a layer must meet to be playable.
const (
	MaxChannels      = 32
	MinSampleRate    = 8000
	MaxSampleRate    = 384000
	MaxSampleCount   = 0x7fffffff
	streamNameFormat = "%s/%d/%d"
)

var (
	errInvalidChannels   = errors.New("invalid channel count")
	errInvalidSampleRate = errors.New("invalid sample rate")
	errInvalidSamples    = errors.New("invalid sample count")
	errNilSampleDecoder  = errors.New("nil sample decoder")
	errNilLayer          = errors.New("nil layer")
)

// Format returns the audio format of the layer.
func (l *Layer) Format() *audio.Format {
	if l == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(l.Config.ChannelCount),
		SampleRate:  int(l.Config.SampleRate),
	}
}

// EstimatedSamples returns the number of samples per channel the layer's
// stream holds, derived from its codec. DSP layers report the count stored
// in their extension when it is set.
func (l *Layer) EstimatedSamples() int {
	if l == nil {
		return 0
	}

	if l.DSP != nil && l.DSP.ApproxSampleCount > 0 {
		return int(l.DSP.ApproxSampleCount)
	}

	size := int(l.Config.ApproxSize)
	if size == 0 || size > len(l.Data) {
		size = len(l.Data)
	}

	return l.Codec.estimateSamples(size, int(l.Config.ChannelCount))
}

// Duration returns the play time of the layer.
func (l *Layer) Duration() time.Duration {
	if l == nil || l.Config.SampleRate == 0 {
		return 0
	}

	return time.Duration(l.EstimatedSamples()) * time.Second / time.Duration(l.Config.SampleRate)
}

// Validate reports whether the layer's parameters are playable. A failed
// validation does not affect extraction.
func (l *Layer) Validate() error {
	if l == nil {
		return errNilLayer
	}

	channels := int(l.Config.ChannelCount)
	if channels < 1 || channels > MaxChannels {
		return fmt.Errorf("%w: %d (max %d)", errInvalidChannels, channels, MaxChannels)
	}

	rate := int(l.Config.SampleRate)
	if rate < MinSampleRate || rate > MaxSampleRate {
		return fmt.Errorf("%w: %d Hz (allowed %d..%d)", errInvalidSampleRate, rate, MinSampleRate, MaxSampleRate)
	}

	samples := l.EstimatedSamples()
	if samples <= 0 || samples > MaxSampleCount {
		return fmt.Errorf("%w: %d", errInvalidSamples, samples)
	}

	return nil
}

// StreamName returns a readable name of the form container/segment/layer.
func (l *Layer) StreamName(container string) string {
	return fmt.Sprintf(streamNameFormat, container, l.Segment, l.Index)
}

// Digest returns the BLAKE3-256 hash of the layer's stream.
func (l *Layer) Digest() [32]byte {
	return blake3.Sum256(l.Data)
}

// SampleDecoder turns the compressed stream of a layer into PCM samples.
// Codec implementations live outside this package.
type SampleDecoder interface {
	DecodeSamples(codec Codec, cfg LayerConfig, dsp *DSPExtension, data []byte) (*audio.IntBuffer, error)
}

// SampleDecoderFunc adapts a function to SampleDecoder.
type SampleDecoderFunc func(codec Codec, cfg LayerConfig, dsp *DSPExtension, data []byte) (*audio.IntBuffer, error)

func (f SampleDecoderFunc) DecodeSamples(codec Codec, cfg LayerConfig, dsp *DSPExtension, data []byte) (*audio.IntBuffer, error) {
	return f(codec, cfg, dsp, data)
}

// Decode hands the layer to dec and fills in the buffer format if dec left
// it empty.
func (l *Layer) Decode(dec SampleDecoder) (*audio.IntBuffer, error) {
	if dec == nil {
		return nil, errNilSampleDecoder
	}

	buf, err := dec.DecodeSamples(l.Codec, l.Config, l.DSP, l.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode layer %d (%s): %w", l.Index, l.Codec, err)
	}

	if buf != nil && buf.Format == nil {
		buf.Format = l.Format()
	}

	return buf, nil
}
