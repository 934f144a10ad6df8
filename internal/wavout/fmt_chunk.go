package wavout

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/rws"
)

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
	wavFormatIMAADPCM  = 0x11
)

// ErrUnsupportedCodec is returned for codecs that have no WAV format tag.
var ErrUnsupportedCodec = errors.New("codec has no WAV representation")

// FmtChunk holds the fields written to the fmt chunk.
type FmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	// SamplesPerBlock is only written for IMA ADPCM.
	SamplesPerBlock uint16
}

// size returns the payload size of the fmt chunk.
func (f *FmtChunk) size() uint32 {
	if f.FormatTag == wavFormatIMAADPCM {
		return 20
	}

	return 16
}

// FormatFor returns the fmt chunk describing a layer's stream.
func FormatFor(l *rws.Layer) (*FmtChunk, error) {
	channels := int(l.Config.ChannelCount)
	if channels == 0 {
		channels = 1
	}

	f := &FmtChunk{
		NumChannels: uint16(channels),
		SampleRate:  l.Config.SampleRate,
	}

	switch l.Codec.Kind {
	case rws.CodecPCM16:
		f.FormatTag = wavFormatPCM
		f.BitsPerSample = 16
		f.BlockAlign = uint16(channels * 2)
	case rws.CodecFloat:
		f.FormatTag = wavFormatIEEEFloat
		f.BitsPerSample = 32
		f.BlockAlign = uint16(channels * 4)
	case rws.CodecPCIMA, rws.CodecXboxIMA:
		blockSize := int(l.Geometry.BlockSize)
		if l.Geometry.FrameSize > 0 {
			blockSize = int(l.Geometry.FrameSize)
		}

		if blockSize <= 4*channels {
			return nil, fmt.Errorf("%w: IMA block size %d too small for %d channels", ErrUnsupportedCodec, blockSize, channels)
		}

		if blockSize > math.MaxUint16 {
			return nil, fmt.Errorf("%w: IMA block size %d does not fit a WAV block", ErrUnsupportedCodec, blockSize)
		}

		samplesPerBlock := (blockSize-4*channels)*2/channels + 1
		if samplesPerBlock > math.MaxUint16 {
			return nil, fmt.Errorf("%w: %d IMA samples per block", ErrUnsupportedCodec, samplesPerBlock)
		}

		avg := uint64(f.SampleRate) * uint64(blockSize) / uint64(samplesPerBlock)
		if avg > math.MaxUint32 {
			return nil, fmt.Errorf("%w: IMA byte rate %d", ErrUnsupportedCodec, avg)
		}

		f.FormatTag = wavFormatIMAADPCM
		f.BitsPerSample = 4
		f.BlockAlign = uint16(blockSize)
		f.SamplesPerBlock = uint16(samplesPerBlock)
		f.AvgBytesPerSec = uint32(avg)

		return f, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, l.Codec)
	}

	avg := uint64(f.SampleRate) * uint64(f.BlockAlign)
	if avg > math.MaxUint32 {
		return nil, fmt.Errorf("%w: byte rate %d", ErrUnsupportedCodec, avg)
	}

	f.AvgBytesPerSec = uint32(avg)

	return f, nil
}
