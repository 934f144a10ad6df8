package rws

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// CodecKind is the closed set of codecs known to appear in RWS layers.
type CodecKind int

const (
	CodecUnknown CodecKind = iota
	CodecPSADPCM
	CodecPCM16
	CodecFloat
	CodecDSPADPCM
	CodecXboxIMA
	CodecWMA
	CodecMP3
	CodecMP2
	CodecMP1
	CodecAC3
	CodecPCIMA
)

// codecIDs maps the leading 32 bits of a codec UUID to its kind.
var codecIDs = map[uint32]CodecKind{
	0xd9ea9798: CodecPSADPCM,
	0xd01bd217: CodecPCM16,
	0xda1e4382: CodecFloat,
	0xf86215b0: CodecDSPADPCM,
	0x632fa22b: CodecXboxIMA,
	0x3f1d8147: CodecWMA,
	0xbacfb36e: CodecMP3,
	0x34d09a54: CodecMP2,
	0x04c15ba7: CodecMP1,
	0xa30db390: CodecAC3,
	0xef386593: CodecPCIMA,
}

var codecNames = map[CodecKind]string{
	CodecUnknown:  "Unknown",
	CodecPSADPCM:  "PS-ADPCM",
	CodecPCM16:    "PCM",
	CodecFloat:    "Float",
	CodecDSPADPCM: "DSP ADPCM",
	CodecXboxIMA:  "Xbox IMA ADPCM",
	CodecWMA:      "WMA",
	CodecMP3:      "MP3",
	CodecMP2:      "MP2",
	CodecMP1:      "MP1",
	CodecAC3:      "AC3",
	CodecPCIMA:    "IMA ADPCM (PC)",
}

func (k CodecKind) String() string {
	if name, ok := codecNames[k]; ok {
		return name
	}

	return fmt.Sprintf("CodecKind(%d)", int(k))
}

// Codec identifies the codec of a layer. UUID is kept verbatim, also when
// Kind is CodecUnknown.
type Codec struct {
	Kind CodecKind
	UUID uuid.UUID
}

// IdentifyCodec matches a codec UUID against the known codecs. Only the
// leading 32 bits, stored little-endian, take part in the match.
func IdentifyCodec(id uuid.UUID) Codec {
	return Codec{Kind: codecIDs[CodecID(id)], UUID: id}
}

// CodecID returns the leading 32 bits of a codec UUID.
func CodecID(id uuid.UUID) uint32 {
	return binary.LittleEndian.Uint32(id[:4])
}

// ID returns the leading 32 bits of the codec UUID.
func (c Codec) ID() uint32 {
	return CodecID(c.UUID)
}

// Tail returns the trailing 12 bytes of the codec UUID.
func (c Codec) Tail() [12]byte {
	var tail [12]byte
	copy(tail[:], c.UUID[4:])

	return tail
}

// IsDSP reports whether layers of this codec carry a DSP extension record.
func (c Codec) IsDSP() bool {
	return c.Kind == CodecDSPADPCM
}

// Known reports whether the codec was recognized.
func (c Codec) Known() bool {
	return c.Kind != CodecUnknown
}

func (c Codec) String() string {
	if c.Kind == CodecUnknown {
		return fmt.Sprintf("Unknown (0x%08x)", c.ID())
	}

	return c.Kind.String()
}

// estimateSamples derives a sample count from a stream size the way
// common RWS tools do. Unknown and compressed frame codecs fall back to the
// byte count.
func (c Codec) estimateSamples(streamSize, channels int) int {
	if channels <= 0 {
		channels = 1
	}

	switch c.Kind {
	case CodecPCM16:
		return streamSize / (2 * channels)
	case CodecPSADPCM:
		return streamSize / channels * 2
	case CodecDSPADPCM:
		return streamSize / channels / 8 * 14
	case CodecPCIMA, CodecXboxIMA:
		return streamSize * 2
	default:
		return streamSize
	}
}
