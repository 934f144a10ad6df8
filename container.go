package rws

import (
	"github.com/google/uuid"
)

// Container is a decoded RWS file. It is immutable once returned by Decode.
type Container struct {
	Header             ContainerHeader
	AudioHeader        *AudioHeader
	AudioHeaderVersion uint32
	DataVersion        uint32
	Segments           []SegmentRecord
	// Layers are ordered by layer index.
	Layers []Layer
	Index  *Index
	// UnknownChunks stores top-level chunks no handler accepted.
	UnknownChunks []RawChunk
	// Warnings collects non-fatal conditions such as ErrUnknownCodec.
	Warnings []error
}

// Layer is one extracted audio substream with everything needed to decode it.
type Layer struct {
	Index    int
	Segment  int
	Geometry LayerGeometry
	Config   LayerConfig
	Codec    Codec
	// DSP is only set for DSP ADPCM layers.
	DSP *DSPExtension
	// Data holds the compressed blocks with padding removed. For unpadded,
	// non-interleaved layers it aliases the decoded buffer.
	Data []byte
}

// Name returns the container's display name.
func (c *Container) Name() string {
	if c == nil || c.AudioHeader == nil {
		return ""
	}

	return c.AudioHeader.Name
}

// UUID returns the container's file UUID.
func (c *Container) UUID() uuid.UUID {
	if c == nil || c.AudioHeader == nil {
		return uuid.Nil
	}

	return c.AudioHeader.FileUUID
}
