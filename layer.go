package rws

import (
	"fmt"

	"github.com/google/uuid"
)

// Record sizes of the layer tables.
const (
	LayerGeometrySize = 40
	LayerConfigSize   = 44
	DSPExtensionSize  = 92
)

// DSPCoefCount is the number of coefficients and history values carried by a
// DSP extension record.
const DSPCoefCount = 16

// LayerGeometry describes how a layer's blocks are laid out in its segment.
type LayerGeometry struct {
	Opaque       [5]uint32
	FrameHint    uint32
	BlockSizePad uint32
	Interleave   uint16
	FrameSize    uint16
	// BlockSize is the unpadded number of bytes used in each block.
	BlockSize uint32
	// LayerStart is relative to the owning segment's data offset.
	LayerStart uint32
}

// LayerConfig holds the playback parameters of a layer.
type LayerConfig struct {
	SampleRate uint32
	// ApproxSize is the usable (unpadded) size of the layer stream.
	ApproxSize    uint32
	Opaque0       uint32
	BitsPerSample uint8
	ChannelCount  uint8
	Opaque1       uint16
	Opaque2       [3]uint32
	CodecUUID     uuid.UUID
}

// DSPExtension is appended for layers using the DSP ADPCM codec.
type DSPExtension struct {
	ApproxSampleCount uint32
	Opaque            uint32
	Reserved          [20]byte
	Coefs             [DSPCoefCount]int16
	History           [DSPCoefCount]int16
}

// layerTables is the output of the layer table parser. dsp[i] is nil for
// layers that carry no extension.
type layerTables struct {
	geometry []LayerGeometry
	config   []LayerConfig
	codecs   []Codec
	dsp      []*DSPExtension
}

func parseLayerGeometry(rec []byte) LayerGeometry {
	var g LayerGeometry

	u32s(g.Opaque[:3], rec, 0x00)
	g.FrameHint = u32(rec, 0x0c)
	g.BlockSizePad = u32(rec, 0x10)
	g.Opaque[3] = u32(rec, 0x14)
	g.Interleave = u16(rec, 0x18)
	g.FrameSize = u16(rec, 0x1a)
	g.Opaque[4] = u32(rec, 0x1c)
	g.BlockSize = u32(rec, 0x20)
	g.LayerStart = u32(rec, 0x24)

	return g
}

func parseLayerConfig(rec []byte) LayerConfig {
	c := LayerConfig{
		SampleRate:    u32(rec, 0x00),
		ApproxSize:    u32(rec, 0x04),
		Opaque0:       u32(rec, 0x08),
		BitsPerSample: rec[0x0c],
		ChannelCount:  rec[0x0d],
		Opaque1:       u16(rec, 0x0e),
	}
	u32s(c.Opaque2[:], rec, 0x10)
	copy(c.CodecUUID[:], rec[0x1c:0x2c])

	return c
}

func parseDSPExtension(rec []byte) *DSPExtension {
	ext := &DSPExtension{
		ApproxSampleCount: u32(rec, 0x00),
		Opaque:            u32(rec, 0x04),
	}
	copy(ext.Reserved[:], rec[0x08:0x1c])
	i16s(ext.Coefs[:], rec, 0x1c)
	i16s(ext.History[:], rec, 0x3c)

	return ext
}

// parseLayerTables reads the geometry table, the config table and the DSP
// extension region, in that order.
func parseLayerTables(r *recordReader, h *AudioHeader) (*layerTables, error) {
	count := int(h.LayerCount)

	want := uint64(h.LayerCount) * (LayerGeometrySize + LayerConfigSize)
	if want != uint64(h.LayerTableSize) {
		return nil, mismatchErr(ErrSizeMismatch, r.offset(), "layer table size", int64(want), int64(h.LayerTableSize))
	}

	if want > uint64(r.remaining()) {
		return nil, mismatchErr(ErrTruncatedStream, r.offset(), "layer tables", int64(want), int64(r.remaining()))
	}

	t := &layerTables{
		geometry: make([]LayerGeometry, count),
		config:   make([]LayerConfig, count),
		codecs:   make([]Codec, count),
		dsp:      make([]*DSPExtension, count),
	}

	for i := range t.geometry {
		rec, err := r.record(LayerGeometrySize, fmt.Sprintf("layer %d geometry", i))
		if err != nil {
			return nil, err
		}

		t.geometry[i] = parseLayerGeometry(rec)
	}

	for i := range t.config {
		rec, err := r.record(LayerConfigSize, fmt.Sprintf("layer %d config", i))
		if err != nil {
			return nil, err
		}

		t.config[i] = parseLayerConfig(rec)
		t.codecs[i] = IdentifyCodec(t.config[i].CodecUUID)
	}

	extStart := r.offset()

	for i, codec := range t.codecs {
		if !codec.IsDSP() {
			continue
		}

		rec, err := r.record(DSPExtensionSize, fmt.Sprintf("layer %d DSP extension", i))
		if err != nil {
			return nil, err
		}

		t.dsp[i] = parseDSPExtension(rec)
	}

	if consumed := r.offset() - extStart; int64(consumed) != int64(h.BlockLayersSize) {
		return nil, mismatchErr(ErrSizeMismatch, extStart, "block layers size", int64(consumed), int64(h.BlockLayersSize))
	}

	return t, nil
}
