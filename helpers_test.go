package rws

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Codec ids used by the synthetic files.
const (
	codecIDPCM16 = 0xd01bd217
	codecIDDSP   = 0xf86215b0
	codecIDXIMA  = 0x632fa22b
)

var testFileUUID = uuid.MustParse("0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0")

type testChunk struct {
	id      uint32
	version uint32
	data    []byte
}

type testLayer struct {
	geom LayerGeometry
	cfg  LayerConfig
	dsp  *DSPExtension
}

// testFile builds RWS containers in memory. Declared sizes are computed from
// the content; the delta fields corrupt them on purpose.
type testFile struct {
	name     string
	segments []SegmentRecord
	layers   []testLayer
	data     []byte

	beforeAudio []testChunk
	beforeData  []testChunk
	afterData   []testChunk

	headerSizeDelta     int
	blockLayersDelta    int
	segmentTableDelta   int
	layerTableDelta     int
	dataOffsetDelta     int
	trailingHeaderBytes int
	skipDSPRecords      bool
	omitDataChunk       bool
	dataBeforeAudio     bool
	containerID         uint32
	fileSizeDelta       int
	dataSizeDelta       int
}

func codecUUID(id uint32) uuid.UUID {
	var u uuid.UUID
	binary.LittleEndian.PutUint32(u[:4], id)
	copy(u[4:], []byte{0x4a, 0x11, 0x9e, 0x3c, 0x80, 0x5d, 0x21, 0x0b, 0x6e, 0x77, 0x10, 0xa2})

	return u
}

func le32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func le16(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

func appendChunk(b []byte, c testChunk) []byte {
	b = le32(b, c.id)
	b = le32(b, uint32(len(c.data)))
	b = le32(b, c.version)

	return append(b, c.data...)
}

func chunksLen(chunks []testChunk) int {
	n := 0
	for _, c := range chunks {
		n += ChunkHeaderSize + len(c.data)
	}

	return n
}

func (f *testFile) dspCount() int {
	n := 0
	for _, l := range f.layers {
		if l.dsp != nil {
			n++
		}
	}

	return n
}

func (f *testFile) audioPayload(dataOffset uint32) []byte {
	namePadded := alignUp(len(f.name)+1, NameAlignment)
	headerSize := AudioHeaderPreambleSize + namePadded + f.headerSizeDelta

	var b []byte
	b = le32(b, uint32(headerSize))
	b = le32(b, uint32(len(f.segments)*SegmentRecordSize+f.segmentTableDelta))
	b = le32(b, uint32(len(f.layers)*(LayerGeometrySize+LayerConfigSize)+f.layerTableDelta))
	b = le32(b, uint32(len(f.data)+f.dataSizeDelta))
	b = le32(b, 0x11111111)
	b = le32(b, 0x22222222)
	b = le32(b, uint32(len(f.segments)))
	b = le32(b, uint32(len(f.layers)))

	for i := range 5 {
		b = le32(b, uint32(0x30+i))
	}

	b = le32(b, uint32(f.dspCount()*DSPExtensionSize+f.blockLayersDelta))
	b = le32(b, dataOffset)
	b = append(b, testFileUUID[:]...)

	name := make([]byte, namePadded)
	copy(name, f.name)
	b = append(b, name...)

	for _, s := range f.segments {
		for _, w := range s.Opaque {
			b = le32(b, w)
		}

		b = le32(b, s.LayersSize)
		b = le32(b, s.DataOffset)
	}

	for _, l := range f.layers {
		g := l.geom
		b = le32(b, g.Opaque[0])
		b = le32(b, g.Opaque[1])
		b = le32(b, g.Opaque[2])
		b = le32(b, g.FrameHint)
		b = le32(b, g.BlockSizePad)
		b = le32(b, g.Opaque[3])
		b = le16(b, g.Interleave)
		b = le16(b, g.FrameSize)
		b = le32(b, g.Opaque[4])
		b = le32(b, g.BlockSize)
		b = le32(b, g.LayerStart)
	}

	for _, l := range f.layers {
		c := l.cfg
		b = le32(b, c.SampleRate)
		b = le32(b, c.ApproxSize)
		b = le32(b, c.Opaque0)
		b = append(b, c.BitsPerSample, c.ChannelCount)
		b = le16(b, c.Opaque1)

		for _, w := range c.Opaque2 {
			b = le32(b, w)
		}

		b = append(b, c.CodecUUID[:]...)
	}

	if !f.skipDSPRecords {
		for _, l := range f.layers {
			if l.dsp == nil {
				continue
			}

			b = le32(b, l.dsp.ApproxSampleCount)
			b = le32(b, l.dsp.Opaque)
			b = append(b, l.dsp.Reserved[:]...)

			for _, v := range l.dsp.Coefs {
				b = le16(b, uint16(v))
			}

			for _, v := range l.dsp.History {
				b = le16(b, uint16(v))
			}
		}
	}

	return append(b, make([]byte, f.trailingHeaderBytes)...)
}

func (f *testFile) bytes() []byte {
	// The audio payload length does not depend on the data offset value.
	audioLen := len(f.audioPayload(0))
	dataOffset := FileHeaderSize + chunksLen(f.beforeAudio) + ChunkHeaderSize + audioLen +
		chunksLen(f.beforeData) + ChunkHeaderSize + f.dataOffsetDelta

	audio := testChunk{id: IDAudioHeader, version: 0x1c020037, data: f.audioPayload(uint32(dataOffset))}
	data := testChunk{id: IDAudioData, version: 0x1c020037, data: f.data}

	var body []byte
	for _, c := range f.beforeAudio {
		body = appendChunk(body, c)
	}

	if f.dataBeforeAudio {
		body = appendChunk(body, data)
	}

	body = appendChunk(body, audio)

	for _, c := range f.beforeData {
		body = appendChunk(body, c)
	}

	if !f.omitDataChunk && !f.dataBeforeAudio {
		body = appendChunk(body, data)
	}

	for _, c := range f.afterData {
		body = appendChunk(body, c)
	}

	id := f.containerID
	if id == 0 {
		id = IDContainer
	}

	var out []byte
	out = le32(out, id)
	out = le32(out, uint32(len(body)+f.fileSizeDelta))
	out = le32(out, 0x1c020037)

	return append(out, body...)
}

func patternData(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}

	return b
}

func testDSP(seed int16) *DSPExtension {
	ext := &DSPExtension{ApproxSampleCount: 28, Opaque: 0xabcd}
	for i := range ext.Coefs {
		ext.Coefs[i] = seed*100 + int16(i)
		ext.History[i] = -seed*10 - int16(i)
	}

	return ext
}

// singleLayerFile has one segment with one contiguous layer of blocks
// blocks.
func singleLayerFile(codec uint32, blocks, blockSize, blockSizePad int) *testFile {
	span := blocks * blockSizePad

	return &testFile{
		name:     "bgm_title",
		segments: []SegmentRecord{{LayersSize: uint32(span), DataOffset: 0}},
		layers: []testLayer{{
			geom: LayerGeometry{
				BlockSizePad: uint32(blockSizePad),
				Interleave:   uint16(blockSize),
				FrameSize:    uint16(blockSize),
				BlockSize:    uint32(blockSize),
			},
			cfg: LayerConfig{
				SampleRate:    44100,
				ApproxSize:    uint32(blocks * blockSize),
				BitsPerSample: 16,
				ChannelCount:  1,
				CodecUUID:     codecUUID(codec),
			},
		}},
		data: patternData(span),
	}
}

// interleavedFile has one segment whose layers alternate in unit strides.
func interleavedFile(layers, unit, blocks, blockSize, blockSizePad int, dsp bool) *testFile {
	span := blocks * blockSizePad
	f := &testFile{
		name:     "voice",
		segments: []SegmentRecord{{LayersSize: uint32(span * layers)}},
		data:     patternData(span * layers),
	}

	codec := uint32(codecIDPCM16)
	if dsp {
		codec = codecIDDSP
	}

	for k := range layers {
		l := testLayer{
			geom: LayerGeometry{
				BlockSizePad: uint32(blockSizePad),
				Interleave:   uint16(unit),
				BlockSize:    uint32(blockSize),
				LayerStart:   uint32(k * unit),
			},
			cfg: LayerConfig{
				SampleRate:    32000,
				ApproxSize:    uint32(blocks * blockSize),
				BitsPerSample: 4,
				ChannelCount:  1,
				CodecUUID:     codecUUID(codec),
			},
		}

		if dsp {
			l.dsp = testDSP(int16(k + 1))
		}

		f.layers = append(f.layers, l)
	}

	return f
}
