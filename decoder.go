package rws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
)

// Decoder decodes RWS containers held fully in memory. The zero value is
// usable; a Decoder holds no per-call state and may be shared.
type Decoder struct {
	// Logger receives structured log output. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Workers bounds concurrent segment extraction. Zero or less means no
	// limit.
	Workers int
	// Registry receives top-level chunks other than the audio header and
	// data chunks. Chunks no handler accepts are kept in
	// Container.UnknownChunks.
	Registry *ChunkRegistry
}

// NewDecoder returns a decoder extracting with one worker per CPU.
func NewDecoder() *Decoder {
	return &Decoder{Workers: runtime.GOMAXPROCS(0)}
}

// Decode decodes buf with a default decoder.
func Decode(buf []byte) (*Container, error) {
	return NewDecoder().Decode(context.Background(), buf)
}

func (d *Decoder) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}

	return slog.Default()
}

// audioChunk is the parsed content of the audio-header chunk.
type audioChunk struct {
	chunk    Chunk
	header   *AudioHeader
	segments []SegmentRecord
	layers   *layerTables
}

// Decode walks buf, resolves its geometry and extracts every layer. The
// returned container borrows from buf, which must not be modified while
// the container is in use. ctx is checked between chunks and segments.
func (d *Decoder) Decode(ctx context.Context, buf []byte) (*Container, error) {
	hdr, err := parseContainerHeader(buf)
	if err != nil {
		return nil, err
	}

	c := &Container{Header: hdr}

	audio, data, err := d.walkChunks(ctx, c, buf[FileHeaderSize:])
	if err != nil {
		return nil, err
	}

	h := audio.header
	if int64(len(data.Payload)) != int64(h.DataSize) {
		return nil, mismatchErr(ErrSizeMismatch, data.Offset+4, "data size", int64(h.DataSize), int64(len(data.Payload)))
	}

	// DataOffset is read as the absolute offset of the data payload. Drop
	// this check to accept files that store it relative to something else.
	if int64(h.DataOffset) != int64(data.PayloadOffset()) {
		return nil, mismatchErr(ErrSizeMismatch, audio.chunk.PayloadOffset()+0x38, "data offset",
			int64(h.DataOffset), int64(data.PayloadOffset()))
	}

	idx, err := resolveGeometry(audio.segments, audio.layers.geometry, audio.layers.config, h.DataSize)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve geometry: %w", err)
	}

	for _, si := range idx.Segments {
		d.logger().Debug("resolved segment",
			"segment", si.Segment,
			"offset", si.Offset,
			"size", si.Size,
			"layers", len(si.Layers),
			"interleaved", si.Interleaved)
	}

	streams, err := extractLayers(ctx, idx, data.Payload, int(h.LayerCount), d.Workers)
	if err != nil {
		return nil, err
	}

	c.AudioHeader = h
	c.AudioHeaderVersion = audio.chunk.Version
	c.DataVersion = data.Version
	c.Segments = audio.segments
	c.Index = idx
	c.Layers = make([]Layer, h.LayerCount)

	for i := range c.Layers {
		t := audio.layers
		c.Layers[i] = Layer{
			Index:    i,
			Segment:  idx.SegmentOf(i),
			Geometry: t.geometry[i],
			Config:   t.config[i],
			Codec:    t.codecs[i],
			DSP:      t.dsp[i],
			Data:     streams[i],
		}

		if !t.codecs[i].Known() {
			warn := &FormatError{Kind: ErrUnknownCodec, Offset: -1, Field: fmt.Sprintf("layer %d codec %s", i, t.config[i].CodecUUID)}
			c.Warnings = append(c.Warnings, warn)
			d.logger().Warn("unknown codec", "layer", i, "codec_id", fmt.Sprintf("0x%08x", t.codecs[i].ID()))
		}
	}

	return c, nil
}

// walkChunks visits the top-level chunks, parsing the audio header when it
// is reached and dispatching anything else to the registry.
func (d *Decoder) walkChunks(ctx context.Context, c *Container, body []byte) (*audioChunk, *Chunk, error) {
	var (
		audio *audioChunk
		data  *Chunk
	)

	w := NewChunkWalker(body, FileHeaderSize)

	for order := 0; ; order++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		ch, err := w.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, nil, err
		}

		switch ch.ID {
		case IDAudioHeader:
			if audio != nil {
				return nil, nil, formatErr(ErrUnexpectedChunk, ch.Offset, "duplicate audio header chunk")
			}

			audio, err = parseAudioChunk(ch)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to parse audio header: %w", err)
			}

			c.AudioHeader = audio.header
		case IDAudioData:
			if audio == nil {
				return nil, nil, formatErr(ErrUnexpectedChunk, ch.Offset, "data chunk before audio header")
			}

			if data != nil {
				return nil, nil, formatErr(ErrUnexpectedChunk, ch.Offset, "duplicate data chunk")
			}

			data = &ch
		case IDContainer:
			return nil, nil, formatErr(ErrUnexpectedChunk, ch.Offset, "nested container chunk")
		default:
			handled, err := d.Registry.Decode(c, ch)
			if err != nil {
				return nil, nil, err
			}

			if handled {
				continue
			}

			d.logger().Debug("preserving unknown chunk",
				"id", fmt.Sprintf("0x%08x", ch.ID),
				"offset", ch.Offset,
				"size", ch.Size)

			c.UnknownChunks = append(c.UnknownChunks, newRawChunk(ch, order, data == nil))
		}
	}

	if audio == nil {
		return nil, nil, formatErr(ErrUnexpectedChunk, w.Offset(), "missing audio header chunk")
	}

	if data == nil {
		return nil, nil, formatErr(ErrUnexpectedChunk, w.Offset(), "missing data chunk")
	}

	return audio, data, nil
}

func parseAudioChunk(ch Chunk) (*audioChunk, error) {
	base := ch.PayloadOffset()

	h, err := parseAudioHeader(ch.Payload, base)
	if err != nil {
		return nil, err
	}

	r := newRecordReader(ch.Payload[h.HeaderSize:], base+int(h.HeaderSize))

	segments, err := parseSegmentTable(r, h)
	if err != nil {
		return nil, err
	}

	layers, err := parseLayerTables(r, h)
	if err != nil {
		return nil, err
	}

	if r.remaining() != 0 {
		return nil, mismatchErr(ErrSizeMismatch, ch.Offset+4, "audio header chunk size",
			int64(h.TablesSize()), int64(len(ch.Payload)))
	}

	return &audioChunk{chunk: ch, header: h, segments: segments, layers: layers}, nil
}
