package rws

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// Chunk ids used by RWS audio containers.
const (
	IDContainer   uint32 = 0x0000080d
	IDAudioHeader uint32 = 0x0000080e
	IDAudioData   uint32 = 0x0000080f
)

// ChunkHeaderSize is the size of a chunk header: id, payload size, version.
const ChunkHeaderSize = 12

// Chunk is a tagged, sized and versioned span of the input. Payload borrows
// from the decoded buffer.
type Chunk struct {
	ID      uint32
	Size    uint32
	Version uint32
	Payload []byte
	// Offset is the absolute offset of the chunk header in the input.
	Offset int
}

// PayloadOffset returns the absolute offset of the first payload byte.
func (c Chunk) PayloadOffset() int {
	return c.Offset + ChunkHeaderSize
}

func (c Chunk) String() string {
	return fmt.Sprintf("chunk 0x%08x (%d bytes, version 0x%08x)", c.ID, c.Size, c.Version)
}

// ChunkWalker iterates a sequence of chunks laid out back to back.
type ChunkWalker struct {
	buf  []byte
	base int
	pos  int

	// hdr and parser read the id and size of each chunk header.
	hdr    *bytes.Reader
	parser *riff.Parser
}

// NewChunkWalker returns a walker positioned at buf[0]. base is the absolute
// offset of buf[0] in the original input.
func NewChunkWalker(buf []byte, base int) *ChunkWalker {
	hdr := bytes.NewReader(nil)

	return &ChunkWalker{buf: buf, base: base, hdr: hdr, parser: riff.New(hdr)}
}

// Reset moves the walker back to the first chunk.
func (w *ChunkWalker) Reset() {
	w.pos = 0
}

// Offset returns the absolute offset of the next chunk header.
func (w *ChunkWalker) Offset() int {
	return w.base + w.pos
}

// Next returns the next chunk, or io.EOF once the buffer is exhausted.
func (w *ChunkWalker) Next() (Chunk, error) {
	remaining := len(w.buf) - w.pos
	if remaining == 0 {
		return Chunk{}, io.EOF
	}

	if remaining < ChunkHeaderSize {
		return Chunk{}, mismatchErr(ErrTruncatedStream, w.Offset(), "chunk header", ChunkHeaderSize, int64(remaining))
	}

	hdr := w.buf[w.pos : w.pos+ChunkHeaderSize]

	w.hdr.Reset(hdr)

	id, size, err := w.parser.IDnSize()
	if err != nil {
		return Chunk{}, fmt.Errorf("failed to read chunk id and size: %w", err)
	}

	chnk := Chunk{
		ID:      binary.LittleEndian.Uint32(id[:]),
		Size:    size,
		Version: u32(hdr, 8),
		Offset:  w.Offset(),
	}

	start := w.pos + ChunkHeaderSize
	if uint64(size) > uint64(len(w.buf)-start) {
		return Chunk{}, mismatchErr(ErrTruncatedStream, chnk.Offset, fmt.Sprintf("chunk 0x%08x payload", chnk.ID),
			int64(size), int64(len(w.buf)-start))
	}

	end := start + int(size)
	chnk.Payload = w.buf[start:end:end]
	w.pos = end

	return chnk, nil
}
