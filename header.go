package rws

import (
	"bytes"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// FileHeaderSize is the size of the top-level container header.
	FileHeaderSize = 12
	// AudioHeaderPreambleSize is the fixed part of the audio-header payload.
	AudioHeaderPreambleSize = 76
	// NameAlignment is the boundary the container name is padded to.
	NameAlignment = 16
	// AudioHeaderConfigWords is the number of opaque preamble words.
	AudioHeaderConfigWords = 7
)

// ContainerHeader is the top-level file descriptor. FileSize excludes the
// 12-byte header itself.
type ContainerHeader struct {
	ID       uint32
	FileSize uint32
	Version  uint32
}

// AudioHeader holds the audio-header preamble and the container name.
type AudioHeader struct {
	HeaderSize       uint32
	SegmentTableSize uint32
	LayerTableSize   uint32
	DataSize         uint32
	SegmentCount     uint32
	LayerCount       uint32
	BlockLayersSize  uint32
	DataOffset       uint32
	// Config words are kept verbatim; their meaning is not known.
	Config   [AudioHeaderConfigWords]uint32
	FileUUID uuid.UUID
	Name     string
	// NamePadded is the on-disk length of the name field, terminator and
	// padding included.
	NamePadded int
}

// TablesSize returns the number of payload bytes the audio-header chunk
// must hold for the declared sections.
func (h *AudioHeader) TablesSize() uint64 {
	return uint64(h.HeaderSize) + uint64(h.SegmentTableSize) + uint64(h.LayerTableSize) + uint64(h.BlockLayersSize)
}

func parseContainerHeader(buf []byte) (ContainerHeader, error) {
	if len(buf) < FileHeaderSize {
		return ContainerHeader{}, mismatchErr(ErrTruncatedStream, 0, "file header", FileHeaderSize, int64(len(buf)))
	}

	hdr := ContainerHeader{
		ID:       u32(buf, 0),
		FileSize: u32(buf, 4),
		Version:  u32(buf, 8),
	}

	if hdr.ID != IDContainer {
		return hdr, mismatchErr(ErrBadMagic, 0, "container id", int64(IDContainer), int64(hdr.ID))
	}

	remaining := uint64(len(buf) - FileHeaderSize)

	switch {
	case uint64(hdr.FileSize) > remaining:
		return hdr, mismatchErr(ErrTruncatedStream, 4, "file size", int64(hdr.FileSize), int64(remaining))
	case uint64(hdr.FileSize) < remaining:
		return hdr, mismatchErr(ErrSizeMismatch, 4, "file size", int64(hdr.FileSize), int64(remaining))
	}

	return hdr, nil
}

// parseAudioHeader reads the preamble and padded name from the start of the
// audio-header chunk payload. base is the absolute offset of payload[0].
func parseAudioHeader(payload []byte, base int) (*AudioHeader, error) {
	r := newRecordReader(payload, base)

	rec, err := r.record(AudioHeaderPreambleSize, "audio header preamble")
	if err != nil {
		return nil, err
	}

	h := &AudioHeader{
		HeaderSize:       u32(rec, 0x00),
		SegmentTableSize: u32(rec, 0x04),
		LayerTableSize:   u32(rec, 0x08),
		DataSize:         u32(rec, 0x0c),
		SegmentCount:     u32(rec, 0x18),
		LayerCount:       u32(rec, 0x1c),
		BlockLayersSize:  u32(rec, 0x34),
		DataOffset:       u32(rec, 0x38),
	}
	h.Config[0] = u32(rec, 0x10)
	h.Config[1] = u32(rec, 0x14)
	u32s(h.Config[2:], rec, 0x20)
	copy(h.FileUUID[:], rec[0x3c:0x4c])

	if h.HeaderSize < AudioHeaderPreambleSize {
		return nil, mismatchErr(ErrSizeMismatch, base, "header size", AudioHeaderPreambleSize, int64(h.HeaderSize))
	}

	name, padded, err := readPaddedName(r, int(h.HeaderSize)-AudioHeaderPreambleSize)
	if err != nil {
		return nil, err
	}

	h.Name = name
	h.NamePadded = padded

	if consumed := AudioHeaderPreambleSize + padded; int64(consumed) != int64(h.HeaderSize) {
		return nil, mismatchErr(ErrSizeMismatch, base, "header size", int64(consumed), int64(h.HeaderSize))
	}

	return h, nil
}

// readPaddedName scans for the NUL terminator within maxLen bytes and skips
// to the next NameAlignment boundary past it.
func readPaddedName(r *recordReader, maxLen int) (string, int, error) {
	start := r.offset()
	window := r.buf[r.pos:]

	if maxLen < len(window) {
		window = window[:maxLen]
	}

	n := bytes.IndexByte(window, 0)
	if n < 0 {
		return "", 0, formatErr(ErrBadNameEncoding, start, "name is not terminated")
	}

	if !utf8.Valid(window[:n]) {
		return "", 0, formatErr(ErrBadNameEncoding, start, "name is not valid UTF-8")
	}

	name := string(window[:n])
	padded := alignUp(n+1, NameAlignment)

	if _, err := r.record(padded, "name padding"); err != nil {
		return "", 0, err
	}

	return name, padded, nil
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
