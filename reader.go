package rws

import "encoding/binary"

// recordReader hands out fixed-width records from a byte slice. base is the
// absolute offset of buf[0] in the input and is only used for diagnostics.
type recordReader struct {
	buf  []byte
	pos  int
	base int
}

func newRecordReader(buf []byte, base int) *recordReader {
	return &recordReader{buf: buf, base: base}
}

func (r *recordReader) offset() int {
	return r.base + r.pos
}

func (r *recordReader) remaining() int {
	return len(r.buf) - r.pos
}

// record returns the next n bytes and advances past them.
func (r *recordReader) record(n int, field string) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, mismatchErr(ErrTruncatedStream, r.offset(), field, int64(n), int64(r.remaining()))
	}

	rec := r.buf[r.pos : r.pos+n : r.pos+n]
	r.pos += n

	return rec, nil
}

func u16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

func u32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func i16s(dst []int16, b []byte, off int) {
	for i := range dst {
		dst[i] = int16(u16(b, off+2*i))
	}
}

func u32s(dst []uint32, b []byte, off int) {
	for i := range dst {
		dst[i] = u32(b, off+4*i)
	}
}
