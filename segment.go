package rws

import "math"

// SegmentRecordSize is the size of one segment table record.
const SegmentRecordSize = 32

// SegmentRecord describes one segment: a region of the data chunk shared by a
// contiguous run of layers.
type SegmentRecord struct {
	// Opaque words are preserved verbatim.
	Opaque [6]uint32
	// LayersSize is the padded byte span of all layers of the segment.
	LayersSize uint32
	// DataOffset is relative to the start of the data chunk payload.
	DataOffset uint32
}

// End returns the offset one past the segment region.
func (s SegmentRecord) End() uint64 {
	return uint64(s.DataOffset) + uint64(s.LayersSize)
}

func parseSegmentTable(r *recordReader, h *AudioHeader) ([]SegmentRecord, error) {
	want := uint64(h.SegmentCount) * SegmentRecordSize
	if want != uint64(h.SegmentTableSize) {
		return nil, mismatchErr(ErrSizeMismatch, r.offset(), "segment table size", int64(want), int64(h.SegmentTableSize))
	}

	if want > uint64(r.remaining()) {
		return nil, mismatchErr(ErrTruncatedStream, r.offset(), "segment table", int64(want), int64(r.remaining()))
	}

	segments := make([]SegmentRecord, h.SegmentCount)
	for i := range segments {
		off := r.offset()

		rec, err := r.record(SegmentRecordSize, "segment record")
		if err != nil {
			return nil, err
		}

		seg := &segments[i]
		u32s(seg.Opaque[:], rec, 0)
		seg.LayersSize = u32(rec, 0x18)
		seg.DataOffset = u32(rec, 0x1c)

		if seg.End() > math.MaxUint32 {
			return nil, mismatchErr(ErrGeometryOverflow, off+0x18, "segment offset + layers size", math.MaxUint32, int64(seg.End()))
		}
	}

	return segments, nil
}
