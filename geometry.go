package rws

import (
	"fmt"
	"sort"
)

// LayerRange locates one layer's padded stream inside the data payload.
// Offset is relative to the start of the data chunk payload.
type LayerRange struct {
	Layer        int
	Offset       uint64
	Length       uint64
	Interleave   uint32
	BlockSize    uint32
	BlockSizePad uint32
	Blocks       uint64
}

// End returns the offset one past the range.
func (r LayerRange) End() uint64 {
	return r.Offset + r.Length
}

// SegmentIndex lists the layers resolved for one segment.
type SegmentIndex struct {
	Segment     int
	Offset      uint64
	Size        uint64
	Interleaved bool
	// Unit is the stride size of an interleaved segment.
	Unit   uint32
	Layers []LayerRange
}

// Index is the resolved geometry of a container, one entry per segment.
type Index struct {
	Segments []SegmentIndex
	// owner maps a layer index to its segment.
	owner []int
}

// SegmentOf returns the segment owning layer i, or -1.
func (x *Index) SegmentOf(i int) int {
	if x == nil || i < 0 || i >= len(x.owner) {
		return -1
	}

	return x.owner[i]
}

// blockCount returns how many padded blocks a layer occupies.
func blockCount(g LayerGeometry, c LayerConfig) uint64 {
	if c.ApproxSize == 0 {
		return 0
	}

	return (uint64(c.ApproxSize) + uint64(g.BlockSize) - 1) / uint64(g.BlockSize)
}

// interleaved reports whether a layer's blocks alternate with other layers
// in strides smaller than a block.
func interleaved(g LayerGeometry) bool {
	return g.Interleave > 0 && uint32(g.Interleave) < g.BlockSize
}

func geometryErr(field string, args ...any) *FormatError {
	return formatErr(ErrGeometryOverflow, -1, fmt.Sprintf(field, args...))
}

// resolveGeometry groups layers into segments and checks that every segment is
// exactly partitioned by its layers and lies within the data payload.
func resolveGeometry(segments []SegmentRecord, geoms []LayerGeometry, cfgs []LayerConfig, dataSize uint32) (*Index, error) {
	if err := checkSegmentRegions(segments, dataSize); err != nil {
		return nil, err
	}

	idx := &Index{
		Segments: make([]SegmentIndex, len(segments)),
		owner:    make([]int, len(geoms)),
	}

	for i, seg := range segments {
		idx.Segments[i] = SegmentIndex{Segment: i, Offset: uint64(seg.DataOffset), Size: uint64(seg.LayersSize)}
	}

	cur := 0
	used := uint64(0)

	for i := range geoms {
		g, c := geoms[i], cfgs[i]

		if g.BlockSize > g.BlockSizePad {
			return nil, geometryErr("layer %d block size %d exceeds padded block size %d", i, g.BlockSize, g.BlockSizePad)
		}

		if g.BlockSize == 0 && c.ApproxSize > 0 {
			return nil, geometryErr("layer %d has data but a zero block size", i)
		}

		blocks := blockCount(g, c)
		span := blocks * uint64(g.BlockSizePad)

		// Move on once the current segment is exactly full.
		for cur < len(segments) && len(idx.Segments[cur].Layers) > 0 && used == idx.Segments[cur].Size {
			cur++
			used = 0
		}

		if cur == len(segments) {
			return nil, geometryErr("layer %d does not fit any segment", i)
		}

		si := &idx.Segments[cur]
		if used+span > si.Size {
			return nil, geometryErr("layer %d (%d bytes) overruns segment %d (%d of %d bytes used)", i, span, cur, used, si.Size)
		}

		pos := len(si.Layers)
		if pos == 0 {
			si.Interleaved = interleaved(g)
			if si.Interleaved {
				si.Unit = uint32(g.Interleave)
			}
		}

		if err := checkLayerStart(si, g, i, pos, used, span); err != nil {
			return nil, err
		}

		rng := LayerRange{
			Layer:        i,
			Offset:       si.Offset + uint64(g.LayerStart),
			Length:       span,
			Interleave:   uint32(g.Interleave),
			BlockSize:    g.BlockSize,
			BlockSizePad: g.BlockSizePad,
			Blocks:       blocks,
		}

		if rng.End() > uint64(dataSize) {
			return nil, geometryErr("layer %d range [%d, %d) exceeds data size %d", i, rng.Offset, rng.End(), dataSize)
		}

		si.Layers = append(si.Layers, rng)
		idx.owner[i] = cur
		used += span
	}

	for i := range idx.Segments {
		si := &idx.Segments[i]
		if len(si.Layers) == 0 {
			return nil, geometryErr("segment %d has no layers", i)
		}

		var total uint64
		for _, l := range si.Layers {
			total += l.Length
		}

		if total != si.Size {
			return nil, geometryErr("layers of segment %d cover %d of %d bytes", i, total, si.Size)
		}
	}

	return idx, nil
}

func checkLayerStart(si *SegmentIndex, g LayerGeometry, layer, pos int, used, span uint64) error {
	if interleaved(g) != si.Interleaved || (si.Interleaved && uint32(g.Interleave) != si.Unit) {
		return geometryErr("layer %d interleave %d does not match segment %d", layer, g.Interleave, si.Segment)
	}

	if !si.Interleaved {
		if uint64(g.LayerStart) != used {
			return geometryErr("layer %d starts at %d, expected %d in segment %d", layer, g.LayerStart, used, si.Segment)
		}

		return nil
	}

	unit := uint64(si.Unit)
	if span == 0 || span%unit != 0 {
		return geometryErr("layer %d span %d is not a positive multiple of interleave %d", layer, span, unit)
	}

	if want := uint64(pos) * unit; uint64(g.LayerStart) != want {
		return geometryErr("layer %d starts at %d, expected %d in interleaved segment %d", layer, g.LayerStart, want, si.Segment)
	}

	return nil
}

// checkSegmentRegions rejects segment regions outside the data payload or
// overlapping each other.
func checkSegmentRegions(segments []SegmentRecord, dataSize uint32) error {
	order := make([]int, len(segments))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return segments[order[a]].DataOffset < segments[order[b]].DataOffset
	})

	var prevEnd uint64

	for n, i := range order {
		seg := segments[i]
		if seg.End() > uint64(dataSize) {
			return geometryErr("segment %d region [%d, %d) exceeds data size %d", i, seg.DataOffset, seg.End(), dataSize)
		}

		if n > 0 && uint64(seg.DataOffset) < prevEnd {
			return geometryErr("segment %d overlaps segment %d", i, order[n-1])
		}

		prevEnd = seg.End()
	}

	return nil
}
