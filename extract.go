package rws

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// extractLayers produces the unpadded stream of every layer in the index.
// Segments are processed concurrently; each task writes only the slots of
// its own layers.
func extractLayers(ctx context.Context, idx *Index, data []byte, layerCount, workers int) ([][]byte, error) {
	out := make([][]byte, layerCount)

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := range idx.Segments {
		si := &idx.Segments[i]

		if err := gctx.Err(); err != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			extractSegment(si, data, out)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Cancellation may have stopped scheduling without any task failing.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func extractSegment(si *SegmentIndex, data []byte, out [][]byte) {
	if !si.Interleaved {
		for _, l := range si.Layers {
			out[l.Layer] = stripPadding(data[l.Offset:l.End():l.End()], l)
		}

		return
	}

	padded := deinterleave(si, data)
	for k, l := range si.Layers {
		out[l.Layer] = stripPadding(padded[k], l)
	}
}

// deinterleave walks the segment region in unit strides, handing strides to
// the segment's layers in round-robin order until each layer is complete.
func deinterleave(si *SegmentIndex, data []byte) [][]byte {
	unit := uint64(si.Unit)
	bufs := make([][]byte, len(si.Layers))
	left := make([]uint64, len(si.Layers))
	active := 0

	for k, l := range si.Layers {
		bufs[k] = make([]byte, 0, l.Length)
		left[k] = l.Length

		if l.Length > 0 {
			active++
		}
	}

	pos := si.Offset
	for active > 0 {
		for k := range si.Layers {
			if left[k] == 0 {
				continue
			}

			bufs[k] = append(bufs[k], data[pos:pos+unit]...)
			pos += unit

			left[k] -= unit
			if left[k] == 0 {
				active--
			}
		}
	}

	return bufs
}

// stripPadding keeps the first BlockSize bytes of every padded block. An
// unpadded stream is returned as is.
func stripPadding(padded []byte, l LayerRange) []byte {
	if l.BlockSize == l.BlockSizePad {
		return padded
	}

	pad := uint64(l.BlockSizePad)
	out := make([]byte, 0, l.Blocks*uint64(l.BlockSize))

	for b := uint64(0); b < l.Blocks; b++ {
		start := b * pad
		out = append(out, padded[start:start+uint64(l.BlockSize)]...)
	}

	return out
}
