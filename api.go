package rws

import (
	"errors"
	"fmt"
)

var errLayerOutOfRange = errors.New("layer index out of range")

// Layer returns layer i.
func (c *Container) Layer(i int) (*Layer, error) {
	if c == nil || i < 0 || i >= len(c.Layers) {
		return nil, fmt.Errorf("%w: %d", errLayerOutOfRange, i)
	}

	return &c.Layers[i], nil
}

// LayersOf returns the layers of segment s in layer order.
func (c *Container) LayersOf(s int) []*Layer {
	if c == nil || c.Index == nil || s < 0 || s >= len(c.Index.Segments) {
		return nil
	}

	ranges := c.Index.Segments[s].Layers
	out := make([]*Layer, 0, len(ranges))

	for _, r := range ranges {
		out = append(out, &c.Layers[r.Layer])
	}

	return out
}

// Subsongs returns the number of addressable streams, one per layer.
func (c *Container) Subsongs() int {
	if c == nil {
		return 0
	}

	return len(c.Layers)
}

// Subsong returns stream n, counting from 1. Zero selects the first stream.
func (c *Container) Subsong(n int) (*Layer, error) {
	if n == 0 {
		n = 1
	}

	if n < 0 || n > c.Subsongs() {
		return nil, fmt.Errorf("invalid subsong %d of %d: %w", n, c.Subsongs(), errLayerOutOfRange)
	}

	return c.Layer(n - 1)
}

// RawChunks returns a copy of preserved non-core chunks.
func (c *Container) RawChunks() []RawChunk {
	if c == nil {
		return nil
	}

	return cloneRawChunks(c.UnknownChunks)
}
