package rws

import (
	"errors"
	"testing"
)

func TestContainerSubsongs(t *testing.T) {
	c := decodeOrFatal(t, interleavedFile(3, 16, 1, 32, 32, false).bytes())

	if c.Subsongs() != 3 {
		t.Fatalf("expected 3 subsongs, got %d", c.Subsongs())
	}

	first, err := c.Subsong(0)
	if err != nil {
		t.Fatalf("subsong 0: %v", err)
	}

	if first.Index != 0 {
		t.Fatalf("subsong 0 should select the first layer, got %d", first.Index)
	}

	last, err := c.Subsong(3)
	if err != nil {
		t.Fatalf("subsong 3: %v", err)
	}

	if last.Index != 2 {
		t.Fatalf("subsong 3 mismatch: %d", last.Index)
	}

	for _, n := range []int{-1, 4} {
		if _, err := c.Subsong(n); !errors.Is(err, errLayerOutOfRange) {
			t.Fatalf("subsong %d: expected out of range, got %v", n, err)
		}
	}
}

func TestContainerLayerAccess(t *testing.T) {
	c := decodeOrFatal(t, singleLayerFile(codecIDPCM16, 1, 16, 16).bytes())

	l, err := c.Layer(0)
	if err != nil {
		t.Fatalf("layer 0: %v", err)
	}

	if l != &c.Layers[0] {
		t.Fatal("expected Layer to return a pointer into the container")
	}

	if _, err := c.Layer(1); !errors.Is(err, errLayerOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}

	if c.LayersOf(1) != nil || c.LayersOf(-1) != nil {
		t.Fatal("expected no layers for a missing segment")
	}
}

func TestNilContainer(t *testing.T) {
	var c *Container

	if c.Subsongs() != 0 || c.Name() != "" || c.RawChunks() != nil || c.LayersOf(0) != nil {
		t.Fatal("nil container should be empty")
	}

	if _, err := c.Subsong(1); err == nil {
		t.Fatal("expected an error for a nil container")
	}
}
