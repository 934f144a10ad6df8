package rwstest_test

import (
	"bytes"
	"testing"

	"github.com/cwbudde/rws"
	"github.com/cwbudde/rws/internal/rwstest"
)

func TestBuildDecodes(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dsp := bytes.Repeat([]byte{0xaa}, 16)

	buf := rwstest.Build("jingle",
		rwstest.Layer{Codec: rwstest.CodecPCM16, SampleRate: 48000, Channels: 2, Data: pcm},
		rwstest.Layer{Codec: rwstest.CodecDSP, SampleRate: 32000, Channels: 1, Data: dsp},
	)

	c, err := rws.Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if c.Name() != "jingle" || len(c.Layers) != 2 || len(c.Segments) != 2 {
		t.Fatalf("container mismatch: %q %d layers %d segments", c.Name(), len(c.Layers), len(c.Segments))
	}

	if !bytes.Equal(c.Layers[0].Data, pcm) || !bytes.Equal(c.Layers[1].Data, dsp) {
		t.Fatal("layer data mismatch")
	}

	if c.Layers[1].DSP == nil || c.Layers[1].Segment != 1 {
		t.Fatalf("layer 1 mismatch: %+v", c.Layers[1])
	}
}
