// Package rwstest builds small RWS containers for tests outside the rws
// package. Every layer gets its own segment and is stored contiguously
// without block padding.
package rwstest

import (
	"encoding/binary"
)

// Codec ids accepted by Layer.Codec.
const (
	CodecPCM16   uint32 = 0xd01bd217
	CodecDSP     uint32 = 0xf86215b0
	CodecXboxIMA uint32 = 0x632fa22b
)

const (
	preambleSize  = 76
	segmentSize   = 32
	geometrySize  = 40
	configSize    = 44
	extensionSize = 92
)

// Layer is one substream of a built container.
type Layer struct {
	Codec      uint32
	SampleRate uint32
	Channels   uint8
	// FrameSize is written verbatim to the geometry record.
	FrameSize uint16
	Data      []byte
}

func le32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func le16(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

// Build returns a complete container named name holding layers.
func Build(name string, layers ...Layer) []byte {
	namePadded := (len(name) + 1 + 15) / 16 * 16

	var data []byte
	dsp := 0

	for _, l := range layers {
		data = append(data, l.Data...)
		if l.Codec == CodecDSP {
			dsp++
		}
	}

	n := uint32(len(layers))
	payloadLen := preambleSize + namePadded + len(layers)*(segmentSize+geometrySize+configSize) + dsp*extensionSize

	var p []byte
	p = le32(p, uint32(preambleSize+namePadded))
	p = le32(p, n*segmentSize)
	p = le32(p, n*(geometrySize+configSize))
	p = le32(p, uint32(len(data)))
	p = append(p, make([]byte, 8)...)
	p = le32(p, n)
	p = le32(p, n)
	p = append(p, make([]byte, 20)...)
	p = le32(p, uint32(dsp*extensionSize))
	p = le32(p, uint32(12+12+payloadLen+12))
	p = append(p, make([]byte, 16)...)

	nameField := make([]byte, namePadded)
	copy(nameField, name)
	p = append(p, nameField...)

	offset := uint32(0)
	for _, l := range layers {
		p = append(p, make([]byte, 24)...)
		p = le32(p, uint32(len(l.Data)))
		p = le32(p, offset)
		offset += uint32(len(l.Data))
	}

	for _, l := range layers {
		size := uint32(len(l.Data))
		p = append(p, make([]byte, 16)...)
		p = le32(p, size)
		p = append(p, make([]byte, 4)...)
		p = le16(p, 0)
		p = le16(p, l.FrameSize)
		p = append(p, make([]byte, 4)...)
		p = le32(p, size)
		p = le32(p, 0)
	}

	for _, l := range layers {
		p = le32(p, l.SampleRate)
		p = le32(p, uint32(len(l.Data)))
		p = le32(p, 0)
		p = append(p, 16, l.Channels)
		p = append(p, make([]byte, 14)...)
		p = le32(p, l.Codec)
		p = append(p, make([]byte, 12)...)
	}

	for _, l := range layers {
		if l.Codec == CodecDSP {
			p = append(p, make([]byte, extensionSize)...)
		}
	}

	var body []byte
	body = le32(body, 0x80e)
	body = le32(body, uint32(len(p)))
	body = le32(body, 0)
	body = append(body, p...)
	body = le32(body, 0x80f)
	body = le32(body, uint32(len(data)))
	body = le32(body, 0)
	body = append(body, data...)

	var out []byte
	out = le32(out, 0x80d)
	out = le32(out, uint32(len(body)))
	out = le32(out, 0)

	return append(out, body...)
}
