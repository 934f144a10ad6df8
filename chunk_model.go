package rws

// RawChunk stores a non-core chunk for inspection or round-trip preservation.
type RawChunk struct {
	ID      uint32
	Version uint32
	// Size mirrors len(Data) for preserved chunks.
	Size uint32
	Data []byte
	// Offset is the absolute offset of the chunk header in the input.
	Offset int
	// Order is the chunk's position among all top-level chunks.
	Order int
	// BeforeData indicates if this chunk appeared before the data chunk.
	BeforeData bool
}

func (c RawChunk) Clone() RawChunk {
	out := c
	out.Data = append([]byte(nil), c.Data...)

	return out
}

func newRawChunk(ch Chunk, order int, beforeData bool) RawChunk {
	return RawChunk{
		ID:         ch.ID,
		Version:    ch.Version,
		Size:       ch.Size,
		Data:       append([]byte(nil), ch.Payload...),
		Offset:     ch.Offset,
		Order:      order,
		BeforeData: beforeData,
	}
}

func cloneRawChunks(chunks []RawChunk) []RawChunk {
	if len(chunks) == 0 {
		return nil
	}

	out := make([]RawChunk, len(chunks))
	for i := range chunks {
		out[i] = chunks[i].Clone()
	}

	return out
}
