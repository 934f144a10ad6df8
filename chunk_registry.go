package rws

import "fmt"

// ChunkHandler interprets a non-core top-level chunk. Handlers only see
// chunks other than the audio header and data chunks.
type ChunkHandler interface {
	CanHandle(chunkID uint32) bool
	Decode(c *Container, ch Chunk) error
}

// ChunkRegistry resolves chunks to handlers.
type ChunkRegistry struct {
	handlers []ChunkHandler
}

// NewChunkRegistry returns a registry holding the passed handlers.
func NewChunkRegistry(handlers ...ChunkHandler) *ChunkRegistry {
	r := &ChunkRegistry{}
	for _, h := range handlers {
		r.Register(h)
	}

	return r
}

// Register appends a handler to the registry.
func (r *ChunkRegistry) Register(handler ChunkHandler) {
	if r == nil || handler == nil {
		return
	}

	r.handlers = append(r.handlers, handler)
}

// Decode dispatches a chunk to the first matching handler.
func (r *ChunkRegistry) Decode(c *Container, ch Chunk) (bool, error) {
	if r == nil {
		return false, nil
	}

	for _, handler := range r.handlers {
		if !handler.CanHandle(ch.ID) {
			continue
		}

		if err := handler.Decode(c, ch); err != nil {
			return true, fmt.Errorf("chunk handler decode failed for %s: %w", ch, err)
		}

		return true, nil
	}

	return false, nil
}
