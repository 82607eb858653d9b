package world

import (
	"sync"
)

// ChunkCoord identifies a chunk column. Block (x, z) belongs to chunk
// (floorDiv(x, width), floorDiv(z, width)).
type ChunkCoord struct {
	X, Z int
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ChunkStore is the fixed square array of chunk slots. A slot is empty until
// its chunk is built and is never cleared afterwards.
type ChunkStore struct {
	mu     sync.RWMutex
	size   int
	slots  []*Chunk // indexed by x*size + z
	loaded int
}

// NewChunkStore creates a store for a size×size chunk world.
func NewChunkStore(size int) *ChunkStore {
	return &ChunkStore{
		size:  size,
		slots: make([]*Chunk, size*size),
	}
}

// Size returns the world edge length in chunks.
func (cs *ChunkStore) Size() int { return cs.size }

// InWorld reports whether coord addresses a slot.
func (cs *ChunkStore) InWorld(coord ChunkCoord) bool {
	return coord.X >= 0 && coord.X < cs.size && coord.Z >= 0 && coord.Z < cs.size
}

// GetChunk returns the chunk at coord, or nil when the slot is empty or
// outside the world.
func (cs *ChunkStore) GetChunk(coord ChunkCoord) *Chunk {
	if !cs.InWorld(coord) {
		return nil
	}
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.slots[coord.X*cs.size+coord.Z]
}

// HasChunk checks if a slot is filled.
func (cs *ChunkStore) HasChunk(coord ChunkCoord) bool {
	return cs.GetChunk(coord) != nil
}

// AddChunk installs a fully built chunk. It returns false and leaves the
// store unchanged when the slot is already taken, so a coordinate keeps one
// chunk for the whole session.
func (cs *ChunkStore) AddChunk(c *Chunk) bool {
	if !cs.InWorld(c.coord) {
		return false
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	idx := c.coord.X*cs.size + c.coord.Z
	if cs.slots[idx] != nil {
		return false
	}
	cs.slots[idx] = c
	cs.loaded++
	return true
}

// Len returns the number of filled slots.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.loaded
}

// AllChunks returns every loaded chunk ordered by X, then Z.
func (cs *ChunkStore) AllChunks() []*Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]*Chunk, 0, cs.loaded)
	for _, c := range cs.slots {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
