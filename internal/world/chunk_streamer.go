package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/alitto/pond/v2"

	"voxelterrain/internal/profiling"
)

// ErrClosed is returned by a streamer whose pool has been stopped.
var ErrClosed = errors.New("chunk streamer closed")

// buildFunc populates and meshes one chunk without installing it.
type buildFunc func(coord ChunkCoord) (*Chunk, error)

// ChunkStreamer builds batches of chunks on a bounded worker pool.
type ChunkStreamer struct {
	pool  pond.Pool
	build buildFunc
	prof  *profiling.Recorder

	mu     sync.Mutex
	closed bool
}

// NewChunkStreamer creates a streamer running at most workers builds at once.
func NewChunkStreamer(workers int, build buildFunc, prof *profiling.Recorder) *ChunkStreamer {
	return &ChunkStreamer{
		pool:  pond.NewPool(max(workers, 1)),
		build: build,
		prof:  prof,
	}
}

// Close stops the worker pool after in-flight builds finish.
func (cs *ChunkStreamer) Close() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.closed {
		return
	}
	cs.closed = true
	cs.pool.StopAndWait()
}

// BuildChunks builds every coordinate concurrently and waits for all of them.
// The result is index-aligned with coords; failed builds leave a nil entry and
// their errors are joined.
func (cs *ChunkStreamer) BuildChunks(coords []ChunkCoord) ([]*Chunk, error) {
	defer cs.prof.Track("world.BuildChunks")()
	out := make([]*Chunk, len(coords))
	if len(coords) == 0 {
		return out, nil
	}

	cs.mu.Lock()
	if cs.closed {
		cs.mu.Unlock()
		return out, ErrClosed
	}
	tasks := make([]pond.Task, len(coords))
	for i, coord := range coords {
		i, coord := i, coord
		tasks[i] = cs.pool.SubmitErr(func() error {
			defer cs.prof.Track("chunk.Build")()
			c, err := cs.build(coord)
			if err != nil {
				return fmt.Errorf("build chunk %d,%d: %w", coord.X, coord.Z, err)
			}
			out[i] = c
			return nil
		})
	}
	cs.mu.Unlock()

	var errs []error
	for _, t := range tasks {
		if err := t.Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}
