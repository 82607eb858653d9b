package world

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/config"
	"voxelterrain/internal/meshing"
	"voxelterrain/internal/profiling"
	"voxelterrain/internal/registry"
)

var (
	// ErrChunkNotLoaded is returned when an edit targets a slot whose chunk
	// has not been built yet.
	ErrChunkNotLoaded = errors.New("chunk not loaded")
	// ErrOutsideWorld is returned for positions beyond the world edges.
	ErrOutsideWorld = errors.New("position outside world")
)

// spawnDrop is how far below the chunk top the viewer spawns.
const spawnDrop = 50

// MeshObserver receives chunk geometry and visibility changes, typically to
// hand them to a renderer. Calls are made while the world is locked for
// writing, one at a time; an observer must not edit the world or reconcile
// from inside a callback.
type MeshObserver interface {
	MeshUpdated(c *Chunk)
	VisibilityChanged(c *Chunk)
}

// ReconcileResult counts the slot transitions of one streaming pass.
type ReconcileResult struct {
	Created     int
	Activated   int
	Deactivated int
}

func (r ReconcileResult) changed() bool {
	return r.Created+r.Activated+r.Deactivated > 0
}

type pendingEdit struct {
	pos mgl32.Vec3
	id  registry.BlockID
}

// World owns every chunk of a session and streams them around the viewer.
type World struct {
	cfg      *config.Config
	blocks   *registry.Registry
	gen      *Generator
	builder  *meshing.Builder
	store    *ChunkStore
	streamer *ChunkStreamer
	logger   *slog.Logger
	prof     *profiling.Recorder
	observer MeshObserver

	// writeMu serialises everything that changes chunk state: edits and
	// streaming passes.
	writeMu sync.Mutex

	// stateMu guards the viewer and the active set; they are written only
	// while writeMu is held too.
	stateMu   sync.RWMutex
	viewer    ChunkCoord
	hasViewer bool
	active    map[ChunkCoord]struct{}

	// streamFailed makes the next viewer check rerun the streaming pass
	// even when the viewer stayed in the same chunk.
	streamFailed bool

	pendingMu sync.Mutex
	pending   []pendingEdit
}

// Option configures optional World collaborators.
type Option func(*World)

// WithObserver registers the receiver of mesh and visibility changes.
func WithObserver(o MeshObserver) Option {
	return func(w *World) { w.observer = o }
}

// WithRecorder makes the world record timings into rec.
func WithRecorder(rec *profiling.Recorder) Option {
	return func(w *World) { w.prof = rec }
}

// New creates an empty world. No chunk is built until the first streaming
// pass. A nil logger falls back to slog.Default().
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	blocks, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	atlas, err := meshing.NewAtlas(cfg.AtlasSizeInBlocks)
	if err != nil {
		return nil, err
	}
	builder, err := meshing.NewBuilder(blocks, atlas)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &World{
		cfg:     cfg,
		blocks:  blocks,
		gen:     NewGenerator(cfg),
		builder: builder,
		store:   NewChunkStore(cfg.WorldSizeInChunks),
		logger:  logger,
		active:  make(map[ChunkCoord]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.streamer = NewChunkStreamer(cfg.Workers, func(coord ChunkCoord) (*Chunk, error) {
		return newChunk(w, coord)
	}, w.prof)
	w.viewer = w.chunkCoordOf(w.SpawnPosition())

	w.logger.Info("world created",
		"seed", cfg.Seed,
		"biome", cfg.Biome.Name,
		"size_chunks", cfg.WorldSizeInChunks,
		"view_distance", cfg.ViewDistance,
		"workers", cfg.Workers)
	return w, nil
}

// Close stops the chunk build workers.
func (w *World) Close() {
	w.streamer.Close()
}

// Config returns the configuration the world was created with.
func (w *World) Config() *config.Config { return w.cfg }

// Registry returns the block registry.
func (w *World) Registry() *registry.Registry { return w.blocks }

// Generator returns the terrain generator.
func (w *World) Generator() *Generator { return w.gen }

func (w *World) chunkCoordOf(pos mgl32.Vec3) ChunkCoord {
	return ChunkCoord{
		X: floorDiv(floor(pos.X()), w.cfg.ChunkWidth),
		Z: floorDiv(floor(pos.Z()), w.cfg.ChunkWidth),
	}
}

// ChunkCoordOf returns the coordinate of the chunk column containing pos.
func (w *World) ChunkCoordOf(pos mgl32.Vec3) ChunkCoord { return w.chunkCoordOf(pos) }

// ChunkAt returns the chunk containing pos, or nil when the slot is empty or
// pos is outside the world.
func (w *World) ChunkAt(pos mgl32.Vec3) *Chunk {
	return w.store.GetChunk(w.chunkCoordOf(pos))
}

// Chunk returns the chunk at coord, or nil.
func (w *World) Chunk(coord ChunkCoord) *Chunk {
	return w.store.GetChunk(coord)
}

// LoadedChunks returns how many slots hold a chunk.
func (w *World) LoadedChunks() int { return w.store.Len() }

// Chunks returns every loaded chunk ordered by X, then Z.
func (w *World) Chunks() []*Chunk { return w.store.AllChunks() }

// IsSolidAt reports whether the block containing pos is solid.
func (w *World) IsSolidAt(pos mgl32.Vec3) bool {
	return w.IsSolidBlock(floor(pos.X()), floor(pos.Y()), floor(pos.Z()))
}

// IsSolidBlock reports whether block (x, y, z) is solid. It serves as the
// mesh builder's neighbour lookup.
func (w *World) IsSolidBlock(x, y, z int) bool {
	return w.blocks.IsSolid(w.BlockAt(x, y, z))
}

// BlockAt returns the block at (x, y, z). A loaded, populated chunk answers
// from its grid; anywhere else the block is re-derived by the generator
// without building the chunk. Positions outside the world are air.
func (w *World) BlockAt(x, y, z int) registry.BlockID {
	if y < 0 || y >= w.cfg.ChunkHeight {
		return registry.BlockAir
	}
	coord := ChunkCoord{X: floorDiv(x, w.cfg.ChunkWidth), Z: floorDiv(z, w.cfg.ChunkWidth)}
	if !w.store.InWorld(coord) {
		return registry.BlockAir
	}
	if c := w.store.GetChunk(coord); c != nil {
		if id, ok := c.blockAt(x, y, z); ok {
			return id
		}
	}
	return w.gen.Classify(x, y, z)
}

// SurfaceHeight returns the Y of the highest solid block in column (x, z),
// or -1 when the column is empty.
func (w *World) SurfaceHeight(x, z int) int {
	for y := w.cfg.ChunkHeight - 1; y >= 0; y-- {
		if w.IsSolidBlock(x, y, z) {
			return y
		}
	}
	return -1
}

// SpawnPosition is the centre of the world, spawnDrop blocks below the top.
func (w *World) SpawnPosition() mgl32.Vec3 {
	half := float32(w.cfg.WorldSizeInVoxels()) / 2
	return mgl32.Vec3{half, float32(w.cfg.ChunkHeight - spawnDrop), half}
}

// Viewer returns the last chunk coordinate the viewer was seen in.
func (w *World) Viewer() ChunkCoord {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	return w.viewer
}

// ActiveChunks returns the active coordinates ordered by X, then Z.
func (w *World) ActiveChunks() []ChunkCoord {
	w.stateMu.RLock()
	out := make([]ChunkCoord, 0, len(w.active))
	for c := range w.active {
		out = append(out, c)
	}
	w.stateMu.RUnlock()
	slices.SortFunc(out, compareCoords)
	return out
}

func compareCoords(a, b ChunkCoord) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}

// OnViewerMoved records the viewer position and runs a streaming pass when
// the viewer entered another chunk, on the first call, or when the previous
// pass failed. It is cheap when the chunk is unchanged and is meant to run
// every tick.
func (w *World) OnViewerMoved(pos mgl32.Vec3) (ReconcileResult, bool, error) {
	coord := w.chunkCoordOf(pos)
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	if w.hasViewer && coord == w.viewer && !w.streamFailed {
		return ReconcileResult{}, false, nil
	}
	w.stateMu.Lock()
	w.viewer = coord
	w.hasViewer = true
	w.stateMu.Unlock()
	res, err := w.reconcileLocked()
	return res, true, err
}

// ReconcileViewDistance makes every in-world chunk within the view distance
// of the viewer's chunk (a square neighbourhood) loaded and active and
// deactivates every other active chunk. Repeating it without viewer movement
// changes nothing.
func (w *World) ReconcileViewDistance() (ReconcileResult, error) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return w.reconcileLocked()
}

func (w *World) reconcileLocked() (ReconcileResult, error) {
	defer w.prof.Track("world.Reconcile")()
	var res ReconcileResult
	d := w.cfg.ViewDistance
	c := w.viewer

	inView := make([]ChunkCoord, 0, (2*d+1)*(2*d+1))
	var missing []ChunkCoord
	for x := c.X - d; x <= c.X+d; x++ {
		for z := c.Z - d; z <= c.Z+d; z++ {
			coord := ChunkCoord{X: x, Z: z}
			if !w.store.InWorld(coord) {
				continue
			}
			inView = append(inView, coord)
			if !w.store.HasChunk(coord) {
				missing = append(missing, coord)
			}
		}
	}

	built, buildErr := w.streamer.BuildChunks(missing)
	for _, ch := range built {
		if ch == nil || !w.store.AddChunk(ch) {
			continue
		}
		res.Created++
		if w.observer != nil {
			w.observer.MeshUpdated(ch)
		}
	}

	next := make(map[ChunkCoord]struct{}, len(inView))
	for _, coord := range inView {
		ch := w.store.GetChunk(coord)
		if ch == nil {
			continue
		}
		next[coord] = struct{}{}
		if !ch.IsActive() {
			ch.SetActive(true)
			res.Activated++
		}
	}

	stale := make([]ChunkCoord, 0)
	for coord := range w.active {
		if _, ok := next[coord]; !ok {
			stale = append(stale, coord)
		}
	}
	slices.SortFunc(stale, compareCoords)
	for _, coord := range stale {
		if ch := w.store.GetChunk(coord); ch != nil && ch.IsActive() {
			ch.SetActive(false)
			res.Deactivated++
		}
	}
	w.stateMu.Lock()
	w.active = next
	w.stateMu.Unlock()

	if res.changed() {
		w.logger.Debug("view distance reconciled",
			"viewer_x", c.X, "viewer_z", c.Z,
			"created", res.Created,
			"activated", res.Activated,
			"deactivated", res.Deactivated,
			"loaded", w.store.Len())
	}
	w.streamFailed = buildErr != nil
	if buildErr != nil {
		return res, fmt.Errorf("reconcile around %d,%d: %w", c.X, c.Z, buildErr)
	}
	return res, nil
}

// Edit replaces the block at pos through the owning chunk.
func (w *World) Edit(pos mgl32.Vec3, id registry.BlockID) error {
	coord := w.chunkCoordOf(pos)
	if !w.store.InWorld(coord) {
		return fmt.Errorf("edit at %v: %w", pos, ErrOutsideWorld)
	}
	c := w.store.GetChunk(coord)
	if c == nil {
		return fmt.Errorf("edit at %v: chunk %d,%d: %w", pos, coord.X, coord.Z, ErrChunkNotLoaded)
	}
	return c.Edit(pos, id)
}

// QueueEdit defers an edit to the next Tick.
func (w *World) QueueEdit(pos mgl32.Vec3, id registry.BlockID) {
	w.pendingMu.Lock()
	w.pending = append(w.pending, pendingEdit{pos: pos, id: id})
	w.pendingMu.Unlock()
}

func (w *World) drainEdits() []pendingEdit {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	edits := w.pending
	w.pending = nil
	return edits
}

// Tick advances one frame: the viewer check, a streaming pass if the viewer
// changed chunk, then the queued edits in submission order. Every failure is
// logged here and returned joined, so callers need not log it again. Failed
// edits do not stop the remaining edits.
func (w *World) Tick(viewer mgl32.Vec3) error {
	start := time.Now()
	var errs []error

	if _, _, err := w.OnViewerMoved(viewer); err != nil {
		w.logger.Warn("streaming pass failed", "error", err)
		errs = append(errs, err)
	}
	for _, e := range w.drainEdits() {
		if err := w.Edit(e.pos, e.id); err != nil {
			w.logger.Warn("edit failed", "pos", e.pos, "block", e.id, "error", err)
			errs = append(errs, err)
		}
	}

	elapsed := time.Since(start)
	w.prof.Add("world.Tick", elapsed)
	if slow := w.cfg.SlowTick(); slow > 0 && elapsed > slow {
		w.logger.Warn("slow tick", "elapsed", elapsed, "top", w.prof.TopN(3))
	}
	return errors.Join(errs...)
}
