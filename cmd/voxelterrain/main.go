package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/config"
	"voxelterrain/internal/physics"
	"voxelterrain/internal/preview"
	"voxelterrain/internal/profiling"
	"voxelterrain/internal/registry"
	"voxelterrain/internal/world"
)

const eyeHeight = 1.6

func main() {
	var (
		configPath   = flag.String("config", "", "YAML world config (defaults when empty)")
		seed         = flag.Int64("seed", 0, "world seed")
		viewDistance = flag.Int("view-distance", 0, "view distance in chunks")
		worldSize    = flag.Int("world-size", 0, "world edge length in chunks")
		biomeName    = flag.String("biome", "", "built-in biome profile (grasslands, hills, mountains, flats)")
		workers      = flag.Int("workers", 0, "chunk build workers")
		ticks        = flag.Int("ticks", 600, "ticks to simulate")
		dt           = flag.Duration("dt", 50*time.Millisecond, "simulated time per tick")
		speed        = flag.Float64("speed", 0.5, "viewer walking speed in blocks per tick")
		dig          = flag.Bool("dig", true, "dig the block the viewer looks at")
		logEvery     = flag.Int("log-every", 100, "log streaming stats every N ticks")
		previewPath  = flag.String("preview", "", "write a top-down PNG of the loaded area")
		previewScale = flag.Int("preview-scale", 4, "preview pixels per block column")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Error("load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// flags given on the command line override the file
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "view-distance":
			cfg.SetViewDistance(*viewDistance)
		case "world-size":
			cfg.WorldSizeInChunks = *worldSize
		case "workers":
			cfg.Workers = *workers
		case "biome":
			b, ok := world.BiomeByName(*biomeName)
			if !ok {
				flagErr = fmt.Errorf("unknown biome %q", *biomeName)
				return
			}
			cfg.Biome = b
		}
	})
	if flagErr != nil {
		log.Error("parse flags", "error", flagErr)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log, session{
		ticks:        *ticks,
		dt:           *dt,
		speed:        float32(*speed),
		dig:          *dig,
		logEvery:     max(*logEvery, 1),
		previewPath:  *previewPath,
		previewScale: *previewScale,
	}); err != nil {
		log.Error("session failed", "error", err)
		os.Exit(1)
	}
}

type session struct {
	ticks        int
	dt           time.Duration
	speed        float32
	dig          bool
	logEvery     int
	previewPath  string
	previewScale int
}

// meshStats counts what a renderer would be told about.
type meshStats struct {
	mu      sync.Mutex
	updates int
	shown   int
	hidden  int
}

func (s *meshStats) MeshUpdated(*world.Chunk) {
	s.mu.Lock()
	s.updates++
	s.mu.Unlock()
}

func (s *meshStats) VisibilityChanged(c *world.Chunk) {
	s.mu.Lock()
	if c.IsActive() {
		s.shown++
	} else {
		s.hidden++
	}
	s.mu.Unlock()
}

func (s *meshStats) snapshot() (updates, shown, hidden int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates, s.shown, s.hidden
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, s session) error {
	rec := profiling.NewRecorder()
	stats := &meshStats{}
	w, err := world.New(cfg, log, world.WithRecorder(rec), world.WithObserver(stats))
	if err != nil {
		return err
	}
	defer w.Close()

	pos := w.SpawnPosition()
	pos = standOnGround(pos, w)
	heading := mgl32.Vec3{1, 0, 0.5}.Normalize()
	look := mgl32.Vec3{heading.X(), -1, heading.Z()}.Normalize()
	var digger physics.Digger
	dug, failedTicks := 0, 0

	log.Info("session started", "spawn", pos, "ticks", s.ticks)
	start := time.Now()
	for tick := 0; tick < s.ticks; tick++ {
		if err := ctx.Err(); err != nil {
			log.Info("interrupted", "tick", tick)
			break
		}
		rec.Reset()

		pos = standOnGround(pos.Add(heading.Mul(s.speed)), w)

		if s.dig {
			eye := pos.Add(mgl32.Vec3{0, eyeHeight, 0})
			hit := physics.Raycast(eye, look, physics.ReachDistance, w)
			if hit.Hit {
				bt, err := w.Registry().Lookup(w.BlockAt(hit.HitPosition[0], hit.HitPosition[1], hit.HitPosition[2]))
				if err == nil && digger.Dig(hit.HitPosition, bt.DestroyTime, float32(s.dt.Seconds())) {
					w.QueueEdit(physics.BlockCenter(hit.HitPosition), registry.BlockAir)
					dug++
				}
			} else {
				digger.Reset()
			}
		}

		// Tick logs its own failures
		if err := w.Tick(pos); err != nil {
			failedTicks++
		}

		if tick%s.logEvery == 0 {
			updates, shown, hidden := stats.snapshot()
			log.Info("streaming",
				"tick", tick,
				"viewer", w.Viewer(),
				"loaded", w.LoadedChunks(),
				"active", len(w.ActiveChunks()),
				"mesh_updates", updates,
				"shown", shown,
				"hidden", hidden,
				"dug", dug,
				"failed_ticks", failedTicks,
				"top", rec.TopN(3))
		}
	}

	var vertices, quads int
	for _, c := range w.Chunks() {
		m := c.Mesh()
		vertices += m.VertexCount()
		quads += m.QuadCount()
	}
	log.Info("session finished",
		"elapsed", time.Since(start),
		"loaded", w.LoadedChunks(),
		"vertices", vertices,
		"quads", quads,
		"dug", dug,
		"failed_ticks", failedTicks)

	if s.previewPath != "" {
		return writePreview(ctx, w, s, log)
	}
	return nil
}

// standOnGround puts pos on the surface of its column.
func standOnGround(pos mgl32.Vec3, w *world.World) mgl32.Vec3 {
	top := mgl32.Vec3{pos.X(), float32(w.Config().ChunkHeight - 1), pos.Z()}
	if y, ok := physics.GroundLevel(top, w); ok {
		pos[1] = y
	}
	return pos
}

func writePreview(ctx context.Context, w *world.World, s session, log *slog.Logger) error {
	active := w.ActiveChunks()
	if len(active) == 0 {
		log.Warn("no active chunks, preview skipped")
		return nil
	}
	width := w.Config().ChunkWidth
	area := image.Rect(active[0].X*width, active[0].Z*width, active[0].X*width, active[0].Z*width)
	for _, c := range active {
		area = area.Union(image.Rect(c.X*width, c.Z*width, (c.X+1)*width, (c.Z+1)*width))
	}

	cfg := w.Config()
	img, err := preview.Render(ctx, w, area, preview.Options{
		Scale:   s.previewScale,
		Workers: cfg.Workers,
		Caption: fmt.Sprintf("seed %d %s", cfg.Seed, cfg.Biome.Name),
		MinY:    cfg.Biome.SolidGroundHeight,
		MaxY:    cfg.Biome.SolidGroundHeight + max(cfg.Biome.TerrainHeight, 1),
	})
	if err != nil {
		return err
	}

	f, err := os.Create(s.previewPath)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close preview: %w", err)
	}
	log.Info("preview written", "path", s.previewPath, "area", area, "size", img.Bounds().Size())
	return nil
}
