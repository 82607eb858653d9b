// Package preview renders a top-down colour map of the terrain surface.
package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"runtime"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"

	"voxelterrain/internal/registry"
)

var (
	// ErrEmptyArea is returned for an area without columns.
	ErrEmptyArea = errors.New("preview area is empty")
	// ErrHeightRange is returned when MaxY is not above MinY.
	ErrHeightRange = errors.New("preview height range is empty")
)

// Terrain is the read side of a world the preview needs. *world.World
// implements it.
type Terrain interface {
	SurfaceHeight(x, z int) int
	BlockAt(x, y, z int) registry.BlockID
}

// Options control the output image.
type Options struct {
	Scale   int    // pixels per block column, at least 1
	Workers int    // concurrent row renderers, 0 means GOMAXPROCS
	Caption string // drawn in the top-left corner when set
	MinY    int    // surface height drawn darkest
	MaxY    int    // surface height drawn brightest, must be above MinY
}

var blockColors = map[registry.BlockID]color.RGBA{
	registry.BlockBedrock:     {40, 40, 40, 255},
	registry.BlockStone:       {125, 125, 125, 255},
	registry.BlockDirt:        {134, 96, 67, 255},
	registry.BlockGrass:       {95, 159, 53, 255},
	registry.BlockSnow:        {240, 245, 250, 255},
	registry.BlockSnowDirt:    {200, 210, 215, 255},
	registry.BlockPlanks:      {162, 130, 78, 255},
	registry.BlockCobblestone: {100, 100, 100, 255},
}

var (
	voidColor    = color.RGBA{0, 0, 0, 255}
	unknownColor = color.RGBA{255, 0, 255, 255}
)

// Render draws one pixel per column of area (X across, Z down), coloured by
// the surface block and shaded by its height, then scales the map up.
// Rows are rendered concurrently; cancelling ctx stops the remaining rows.
// The caller picks the shading range, usually the terrain's height band.
func Render(ctx context.Context, t Terrain, area image.Rectangle, opts Options) (*image.RGBA, error) {
	if area.Empty() {
		return nil, ErrEmptyArea
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxY <= opts.MinY {
		return nil, fmt.Errorf("%w: %d..%d", ErrHeightRange, opts.MinY, opts.MaxY)
	}

	src := image.NewRGBA(image.Rect(0, 0, area.Dx(), area.Dy()))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for z := area.Min.Y; z < area.Max.Y; z++ {
		z := z
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := area.Min.X; x < area.Max.X; x++ {
				src.SetRGBA(x-area.Min.X, z-area.Min.Y, columnColor(t, x, z, opts))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, area.Dx()*opts.Scale, area.Dy()*opts.Scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	if opts.Caption != "" {
		drawCaption(dst, opts.Caption)
	}
	return dst, nil
}

func columnColor(t Terrain, x, z int, opts Options) color.RGBA {
	y := t.SurfaceHeight(x, z)
	if y < 0 {
		return voidColor
	}
	c, ok := blockColors[t.BlockAt(x, y, z)]
	if !ok {
		return unknownColor
	}
	return shade(c, y, opts.MinY, opts.MaxY)
}

// shade scales c between 60% and 100% brightness by height.
func shade(c color.RGBA, y, minY, maxY int) color.RGBA {
	f := float64(y-minY) / float64(maxY-minY)
	f = min(max(f, 0), 1)
	k := 0.6 + 0.4*f
	return color.RGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: 255,
	}
}

func drawCaption(dst *image.RGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(2, face.Metrics().Ascent.Ceil()+1),
	}
	d.DrawString(text)
}
