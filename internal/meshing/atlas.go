package meshing

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Atlas addresses a square texture split into SizeInBlocks x SizeInBlocks tiles.
// Tile 0 is the top-left tile; V grows upward, so rows are flipped.
type Atlas struct {
	SizeInBlocks int
}

// NewAtlas validates the tile count.
func NewAtlas(sizeInBlocks int) (Atlas, error) {
	if sizeInBlocks <= 0 {
		return Atlas{}, fmt.Errorf("atlas size must be positive, got %d", sizeInBlocks)
	}
	return Atlas{SizeInBlocks: sizeInBlocks}, nil
}

// TileSize is the normalized width of one tile.
func (a Atlas) TileSize() float32 {
	return 1 / float32(a.SizeInBlocks)
}

// Tiles is the number of addressable tiles.
func (a Atlas) Tiles() int {
	return a.SizeInBlocks * a.SizeInBlocks
}

// QuadUVs returns the four UVs for a face quad showing texture id. The order
// matches the vertex order of faceCorners.
func (a Atlas) QuadUVs(id int) [4]mgl32.Vec2 {
	row := id / a.SizeInBlocks
	col := id - row*a.SizeInBlocks
	s := a.TileSize()

	u := float32(col) * s
	v := 1 - float32(row)*s - s

	return [4]mgl32.Vec2{
		{u, v},
		{u, v + s},
		{u + s, v},
		{u + s, v + s},
	}
}
