package registry

import (
	"errors"
	"fmt"
)

// BlockID identifies a block type. It is what a voxel grid cell stores.
type BlockID uint8

// Terrain block ids. The classifier emits only these; any table handed to New
// must define all of them.
const (
	BlockAir BlockID = iota
	BlockBedrock
	BlockStone
	BlockDirt
	BlockGrass
	BlockSnow
	BlockSnowDirt
	BlockPlanks
	BlockCobblestone
)

// TerrainBlocks lists the ids the terrain classifier can produce.
var TerrainBlocks = []BlockID{
	BlockAir,
	BlockBedrock,
	BlockStone,
	BlockDirt,
	BlockGrass,
	BlockSnow,
	BlockSnowDirt,
}

// ErrUnknownBlockType is returned for ids that are not in the registry.
var ErrUnknownBlockType = errors.New("unknown block type")

// BlockType defines the static properties of a block type
type BlockType struct {
	ID          BlockID
	Name        string
	IsSolid     bool
	Textures    [NumFaces]int // atlas index per face, indexed by Face
	DestroyTime float32       // seconds to dig; negative means unbreakable
}

// TextureIndex returns the atlas index used for the given face.
func (b *BlockType) TextureIndex(face Face) int {
	if face < 0 || face >= NumFaces {
		return b.Textures[FaceBack]
	}
	return b.Textures[face]
}

// SideTextures builds a face table from the common side/top/bottom split.
func SideTextures(side, top, bottom int) [NumFaces]int {
	return [NumFaces]int{
		FaceBack:   side,
		FaceFront:  side,
		FaceTop:    top,
		FaceBottom: bottom,
		FaceLeft:   side,
		FaceRight:  side,
	}
}

// Registry is an immutable id -> BlockType table. Lookups are array indexed.
type Registry struct {
	types   []*BlockType
	byName  map[string]BlockID
	ordered []BlockID
}

// New validates defs and builds a registry from them. Id 0 must be a
// non-solid block (air) and every id in TerrainBlocks must be present.
func New(defs []BlockType) (*Registry, error) {
	r := &Registry{byName: make(map[string]BlockID, len(defs))}

	for i := range defs {
		def := defs[i]
		if int(def.ID) < len(r.types) && r.types[def.ID] != nil {
			return nil, fmt.Errorf("block %q: duplicate id %d", def.Name, def.ID)
		}
		if def.Name == "" {
			return nil, fmt.Errorf("block id %d: empty name", def.ID)
		}
		if _, dup := r.byName[def.Name]; dup {
			return nil, fmt.Errorf("block %q: duplicate name", def.Name)
		}
		if int(def.ID) >= len(r.types) {
			grown := make([]*BlockType, int(def.ID)+1)
			copy(grown, r.types)
			r.types = grown
		}
		r.types[def.ID] = &def
		r.byName[def.Name] = def.ID
	}

	air, err := r.Lookup(BlockAir)
	if err != nil {
		return nil, fmt.Errorf("air block: %w", err)
	}
	if air.IsSolid {
		return nil, fmt.Errorf("block %q: id 0 is reserved for air and must not be solid", air.Name)
	}
	for _, id := range TerrainBlocks {
		if _, err := r.Lookup(id); err != nil {
			return nil, fmt.Errorf("terrain block: %w", err)
		}
	}

	for id, bt := range r.types {
		if bt != nil {
			r.ordered = append(r.ordered, BlockID(id))
		}
	}
	return r, nil
}

// Lookup returns the block type registered under id.
func (r *Registry) Lookup(id BlockID) (*BlockType, error) {
	if int(id) >= len(r.types) || r.types[id] == nil {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownBlockType, id)
	}
	return r.types[id], nil
}

// IsSolid reports whether id is a registered solid block. Unknown ids are
// treated as non-solid.
func (r *Registry) IsSolid(id BlockID) bool {
	if int(id) >= len(r.types) || r.types[id] == nil {
		return false
	}
	return r.types[id].IsSolid
}

// ByName resolves a block name to its id.
func (r *Registry) ByName(name string) (BlockID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// IDs returns all registered ids in ascending order.
func (r *Registry) IDs() []BlockID {
	out := make([]BlockID, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Defaults returns the built-in block table. Texture indices address a 4x4 atlas.
func Defaults() []BlockType {
	return []BlockType{
		{
			ID:   BlockAir,
			Name: "air",
		},
		{
			ID:          BlockBedrock,
			Name:        "bedrock",
			IsSolid:     true,
			Textures:    SideTextures(9, 9, 9),
			DestroyTime: -1, // unbreakable
		},
		{
			ID:          BlockStone,
			Name:        "stone",
			IsSolid:     true,
			Textures:    SideTextures(0, 0, 0),
			DestroyTime: 1.5,
		},
		{
			ID:          BlockDirt,
			Name:        "dirt",
			IsSolid:     true,
			Textures:    SideTextures(5, 5, 5),
			DestroyTime: 0.5,
		},
		{
			ID:          BlockGrass,
			Name:        "grass",
			IsSolid:     true,
			Textures:    SideTextures(2, 7, 5),
			DestroyTime: 0.6,
		},
		{
			ID:          BlockSnow,
			Name:        "snow",
			IsSolid:     true,
			Textures:    SideTextures(12, 12, 12),
			DestroyTime: 0.4,
		},
		{
			ID:          BlockSnowDirt,
			Name:        "snow_dirt",
			IsSolid:     true,
			Textures:    SideTextures(13, 12, 5),
			DestroyTime: 0.6,
		},
		{
			ID:          BlockPlanks,
			Name:        "planks",
			IsSolid:     true,
			Textures:    SideTextures(4, 4, 4),
			DestroyTime: 2.0,
		},
		{
			ID:          BlockCobblestone,
			Name:        "cobblestone",
			IsSolid:     true,
			Textures:    SideTextures(1, 1, 1),
			DestroyTime: 2.0,
		},
	}
}
