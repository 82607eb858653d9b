package meshing

import (
	"errors"
	"testing"

	"voxelterrain/internal/grid"
	"voxelterrain/internal/registry"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestBuilder(t testing.TB) *Builder {
	t.Helper()
	reg, err := registry.New(registry.Defaults())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	b, err := NewBuilder(reg, Atlas{SizeInBlocks: 4})
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

var airAround = SolidFunc(func(x, y, z int) bool { return false })

func TestEmptyGridMesh(t *testing.T) {
	b := newTestBuilder(t)
	m, err := b.Build(grid.New(16, 128), [3]int{0, 0, 0}, airAround)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Empty() || len(m.Triangles) != 0 || len(m.UVs) != 0 || m.VertexCount() != 0 {
		t.Fatalf("all-air grid produced %d vertices, %d indices", len(m.Vertices), len(m.Triangles))
	}
}

func TestSingleBlockMesh(t *testing.T) {
	b := newTestBuilder(t)
	g := grid.New(16, 128)
	if err := g.Set(0, 0, 0, registry.BlockStone); err != nil {
		t.Fatal(err)
	}
	// corner voxel: three of its neighbours are resolved through the lookup
	m, err := b.Build(g, [3]int{32, 0, 48}, airAround)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 24 || len(m.Triangles) != 36 || len(m.UVs) != 24 {
		t.Fatalf("single block: %d vertices, %d indices, %d uvs; want 24, 36, 24", len(m.Vertices), len(m.Triangles), len(m.UVs))
	}
	if m.QuadCount() != 6 || m.VertexCount() != 24 {
		t.Errorf("QuadCount = %d, VertexCount = %d", m.QuadCount(), m.VertexCount())
	}
}

func TestNormalsFaceOutward(t *testing.T) {
	b := newTestBuilder(t)
	g := grid.New(4, 4)
	_ = g.Set(1, 1, 1, registry.BlockDirt)
	m, err := b.Build(g, [3]int{}, airAround)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Fatalf("normals = %d, vertices = %d", len(m.Normals), len(m.Vertices))
	}
	for f := registry.Face(0); f < registry.NumFaces; f++ {
		want := FaceNormal(f)
		for i := 0; i < 4; i++ {
			got := m.Normals[int(f)*4+i]
			if !got.ApproxEqual(want) {
				t.Errorf("face %s vertex %d normal = %v, want %v", f, i, got, want)
			}
		}
	}
}

func TestAdjacentBlocksCullSharedFaces(t *testing.T) {
	b := newTestBuilder(t)
	g := grid.New(16, 16)
	_ = g.Set(4, 4, 4, registry.BlockStone)
	_ = g.Set(5, 4, 4, registry.BlockStone)
	m, err := b.Build(g, [3]int{}, airAround)
	if err != nil {
		t.Fatal(err)
	}
	if m.QuadCount() != 10 {
		t.Fatalf("two touching blocks: %d quads, want 10", m.QuadCount())
	}
}

func TestNonSolidBlocksAreNotMeshed(t *testing.T) {
	b := newTestBuilder(t)
	g := grid.New(4, 4)
	_ = g.Set(1, 1, 1, registry.BlockAir)
	m, err := b.Build(g, [3]int{}, airAround)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Empty() {
		t.Fatalf("air produced %d quads", m.QuadCount())
	}
}

func TestCrossChunkLookup(t *testing.T) {
	b := newTestBuilder(t)
	g := grid.New(16, 128)
	_ = g.Set(15, 10, 3, registry.BlockStone)

	origin := [3]int{16, 0, 32}
	var asked [][3]int
	lookup := SolidFunc(func(x, y, z int) bool {
		asked = append(asked, [3]int{x, y, z})
		return x == 32 && y == 10 && z == 35
	})
	m, err := b.Build(g, origin, lookup)
	if err != nil {
		t.Fatal(err)
	}
	if m.QuadCount() != 5 {
		t.Fatalf("cross-chunk culling: %d quads, want 5", m.QuadCount())
	}
	if len(asked) != 1 || asked[0] != [3]int{32, 10, 35} {
		t.Fatalf("lookup asked %v, want only the +X neighbour in world space", asked)
	}
}

func TestNilLookupTreatsOutsideAsAir(t *testing.T) {
	b := newTestBuilder(t)
	g := grid.New(1, 1)
	_ = g.Set(0, 0, 0, registry.BlockStone)
	m, err := b.Build(g, [3]int{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.QuadCount() != 6 {
		t.Fatalf("quads = %d, want 6", m.QuadCount())
	}
}

func TestUnknownBlockFailsBuild(t *testing.T) {
	b := newTestBuilder(t)
	g := grid.New(4, 4)
	_ = g.Set(2, 2, 2, registry.BlockID(250))
	if _, err := b.Build(g, [3]int{}, airAround); !errors.Is(err, registry.ErrUnknownBlockType) {
		t.Fatalf("Build error = %v, want ErrUnknownBlockType", err)
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := newTestBuilder(t)
	g := grid.New(8, 8)
	g.Fill(func(x, y, z int) registry.BlockID {
		if (x+y*3+z*5)%4 == 0 {
			return registry.BlockGrass
		}
		return registry.BlockAir
	})
	m1, err := b.Build(g, [3]int{}, airAround)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := b.Build(g, [3]int{}, airAround)
	if err != nil {
		t.Fatal(err)
	}
	if !m1.Equal(m2) {
		t.Fatalf("two builds of the same grid differ")
	}
}

func TestFaceUVsUseBlockTextures(t *testing.T) {
	b := newTestBuilder(t)
	g := grid.New(1, 1)
	_ = g.Set(0, 0, 0, registry.BlockGrass)
	m, err := b.Build(g, [3]int{}, airAround)
	if err != nil {
		t.Fatal(err)
	}
	atlas := Atlas{SizeInBlocks: 4}
	top := atlas.QuadUVs(7)
	for i := 0; i < 4; i++ {
		if got := m.UVs[int(registry.FaceTop)*4+i]; got != top[i] {
			t.Errorf("top uv %d = %v, want %v", i, got, top[i])
		}
	}
}

func TestAtlasQuadUVs(t *testing.T) {
	a := Atlas{SizeInBlocks: 4}
	tests := []struct {
		id   int
		want [4]mgl32.Vec2
	}{
		{0, [4]mgl32.Vec2{{0, 0.75}, {0, 1}, {0.25, 0.75}, {0.25, 1}}},
		{5, [4]mgl32.Vec2{{0.25, 0.5}, {0.25, 0.75}, {0.5, 0.5}, {0.5, 0.75}}},
		{15, [4]mgl32.Vec2{{0.75, 0}, {0.75, 0.25}, {1, 0}, {1, 0.25}}},
	}
	for _, tt := range tests {
		got := a.QuadUVs(tt.id)
		for i := range got {
			if !got[i].ApproxEqual(tt.want[i]) {
				t.Errorf("QuadUVs(%d)[%d] = %v, want %v", tt.id, i, got[i], tt.want[i])
			}
		}
	}
}

func TestNewBuilderRejectsTextureOutsideAtlas(t *testing.T) {
	defs := registry.Defaults()
	defs[registry.BlockStone].Textures = registry.SideTextures(0, 16, 0)
	reg, err := registry.New(defs)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewBuilder(reg, Atlas{SizeInBlocks: 4}); err == nil {
		t.Fatal("NewBuilder accepted texture 16 for a 4x4 atlas")
	}
	if _, err := NewAtlas(0); err == nil {
		t.Fatal("NewAtlas(0) succeeded")
	}
}

func BenchmarkBuildSurfaceChunk(b *testing.B) {
	builder := newTestBuilder(b)
	g := grid.New(16, 128)
	g.Fill(func(x, y, z int) registry.BlockID {
		switch {
		case y < 60:
			return registry.BlockStone
		case y < 64:
			return registry.BlockDirt
		case y == 64:
			return registry.BlockGrass
		}
		return registry.BlockAir
	})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = builder.Build(g, [3]int{}, airAround)
	}
}
