package grid

import (
	"errors"
	"testing"

	"voxelterrain/internal/registry"
)

func TestNewIsAir(t *testing.T) {
	g := New(4, 8)
	if got := g.Count(registry.BlockAir); got != 4*8*4 {
		t.Fatalf("Count(air) = %d, want %d", got, 4*8*4)
	}
}

func TestSetAt(t *testing.T) {
	g := New(16, 128)
	corners := [][3]int{{0, 0, 0}, {15, 127, 15}, {15, 0, 0}, {0, 127, 0}, {0, 0, 15}, {7, 64, 9}}
	for i, c := range corners {
		id := registry.BlockID(i + 1)
		if err := g.Set(c[0], c[1], c[2], id); err != nil {
			t.Fatalf("Set%v: %v", c, err)
		}
	}
	for i, c := range corners {
		got, err := g.At(c[0], c[1], c[2])
		if err != nil {
			t.Fatalf("At%v: %v", c, err)
		}
		if want := registry.BlockID(i + 1); got != want {
			t.Errorf("At%v = %d, want %d", c, got, want)
		}
	}
}

func TestOutOfBounds(t *testing.T) {
	g := New(16, 128)
	tests := [][3]int{
		{-1, 0, 0},
		{16, 0, 0},
		{0, -1, 0},
		{0, 128, 0},
		{0, 0, -1},
		{0, 0, 16},
	}
	for _, c := range tests {
		if err := g.Set(c[0], c[1], c[2], registry.BlockStone); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set%v error = %v, want ErrOutOfBounds", c, err)
		}
		if _, err := g.At(c[0], c[1], c[2]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At%v error = %v, want ErrOutOfBounds", c, err)
		}
	}
	// a rejected write must not land in a neighbouring cell
	if n := g.Count(registry.BlockStone); n != 0 {
		t.Errorf("out of bounds writes leaked %d cells", n)
	}
}

func TestFillOrder(t *testing.T) {
	g := New(2, 3)
	g.Fill(func(x, y, z int) registry.BlockID {
		if y == 1 {
			return registry.BlockDirt
		}
		return registry.BlockAir
	})
	if got := g.Count(registry.BlockDirt); got != 4 {
		t.Errorf("Count(dirt) = %d, want 4", got)
	}
	if g.Get(1, 1, 1) != registry.BlockDirt || g.Get(1, 2, 1) != registry.BlockAir {
		t.Errorf("Fill wrote the wrong layer")
	}
}
