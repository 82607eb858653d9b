package meshing

import (
	"voxelterrain/internal/registry"

	"github.com/go-gl/mathgl/mgl32"
)

// faceChecks holds the neighbour offset for each face, indexed by registry.Face.
var faceChecks = [registry.NumFaces][3]int{
	registry.FaceBack:   {0, 0, -1},
	registry.FaceFront:  {0, 0, 1},
	registry.FaceTop:    {0, 1, 0},
	registry.FaceBottom: {0, -1, 0},
	registry.FaceLeft:   {-1, 0, 0},
	registry.FaceRight:  {1, 0, 0},
}

// cubeCorners are the 8 corners of a unit cube anchored at its minimum corner.
var cubeCorners = [8]mgl32.Vec3{
	{0, 0, 0},
	{1, 0, 0},
	{1, 1, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{1, 1, 1},
	{0, 1, 1},
}

// faceCorners picks 4 cube corners per face. With the quad triangulated as
// (0,1,2) (2,1,3) the cross product of the first two edges points outward.
var faceCorners = [registry.NumFaces][4]int{
	registry.FaceBack:   {0, 3, 1, 2},
	registry.FaceFront:  {5, 6, 4, 7},
	registry.FaceTop:    {3, 7, 2, 6},
	registry.FaceBottom: {1, 5, 0, 4},
	registry.FaceLeft:   {4, 7, 0, 3},
	registry.FaceRight:  {1, 2, 5, 6},
}

// quadTriangles indexes the 4 vertices of a face into two triangles.
var quadTriangles = [6]uint32{0, 1, 2, 2, 1, 3}

// FaceNormal returns the outward unit normal of a face.
func FaceNormal(f registry.Face) mgl32.Vec3 {
	d := faceChecks[f]
	return mgl32.Vec3{float32(d[0]), float32(d[1]), float32(d[2])}
}

// FaceOffset returns the integer neighbour offset of a face.
func FaceOffset(f registry.Face) (dx, dy, dz int) {
	d := faceChecks[f]
	return d[0], d[1], d[2]
}
