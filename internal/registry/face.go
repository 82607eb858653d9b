package registry

// Face identifies one of the six faces of a block. The order matches the
// neighbour and vertex tables used by the mesher.
type Face int

const (
	FaceBack   Face = iota // -Z
	FaceFront              // +Z
	FaceTop                // +Y
	FaceBottom             // -Y
	FaceLeft               // -X
	FaceRight              // +X

	NumFaces = 6
)

var faceNames = [NumFaces]string{"back", "front", "top", "bottom", "left", "right"}

func (f Face) String() string {
	if f < 0 || f >= NumFaces {
		return "unknown"
	}
	return faceNames[f]
}

// ParseFace resolves a face name as used in config files.
func ParseFace(name string) (Face, bool) {
	for i, n := range faceNames {
		if n == name {
			return Face(i), true
		}
	}
	return 0, false
}
