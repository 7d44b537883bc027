// Package terrain provides height-field generation, occupancy queries and
// face-visibility classification for voxel terrain.
package terrain

// DefaultSize is the side length of the height field used when none is configured.
const DefaultSize = 32

// HeightField is a square grid of column heights indexed by (x, z).
// A HeightField is never mutated after Generate returns it.
type HeightField struct {
	Seed    int64
	Size    int   // Side length N
	Heights []int // Row-major [x*Size+z], every value >= 1
}

// Occupancy answers voxel occupancy questions against a height field.
type Occupancy interface {
	HeightAt(x, z int) int
	IsAir(x, z, y int) bool
}

// FaceMask is a bitset over the six faces of a voxel.
type FaceMask uint8

// Face bits.
const (
	FaceTop    FaceMask = 1 << iota // +Y
	FaceBottom                      // -Y
	FaceFront                       // +Z
	FaceBack                        // -Z
	FaceLeft                        // -X
	FaceRight                       // +X

	FaceNone FaceMask = 0
	FaceAll           = FaceTop | FaceBottom | FaceFront | FaceBack | FaceLeft | FaceRight
)

// Faces lists the face bits in a fixed order.
var Faces = [6]FaceMask{FaceTop, FaceBottom, FaceFront, FaceBack, FaceLeft, FaceRight}

// Has reports whether every bit of f is set in m.
func (m FaceMask) Has(f FaceMask) bool {
	return m&f == f && f != 0
}

// Count returns the number of visible faces in the mask.
func (m FaceMask) Count() int {
	n := 0
	for _, f := range Faces {
		if m&f != 0 {
			n++
		}
	}
	return n
}

// String returns a compact representation such as "TB-F--".
func (m FaceMask) String() string {
	letters := [6]byte{'T', 'B', 'F', 'K', 'L', 'R'}
	out := make([]byte, 6)
	for i, f := range Faces {
		if m&f != 0 {
			out[i] = letters[i]
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}

// Offset returns the neighbour offset (dx, dz, dy) for a single face bit.
func (m FaceMask) Offset() (dx, dz, dy int) {
	switch m {
	case FaceTop:
		return 0, 0, 1
	case FaceBottom:
		return 0, 0, -1
	case FaceFront:
		return 0, 1, 0
	case FaceBack:
		return 0, -1, 0
	case FaceLeft:
		return -1, 0, 0
	case FaceRight:
		return 1, 0, 0
	}
	return 0, 0, 0
}
