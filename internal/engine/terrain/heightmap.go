package terrain

import "math"

// Hill field parameters.
const (
	coordScale  = 0.12
	baseHeight  = 3.0
	heightScale = 3.0
	minHeight   = 1
)

// Generate builds a height field of the given side length from a seed.
// The result depends only on seed and size: a sum of low-frequency sinusoids
// over coordinates centred on the grid midpoint, shifted by the seed.
// The sum is evaluated in float64; a float32 evaluation of the same formula
// can truncate a few cells to a different integer height.
func Generate(seed int64, size int) *HeightField {
	if size < 0 {
		size = 0
	}

	hf := &HeightField{
		Seed:    seed,
		Size:    size,
		Heights: make([]int, size*size),
	}

	s := float64(seed)
	half := size / 2
	for x := range size {
		nx := float64(x-half) * coordScale
		for z := range size {
			nz := float64(z-half) * coordScale

			h := math.Sin(nx+s*0.1) +
				math.Sin(nz*1.3+s*0.07)*0.6 +
				math.Sin((nx+nz)*0.5)*0.4

			// int() truncates toward zero, then clamp to the floor
			hf.Heights[x*size+z] = max(minHeight, int(baseHeight+h*heightScale))
		}
	}

	return hf
}

// InBounds reports whether (x, z) lies inside the grid.
func (hf *HeightField) InBounds(x, z int) bool {
	return hf != nil && x >= 0 && z >= 0 && x < hf.Size && z < hf.Size
}

// HeightAt returns the column height at (x, z), or 0 outside the grid.
func (hf *HeightField) HeightAt(x, z int) int {
	if !hf.InBounds(x, z) {
		return 0
	}
	return hf.Heights[x*hf.Size+z]
}

// IsAir reports whether the voxel at (x, z, y) is empty.
// Everything outside the grid, below y=0 or above the column is air.
func (hf *HeightField) IsAir(x, z, y int) bool {
	if y < 0 {
		return true
	}
	return y >= hf.HeightAt(x, z)
}

// IsSolid is the inverse of IsAir.
func (hf *HeightField) IsSolid(x, z, y int) bool {
	return !hf.IsAir(x, z, y)
}

// MaxHeight returns the tallest column, or 0 for an empty field.
func (hf *HeightField) MaxHeight() int {
	m := 0
	for _, h := range hf.Heights {
		m = max(m, h)
	}
	return m
}

// MinHeight returns the shortest column, or 0 for an empty field.
func (hf *HeightField) MinHeight() int {
	if len(hf.Heights) == 0 {
		return 0
	}
	m := hf.Heights[0]
	for _, h := range hf.Heights[1:] {
		m = min(m, h)
	}
	return m
}

// SolidCount returns the total number of solid voxels.
func (hf *HeightField) SolidCount() int {
	n := 0
	for _, h := range hf.Heights {
		n += h
	}
	return n
}

// Equal reports whether two fields have identical dimensions and heights.
func (hf *HeightField) Equal(other *HeightField) bool {
	if hf == nil || other == nil {
		return hf == other
	}
	if hf.Size != other.Size || len(hf.Heights) != len(other.Heights) {
		return false
	}
	for i, h := range hf.Heights {
		if other.Heights[i] != h {
			return false
		}
	}
	return true
}
