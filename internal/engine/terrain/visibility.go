package terrain

import "github.com/willf/bitset"

// FaceMaskAt computes which faces of the voxel at (x, z, y) border air.
// Returns FaceNone for voxels that are not solid. An empty mask for a solid
// voxel means it is fully enclosed and must not be drawn.
func FaceMaskAt(q Occupancy, x, z, y int) FaceMask {
	h := q.HeightAt(x, z)
	if y < 0 || y >= h {
		return FaceNone
	}

	var m FaceMask
	if y == h-1 {
		m |= FaceTop
	}
	if y == 0 {
		m |= FaceBottom
	}
	if q.IsAir(x, z+1, y) {
		m |= FaceFront
	}
	if q.IsAir(x, z-1, y) {
		m |= FaceBack
	}
	if q.IsAir(x-1, z, y) {
		m |= FaceLeft
	}
	if q.IsAir(x+1, z, y) {
		m |= FaceRight
	}
	return m
}

// Voxel is a solid voxel together with its visible faces.
type Voxel struct {
	X, Z, Y int
	Faces   FaceMask
}

// VisibilityStats summarises a visibility pass.
type VisibilityStats struct {
	Solid   int // Solid voxels in the field
	Visible int // Solid voxels with at least one visible face
	Faces   int // Total visible faces
}

// Culled returns the number of solid voxels skipped entirely.
func (s VisibilityStats) Culled() int {
	return s.Solid - s.Visible
}

// VisibilityCache holds precomputed face masks for a static height field.
// Voxels are indexed as (x*Size+z)*Stride + y.
type VisibilityCache struct {
	field   *HeightField
	stride  int
	masks   []FaceMask
	visible *bitset.BitSet
	stats   VisibilityStats
}

// NewVisibilityCache computes face masks for every solid voxel of hf.
func NewVisibilityCache(hf *HeightField) *VisibilityCache {
	stride := hf.MaxHeight()
	total := hf.Size * hf.Size * stride

	c := &VisibilityCache{
		field:   hf,
		stride:  stride,
		masks:   make([]FaceMask, total),
		visible: bitset.New(uint(total)),
	}

	for x := range hf.Size {
		for z := range hf.Size {
			h := hf.HeightAt(x, z)
			for y := range h {
				c.stats.Solid++
				m := FaceMaskAt(hf, x, z, y)
				if m == FaceNone {
					continue
				}
				idx := c.index(x, z, y)
				c.masks[idx] = m
				c.visible.Set(uint(idx))
				c.stats.Visible++
				c.stats.Faces += m.Count()
			}
		}
	}

	return c
}

func (c *VisibilityCache) index(x, z, y int) int {
	return (x*c.field.Size+z)*c.stride + y
}

// Field returns the height field the cache was built from.
func (c *VisibilityCache) Field() *HeightField {
	return c.field
}

// Stats returns the counts gathered while building the cache.
func (c *VisibilityCache) Stats() VisibilityStats {
	return c.stats
}

// Mask returns the cached face mask, or FaceNone for non-solid voxels.
func (c *VisibilityCache) Mask(x, z, y int) FaceMask {
	if !c.field.InBounds(x, z) || y < 0 || y >= c.stride {
		return FaceNone
	}
	return c.masks[c.index(x, z, y)]
}

// IsVisible reports whether the voxel has at least one visible face.
func (c *VisibilityCache) IsVisible(x, z, y int) bool {
	if !c.field.InBounds(x, z) || y < 0 || y >= c.stride {
		return false
	}
	return c.visible.Test(uint(c.index(x, z, y)))
}

// Each calls fn for every visible voxel in x, z, y order.
func (c *VisibilityCache) Each(fn func(v Voxel)) {
	if c.stride == 0 {
		return
	}
	for i, ok := c.visible.NextSet(0); ok; i, ok = c.visible.NextSet(i + 1) {
		idx := int(i)
		y := idx % c.stride
		col := idx / c.stride
		x, z := col/c.field.Size, col%c.field.Size
		fn(Voxel{X: x, Z: z, Y: y, Faces: c.masks[idx]})
	}
}

// Visible returns all visible voxels in x, z, y order.
func (c *VisibilityCache) Visible() []Voxel {
	out := make([]Voxel, 0, c.stats.Visible)
	c.Each(func(v Voxel) { out = append(out, v) })
	return out
}
