// Package atlas maps texture-atlas tiles to UV rectangles and guesses which
// tiles of an unknown atlas hold grass and dirt textures.
package atlas

import (
	"fmt"
	"image"
)

// TileSizeCandidates are the tile edge lengths tried by DetectTileGrid.
var TileSizeCandidates = []int{16, 32, 64, 8}

// fallbackCols is the tile count assumed when no candidate divides the atlas.
const fallbackCols = 6

// Tile addresses one cell of the atlas grid by column and row.
type Tile struct {
	Col int `yaml:"col"`
	Row int `yaml:"row"`
}

// String returns the tile as "(col,row)".
func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)", t.Col, t.Row)
}

// UVRect is a normalised texture rectangle. V grows upwards: V0 is the
// bottom edge and V1 the top edge of the tile.
type UVRect struct {
	U0, V0, U1, V1 float32
}

// FullUV covers a whole texture.
var FullUV = UVRect{U0: 0, V0: 0, U1: 1, V1: 1}

// Mirrored returns the rectangle flipped horizontally.
func (r UVRect) Mirrored() UVRect {
	return UVRect{U0: r.U1, V0: r.V0, U1: r.U0, V1: r.V1}
}

// TileGrid describes how an atlas image is split into tiles.
type TileGrid struct {
	TileSize int
	Cols     int
	Rows     int
}

// Contains reports whether the tile lies inside the grid.
func (g TileGrid) Contains(t Tile) bool {
	return t.Col >= 0 && t.Row >= 0 && t.Col < g.Cols && t.Row < g.Rows
}

// Count returns the number of tiles in the grid.
func (g TileGrid) Count() int {
	return g.Cols * g.Rows
}

// Bounds returns the pixel rectangle covered by a tile, top-left origin.
func (g TileGrid) Bounds(t Tile) image.Rectangle {
	x0 := t.Col * g.TileSize
	y0 := t.Row * g.TileSize
	return image.Rect(x0, y0, x0+g.TileSize, y0+g.TileSize)
}

// DetectTileGrid picks the tile size for an atlas of the given pixel size.
// The largest candidate that divides both dimensions wins. When none does,
// the atlas is read as a single row of six tiles of width/6 pixels.
func DetectTileGrid(width, height int) TileGrid {
	if width <= 0 || height <= 0 {
		return TileGrid{}
	}

	best := 0
	for _, c := range TileSizeCandidates {
		if width%c == 0 && height%c == 0 && c > best {
			best = c
		}
	}

	if best == 0 {
		return TileGrid{
			TileSize: width / fallbackCols,
			Cols:     fallbackCols,
			Rows:     1,
		}
	}

	return TileGrid{
		TileSize: best,
		Cols:     width / best,
		Rows:     height / best,
	}
}

// UVOf returns the normalised rectangle of a tile. The image origin is the
// top-left corner while V=0 is the bottom edge, so rows are flipped.
func UVOf(t Tile, atlasWidth, atlasHeight, tileSize int) UVRect {
	if atlasWidth <= 0 || atlasHeight <= 0 {
		return FullUV
	}

	aw := float32(atlasWidth)
	ah := float32(atlasHeight)
	ts := float32(tileSize)

	u0 := float32(t.Col) * ts / aw
	return UVRect{
		U0: u0,
		U1: u0 + ts/aw,
		V0: 1 - float32(t.Row+1)*ts/ah,
		V1: 1 - float32(t.Row)*ts/ah,
	}
}

// Atlas is a loaded atlas image with its detected grid. The zero value is a
// valid "no atlas" state in which each face samples its own whole texture.
type Atlas struct {
	Width  int
	Height int
	Grid   TileGrid
	Image  image.Image
}

// New wraps a decoded atlas image and detects its tile grid.
func New(img image.Image) *Atlas {
	if img == nil {
		return &Atlas{}
	}
	b := img.Bounds()
	return &Atlas{
		Width:  b.Dx(),
		Height: b.Dy(),
		Grid:   DetectTileGrid(b.Dx(), b.Dy()),
		Image:  img,
	}
}

// Loaded reports whether an atlas image backs this value.
func (a *Atlas) Loaded() bool {
	return a != nil && a.Image != nil && a.Width > 0 && a.Height > 0
}

// UV returns the texture rectangle for a tile, or the full texture when no
// atlas is loaded.
func (a *Atlas) UV(t Tile) UVRect {
	if !a.Loaded() {
		return FullUV
	}
	return UVOf(t, a.Width, a.Height, a.Grid.TileSize)
}

// Classify runs the tile classifier over the loaded image.
// Returns a zero, invalid result when no atlas is loaded.
func (a *Atlas) Classify() Classification {
	if !a.Loaded() {
		return Classification{}
	}
	return ClassifyTiles(a.Image, a.Grid)
}
