package atlas

import (
	"image"
	"math"
	"testing"
)

const uvEpsilon = 1e-6

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < uvEpsilon
}

func TestDetectTileGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          TileGrid
	}{
		{"256 square", 256, 256, TileGrid{TileSize: 64, Cols: 4, Rows: 4}},
		{"48 square", 48, 48, TileGrid{TileSize: 16, Cols: 3, Rows: 3}},
		{"96x32", 96, 32, TileGrid{TileSize: 32, Cols: 3, Rows: 1}},
		{"only 8 divides", 24, 40, TileGrid{TileSize: 8, Cols: 3, Rows: 5}},
		{"wide strip", 1024, 64, TileGrid{TileSize: 64, Cols: 16, Rows: 1}},
		{"no candidate", 90, 15, TileGrid{TileSize: 15, Cols: 6, Rows: 1}},
		{"odd", 7, 7, TileGrid{TileSize: 1, Cols: 6, Rows: 1}},
		{"empty", 0, 16, TileGrid{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectTileGrid(tt.width, tt.height)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestUVOf_Extents(t *testing.T) {
	sizes := []struct{ w, h, ts int }{
		{256, 256, 64},
		{256, 128, 16},
		{48, 16, 16},
		{90, 15, 15},
	}

	for _, s := range sizes {
		cols, rows := s.w/s.ts, s.h/s.ts
		for r := range rows {
			for c := range cols {
				uv := UVOf(Tile{Col: c, Row: r}, s.w, s.h, s.ts)
				if !approx(uv.U1-uv.U0, float32(s.ts)/float32(s.w)) {
					t.Errorf("%dx%d tile (%d,%d): expected width %f, got %f", s.w, s.h, c, r, float32(s.ts)/float32(s.w), uv.U1-uv.U0)
				}
				if !approx(uv.V1-uv.V0, float32(s.ts)/float32(s.h)) {
					t.Errorf("%dx%d tile (%d,%d): expected height %f, got %f", s.w, s.h, c, r, float32(s.ts)/float32(s.h), uv.V1-uv.V0)
				}
				if uv.U0 < 0 || uv.U1 > 1+uvEpsilon || uv.V0 < -uvEpsilon || uv.V1 > 1 {
					t.Errorf("%dx%d tile (%d,%d): rectangle %+v outside unit square", s.w, s.h, c, r, uv)
				}
			}
		}
	}
}

func TestUVOf_Flip(t *testing.T) {
	// 4x4 grid of 64px tiles.
	uv := UVOf(Tile{Col: 1, Row: 0}, 256, 256, 64)
	want := UVRect{U0: 0.25, V0: 0.75, U1: 0.5, V1: 1}
	if uv != want {
		t.Errorf("expected %+v, got %+v", want, uv)
	}

	uv = UVOf(Tile{Col: 3, Row: 3}, 256, 256, 64)
	want = UVRect{U0: 0.75, V0: 0, U1: 1, V1: 0.25}
	if uv != want {
		t.Errorf("expected %+v, got %+v", want, uv)
	}
}

func TestUVOf_ZeroAtlas(t *testing.T) {
	if uv := UVOf(Tile{}, 0, 0, 16); uv != FullUV {
		t.Errorf("expected full rectangle for empty atlas, got %+v", uv)
	}
}

func TestAtlas_Unloaded(t *testing.T) {
	var a *Atlas
	if a.Loaded() {
		t.Error("nil atlas should not be loaded")
	}
	if uv := a.UV(Tile{Col: 2, Row: 1}); uv != FullUV {
		t.Errorf("expected full rectangle without atlas, got %+v", uv)
	}

	empty := New(nil)
	if empty.Loaded() {
		t.Error("atlas without image should not be loaded")
	}
	if c := empty.Classify(); c.Valid || len(c.Scores) != 0 {
		t.Errorf("expected empty classification without atlas, got %+v", c)
	}
}

func TestAtlas_New(t *testing.T) {
	a := New(image.NewNRGBA(image.Rect(0, 0, 256, 256)))

	if !a.Loaded() {
		t.Fatal("expected atlas to be loaded")
	}
	if a.Grid != (TileGrid{TileSize: 64, Cols: 4, Rows: 4}) {
		t.Errorf("expected 64px 4x4 grid, got %+v", a.Grid)
	}
	if uv := a.UV(Tile{Col: 0, Row: 0}); uv != UVOf(Tile{}, 256, 256, 64) {
		t.Errorf("expected atlas UV to match UVOf, got %+v", uv)
	}
}

func TestTileGrid_Helpers(t *testing.T) {
	g := TileGrid{TileSize: 16, Cols: 3, Rows: 2}

	if g.Count() != 6 {
		t.Errorf("expected 6 tiles, got %d", g.Count())
	}
	if !g.Contains(Tile{Col: 2, Row: 1}) || g.Contains(Tile{Col: 3, Row: 0}) || g.Contains(Tile{Col: -1}) {
		t.Error("Contains returned wrong result")
	}
	if b := g.Bounds(Tile{Col: 1, Row: 1}); b != image.Rect(16, 16, 32, 32) {
		t.Errorf("expected bounds (16,16)-(32,32), got %v", b)
	}
	if s := (Tile{Col: 4, Row: 2}).String(); s != "(4,2)" {
		t.Errorf("expected (4,2), got %s", s)
	}
}

func TestUVRect_Mirrored(t *testing.T) {
	r := UVRect{U0: 0.1, V0: 0.2, U1: 0.3, V1: 0.4}
	m := r.Mirrored()
	if m.U0 != r.U1 || m.U1 != r.U0 || m.V0 != r.V0 || m.V1 != r.V1 {
		t.Errorf("unexpected mirror %+v", m)
	}
}

func TestBlockSet(t *testing.T) {
	s := DefaultBlocks()

	if s.ForColumn(4, 5).Name != "grass" {
		t.Error("expected grass at column top")
	}
	if s.ForColumn(0, 5).Name != "dirt" {
		t.Error("expected dirt below column top")
	}
	if s.Grass.Top != DefaultTopTile || s.Grass.Side != DefaultSideTile || s.Grass.Bottom != DefaultDirtTile {
		t.Errorf("unexpected grass tiles %+v", s.Grass)
	}
	if s.Dirt.Top != DefaultDirtTile {
		t.Errorf("expected dirt top to use dirt tile, got %v", s.Dirt.Top)
	}
}
