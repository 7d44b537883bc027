package atlas

import (
	"image"
	"image/color"
)

// Classifier weights, tuned by eye on a handful of atlases.
const (
	TopBaseWeight   = 0.7
	TopGreenWeight  = 0.6
	SideBaseWeight  = 0.5
	DominanceMargin = 20
)

// Role is a texture slot the classifier tries to fill.
type Role int

// Classifier roles.
const (
	RoleTop Role = iota
	RoleSide
	RoleDirt
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleTop:
		return "grass-top"
	case RoleSide:
		return "grass-side"
	case RoleDirt:
		return "dirt"
	}
	return "unknown"
}

// TileScore holds the colour measurements of one tile.
type TileScore struct {
	Tile Tile

	Green float64 // mean max(0, G-(R+B)/2)
	Brown float64 // mean max(0, R-(G+B)/2)

	TopGreen    float64 // share of green-dominant pixels in the top quarter
	BottomBrown float64 // share of red-dominant pixels in the bottom half
}

// TopScore rates the tile as a grass-top texture.
func (s TileScore) TopScore() float64 {
	return s.Green * (TopBaseWeight + TopGreenWeight*s.TopGreen)
}

// SideScore rates the tile as a grass-side texture.
func (s TileScore) SideScore() float64 {
	return s.TopGreen * (SideBaseWeight + s.BottomBrown)
}

// DirtScore rates the tile as a dirt texture.
func (s TileScore) DirtScore() float64 {
	return s.Brown
}

// Score returns the tile's score for a role.
func (s TileScore) Score(r Role) float64 {
	switch r {
	case RoleTop:
		return s.TopScore()
	case RoleSide:
		return s.SideScore()
	case RoleDirt:
		return s.DirtScore()
	}
	return 0
}

// Classification is the classifier's best guess for each role.
type Classification struct {
	Top  Tile
	Side Tile
	Dirt Tile

	TopScore  float64
	SideScore float64
	DirtScore float64

	Scores []TileScore // Row-major

	// Valid is set when every role found a tile with a positive score.
	Valid bool
}

// Tile returns the chosen tile for a role.
func (c Classification) Tile(r Role) Tile {
	switch r {
	case RoleSide:
		return c.Side
	case RoleDirt:
		return c.Dirt
	}
	return c.Top
}

// Score returns the winning score for a role.
func (c Classification) Score(r Role) float64 {
	switch r {
	case RoleSide:
		return c.SideScore
	case RoleDirt:
		return c.DirtScore
	}
	return c.TopScore
}

// ClassifyTiles measures every tile of img and picks the best tile for each
// role. Tiles are scanned row by row; on equal scores the earlier tile wins.
// The result is a heuristic guess and may be wrong for unusual atlases.
func ClassifyTiles(img image.Image, grid TileGrid) Classification {
	var c Classification
	if img == nil || grid.TileSize <= 0 || grid.Count() == 0 {
		return c
	}

	c.Scores = make([]TileScore, 0, grid.Count())
	best := [3]float64{-1, -1, -1}
	chosen := [3]Tile{}

	for row := range grid.Rows {
		for col := range grid.Cols {
			s := scoreTile(img, grid, Tile{Col: col, Row: row})
			c.Scores = append(c.Scores, s)

			for r := RoleTop; r <= RoleDirt; r++ {
				if v := s.Score(r); v > best[r] {
					best[r] = v
					chosen[r] = s.Tile
				}
			}
		}
	}

	c.Top, c.Side, c.Dirt = chosen[RoleTop], chosen[RoleSide], chosen[RoleDirt]
	c.TopScore, c.SideScore, c.DirtScore = best[RoleTop], best[RoleSide], best[RoleDirt]
	c.Valid = c.TopScore > 0 && c.SideScore > 0 && c.DirtScore > 0

	return c
}

// scoreTile measures one tile. Pixels outside the image are skipped.
func scoreTile(img image.Image, grid TileGrid, t Tile) TileScore {
	s := TileScore{Tile: t}

	ts := grid.TileSize
	rect := grid.Bounds(t)
	area := rect.Intersect(img.Bounds())
	if area.Empty() {
		return s
	}

	topEnd := rect.Min.Y + ts/4
	bottomStart := rect.Min.Y + ts/2

	var pixels, topPixels, bottomPixels int
	var topGreen, bottomBrown int

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			r, g, b := rgb8(img.At(x, y))

			s.Green += max(0, g-(r+b)/2)
			s.Brown += max(0, r-(g+b)/2)
			pixels++

			if y < topEnd {
				topPixels++
				if g > r+DominanceMargin && g > b+DominanceMargin {
					topGreen++
				}
			}
			if y >= bottomStart {
				bottomPixels++
				if r > g+DominanceMargin && r > b+DominanceMargin {
					bottomBrown++
				}
			}
		}
	}

	s.Green /= float64(pixels)
	s.Brown /= float64(pixels)
	if topPixels > 0 {
		s.TopGreen = float64(topGreen) / float64(topPixels)
	}
	if bottomPixels > 0 {
		s.BottomBrown = float64(bottomBrown) / float64(bottomPixels)
	}

	return s
}

// rgb8 returns the non-premultiplied 8-bit channels of c as floats.
func rgb8(c color.Color) (r, g, b float64) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return float64(n.R), float64(n.G), float64(n.B)
}
