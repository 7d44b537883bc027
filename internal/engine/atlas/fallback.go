package atlas

import (
	"image"
	"image/color"
	"math/rand/v2"

	xdraw "golang.org/x/image/draw"
)

// FallbackTextureSize is the edge length of generated fallback tiles.
const FallbackTextureSize = 64

// Fallback palette.
var (
	grassColor    = color.NRGBA{R: 106, G: 190, B: 48, A: 255}
	darkGrass     = color.NRGBA{R: 80, G: 140, B: 34, A: 255}
	dirtColor     = color.NRGBA{R: 120, G: 72, B: 24, A: 255}
	darkDirtColor = color.NRGBA{R: 90, G: 60, B: 20, A: 255}
)

// Fixed seeds so fallback textures look the same on every run.
const (
	topSeed  = 12345
	sideSeed = 67890
	dirtSeed = 999
)

// speckle fills img with base, replacing roughly threshold/256 of the pixels
// with dark.
func speckle(img *image.NRGBA, rows image.Rectangle, rng *rand.Rand, base, dark color.NRGBA, threshold int) {
	for y := rows.Min.Y; y < rows.Max.Y; y++ {
		for x := rows.Min.X; x < rows.Max.X; x++ {
			if rng.IntN(256) < threshold {
				img.SetNRGBA(x, y, dark)
			} else {
				img.SetNRGBA(x, y, base)
			}
		}
	}
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// MakeTopImage generates a speckled grass texture.
func MakeTopImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	speckle(img, img.Rect, newRNG(topSeed), grassColor, darkGrass, 30)
	return img
}

// MakeSideImage generates a grass-side texture: a grass strip over the top
// quarter and dirt below it.
func MakeSideImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	rng := newRNG(sideSeed)
	topH := size / 4
	speckle(img, image.Rect(0, 0, size, topH), rng, grassColor, darkGrass, 20)
	speckle(img, image.Rect(0, topH, size, size), rng, dirtColor, darkDirtColor, 25)
	return img
}

// MakeDirtImage generates a speckled dirt texture.
func MakeDirtImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	speckle(img, img.Rect, newRNG(dirtSeed), dirtColor, darkDirtColor, 30)
	return img
}

// FallbackImages returns the three generated textures keyed by role.
func FallbackImages(size int) map[Role]*image.NRGBA {
	return map[Role]*image.NRGBA{
		RoleTop:  MakeTopImage(size),
		RoleSide: MakeSideImage(size),
		RoleDirt: MakeDirtImage(size),
	}
}

// FallbackAtlas packs the generated textures into a single-row atlas with
// grass-top, grass-side and dirt at columns 0, 1 and 2. Textures are drawn at
// FallbackTextureSize and scaled to tileSize.
func FallbackAtlas(tileSize int) *image.NRGBA {
	if tileSize <= 0 {
		tileSize = FallbackTextureSize
	}

	dst := image.NewNRGBA(image.Rect(0, 0, tileSize*3, tileSize))
	images := FallbackImages(FallbackTextureSize)

	for i, role := range []Role{RoleTop, RoleSide, RoleDirt} {
		src := images[role]
		r := image.Rect(i*tileSize, 0, (i+1)*tileSize, tileSize)
		if tileSize == FallbackTextureSize {
			xdraw.Copy(dst, r.Min, src, src.Bounds(), xdraw.Src, nil)
		} else {
			xdraw.NearestNeighbor.Scale(dst, r, src, src.Bounds(), xdraw.Src, nil)
		}
	}

	return dst
}
