// Package texture decodes atlas and tile images from disk or memory.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// TGA decoding errors.
var (
	ErrTGATooShort    = errors.New("TGA data too short")
	ErrTGATruncated   = errors.New("TGA data truncated")
	ErrTGAUnsupported = errors.New("unsupported TGA variant")
)

// tgaReader walks the pixel stream of a TGA file.
type tgaReader struct {
	img         *image.NRGBA
	data        []byte
	pos         int
	bpp         int // bytes per pixel
	width       int
	height      int
	topToBottom bool
}

// next reads one BGR(A) pixel.
func (r *tgaReader) next() (color.NRGBA, bool) {
	if r.pos+r.bpp > len(r.data) {
		return color.NRGBA{}, false
	}
	p := r.data[r.pos : r.pos+r.bpp]
	r.pos += r.bpp

	c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bpp == 4 {
		c.A = p[3]
	}
	return c, true
}

// put stores pixel number idx, honouring the file's row order.
func (r *tgaReader) put(idx int, c color.NRGBA) {
	x := idx % r.width
	y := idx / r.width
	if !r.topToBottom {
		y = r.height - 1 - y
	}
	r.img.SetNRGBA(x, y, c)
}

// DecodeTGA decodes an uncompressed (type 2) or RLE (type 10) true-colour TGA.
func DecodeTGA(data []byte) (*image.NRGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, ErrTGATooShort
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bits := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped", ErrTGAUnsupported)
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("%w: type %d", ErrTGAUnsupported, imageType)
	}
	if bits != 24 && bits != 32 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrTGAUnsupported, bits)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, ErrTGATruncated
	}

	r := &tgaReader{
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		data:        data[offset:],
		bpp:         bits / 8,
		width:       width,
		height:      height,
		topToBottom: descriptor&0x20 != 0,
	}

	total := width * height
	if imageType == TGATypeUncompressed {
		if len(r.data) < total*r.bpp {
			return nil, ErrTGATruncated
		}
		for i := range total {
			c, _ := r.next()
			r.put(i, c)
		}
		return r.img, nil
	}

	idx := 0
	for idx < total && r.pos < len(r.data) {
		packet := r.data[r.pos]
		r.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run: one pixel repeated count times
			c, ok := r.next()
			if !ok {
				break
			}
			for ; count > 0 && idx < total; count-- {
				r.put(idx, c)
				idx++
			}
			continue
		}

		for ; count > 0 && idx < total; count-- {
			c, ok := r.next()
			if !ok {
				break
			}
			r.put(idx, c)
			idx++
		}
	}
	if idx < total {
		return nil, ErrTGATruncated
	}

	return r.img, nil
}
