// Package mono contains an [image.Image] implementation of a packed 1-bit
// image, in the memory layout of monochrome e-paper frame buffers.
package mono

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Image stores 8 pixels per byte, most significant bit leftmost. A set bit
// is white paper, a clear bit is black ink.
type Image struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

type Color uint8

const (
	Black Color = 0
	White Color = 1
)

func (c Color) RGBA() (r, g, b, a uint32) {
	if c == White {
		return 0xffff, 0xffff, 0xffff, 0xffff
	}
	return 0, 0, 0, 0xffff
}

// Model converts colors to [Color] by thresholding luminance at 50%.
var Model = color.ModelFunc(toMono)

func toMono(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	return mono(c)
}

func mono(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16
	if y >= 0x8000 {
		return White
	}
	return Black
}

// New allocates an image filled with bg.
func New(r image.Rectangle, bg Color) *Image {
	stride := (r.Dx() + 7) / 8
	p := &Image{
		Pix:    make([]byte, stride*r.Dy()),
		Stride: stride,
		Rect:   r,
	}
	if bg == White {
		for i := range p.Pix {
			p.Pix[i] = 0xff
		}
	}
	return p
}

func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Image) ColorModel() color.Model {
	return Model
}

// PixOffset returns the byte offset and bit mask of the pixel at (x, y).
func (p *Image) PixOffset(x, y int) (int, byte) {
	off := image.Pt(x, y).Sub(p.Rect.Min)
	return off.Y*p.Stride + off.X/8, 0x80 >> (off.X % 8)
}

// MonoAt returns the pixel at (x, y). Pixels outside the image are white.
func (p *Image) MonoAt(x, y int) Color {
	if !(image.Point{x, y}).In(p.Rect) {
		return White
	}
	i, mask := p.PixOffset(x, y)
	if p.Pix[i]&mask != 0 {
		return White
	}
	return Black
}

func (p *Image) SetMono(x, y int, c Color) {
	if !(image.Point{x, y}).In(p.Rect) {
		return
	}
	i, mask := p.PixOffset(x, y)
	if c == White {
		p.Pix[i] |= mask
	} else {
		p.Pix[i] &^= mask
	}
}

func (p *Image) At(x, y int) color.Color {
	return p.MonoAt(x, y)
}

func (p *Image) Set(x, y int, c color.Color) {
	p.SetMono(x, y, mono(c))
}

func (p *Image) RGBA64At(x, y int) color.RGBA64 {
	if p.MonoAt(x, y) == White {
		return color.RGBA64{R: 0xffff, G: 0xffff, B: 0xffff, A: 0xffff}
	}
	return color.RGBA64{A: 0xffff}
}

func (p *Image) SetRGBA64(x, y int, c color.RGBA64) {
	p.SetMono(x, y, mono(c))
}

// Fill sets every pixel of r to c.
func (p *Image) Fill(r image.Rectangle, c Color) {
	r = r.Intersect(p.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		x := r.Min.X
		// Leading pixels up to a byte boundary.
		for ; x < r.Max.X && (x-p.Rect.Min.X)%8 != 0; x++ {
			p.SetMono(x, y, c)
		}
		if x+8 <= r.Max.X {
			i, _ := p.PixOffset(x, y)
			var b byte
			if c == White {
				b = 0xff
			}
			for ; x+8 <= r.Max.X; x += 8 {
				p.Pix[i] = b
				i++
			}
		}
		for ; x < r.Max.X; x++ {
			p.SetMono(x, y, c)
		}
	}
}

func (p *Image) Draw(dr image.Rectangle, src image.Image, sp image.Point, op draw.Op) {
	dr = dr.Intersect(p.Rect)
	// Optimize special cases.
	switch src := src.(type) {
	case *image.Uniform:
		if src.Opaque() || op == draw.Src {
			p.Fill(dr, mono(src.C))
			return
		}
	case *Image:
		for y := 0; y < dr.Dy(); y++ {
			for x := 0; x < dr.Dx(); x++ {
				p.SetMono(dr.Min.X+x, dr.Min.Y+y, src.MonoAt(sp.X+x, sp.Y+y))
			}
		}
		return
	}

	// General case.
	xdraw.Draw(p, dr, src, sp, op)
}

// Paletted returns a copy of p as a two color paletted image, which
// image/png encodes at 1 bit per pixel.
func (p *Image) Paletted() *image.Paletted {
	pal := color.Palette{color.Gray{Y: 0}, color.Gray{Y: 0xff}}
	dst := image.NewPaletted(p.Rect, pal)
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		for x := p.Rect.Min.X; x < p.Rect.Max.X; x++ {
			dst.SetColorIndex(x, y, uint8(p.MonoAt(x, y)))
		}
	}
	return dst
}

// Convert scales src to fill r and dithers it to black and white.
func Convert(src image.Image, r image.Rectangle) *Image {
	gray := image.NewGray(r)
	xdraw.CatmullRom.Scale(gray, r, src, src.Bounds(), xdraw.Src, nil)
	pal := image.NewPaletted(r, color.Palette{color.Gray{Y: 0}, color.Gray{Y: 0xff}})
	xdraw.FloydSteinberg.Draw(pal, r, gray, r.Min)
	dst := New(r, White)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetMono(x, y, Color(pal.ColorIndexAt(x, y)))
		}
	}
	return dst
}

// InkBounds returns the smallest rectangle inside r that contains all
// black pixels of r.
func (p *Image) InkBounds(r image.Rectangle) image.Rectangle {
	r = r.Intersect(p.Rect)
	emptyCol := func(x int) bool {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			if p.MonoAt(x, y) == Black {
				return false
			}
		}
		return true
	}
	emptyRow := func(y int) bool {
		for x := r.Min.X; x < r.Max.X; x++ {
			if p.MonoAt(x, y) == Black {
				return false
			}
		}
		return true
	}
	// Crop left side.
	for r.Min.X < r.Max.X && emptyCol(r.Min.X) {
		r.Min.X++
	}
	// Crop right side.
	for r.Max.X > r.Min.X && emptyCol(r.Max.X-1) {
		r.Max.X--
	}
	// Crop top side.
	for r.Min.Y < r.Max.Y && emptyRow(r.Min.Y) {
		r.Min.Y++
	}
	// Crop bottom side.
	for r.Max.Y > r.Min.Y && emptyRow(r.Max.Y-1) {
		r.Max.Y--
	}
	return r
}
