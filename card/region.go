package card

import "image"

// Rectangle is an image.Rectangle that can be cut into bands.
type Rectangle image.Rectangle

func (r Rectangle) Shrink(top, end, bottom, start int) Rectangle {
	r2 := Rectangle{
		Min: r.Min.Add(image.Pt(start, top)),
		Max: r.Max.Sub(image.Pt(end, bottom)),
	}
	r2.Min.X = min(r2.Min.X, r.Max.X)
	r2.Max.X = max(r2.Max.X, r.Min.X)
	r2.Min.Y = min(r2.Min.Y, r.Max.Y)
	r2.Max.Y = max(r2.Max.Y, r.Min.Y)
	return r2
}

// Center returns the position that centers a box of size sz in r.
func (r Rectangle) Center(sz image.Point) image.Point {
	off := r.Size().Sub(sz).Div(2)
	return r.Min.Add(off)
}

func (r Rectangle) Dx() int {
	return image.Rectangle(r).Dx()
}

func (r Rectangle) Size() image.Point {
	return image.Rectangle(r).Size()
}

func (r Rectangle) CutTop(height int) (top Rectangle, bottom Rectangle) {
	cuty := min(r.Min.Y+height, r.Max.Y)
	return r.cutY(cuty)
}

func (r Rectangle) CutBottom(height int) (top Rectangle, bottom Rectangle) {
	cuty := max(r.Max.Y-height, r.Min.Y)
	return r.cutY(cuty)
}

func (r Rectangle) cutY(cuty int) (top Rectangle, bottom Rectangle) {
	top = Rectangle(image.Rect(r.Min.X, r.Min.Y, r.Max.X, cuty))
	bottom = Rectangle(image.Rect(r.Min.X, cuty, r.Max.X, r.Max.Y))
	return top, bottom
}
