package epd

import (
	"image"

	"inkfeed.dev/image/mono"
)

// Pack converts img to the panel's frame buffer format for native size
// dims: rows of (dims.X+7)/8 bytes, most significant bit leftmost, set bits
// white. img is in logical orientation and rotated clockwise by rotation
// degrees onto the panel.
func Pack(img *mono.Image, dims image.Point, rotation int) []byte {
	stride := (dims.X + 7) / 8
	buf := make([]byte, stride*dims.Y)
	for i := range buf {
		buf[i] = 0xff
	}
	rot := normRotation(rotation)
	// Fast path for unrotated images in the panel layout.
	if rot == 0 && img.Rect == image.Rect(0, 0, dims.X, dims.Y) && img.Stride == stride {
		copy(buf, img.Pix)
		return buf
	}
	src := logicalSize(dims, rot)
	o := img.Rect.Min
	for y := range dims.Y {
		for x := range dims.X {
			var sx, sy int
			switch rot {
			case 0:
				sx, sy = x, y
			case 90:
				sx, sy = y, src.Y-1-x
			case 180:
				sx, sy = src.X-1-x, src.Y-1-y
			case 270:
				sx, sy = src.X-1-y, x
			}
			if img.MonoAt(o.X+sx, o.Y+sy) == mono.Black {
				buf[y*stride+x/8] &^= 0x80 >> (x % 8)
			}
		}
	}
	return buf
}
