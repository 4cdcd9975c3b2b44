package mono

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestNew(t *testing.T) {
	r := image.Rect(0, 0, 13, 3)
	img := New(r, White)
	if img.Stride != 2 {
		t.Fatalf("stride %d, want 2", img.Stride)
	}
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			if c := img.MonoAt(x, y); c != White {
				t.Errorf("(%d,%d) = %v, want white", x, y, c)
			}
		}
	}
	black := New(r, Black)
	for _, b := range black.Pix {
		if b != 0 {
			t.Fatalf("black image has pixel byte %#x", b)
		}
	}
}

func TestBitOrder(t *testing.T) {
	img := New(image.Rect(0, 0, 16, 1), White)
	img.SetMono(0, 0, Black)
	img.SetMono(9, 0, Black)
	if got, want := img.Pix[0], byte(0x7f); got != want {
		t.Errorf("byte 0 = %#x, want %#x", got, want)
	}
	if got, want := img.Pix[1], byte(0xbf); got != want {
		t.Errorf("byte 1 = %#x, want %#x", got, want)
	}
}

func TestOffsetRect(t *testing.T) {
	img := New(image.Rect(5, 7, 20, 10), White)
	img.Set(5, 7, color.Black)
	if img.Pix[0] != 0x7f {
		t.Errorf("origin pixel not at first bit: %#x", img.Pix[0])
	}
	if c := img.MonoAt(0, 0); c != White {
		t.Errorf("out of bounds pixel %v, want white", c)
	}
	// Out of bounds writes are ignored.
	img.SetMono(100, 100, Black)
}

func TestModel(t *testing.T) {
	tests := []struct {
		c    color.Color
		want Color
	}{
		{color.White, White},
		{color.Black, Black},
		{color.Gray{Y: 0x7f}, Black},
		{color.Gray{Y: 0x81}, White},
		{color.RGBA{R: 0xff, A: 0xff}, Black},
		{color.RGBA{G: 0xff, A: 0xff}, White},
		{White, White},
	}
	for _, test := range tests {
		if got := Model.Convert(test.c); got != test.want {
			t.Errorf("%v: got %v, want %v", test.c, got, test.want)
		}
	}
}

func TestFill(t *testing.T) {
	r := image.Rect(0, 0, 40, 4)
	img := New(r, White)
	band := image.Rect(3, 1, 37, 3)
	img.Fill(band, Black)
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			want := White
			if (image.Point{x, y}).In(band) {
				want = Black
			}
			if got := img.MonoAt(x, y); got != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawUniform(t *testing.T) {
	img := New(image.Rect(0, 0, 10, 10), White)
	draw.Draw(img, image.Rect(2, 2, 4, 4), image.NewUniform(color.Black), image.Point{}, draw.Src)
	img.Draw(image.Rect(6, 6, 8, 8), image.NewUniform(color.Black), image.Point{}, draw.Over)
	for _, pt := range []image.Point{{2, 2}, {3, 3}, {6, 6}, {7, 7}} {
		if img.MonoAt(pt.X, pt.Y) != Black {
			t.Errorf("%v not drawn", pt)
		}
	}
	if img.MonoAt(5, 5) != White {
		t.Error("(5,5) drawn")
	}
}

func TestPaletted(t *testing.T) {
	img := New(image.Rect(0, 0, 3, 1), White)
	img.SetMono(1, 0, Black)
	pal := img.Paletted()
	for x, want := range []uint8{1, 0, 1} {
		if got := pal.ColorIndexAt(x, 0); got != want {
			t.Errorf("index at %d = %d, want %d", x, got, want)
		}
	}
}

func TestConvert(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	// Left half black.
	for y := 0; y < 4; y++ {
		src.SetGray(0, y, color.Gray{})
		src.SetGray(1, y, color.Gray{})
	}
	dst := Convert(src, image.Rect(0, 0, 8, 8))
	if c := dst.MonoAt(0, 4); c != Black {
		t.Errorf("left edge %v, want black", c)
	}
	if c := dst.MonoAt(7, 4); c != White {
		t.Errorf("right edge %v, want white", c)
	}
}

func TestInkBounds(t *testing.T) {
	img := New(image.Rect(0, 0, 20, 20), White)
	if got := img.InkBounds(img.Bounds()); !got.Empty() {
		t.Errorf("blank image ink %v", got)
	}
	img.SetMono(3, 4, Black)
	img.SetMono(10, 12, Black)
	if got, want := img.InkBounds(img.Bounds()), image.Rect(3, 4, 11, 13); got != want {
		t.Errorf("ink %v, want %v", got, want)
	}
	if got, want := img.InkBounds(image.Rect(5, 5, 20, 20)), image.Rect(10, 12, 11, 13); got != want {
		t.Errorf("ink %v, want %v", got, want)
	}
}
