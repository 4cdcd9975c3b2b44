package fonts

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Status reports how a Handle was obtained.
type Status int

const (
	// Loaded faces come from the requested file.
	Loaded Status = iota
	// Degraded faces come from the fallback file.
	Degraded
	// Builtin faces are the fixed size bitmap font. They cover ASCII only.
	Builtin
)

func (s Status) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Degraded:
		return "degraded"
	case Builtin:
		return "builtin"
	}
	return "unknown"
}

// reference is measured to derive the line height. It spans CJK ascenders
// and Latin capitals.
const reference = "测试ABC"

// Handle is a face at a fixed pixel size. It is safe for concurrent use.
type Handle struct {
	path   string
	size   int
	status Status
	// ref is the ink bounds of the reference string, relative to
	// the baseline origin.
	ref fixed.Rectangle26_6

	mu   sync.Mutex
	face font.Face
}

func newHandle(f *opentype.Font, path string, size int) (*Handle, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	return wrap(face, path, size, Loaded), nil
}

func newBuiltin(size int) *Handle {
	return wrap(basicfont.Face7x13, "", size, Builtin)
}

func wrap(face font.Face, path string, size int, status Status) *Handle {
	h := &Handle{
		path:   path,
		size:   size,
		status: status,
		face:   face,
	}
	h.ref, _ = font.BoundString(face, reference)
	if h.ref.Max.Y <= h.ref.Min.Y {
		m := face.Metrics()
		h.ref.Min.Y, h.ref.Max.Y = -m.Ascent, m.Descent
	}
	return h
}

// Path is the file the face was loaded from, empty for the built-in face.
func (h *Handle) Path() string { return h.path }

// Size is the requested pixel size.
func (h *Handle) Size() int { return h.size }

func (h *Handle) Status() Status { return h.status }

// Width returns the advance width of txt in pixels.
func (h *Handle) Width(txt string) int {
	if txt == "" {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return font.MeasureString(h.face, txt).Ceil()
}

// Measure returns the size of the ink bounding box of txt.
func (h *Handle) Measure(txt string) image.Point {
	if txt == "" {
		return image.Point{}
	}
	h.mu.Lock()
	b, _ := font.BoundString(h.face, txt)
	h.mu.Unlock()
	return image.Pt((b.Max.X - b.Min.X).Ceil(), (b.Max.Y - b.Min.Y).Ceil())
}

// LineHeight is the height of the reference string's bounding box.
func (h *Handle) LineHeight() int {
	return (h.ref.Max.Y - h.ref.Min.Y).Ceil()
}

// Ascent is the distance from the top of a line to its baseline.
func (h *Handle) Ascent() int {
	return (-h.ref.Min.Y).Ceil()
}

// Draw renders txt with the top of its line at top.Y and the pen starting
// at top.X.
func (h *Handle) Draw(dst draw.Image, top image.Point, txt string, c color.Color) {
	if txt == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: h.face,
		Dot:  fixed.P(top.X, top.Y+h.Ascent()),
	}
	d.DrawString(txt)
}
