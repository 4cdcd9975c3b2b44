// Package layout wraps and truncates mixed Latin and CJK text to pixel
// widths.
//
// CJK characters break anywhere. Other text breaks only at whitespace,
// and a word wider than the line overflows it unless BreakLongWords is
// set.
package layout

import (
	"image"
	"iter"
	"slices"
	"strings"
	"unicode"
)

// Face measures text. *fonts.Handle implements it.
type Face interface {
	// Width returns the advance width of txt in pixels.
	Width(txt string) int
	LineHeight() int
}

// Ellipsis marks truncated text.
const Ellipsis = "..."

const DefaultLineSpacing = 1.2

type Engine struct {
	// LineSpacing multiplies the face line height.
	LineSpacing float64
	// BreakLongWords splits words wider than the line at rune
	// boundaries.
	BreakLongWords bool
}

// New returns an engine with the given line spacing. Non-positive values
// select DefaultLineSpacing.
func New(lineSpacing float64) Engine {
	if lineSpacing <= 0 {
		lineSpacing = DefaultLineSpacing
	}
	return Engine{LineSpacing: lineSpacing}
}

func (e Engine) spacing() float64 {
	if e.LineSpacing <= 0 {
		return DefaultLineSpacing
	}
	return e.LineSpacing
}

// IsCJK reports whether r is a CJK ideograph or a full-width form.
func IsCJK(r rune) bool {
	switch {
	case 0x4e00 <= r && r <= 0x9fff,
		0x3400 <= r && r <= 0x4dbf,
		0x20000 <= r && r <= 0x2ebef,
		0xff00 <= r && r <= 0xffef:
		return true
	}
	return false
}

// Lines yields the wrapped lines of txt. Whitespace is kept with the word
// it follows.
func (e Engine) Lines(txt string, f Face, maxWidth int) iter.Seq[string] {
	return func(yield func(string) bool) {
		if txt == "" {
			return
		}
		if f.Width(txt) <= maxWidth {
			yield(txt)
			return
		}
		w := &wrapper{face: f, maxWidth: maxWidth, split: e.BreakLongWords, yield: yield}
		var run strings.Builder
		for _, c := range txt {
			switch {
			case IsCJK(c):
				if run.Len() > 0 {
					if !w.place(run.String()) {
						return
					}
					run.Reset()
				}
				if !w.place(string(c)) {
					return
				}
			case unicode.IsSpace(c):
				run.WriteRune(c)
				if !w.place(run.String()) {
					return
				}
				run.Reset()
			default:
				run.WriteRune(c)
			}
		}
		if run.Len() > 0 && !w.place(run.String()) {
			return
		}
		if w.line != "" {
			yield(w.line)
		}
	}
}

type wrapper struct {
	face     Face
	maxWidth int
	split    bool
	yield    func(string) bool
	// line is the line being filled.
	line string
}

func (w *wrapper) fits(s string) bool {
	return w.face.Width(s) <= w.maxWidth
}

// place appends s to the current line, or ends the line and starts a new
// one with s. It returns false if the consumer stopped.
func (w *wrapper) place(s string) bool {
	if test := w.line + s; w.fits(test) {
		w.line = test
		return true
	}
	if w.line != "" && !w.yield(w.line) {
		return false
	}
	w.line = s
	if w.split {
		return w.splitLine()
	}
	return true
}

// splitLine emits the longest fitting prefixes of the current line until
// the remainder fits. Each emitted piece has at least one rune.
func (w *wrapper) splitLine() bool {
	for !w.fits(w.line) {
		rs := []rune(w.line)
		n := 1
		for n < len(rs) && w.fits(string(rs[:n+1])) {
			n++
		}
		if n >= len(rs) {
			break
		}
		if !w.yield(string(rs[:n])) {
			return false
		}
		w.line = string(rs[n:])
	}
	return true
}

// Wrap returns the lines of txt broken to fit maxWidth.
func (e Engine) Wrap(txt string, f Face, maxWidth int) []string {
	return slices.Collect(e.Lines(txt, f, maxWidth))
}

// Truncate wraps txt and keeps at most maxLines lines, joined by newlines.
// With ellipsis set, a cut is marked by shortening the last kept line
// until it fits with Ellipsis appended.
func (e Engine) Truncate(txt string, f Face, maxWidth, maxLines int, ellipsis bool) string {
	lines := e.Wrap(txt, f, maxWidth)
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	if maxLines <= 0 {
		return ""
	}
	lines = lines[:maxLines]
	if ellipsis {
		last := []rune(lines[maxLines-1])
		for len(last) > 0 && f.Width(string(last)+Ellipsis) > maxWidth {
			last = last[:len(last)-1]
		}
		lines[maxLines-1] = string(last) + Ellipsis
	}
	return strings.Join(lines, "\n")
}

// LineAdvance is the vertical distance between consecutive lines.
func (e Engine) LineAdvance(f Face) int {
	return int(float64(f.LineHeight()) * e.spacing())
}

// Height returns the height of txt wrapped to maxWidth.
func (e Engine) Height(txt string, f Face, maxWidth int) int {
	if txt == "" {
		return 0
	}
	n := len(e.Wrap(txt, f, maxWidth))
	return int(float64(n*f.LineHeight()) * e.spacing())
}

// MaxLines returns the number of lines that fit in height pixels. Any
// positive height fits at least one line.
func (e Engine) MaxLines(height int, f Face) int {
	if height <= 0 {
		return 0
	}
	adv := float64(f.LineHeight()) * e.spacing()
	if adv <= 0 {
		return 1
	}
	return max(1, int(float64(height)/adv))
}

// Center returns the top-left position that centers txt, wrapped to
// maxWidth, in a container of the given size. A non-positive maxWidth
// wraps to the container width. Offsets are negative when txt is larger
// than the container.
func (e Engine) Center(txt string, f Face, container image.Point, maxWidth int) image.Point {
	if maxWidth <= 0 {
		maxWidth = container.X
	}
	width := 0
	for l := range e.Lines(txt, f, maxWidth) {
		width = max(width, f.Width(l))
	}
	height := e.Height(txt, f, maxWidth)
	return image.Pt((container.X-width)/2, (container.Y-height)/2)
}

// Fit truncates txt to the lines that fit in area. See Truncate for the
// meaning of ellipsis.
func (e Engine) Fit(txt string, f Face, area image.Point, ellipsis bool) string {
	return e.Truncate(txt, f, area.X, e.MaxLines(area.Y, f), ellipsis)
}
