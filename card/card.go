// Package card renders news records as fixed layout cards on a 1-bit
// canvas. The header band is black with a white label; the summary fills
// whatever space the title leaves above the footer.
package card

import (
	"fmt"
	"image"
	"strings"

	"inkfeed.dev/article"
	"inkfeed.dev/fonts"
	"inkfeed.dev/image/mono"
	"inkfeed.dev/layout"
)

// FontSource provides faces by role. *fonts.Resolver implements it.
type FontSource interface {
	ResolveNamed(role fonts.Role, base int) *fonts.Handle
}

type Geometry struct {
	Width, Height int
	Margin        int
	HeaderHeight  int
	FooterHeight  int
}

var DefaultGeometry = Geometry{
	Width:        240,
	Height:       360,
	Margin:       6,
	HeaderHeight: 35,
	FooterHeight: 20,
}

// Sizes are base font sizes. Roles scale them, see fonts.Role.
type Sizes struct {
	Headline int
	Title    int
	Summary  int
	Meta     int
}

var DefaultSizes = Sizes{
	Headline: 16,
	Title:    18,
	Summary:  15,
	Meta:     9,
}

// Placeholders replace empty record fields.
type Placeholders struct {
	Title   string
	Summary string
}

var DefaultPlaceholders = Placeholders{
	Title:   "无标题",
	Summary: "暂无摘要",
}

const (
	// maxTitleLines is the number of title lines shown before an
	// ellipsis line.
	maxTitleLines = 3
	// titleGap separates the header band and the title.
	titleGap = 5
	// summaryGap separates the title and the summary.
	summaryGap = 10
	// footerTextOffset is the distance from the footer rule to the
	// footer text.
	footerTextOffset = 4
	// pageBottomGap is the space kept above the footer on simple pages.
	pageBottomGap = 20
)

// Renderer draws cards. Fields may be changed before rendering.
type Renderer struct {
	// Brand labels the header band.
	Brand        string
	Sizes        Sizes
	Placeholders Placeholders

	fonts  FontSource
	layout layout.Engine
	geom   Geometry
}

func New(f FontSource, e layout.Engine, g Geometry) *Renderer {
	return &Renderer{
		Brand:        "AI-RSS",
		Sizes:        DefaultSizes,
		Placeholders: DefaultPlaceholders,
		fonts:        f,
		layout:       e,
		geom:         g,
	}
}

func (r *Renderer) Geometry() Geometry {
	return r.geom
}

// bands splits the canvas into header, content and footer. Content
// excludes the side margins.
func (r *Renderer) bands() (header, content, footer Rectangle) {
	g := r.geom
	canvas := Rectangle(image.Rect(0, 0, g.Width, g.Height))
	header, rest := canvas.CutTop(g.HeaderHeight)
	body, footer := rest.CutBottom(g.FooterHeight)
	content = body.Shrink(0, g.Margin, 0, g.Margin)
	return header, content, footer
}

// Label returns the header text for card index of total. A total of zero
// or less omits the counter.
func (r *Renderer) Label(index, total int) string {
	if total <= 0 {
		return r.Brand
	}
	return fmt.Sprintf("%s | %d/%d", r.Brand, index, total)
}

// RenderCard draws a as card index (1-based) of total. Empty fields
// render placeholders.
func (r *Renderer) RenderCard(a article.Article, index, total int) *mono.Image {
	img := mono.New(image.Rect(0, 0, r.geom.Width, r.geom.Height), mono.White)
	header, content, footer := r.bands()
	r.drawHeader(img, header, r.Label(index, total))
	y := r.drawTitle(img, content, a.Title)
	r.drawSummary(img, content, y+summaryGap, summaryText(a, r.Placeholders.Summary))
	r.drawFooter(img, footer, article.Footer(a))
	return img
}

// RenderSimplePage draws a page with title in the header band, wrapped
// content below it, and an optional footer. An empty title shows the
// brand. Lines past the bottom of the page are dropped.
func (r *Renderer) RenderSimplePage(title, content, footerText string) *mono.Image {
	img := mono.New(image.Rect(0, 0, r.geom.Width, r.geom.Height), mono.White)
	header, body, footer := r.bands()
	label := article.Clean(title)
	if label == "" {
		label = r.Label(0, 0)
	}
	r.drawHeader(img, header, label)
	f := r.fonts.ResolveNamed(fonts.Summary, r.Sizes.Summary)
	step := r.layout.LineAdvance(f)
	y := body.Min.Y + r.geom.Margin + titleGap
	limit := r.geom.Height - r.geom.FooterHeight - pageBottomGap
	for line := range r.layout.Lines(article.Clean(content), f, body.Dx()) {
		if y > limit {
			break
		}
		f.Draw(img, image.Pt(body.Min.X, y), line, mono.Black)
		y += step
	}
	if footerText != "" {
		r.drawFooter(img, footer, footerText)
	}
	return img
}

func (r *Renderer) drawHeader(img *mono.Image, band Rectangle, label string) {
	img.Fill(image.Rectangle(band), mono.Black)
	f := r.fonts.ResolveNamed(fonts.Headline, r.Sizes.Headline)
	pos := band.Center(image.Pt(f.Width(label), f.LineHeight()))
	f.Draw(img, pos, label, mono.White)
}

// drawTitle draws the title lines and returns the y position below them.
func (r *Renderer) drawTitle(img *mono.Image, content Rectangle, title string) int {
	title = article.Clean(title)
	if title == "" {
		title = r.Placeholders.Title
	}
	f := r.fonts.ResolveNamed(fonts.Title, r.Sizes.Title)
	step := r.layout.LineAdvance(f)
	lines := r.layout.Wrap(title, f, content.Dx())
	y := content.Min.Y + r.geom.Margin + titleGap
	for _, l := range lines[:min(len(lines), maxTitleLines)] {
		f.Draw(img, image.Pt(content.Min.X, y), l, mono.Black)
		y += step
	}
	if len(lines) > maxTitleLines {
		f.Draw(img, image.Pt(content.Min.X, y), layout.Ellipsis, mono.Black)
		y += step
	}
	return y
}

func (r *Renderer) drawSummary(img *mono.Image, content Rectangle, y int, summary string) {
	f := r.fonts.ResolveNamed(fonts.Summary, r.Sizes.Summary)
	avail := r.geom.Height - y - r.geom.FooterHeight - r.geom.Margin
	n := r.layout.MaxLines(avail, f)
	txt := r.layout.Truncate(summary, f, content.Dx(), n, true)
	if txt == "" {
		return
	}
	step := r.layout.LineAdvance(f)
	for _, l := range strings.Split(txt, "\n") {
		f.Draw(img, image.Pt(content.Min.X, y), l, mono.Black)
		y += step
	}
}

func (r *Renderer) drawFooter(img *mono.Image, band Rectangle, text string) {
	y := band.Min.Y
	img.Line(image.Pt(r.geom.Margin, y), image.Pt(r.geom.Width-r.geom.Margin, y), mono.Black, 1)
	f := r.fonts.ResolveNamed(fonts.Meta, r.Sizes.Meta)
	f.Draw(img, image.Pt(r.geom.Margin, y+footerTextOffset), text, mono.Black)
}

// summaryText picks the summary, then the content, then the placeholder.
func summaryText(a article.Article, placeholder string) string {
	if s := article.Clean(a.Summary); s != "" {
		return s
	}
	if s := article.Clean(a.Content); s != "" {
		return s
	}
	return placeholder
}
