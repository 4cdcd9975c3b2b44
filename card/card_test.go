package card

import (
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
	"inkfeed.dev/article"
	"inkfeed.dev/fonts"
	"inkfeed.dev/image/mono"
	"inkfeed.dev/layout"
)

func newRenderer(t *testing.T) (*Renderer, *fonts.Resolver) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	res := fonts.NewResolver(path, "", nil)
	return New(res, layout.New(1.2), DefaultGeometry), res
}

func hasInk(img *mono.Image, r image.Rectangle) bool {
	return !img.InkBounds(r).Empty()
}

func TestLabel(t *testing.T) {
	r, _ := newRenderer(t)
	if got, want := r.Label(1, 5), "AI-RSS | 1/5"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := r.Label(0, 0), "AI-RSS"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderCard(t *testing.T) {
	r, res := newRenderer(t)
	g := r.Geometry()
	img := r.RenderCard(article.Article{
		Title:     "Solar panels on every roof",
		Summary:   "A plan to cover the city with panels.",
		Source:    "Daily",
		Published: "2024-03-05T08:30:00Z",
	}, 2, 7)
	if got := img.Bounds(); got != image.Rect(0, 0, g.Width, g.Height) {
		t.Fatalf("bounds %v", got)
	}
	if img.MonoAt(1, 1) != mono.Black || img.MonoAt(g.Width-2, g.HeaderHeight-1) != mono.Black {
		t.Error("header band not black")
	}
	// The label is white text on the band.
	band := image.Rect(0, 0, g.Width, g.HeaderHeight)
	white := false
	for y := band.Min.Y; y < band.Max.Y && !white; y++ {
		for x := band.Min.X; x < band.Max.X; x++ {
			if img.MonoAt(x, y) == mono.White {
				white = true
				break
			}
		}
	}
	if !white {
		t.Error("header label not drawn")
	}
	title := image.Rect(g.Margin, g.HeaderHeight, g.Width-g.Margin, g.HeaderHeight+40)
	if !hasInk(img, title) {
		t.Error("title not drawn")
	}
	footerY := g.Height - g.FooterHeight
	for x := g.Margin; x <= g.Width-g.Margin; x++ {
		if img.MonoAt(x, footerY) != mono.Black {
			t.Fatalf("footer rule missing at x=%d", x)
		}
	}
	if img.MonoAt(g.Margin-1, footerY) != mono.White {
		t.Error("footer rule extends into margin")
	}
	if !hasInk(img, image.Rect(0, footerY+1, g.Width, g.Height)) {
		t.Error("footer text not drawn")
	}
	// Roles resolve scaled sizes: meta 7, summary 15, headline 17, title 21.
	if got, want := res.CacheInfo().Sizes, []int{7, 15, 17, 21}; !slices.Equal(got, want) {
		t.Errorf("resolved sizes %v, want %v", got, want)
	}
}

func TestRenderEmptyCard(t *testing.T) {
	r, _ := newRenderer(t)
	r.Placeholders.Title = "Untitled"
	g := r.Geometry()
	img := r.RenderCard(article.Article{}, 1, 1)
	title := image.Rect(g.Margin, g.HeaderHeight, g.Width-g.Margin, g.HeaderHeight+40)
	if !hasInk(img, title) {
		t.Error("title placeholder not drawn")
	}
	footerY := g.Height - g.FooterHeight
	if img.MonoAt(g.Width/2, footerY) != mono.Black {
		t.Error("footer rule missing")
	}
	if hasInk(img, image.Rect(0, footerY+1, g.Width, g.Height)) {
		t.Error("empty footer text drew ink")
	}
}

func TestRenderMalformedDate(t *testing.T) {
	r, _ := newRenderer(t)
	g := r.Geometry()
	img := r.RenderCard(article.Article{Title: "T", Published: "not-a-date"}, 1, 1)
	if !hasInk(img, image.Rect(0, g.Height-g.FooterHeight+1, g.Width, g.Height)) {
		t.Error("raw date not drawn in footer")
	}
}

func TestTitleLines(t *testing.T) {
	r, res := newRenderer(t)
	g := r.Geometry()
	_, content, _ := r.bands()
	f := res.ResolveNamed(fonts.Title, r.Sizes.Title)
	step := r.layout.LineAdvance(f)
	start := g.HeaderHeight + g.Margin + titleGap

	img := mono.New(image.Rect(0, 0, g.Width, g.Height), mono.White)
	if got, want := r.drawTitle(img, content, "Short"), start+step; got != want {
		t.Errorf("one line title ends at %d, want %d", got, want)
	}
	long := strings.Repeat("words that wrap ", 20)
	if got, want := r.drawTitle(img, content, long), start+(maxTitleLines+1)*step; got != want {
		t.Errorf("long title ends at %d, want %d", got, want)
	}
}

func TestSummaryClearOfFooter(t *testing.T) {
	r, _ := newRenderer(t)
	g := r.Geometry()
	img := r.RenderCard(article.Article{
		Title:   "Title",
		Summary: strings.Repeat("ABC DEF HIK LMN ", 60),
	}, 1, 1)
	footerY := g.Height - g.FooterHeight
	if hasInk(img, image.Rect(0, footerY-g.Margin, g.Width, footerY)) {
		t.Error("summary drawn into the footer margin")
	}
	if !hasInk(img, image.Rect(0, footerY-3*g.Margin-20, g.Width, footerY-g.Margin)) {
		t.Error("summary does not fill the available space")
	}
}

func TestSummaryFallback(t *testing.T) {
	tests := []struct {
		a    article.Article
		want string
	}{
		{article.Article{Summary: " s ", Content: "c"}, "s"},
		{article.Article{Content: "c\nd"}, "c d"},
		{article.Article{}, DefaultPlaceholders.Summary},
	}
	for _, test := range tests {
		if got := summaryText(test.a, DefaultPlaceholders.Summary); got != test.want {
			t.Errorf("%+v: got %q, want %q", test.a, got, test.want)
		}
	}
}

func TestRenderSimplePage(t *testing.T) {
	r, _ := newRenderer(t)
	g := r.Geometry()
	img := r.RenderSimplePage("Status", strings.Repeat("line of body text ", 80), "")
	if img.MonoAt(1, 1) != mono.Black {
		t.Error("header band not black")
	}
	if !hasInk(img, image.Rect(g.Margin, g.HeaderHeight, g.Width-g.Margin, g.HeaderHeight+40)) {
		t.Error("content not drawn")
	}
	footerY := g.Height - g.FooterHeight
	if img.MonoAt(g.Width/2, footerY) != mono.White {
		t.Error("footer rule drawn without footer text")
	}
	withFooter := r.RenderSimplePage("Status", "ok", "updated")
	if withFooter.MonoAt(g.Width/2, footerY) != mono.Black {
		t.Error("footer rule missing")
	}
}

func TestRegion(t *testing.T) {
	r := Rectangle(image.Rect(0, 0, 240, 360))
	top, rest := r.CutTop(35)
	if top != Rectangle(image.Rect(0, 0, 240, 35)) || rest != Rectangle(image.Rect(0, 35, 240, 360)) {
		t.Errorf("CutTop = %v, %v", top, rest)
	}
	body, bottom := rest.CutBottom(20)
	if bottom != Rectangle(image.Rect(0, 340, 240, 360)) || body.Max.Y != 340 {
		t.Errorf("CutBottom = %v, %v", body, bottom)
	}
	if got := body.Shrink(0, 6, 0, 6); got != Rectangle(image.Rect(6, 35, 234, 340)) {
		t.Errorf("Shrink = %v", got)
	}
	if got := top.Center(image.Pt(40, 15)); got != image.Pt(100, 10) {
		t.Errorf("Center = %v", got)
	}
	if got := Rectangle(image.Rect(0, 0, 4, 4)).Shrink(10, 10, 10, 10); !image.Rectangle(got).Empty() {
		t.Errorf("over-shrunk rectangle %v", got)
	}
}
