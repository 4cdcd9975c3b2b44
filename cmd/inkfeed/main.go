// command inkfeed renders news records as cards on an e-paper display.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"inkfeed.dev/article"
	"inkfeed.dev/card"
	"inkfeed.dev/config"
	"inkfeed.dev/epd"
	"inkfeed.dev/fonts"
	"inkfeed.dev/image/mono"
	"inkfeed.dev/layout"
)

// Version is set by the Go linker with -ldflags='-X main.Version=...'.
var Version string

var (
	configFile = flag.String("config", "config.yml", "configuration file")
	input      = flag.String("in", "", "records file, JSON or .cbor")
	mode       = flag.String("mode", "", "device mode: auto, hardware or simulation")
	title      = flag.String("title", "", "simple page title")
	text       = flag.String("text", "", "simple page content")
	footer     = flag.String("footer", "", "simple page footer")
	picture    = flag.String("image", "", "display a PNG image, dithered to black and white")
	output     = flag.String("out", "", "also write each frame as PNG to directory")
	save       = flag.String("save", "", "write the loaded records to a CBOR file")
	interval   = flag.Duration("interval", 0, "time each card stays up before the next")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "inkfeed: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	flag.Parse()
	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *mode != "" {
		cfg.Device.Mode = config.Mode(*mode)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog.Close()
	logger.Info("inkfeed: starting", "version", Version, "config", *configFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := cfg.Display
	res := fonts.NewResolver(d.FontFile, d.FontFileFallback, logger.With("component", "fonts"))
	r := card.New(res, layout.New(d.LineSpacing), card.Geometry{
		Width:        d.Width,
		Height:       d.Height,
		Margin:       d.Margin,
		HeaderHeight: d.TitleHeight,
		FooterHeight: d.FooterHeight,
	})
	r.Brand = d.Brand
	r.Sizes = card.Sizes{
		Headline: d.FontSizeHeadline,
		Title:    d.FontSizeTitle,
		Summary:  d.FontSizeSummary,
		Meta:     d.FontSizeMeta,
	}

	var frames []*mono.Image
	switch {
	case *picture != "":
		img, err := loadImage(*picture, image.Rect(0, 0, d.Width, d.Height))
		if err != nil {
			return err
		}
		frames = append(frames, img)
	case *title != "" || *text != "":
		frames = append(frames, r.RenderSimplePage(*title, *text, *footer))
	case *input != "":
		articles, err := article.Load(*input)
		if err != nil {
			return err
		}
		logger.Info("inkfeed: records loaded", "path", *input, "count", len(articles))
		if *save != "" {
			if err := saveRecords(*save, articles); err != nil {
				return err
			}
		}
		for i, a := range articles {
			frames = append(frames, r.RenderCard(a, i+1, len(articles)))
		}
	default:
		return errors.New("specify -in, -title/-text or -image")
	}
	if *output != "" {
		for i, f := range frames {
			if err := epd.WritePNG(filepath.Join(*output, fmt.Sprintf("card-%d.png", i+1)), f); err != nil {
				return err
			}
		}
	}
	if len(frames) == 0 {
		logger.Warn("inkfeed: nothing to display")
		return nil
	}

	dev, err := openDevice(cfg, logger)
	if err != nil {
		return err
	}
	defer dev.Close()
	if err := dev.Init(); err != nil {
		return err
	}
	defer func() {
		if err := dev.Sleep(); err != nil {
			logger.Error("inkfeed: sleep failed", "err", err)
		}
	}()
	return show(ctx, dev, frames, *interval, logger)
}

// show displays frames in order, holding each for hold. It stops early
// when ctx is done.
func show(ctx context.Context, dev epd.Device, frames []*mono.Image, hold time.Duration, logger *slog.Logger) error {
	for i, f := range frames {
		if err := dev.Display(f); err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}
		logger.Info("inkfeed: frame displayed", "index", i+1, "total", len(frames))
		if hold <= 0 || i == len(frames)-1 {
			continue
		}
		select {
		case <-ctx.Done():
			logger.Info("inkfeed: interrupted")
			return nil
		case <-time.After(hold):
		}
	}
	return nil
}

func loadImage(path string, r image.Rectangle) (*mono.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mono.Convert(src, r), nil
}

func saveRecords(path string, articles []article.Article) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := article.WriteCBOR(f, articles); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
