package epd

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"inkfeed.dev/image/mono"
)

// SimulatedFrame is the file name the Simulator writes each frame to.
const SimulatedFrame = "debug_current_view.png"

// Simulator is a Device that writes frames to a PNG file instead of a
// panel.
type Simulator struct {
	dir         string
	dims        image.Point
	log         *slog.Logger
	initialized bool
	last        *mono.Image
}

// NewSimulator returns a simulated panel of logical size dims writing to
// dir. A nil logger discards messages.
func NewSimulator(dir string, dims image.Point, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Simulator{dir: dir, dims: dims, log: logger}
}

func (s *Simulator) Size() image.Point {
	return s.dims
}

// Path is the file frames are written to.
func (s *Simulator) Path() string {
	return filepath.Join(s.dir, SimulatedFrame)
}

func (s *Simulator) Init() error {
	s.initialized = true
	s.log.Info("epd: simulated display initialized", "size", s.dims)
	return nil
}

func (s *Simulator) Display(img *mono.Image) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if err := WritePNG(s.Path(), img); err != nil {
		return err
	}
	s.last = img
	s.log.Info("epd: frame written", "path", s.Path())
	return nil
}

func (s *Simulator) Clear() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	return s.Display(mono.New(image.Rectangle{Max: s.dims}, mono.White))
}

func (s *Simulator) Sleep() error {
	s.initialized = false
	s.log.Info("epd: simulated display asleep")
	return nil
}

func (s *Simulator) Close() error {
	return nil
}

// Last returns the most recently displayed frame, or nil.
func (s *Simulator) Last() *mono.Image {
	return s.last
}

// WritePNG encodes img as a 1-bit PNG at path, creating parent
// directories.
func WritePNG(path string, img *mono.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("epd: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("epd: %w", err)
	}
	if err := png.Encode(f, img.Paletted()); err != nil {
		f.Close()
		return fmt.Errorf("epd: %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("epd: %w", err)
	}
	return nil
}
