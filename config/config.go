// Package config loads the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrMissingSection = errors.New("missing required section")

// requiredSections must be present in every configuration file.
var requiredSections = []string{"display", "logging"}

type Config struct {
	Display Display `yaml:"display"`
	Logging Logging `yaml:"logging"`
	Device  Device  `yaml:"device"`
}

type Display struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	Rotation         int     `yaml:"rotation"`
	FontFile         string  `yaml:"font_file"`
	FontFileFallback string  `yaml:"font_file_fallback"`
	FontSizeTitle    int     `yaml:"font_size_title"`
	FontSizeHeadline int     `yaml:"font_size_headline"`
	FontSizeSummary  int     `yaml:"font_size_summary"`
	FontSizeMeta     int     `yaml:"font_size_meta"`
	LineSpacing      float64 `yaml:"line_spacing"`
	Margin           int     `yaml:"margin"`
	TitleHeight      int     `yaml:"title_height"`
	FooterHeight     int     `yaml:"footer_height"`
	Brand            string  `yaml:"brand"`
}

type Logging struct {
	Level string `yaml:"level"`
	// Logfile is the rotated log file. Empty logs to stderr only.
	Logfile     string `yaml:"logfile"`
	MaxLogSize  int64  `yaml:"max_log_size"`
	BackupCount int    `yaml:"backup_count"`
}

type Mode string

const (
	ModeAuto       Mode = "auto"
	ModeHardware   Mode = "hardware"
	ModeSimulation Mode = "simulation"
)

type Device struct {
	Mode     Mode   `yaml:"mode"`
	DebugDir string `yaml:"debug_dir"`
	LockFile string `yaml:"lock_file"`
	SPIPort  string `yaml:"spi_port"`
}

func Default() Config {
	return Config{
		Display: Display{
			Width:            240,
			Height:           360,
			FontFile:         "/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
			FontFileFallback: "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			FontSizeTitle:    18,
			FontSizeHeadline: 16,
			FontSizeSummary:  15,
			FontSizeMeta:     9,
			LineSpacing:      1.2,
			Margin:           6,
			TitleHeight:      35,
			FooterHeight:     20,
			Brand:            "AI-RSS",
		},
		Logging: Logging{
			Level:       "info",
			MaxLogSize:  10 << 20,
			BackupCount: 3,
		},
		Device: Device{
			Mode:     ModeAuto,
			DebugDir: "data",
			LockFile: "/run/lock/inkfeed-epd.lock",
		},
	}
}

// Load reads the configuration at path. Keys absent from the file keep
// their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	var sections map[string]yaml.Node
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return Config{}, err
	}
	var missing []string
	for _, s := range requiredSections {
		if _, ok := sections[s]; !ok {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingSection, strings.Join(missing, ", "))
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	d := c.Display
	switch {
	case d.Width <= 0 || d.Height <= 0:
		return fmt.Errorf("display: invalid size %dx%d", d.Width, d.Height)
	case d.Margin < 0 || d.TitleHeight < 0 || d.FooterHeight < 0:
		return errors.New("display: negative margin or band height")
	case d.Width-2*d.Margin <= 0:
		return fmt.Errorf("display: margin %d leaves no content width", d.Margin)
	case d.Rotation%90 != 0:
		return fmt.Errorf("display: rotation %d is not a multiple of 90", d.Rotation)
	case d.LineSpacing <= 0:
		return fmt.Errorf("display: invalid line spacing %v", d.LineSpacing)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch c.Device.Mode {
	case ModeAuto, ModeHardware, ModeSimulation:
	default:
		return fmt.Errorf("device: unknown mode %q", c.Device.Mode)
	}
	return nil
}

// SlogLevel parses Level. The names "warning" and "critical" are accepted
// for warn and error.
func (l Logging) SlogLevel() (slog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(l.Level))
	switch name {
	case "warning":
		name = "warn"
	case "critical":
		name = "error"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}
