package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

const minimal = `
display:
  width: 240
logging:
  level: debug
`

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Logging.Level = "debug"
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
display:
  height: 400
  rotation: 180
  line_spacing: 1.5
  font_file: /tmp/a.ttf
logging:
  logfile: logs/app.log
  backup_count: 5
device:
  mode: simulation
  debug_dir: /tmp/frames
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Display.Height != 400 || cfg.Display.Width != 240 || cfg.Display.Rotation != 180 {
		t.Errorf("display %+v", cfg.Display)
	}
	if cfg.Display.LineSpacing != 1.5 || cfg.Display.FontFile != "/tmp/a.ttf" {
		t.Errorf("display %+v", cfg.Display)
	}
	if cfg.Logging.Logfile != "logs/app.log" || cfg.Logging.BackupCount != 5 || cfg.Logging.MaxLogSize != 10<<20 {
		t.Errorf("logging %+v", cfg.Logging)
	}
	if cfg.Device.Mode != ModeSimulation || cfg.Device.DebugDir != "/tmp/frames" {
		t.Errorf("device %+v", cfg.Device)
	}
}

func TestMissingSection(t *testing.T) {
	_, err := Parse([]byte("display:\n  width: 240\n"))
	if !errors.Is(err, ErrMissingSection) {
		t.Errorf("got %v, want ErrMissingSection", err)
	}
}

func TestInvalid(t *testing.T) {
	tests := []string{
		"display:\n  width: 0\nlogging: {}\n",
		"display:\n  margin: 120\nlogging: {}\n",
		"display:\n  rotation: 45\nlogging: {}\n",
		"display:\n  line_spacing: 0\nlogging: {}\n",
		"display: {}\nlogging:\n  level: loud\n",
		"display: {}\nlogging: {}\ndevice:\n  mode: remote\n",
		"display: [\n",
	}
	for _, test := range tests {
		if _, err := Parse([]byte(test)); err == nil {
			t.Errorf("%q: parsed without error", test)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(minimal), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Error(err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"CRITICAL", slog.LevelError},
	}
	for _, test := range tests {
		got, err := Logging{Level: test.name}.SlogLevel()
		if err != nil || got != test.want {
			t.Errorf("%q: got %v, %v, want %v", test.name, got, err, test.want)
		}
	}
}
