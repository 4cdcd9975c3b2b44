package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
	"inkfeed.dev/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger logs to stderr and, when configured, to a rotated log file.
func newLogger(cfg config.Logging) (*slog.Logger, io.Closer, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if cfg.Logfile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logfile), 0o755); err != nil {
			return nil, nil, err
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.Logfile,
			MaxSize:    megabytes(cfg.MaxLogSize),
			MaxBackups: cfg.BackupCount,
		}
		w = io.MultiWriter(os.Stderr, lj)
		closer = lj
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h), closer, nil
}

// megabytes rounds a byte count up to lumberjack's unit, at least 1.
func megabytes(n int64) int {
	const mb = 1 << 20
	return max(1, int((n+mb-1)/mb))
}
