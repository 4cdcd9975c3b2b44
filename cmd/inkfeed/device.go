package main

import (
	"fmt"
	"image"
	"log/slog"

	"inkfeed.dev/config"
	"inkfeed.dev/epd"
)

// openDevice opens the panel for the configured mode. Auto mode falls
// back to the simulator when the panel cannot be opened.
func openDevice(cfg config.Config, logger *slog.Logger) (epd.Device, error) {
	d := cfg.Device
	sim := func() epd.Device {
		dims := image.Pt(cfg.Display.Width, cfg.Display.Height)
		return epd.NewSimulator(d.DebugDir, dims, logger.With("component", "epd"))
	}
	if d.Mode == config.ModeSimulation {
		return sim(), nil
	}
	dev, err := epd.Open(epd.Options{
		SPIPort:  d.SPIPort,
		LockFile: d.LockFile,
		Rotation: cfg.Display.Rotation,
		Logger:   logger.With("component", "epd"),
	})
	if err != nil {
		if d.Mode == config.ModeHardware {
			return nil, err
		}
		logger.Warn("inkfeed: panel unavailable, simulating", "err", err, "dir", d.DebugDir)
		return sim(), nil
	}
	if sz, want := dev.Size(), image.Pt(cfg.Display.Width, cfg.Display.Height); sz != want {
		dev.Close()
		return nil, fmt.Errorf("display size %v does not match panel size %v", want, sz)
	}
	return dev, nil
}
