package epd

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"inkfeed.dev/image/mono"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/bcm283x"
)

// EPD drives the Waveshare 3.52" 240x360 e-paper HAT.
type EPD struct {
	dims     image.Point
	rotation int
	log      *slog.Logger
	lock     io.Closer
	spi      spi.PortCloser
	conn     spi.Conn
	maxTx    int
	timeout  time.Duration

	initialized bool
}

type Options struct {
	// SPIPort names the SPI port. Empty selects the first available.
	SPIPort string
	// LockFile is locked exclusively while the panel is open. Empty
	// disables locking.
	LockFile string
	// Rotation rotates frames clockwise, in degrees.
	Rotation int
	// BusyTimeout bounds waits for the panel. Zero selects 30 seconds.
	BusyTimeout time.Duration
	Logger      *slog.Logger
}

const (
	epdWidth  = 240
	epdHeight = 360

	defaultBusyTimeout = 30 * time.Second
)

var (
	EPD_RST  = bcm283x.GPIO17
	EPD_DC   = bcm283x.GPIO25
	EPD_CS   = bcm283x.GPIO8
	EPD_BUSY = bcm283x.GPIO24
	EPD_PWR  = bcm283x.GPIO18
)

// Open locks and connects the panel. It does not touch the panel until
// Init.
func Open(opts Options) (*EPD, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	lock, err := acquireLock(opts.LockFile)
	if err != nil {
		return nil, err
	}
	if _, err := host.Init(); err != nil {
		lock.Close()
		return nil, fmt.Errorf("epd: %w", err)
	}
	p, err := spireg.Open(opts.SPIPort)
	if err != nil {
		lock.Close()
		return nil, fmt.Errorf("epd: %w", err)
	}
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		lock.Close()
		return nil, fmt.Errorf("epd: %w", err)
	}
	e := &EPD{
		dims:     image.Pt(epdWidth, epdHeight),
		rotation: opts.Rotation,
		log:      logger,
		lock:     lock,
		spi:      p,
		conn:     c,
		maxTx:    4096,
		timeout:  defaultBusyTimeout,
	}
	if opts.BusyTimeout > 0 {
		e.timeout = opts.BusyTimeout
	}
	if lim, ok := c.(conn.Limits); ok {
		e.maxTx = lim.MaxTxSize()
	}
	logger.Info("epd: panel connected", "port", p.String(), "size", e.dims)
	return e, nil
}

func (e *EPD) Size() image.Point {
	return logicalSize(e.dims, e.rotation)
}

func (e *EPD) Close() error {
	var err error
	if e.spi != nil {
		err = e.spi.Close()
		e.spi = nil
		e.conn = nil
	}
	if e.lock != nil {
		if lerr := e.lock.Close(); err == nil {
			err = lerr
		}
		e.lock = nil
	}
	return err
}

func (e *EPD) sendCommand(cmd byte, data ...byte) error {
	EPD_DC.FastOut(gpio.Low)
	EPD_CS.FastOut(gpio.Low)
	err := e.conn.Tx([]byte{cmd}, nil)
	EPD_CS.FastOut(gpio.High)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		return e.sendData(data)
	}
	return nil
}

// sendData writes data in chunks no larger than the SPI port allows.
func (e *EPD) sendData(data []byte) error {
	EPD_DC.FastOut(gpio.High)
	for len(data) > 0 {
		n := min(len(data), e.maxTx)
		EPD_CS.FastOut(gpio.Low)
		err := e.conn.Tx(data[:n], nil)
		EPD_CS.FastOut(gpio.High)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// waitIdle polls the busy pin, which is low while the panel works.
func (e *EPD) waitIdle() error {
	deadline := time.Now().Add(e.timeout)
	for EPD_BUSY.Read() == gpio.Low {
		if time.Now().After(deadline) {
			return ErrBusyTimeout
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (e *EPD) reset() {
	EPD_RST.FastOut(gpio.High)
	time.Sleep(200 * time.Millisecond)
	EPD_RST.FastOut(gpio.Low)
	time.Sleep(2 * time.Millisecond)
	EPD_RST.FastOut(gpio.High)
	time.Sleep(200 * time.Millisecond)
}

func (e *EPD) setup() error {
	for _, p := range []gpio.PinOut{EPD_PWR, EPD_CS, EPD_RST, EPD_DC} {
		if err := p.Out(gpio.High); err != nil {
			return fmt.Errorf("epd: %w", err)
		}
	}
	if err := EPD_BUSY.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("epd: %w", err)
	}
	e.reset()

	var cmdErr error
	sendCommand := func(cmd byte, data ...byte) {
		if cmdErr != nil {
			return
		}
		cmdErr = e.sendCommand(cmd, data...)
	}
	sendCommand(0x00 /*PSR*/, 0xff, 0x01)
	sendCommand(0x01 /*PWR*/, 0x03, 0x10, 0x3f, 0x3f, 0x03)
	sendCommand(0x06 /*BTST*/, 0x37, 0x3d, 0x3d)
	sendCommand(0x60 /*TCON*/, 0x22)
	sendCommand(0x82 /*VDCS*/, 0x07)
	sendCommand(0x30 /*PLL*/, 0x09)
	sendCommand(0xe3 /*PWS*/, 0x88)
	sendCommand(0x61 /*TRES*/, epdWidth, epdHeight>>8, epdHeight&0xff)
	sendCommand(0x50 /*CDI*/, 0xb7)
	sendCommand(0x04 /*PON*/)
	if cmdErr != nil {
		return fmt.Errorf("epd: SPI command: %w", cmdErr)
	}
	return e.waitIdle()
}

// Init resets the panel and clears it to white.
func (e *EPD) Init() error {
	if e.conn == nil {
		return fmt.Errorf("epd: panel closed")
	}
	if err := e.setup(); err != nil {
		return err
	}
	e.initialized = true
	if err := e.Clear(); err != nil {
		e.initialized = false
		return err
	}
	e.log.Info("epd: panel initialized")
	return nil
}

func (e *EPD) Display(img *mono.Image) error {
	if !e.initialized {
		return ErrNotInitialized
	}
	return e.show(Pack(img, e.dims, e.rotation))
}

func (e *EPD) Clear() error {
	if !e.initialized {
		return ErrNotInitialized
	}
	return e.show(Pack(mono.New(image.Rectangle{Max: e.Size()}, mono.White), e.dims, e.rotation))
}

// show writes a packed frame and refreshes the panel.
func (e *EPD) show(frame []byte) error {
	if err := e.sendCommand(0x13 /*DTM2*/, frame...); err != nil {
		return fmt.Errorf("epd: frame: %w", err)
	}
	if err := e.sendCommand(0x12 /*DRF*/); err != nil {
		return fmt.Errorf("epd: refresh: %w", err)
	}
	start := time.Now()
	if err := e.waitIdle(); err != nil {
		return err
	}
	e.log.Debug("epd: refreshed", "elapsed", time.Since(start))
	return nil
}

func (e *EPD) Sleep() error {
	if !e.initialized {
		return nil
	}
	e.initialized = false
	if err := e.sendCommand(0x02 /*POF*/); err != nil {
		return fmt.Errorf("epd: %w", err)
	}
	if err := e.waitIdle(); err != nil {
		return err
	}
	if err := e.sendCommand(0x07 /*DSLP*/, 0xa5); err != nil {
		return fmt.Errorf("epd: %w", err)
	}
	e.log.Info("epd: panel asleep")
	return nil
}
