package serial

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	tarm "github.com/tarm/serial"
	"go.uber.org/zap"

	"github.com/muurk/tl50ctl/internal/logging"
	"github.com/muurk/tl50ctl/internal/protocol"
)

const (
	// DefaultBaud is the TL50 serial line speed.
	DefaultBaud = 19200

	// DefaultWriteDelay is how long the light needs to process a frame
	// before it will accept the next one.
	DefaultWriteDelay = 90 * time.Millisecond

	// DefaultPort is used when no port is configured.
	DefaultPort = "/dev/ttyUSB0"
)

// Config describes one serial connection to a light.
type Config struct {
	Name        string        // device path, e.g. /dev/ttyUSB0 or COM3
	Baud        int           // line speed, 0 means DefaultBaud
	WriteDelay  time.Duration // settle time after each frame
	ReadTimeout time.Duration // passed to the port; the light never answers
}

// DefaultConfig returns the configuration the light ships with.
func DefaultConfig(name string) Config {
	if name == "" {
		name = DefaultPort
	}
	return Config{
		Name:       name,
		Baud:       DefaultBaud,
		WriteDelay: DefaultWriteDelay,
	}
}

// Port is the subset of a serial port the driver uses.
type Port interface {
	io.Writer
	Flush() error
	Close() error
}

// Opener opens a port for a configuration.
type Opener func(cfg Config) (Port, error)

// OpenTarm opens a real serial port at 8N1.
func OpenTarm(cfg Config) (Port, error) {
	p, err := tarm.OpenPort(&tarm.Config{
		Name:        cfg.Name,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
		Size:        8,
		Parity:      tarm.ParityNone,
		StopBits:    tarm.Stop1,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Sender is anything that can deliver frames to a light.
type Sender interface {
	Send(ctx context.Context, frame protocol.Frame) error
	Close() error
}

// Driver writes frames to one light. The port is opened lazily on the
// first Send; after a failed write the handle is closed and dropped so the
// next Send reopens it. Sends are serialized, including the settle delay,
// so concurrent callers never interleave frames.
type Driver struct {
	cfg  Config
	open Opener

	mu     sync.Mutex
	port   Port
	closed bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithOpener replaces the function used to open the port.
func WithOpener(open Opener) Option {
	return func(d *Driver) {
		d.open = open
	}
}

// NewDriver creates a driver. The port is not opened until the first Send
// or an explicit Open.
func NewDriver(cfg Config, opts ...Option) *Driver {
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.WriteDelay < 0 {
		cfg.WriteDelay = 0
	}
	d := &Driver{cfg: cfg, open: OpenTarm}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the port name.
func (d *Driver) Name() string {
	return d.cfg.Name
}

// Config returns the driver's configuration.
func (d *Driver) Config() Config {
	return d.cfg
}

// Open opens the port now instead of on the first Send.
func (d *Driver) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return d.ensureOpen()
}

func (d *Driver) ensureOpen() error {
	if d.port != nil {
		return nil
	}
	p, err := d.open(d.cfg)
	if err != nil {
		logging.Warn("Failed to open serial port",
			zap.String("port", d.cfg.Name),
			zap.Error(err),
		)
		return &PortError{Port: d.cfg.Name, Op: "open", Err: err}
	}
	d.port = p
	logging.LogPortEvent(d.cfg.Name, "opened", zap.Int("baud", d.cfg.Baud))
	return nil
}

// reset drops the current handle after a failure.
func (d *Driver) reset() {
	if d.port == nil {
		return
	}
	_ = d.port.Close()
	d.port = nil
	logging.LogPortEvent(d.cfg.Name, "reset")
}

// Send writes one frame in a single call, flushes, then waits WriteDelay
// before returning. Frames that fail validation are never written.
func (d *Driver) Send(ctx context.Context, frame protocol.Frame) error {
	if err := frame.Validate(); err != nil {
		return fmt.Errorf("refusing to send frame: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.ensureOpen(); err != nil {
		return err
	}

	n, err := d.port.Write(frame[:])
	if err == nil && n != protocol.FrameSize {
		err = io.ErrShortWrite
	}
	if err != nil {
		logging.Warn("Serial write failed, port will be reopened",
			zap.String("port", d.cfg.Name),
			zap.Int("bytes_written", n),
			zap.Error(err),
		)
		d.reset()
		return &PortError{Port: d.cfg.Name, Op: "write", Err: err}
	}
	if err := d.port.Flush(); err != nil {
		d.reset()
		return &PortError{Port: d.cfg.Name, Op: "flush", Err: err}
	}

	logging.LogFrame("sent", d.cfg.Name, frame[:])

	return sleep(ctx, d.cfg.WriteDelay)
}

// Close releases the port. Later Sends fail with ErrClosed.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	if d.port == nil {
		return nil
	}

	err := d.port.Close()
	d.port = nil
	logging.LogPortEvent(d.cfg.Name, "closed")
	if err != nil {
		return &PortError{Port: d.cfg.Name, Op: "close", Err: err}
	}
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
