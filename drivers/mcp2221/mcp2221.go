// Package mcp2221 drives the I2C master of a Microchip MCP2221A USB bridge,
// so a desktop host can talk to I2C peripherals through a USB port.
//
// The chip speaks 64-byte HID reports on its third interface. Each I2C
// transfer is a command report followed by status polling; the bridge
// splits payloads into 60-byte chunks.
package mcp2221

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	VendorID  = 0x04D8
	ProductID = 0x00DD

	DefaultSpeed   = 100000
	DefaultTimeout = time.Second

	clockHz      = 12000000
	hidInterface = 2
)

var (
	ErrNotFound = errors.New("mcp2221: device not found")
	ErrNACK     = errors.New("mcp2221: address not acknowledged")
	ErrTimeout  = errors.New("mcp2221: i2c timeout")
	ErrBusy     = errors.New("mcp2221: bridge busy")
	ErrSpeed    = errors.New("mcp2221: unsupported bus speed")
	ErrTooLong  = errors.New("mcp2221: transfer longer than 65535 bytes")
	ErrClosed   = errors.New("mcp2221: closed")
)

// Config selects the bridge and the bus clock. Zero values pick defaults.
type Config struct {
	VID, PID uint16
	// Speed is the I2C clock in Hz, 47k..400k.
	Speed uint32
	// Timeout bounds each USB transfer of a blocking Tx.
	Timeout time.Duration
}

func (c *Config) defaults() {
	if c.VID == 0 {
		c.VID = VendorID
	}
	if c.PID == 0 {
		c.PID = ProductID
	}
	if c.Speed == 0 {
		c.Speed = DefaultSpeed
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Bridge is an open MCP2221A. It implements drivers.I2C and, through
// TxContext, a cancellable bus for suspending callers.
type Bridge struct {
	mu      sync.Mutex
	l       link
	closer  func() error
	closed  bool
	timeout time.Duration
	poll    time.Duration
}

// Open finds the first bridge matching cfg, claims its HID interface and
// programs the bus clock.
func Open(cfg Config) (*Bridge, error) {
	cfg.defaults()
	if cfg.Speed > clockHz/3 || cfg.Speed < clockHz/258 {
		return nil, ErrSpeed
	}
	u, err := openUSB(cfg.VID, cfg.PID)
	if err != nil {
		return nil, err
	}
	b := newBridge(u, u.Close, cfg.Timeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := b.setSpeed(ctx, cfg.Speed); err != nil {
		u.Close()
		return nil, err
	}
	return b, nil
}

func newBridge(l link, closeFn func() error, timeout time.Duration) *Bridge {
	return &Bridge{l: l, closer: closeFn, timeout: timeout, poll: pollInterval}
}

// Tx performs a write, a read, or a write then repeated-start read.
func (b *Bridge) Tx(addr uint16, w, r []byte) error {
	return b.TxContext(context.Background(), addr, w, r)
}

// TxContext is Tx with every USB transfer and poll wait bound to ctx. When
// ctx carries no deadline, each USB transfer is limited to Config.Timeout.
func (b *Bridge) TxContext(ctx context.Context, addr uint16, w, r []byte) error {
	if len(w) > 0xFFFF || len(r) > 0xFFFF {
		return ErrTooLong
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	s := b.session(ctx)
	a := uint8(addr & 0x7F)
	switch {
	case len(w) > 0 && len(r) > 0:
		if err := s.write(a, w, false); err != nil {
			return err
		}
		return s.read(a, r, true)
	case len(r) > 0:
		return s.read(a, r, false)
	default:
		return s.write(a, w, true)
	}
}

// Cancel aborts whatever transfer the bridge's I2C engine is stuck in.
func (b *Bridge) Cancel() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	return b.session(context.Background()).cancel()
}

func (b *Bridge) setSpeed(ctx context.Context, hz uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session(ctx).setSpeed(hz)
}

// Close releases the USB interface. It is safe to call more than once.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if b.closer != nil {
		return b.closer()
	}
	return nil
}

func (b *Bridge) session(ctx context.Context) *session {
	return &session{ctx: ctx, l: b.l, timeout: b.timeout, poll: b.poll}
}
