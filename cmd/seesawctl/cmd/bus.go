package cmd

import (
	"context"
	"log"
	"os"
	"strings"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"

	"seesaw-go/drivers/mcp2221"
	"seesaw-go/drivers/seesaw"
	"seesaw-go/drivers/seesaw/sim"
	"seesaw-go/errcode"
)

// simSetup, when set, prepares the simulated board before a command runs.
var simSetup func(*sim.Board)

// conn is an open bus together with the transport built on it.
type conn struct {
	tr      *seesaw.Transport
	closers []func() error
}

func (c *conn) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// openConn opens the bus named by --bus. With --async the transport is the
// suspending one; ctx bounds the bus worker's lifetime.
func openConn(ctx context.Context) (*conn, error) {
	var trace *log.Logger
	if verbose {
		trace = log.New(os.Stderr, "i2c ", 0)
	}
	c := &conn{}

	switch {
	case busSpec == "mcp2221":
		b, err := mcp2221.Open(mcp2221.Config{Speed: uint32(speedKHz) * 1000})
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, b.Close)
		if async {
			c.tr = seesaw.NewContextTransport(traceContextBus(b, trace), nil)
		} else {
			c.tr = seesaw.NewTransport(traceBus(b, trace), nil)
		}

	case strings.HasPrefix(busSpec, "periph:"):
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		b, err := i2creg.Open(strings.TrimPrefix(busSpec, "periph:"))
		if err != nil {
			return nil, &errcode.E{C: errcode.UnknownBus, Op: "open", Msg: err.Error(), Err: err}
		}
		c.closers = append(c.closers, b.Close)
		if err := b.SetSpeed(physic.Frequency(speedKHz) * physic.KiloHertz); err != nil && verbose {
			trace.Printf("speed not applied: %v", err)
		}
		if async {
			w := seesaw.NewBusWorker(traceBus(b, trace), 0)
			w.Start(ctx)
			c.tr = seesaw.NewContextTransport(w, nil)
		} else {
			c.tr = seesaw.NewTransport(traceBus(b, trace), nil)
		}

	case busSpec == "sim":
		desc, ok := boardDescriptors[deviceName]
		if !ok {
			return nil, &errcode.E{C: errcode.InvalidParams, Op: "device", Msg: "unknown board type " + deviceName}
		}
		cfg, err := parseAddr()
		if err != nil {
			return nil, err
		}
		b := sim.NewBus()
		bd := b.Attach(desc, cfg.Address)
		if simSetup != nil {
			simSetup(bd)
		}
		if async {
			w := seesaw.NewBusWorker(traceBus(b, trace), 0)
			w.Start(ctx)
			c.tr = seesaw.NewContextTransport(w, nil)
		} else {
			c.tr = seesaw.NewTransport(traceBus(b, trace), nil)
		}

	default:
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "open", Msg: busSpec}
	}
	return c, nil
}

// tracer logs each transfer in hex. Reads are logged after they complete.
type tracer struct {
	bus    drivers.I2C
	ctxBus seesaw.ContextBus
	log    *log.Logger
}

func traceBus(b drivers.I2C, l *log.Logger) drivers.I2C {
	if l == nil {
		return b
	}
	return &tracer{bus: b, log: l}
}

func traceContextBus(b seesaw.ContextBus, l *log.Logger) seesaw.ContextBus {
	if l == nil {
		return b
	}
	return &tracer{ctxBus: b, log: l}
}

func (t *tracer) Tx(addr uint16, w, r []byte) error {
	err := t.bus.Tx(addr, w, r)
	t.print(addr, w, r, err)
	return err
}

func (t *tracer) TxContext(ctx context.Context, addr uint16, w, r []byte) error {
	err := t.ctxBus.TxContext(ctx, addr, w, r)
	t.print(addr, w, r, err)
	return err
}

func (t *tracer) print(addr uint16, w, r []byte, err error) {
	switch {
	case err != nil:
		t.log.Printf("0x%02x w[% x] r%d: %v", addr, w, len(r), err)
	case len(r) > 0:
		t.log.Printf("0x%02x w[% x] r[% x]", addr, w, r)
	default:
		t.log.Printf("0x%02x w[% x]", addr, w)
	}
}
