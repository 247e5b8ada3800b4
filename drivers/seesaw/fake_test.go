package seesaw

import (
	"context"
	"errors"
	"sync"
	"time"

	"tinygo.org/x/drivers"
)

// Compile-time checks.
var (
	_ drivers.I2C    = (*fakeBus)(nil)
	_ ContextBus     = (*fakeBus)(nil)
	_ Delayer        = (*fakeBus)(nil)
	_ ContextDelayer = (*fakeBus)(nil)
	_ drivers.I2C    = (*BusWorker)(nil)
	_ ContextBus     = (*BusWorker)(nil)
)

type opKind uint8

const (
	opWrite opKind = iota + 1
	opRead
	opDelay
)

type op struct {
	kind opKind
	addr uint16
	data []byte        // bytes written, or bytes returned by a read
	d    time.Duration // delay
}

// fakeBus is a register-echoing Seesaw: a write stores the payload under the
// addressed register, a bare 2-byte write selects the register for the next
// read. Every step is appended to ops.
type fakeBus struct {
	mu   sync.Mutex
	ops  []op
	regs map[Reg][]byte
	sel  Reg

	failWrite error // returned by the next write, then cleared
	failRead  error
	// onOp runs after every recorded op; tests use it to cancel mid-sequence.
	onOp func(op)
}

func newFakeBus() *fakeBus {
	return &fakeBus{regs: map[Reg][]byte{}}
}

func (f *fakeBus) set(reg Reg, v ...byte) {
	f.mu.Lock()
	f.regs[reg] = append([]byte(nil), v...)
	f.mu.Unlock()
}

func (f *fakeBus) record(o op) {
	f.ops = append(f.ops, o)
	if f.onOp != nil {
		f.onOp(o)
	}
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if w != nil {
		if f.failWrite != nil {
			err := f.failWrite
			f.failWrite = nil
			return err
		}
		// Copy: the transport reuses its write scratch buffer.
		b := append([]byte(nil), w...)
		if len(b) >= 2 {
			reg := Reg{b[0], b[1]}
			f.sel = reg
			if len(b) > 2 {
				f.regs[reg] = append([]byte(nil), b[2:]...)
			}
		}
		f.record(op{kind: opWrite, addr: addr, data: b})
	}
	if r != nil {
		if f.failRead != nil {
			err := f.failRead
			f.failRead = nil
			return err
		}
		for i := range r {
			r[i] = 0
		}
		copy(r, f.regs[f.sel])
		f.record(op{kind: opRead, addr: addr, data: append([]byte(nil), r...)})
	}
	return nil
}

func (f *fakeBus) TxContext(ctx context.Context, addr uint16, w, r []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.Tx(addr, w, r)
}

func (f *fakeBus) DelayMicros(us uint32) {
	f.mu.Lock()
	f.record(op{kind: opDelay, d: time.Duration(us) * time.Microsecond})
	f.mu.Unlock()
}

func (f *fakeBus) DelayContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.record(op{kind: opDelay, d: d})
	f.mu.Unlock()
	return nil
}

func (f *fakeBus) snapshot() []op {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]op(nil), f.ops...)
}

func (f *fakeBus) reset() {
	f.mu.Lock()
	f.ops = nil
	f.mu.Unlock()
}

// writes returns only the bus writes, in order.
func (f *fakeBus) writes() [][]byte {
	var out [][]byte
	for _, o := range f.snapshot() {
		if o.kind == opWrite {
			out = append(out, o.data)
		}
	}
	return out
}

var errBus = errors.New("nack")

// testDevice returns a blocking device on a fresh fake bus.
func testDevice(hw HardwareID) (*Device, *fakeBus) {
	f := newFakeBus()
	t := NewTransport(f, f)
	d, err := New(t, Descriptor{Name: "test", DefaultAddr: 0x49, HardwareID: hw}, Config{})
	if err != nil {
		panic(err)
	}
	return d, f
}
