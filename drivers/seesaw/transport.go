package seesaw

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"tinygo.org/x/drivers"
)

// TransactionDelay is the pause the firmware needs between addressing a
// register and the data being ready. It follows every register write.
const TransactionDelay = 125 * time.Microsecond

// ContextBus is a bus whose transfers are suspension points: Tx may yield
// and must return ctx.Err() (possibly wrapped) once ctx is done.
type ContextBus interface {
	TxContext(ctx context.Context, addr uint16, w, r []byte) error
}

// Mode is the execution model a Transport was built with.
type Mode uint8

const (
	ModeBlocking Mode = iota
	ModeSuspending
)

func (m Mode) String() string {
	if m == ModeSuspending {
		return "suspending"
	}
	return "blocking"
}

// stepper performs the two primitive effects of the register protocol. The
// blocking and suspending models differ only here.
type stepper interface {
	tx(ctx context.Context, addr uint16, w, r []byte) error
	delay(ctx context.Context, d time.Duration) error
}

type blockingStepper struct {
	bus drivers.I2C
	d   Delayer
}

func (s blockingStepper) tx(_ context.Context, addr uint16, w, r []byte) error {
	return s.bus.Tx(addr, w, r)
}

func (s blockingStepper) delay(_ context.Context, d time.Duration) error {
	s.d.DelayMicros(uint32(d / time.Microsecond))
	return nil
}

type suspendingStepper struct {
	bus ContextBus
	d   ContextDelayer
}

func (s suspendingStepper) tx(ctx context.Context, addr uint16, w, r []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.bus.TxContext(ctx, addr, w, r)
}

func (s suspendingStepper) delay(ctx context.Context, d time.Duration) error {
	return s.d.DelayContext(ctx, d)
}

// Transport performs framed register transactions against Seesaw
// peripherals on one bus. A Transport may be shared by several Devices at
// different addresses; each transaction runs under the transport lock so
// protocol steps of two callers never interleave.
type Transport struct {
	step stepper
	mode Mode

	lock chan struct{} // 1-slot semaphore; cancellable in suspending mode

	mu     sync.Mutex
	claims map[uint16]struct{}

	// Scratch for register writes; guarded by lock.
	wbuf [2 + 32]byte
}

// NewTransport builds a blocking transport. A nil delay selects SleepDelay.
// The context passed to operations on a blocking transport is ignored.
func NewTransport(bus drivers.I2C, delay Delayer) *Transport {
	if delay == nil {
		delay = SleepDelay{}
	}
	return newTransport(blockingStepper{bus: bus, d: delay}, ModeBlocking)
}

// NewContextTransport builds a suspending transport: every bus transfer and
// every delay is a point where the caller may be cancelled. A nil delay
// selects TimerDelay.
func NewContextTransport(bus ContextBus, delay ContextDelayer) *Transport {
	if delay == nil {
		delay = TimerDelay{}
	}
	return newTransport(suspendingStepper{bus: bus, d: delay}, ModeSuspending)
}

func newTransport(s stepper, m Mode) *Transport {
	return &Transport{
		step:   s,
		mode:   m,
		lock:   make(chan struct{}, 1),
		claims: map[uint16]struct{}{},
	}
}

// Mode reports the execution model chosen at construction.
func (t *Transport) Mode() Mode { return t.mode }

func (t *Transport) acquire(ctx context.Context) error {
	if t.mode == ModeBlocking {
		t.lock <- struct{}{}
		return nil
	}
	select {
	case t.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Transport) release() { <-t.lock }

func (t *Transport) claim(addr uint16) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.claims[addr]; ok {
		return ErrAddressInUse
	}
	t.claims[addr] = struct{}{}
	return nil
}

func (t *Transport) unclaim(addr uint16) {
	t.mu.Lock()
	delete(t.claims, addr)
	t.mu.Unlock()
}

// ReadRegister writes the register address, waits TransactionDelay and then
// reads len(buf) bytes into buf.
func (t *Transport) ReadRegister(ctx context.Context, addr uint16, reg Reg, buf []byte) error {
	if err := t.acquire(ctx); err != nil {
		return err
	}
	defer t.release()

	w := t.wbuf[:2]
	w[0], w[1] = reg[0], reg[1]
	if err := t.step.tx(ctx, addr, w, nil); err != nil {
		return t.wrap(ctx, "read", addr, reg, err)
	}
	if err := t.step.delay(ctx, TransactionDelay); err != nil {
		return err
	}
	if err := t.step.tx(ctx, addr, nil, buf); err != nil {
		return t.wrap(ctx, "read", addr, reg, err)
	}
	return nil
}

// WriteRegister sends the register address and payload as one bus write and
// then waits TransactionDelay. An empty payload is a valid command.
func (t *Transport) WriteRegister(ctx context.Context, addr uint16, reg Reg, payload []byte) error {
	if err := t.acquire(ctx); err != nil {
		return err
	}
	defer t.release()

	var w []byte
	if n := 2 + len(payload); n <= len(t.wbuf) {
		w = t.wbuf[:n]
	} else {
		w = make([]byte, n)
	}
	w[0], w[1] = reg[0], reg[1]
	copy(w[2:], payload)
	if err := t.step.tx(ctx, addr, w, nil); err != nil {
		return t.wrap(ctx, "write", addr, reg, err)
	}
	return t.step.delay(ctx, TransactionDelay)
}

// Delay waits on the transport's delay primitive without touching the bus.
func (t *Transport) Delay(ctx context.Context, d time.Duration) error {
	return t.step.delay(ctx, d)
}

// wrap turns a bus failure into *Error. Cancellation is passed through as the
// context error: it ends the operation but is not a bus failure.
func (t *Transport) wrap(ctx context.Context, op string, addr uint16, reg Reg, err error) error {
	if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
		return cerr
	}
	return busError(op, addr, reg, err)
}

// ---- Fixed-width accessors (big-endian) ----

func (t *Transport) ReadU8(ctx context.Context, addr uint16, reg Reg) (uint8, error) {
	var b [1]byte
	err := t.ReadRegister(ctx, addr, reg, b[:])
	return b[0], err
}

func (t *Transport) ReadU16(ctx context.Context, addr uint16, reg Reg) (uint16, error) {
	var b [2]byte
	if err := t.ReadRegister(ctx, addr, reg, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (t *Transport) ReadU32(ctx context.Context, addr uint16, reg Reg) (uint32, error) {
	var b [4]byte
	if err := t.ReadRegister(ctx, addr, reg, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (t *Transport) ReadU64(ctx context.Context, addr uint16, reg Reg) (uint64, error) {
	var b [8]byte
	if err := t.ReadRegister(ctx, addr, reg, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func (t *Transport) ReadI8(ctx context.Context, addr uint16, reg Reg) (int8, error) {
	v, err := t.ReadU8(ctx, addr, reg)
	return int8(v), err
}

func (t *Transport) ReadI16(ctx context.Context, addr uint16, reg Reg) (int16, error) {
	v, err := t.ReadU16(ctx, addr, reg)
	return int16(v), err
}

func (t *Transport) ReadI32(ctx context.Context, addr uint16, reg Reg) (int32, error) {
	v, err := t.ReadU32(ctx, addr, reg)
	return int32(v), err
}

func (t *Transport) ReadI64(ctx context.Context, addr uint16, reg Reg) (int64, error) {
	v, err := t.ReadU64(ctx, addr, reg)
	return int64(v), err
}

func (t *Transport) WriteU8(ctx context.Context, addr uint16, reg Reg, v uint8) error {
	return t.WriteRegister(ctx, addr, reg, []byte{v})
}

func (t *Transport) WriteU16(ctx context.Context, addr uint16, reg Reg, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return t.WriteRegister(ctx, addr, reg, b[:])
}

func (t *Transport) WriteU32(ctx context.Context, addr uint16, reg Reg, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return t.WriteRegister(ctx, addr, reg, b[:])
}

func (t *Transport) WriteU64(ctx context.Context, addr uint16, reg Reg, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return t.WriteRegister(ctx, addr, reg, b[:])
}

func (t *Transport) WriteI8(ctx context.Context, addr uint16, reg Reg, v int8) error {
	return t.WriteU8(ctx, addr, reg, uint8(v))
}

func (t *Transport) WriteI16(ctx context.Context, addr uint16, reg Reg, v int16) error {
	return t.WriteU16(ctx, addr, reg, uint16(v))
}

func (t *Transport) WriteI32(ctx context.Context, addr uint16, reg Reg, v int32) error {
	return t.WriteU32(ctx, addr, reg, uint32(v))
}

func (t *Transport) WriteI64(ctx context.Context, addr uint16, reg Reg, v int64) error {
	return t.WriteU64(ctx, addr, reg, uint64(v))
}
