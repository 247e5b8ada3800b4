package seesaw

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidHardwareID matches (via errors.Is) any *Error of kind
	// KindInvalidHardwareID.
	ErrInvalidHardwareID = errors.New("seesaw: invalid hardware id")

	// ErrAddressInUse is returned when a second Device is built for an
	// address another live Device on the same Transport already owns.
	ErrAddressInUse = errors.New("seesaw: address in use")

	// Argument errors; no bus traffic happens when these are returned.
	ErrInvalidPin   = errors.New("seesaw: invalid pin")
	ErrInvalidMode  = errors.New("seesaw: invalid pin mode")
	ErrPixelRange   = errors.New("seesaw: neopixel index out of range")
	ErrInvalidSpeed = errors.New("seesaw: invalid neopixel speed")

	ErrWorkerStopped = errors.New("seesaw: bus worker stopped")
)

// Kind separates the two failure families of a Seesaw operation.
type Kind uint8

const (
	// KindBus wraps an error reported by the underlying bus.
	KindBus Kind = iota + 1
	// KindInvalidHardwareID is the hardware id mismatch after a verified reset.
	KindInvalidHardwareID
)

func (k Kind) String() string {
	switch k {
	case KindBus:
		return "bus"
	case KindInvalidHardwareID:
		return "invalid_hardware_id"
	}
	return "unknown"
}

// Error is the error type of every register operation.
type Error struct {
	Kind Kind
	Op   string // "read", "write" or the module operation
	Addr uint16
	Reg  Reg

	// HardwareID holds the observed byte for KindInvalidHardwareID.
	HardwareID uint8

	// Err is the bus error for KindBus.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidHardwareID:
		return "seesaw: invalid hardware id 0x" + hex8(e.HardwareID) + " at 0x" + hex8(uint8(e.Addr))
	default:
		s := "seesaw: " + e.Op + " 0x" + hex8(uint8(e.Addr)) + " reg " + hex8(e.Reg[0]) + "/" + hex8(e.Reg[1])
		if e.Err != nil {
			s += ": " + e.Err.Error()
		}
		return s
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrInvalidHardwareID && e.Kind == KindInvalidHardwareID
}

func busError(op string, addr uint16, reg Reg, err error) error {
	return &Error{Kind: KindBus, Op: op, Addr: addr, Reg: reg, Err: err}
}

func hex8(b uint8) string {
	s := strconv.FormatUint(uint64(b), 16)
	if len(s) < 2 {
		s = "0" + s
	}
	return s
}
