package errcode

import (
	"context"
	"errors"

	"seesaw-go/drivers/mcp2221"
	"seesaw-go/drivers/seesaw"
)

// Code is a stable, user-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK                Code = "ok"
	InvalidParams     Code = "invalid_params"
	Unsupported       Code = "unsupported"
	InvalidHardwareID Code = "invalid_hardware_id"
	AddressInUse      Code = "address_in_use"

	UnknownBus Code = "unknown_bus"
	NoDevice   Code = "no_device"
	IOError    Code = "io_error"
	Timeout    Code = "timeout"
	Canceled   Code = "canceled"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap attaches a code and operation to err. A nil err stays nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Msg: err.Error(), Err: err}
}

// Of extracts a Code from an error. Errors that carry no code are mapped
// with MapDriverErr.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return MapDriverErr(err)
}

// MapDriverErr maps seesaw, bridge and context errors to a Code.
func MapDriverErr(err error) Code {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, context.Canceled):
		return Canceled
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, mcp2221.ErrTimeout):
		return Timeout
	case errors.Is(err, seesaw.ErrInvalidHardwareID):
		return InvalidHardwareID
	case errors.Is(err, seesaw.ErrAddressInUse):
		return AddressInUse
	case errors.Is(err, seesaw.ErrInvalidPin),
		errors.Is(err, seesaw.ErrInvalidMode),
		errors.Is(err, seesaw.ErrPixelRange),
		errors.Is(err, seesaw.ErrInvalidSpeed),
		errors.Is(err, mcp2221.ErrSpeed),
		errors.Is(err, mcp2221.ErrTooLong):
		return InvalidParams
	case errors.Is(err, mcp2221.ErrNotFound):
		return NoDevice
	case errors.Is(err, mcp2221.ErrNACK):
		return IOError
	}
	var se *seesaw.Error
	if errors.As(err, &se) && se.Kind == seesaw.KindBus {
		return IOError
	}
	return Error
}
