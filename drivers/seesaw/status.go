package seesaw

import (
	"context"
	"time"
)

// ResetDelay is how long the firmware needs to come back after a software
// reset.
const ResetDelay = 125 * time.Millisecond

// Capabilities is the module bitmask from the status options register. Bit n
// is set when module n is compiled into the firmware.
type Capabilities uint32

// CapabilitiesFrom decodes an options word, keeping only known modules.
func CapabilitiesFrom(word uint32) Capabilities {
	var mask uint32
	for _, m := range knownModules {
		mask |= 1 << m
	}
	return Capabilities(word & mask)
}

func (c Capabilities) Has(m Module) bool {
	return m < 32 && c&(1<<m) != 0
}

// Modules lists the present modules in register order.
func (c Capabilities) Modules() []Module {
	var out []Module
	for _, m := range knownModules {
		if c.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

func (c Capabilities) String() string {
	s := ""
	for _, m := range c.Modules() {
		if s != "" {
			s += ","
		}
		s += m.String()
	}
	if s == "" {
		return "none"
	}
	return s
}

// ProductDateCode is the decoded version register. Fields are reported as
// the firmware sent them; no calendar validation is done.
type ProductDateCode struct {
	ID    uint16
	Year  uint16
	Month uint8
	Day   uint8
}

// ProductDateCodeFrom decodes a version word:
//
//	bits 31..16  product id
//	bits 15..11  day
//	bits 10..7   month
//	bits  5..0   year - 2000
func ProductDateCodeFrom(v uint32) ProductDateCode {
	return ProductDateCode{
		ID:    uint16(v >> 16),
		Year:  uint16(v&0x3F) + 2000,
		Month: uint8((v >> 7) & 0x0F),
		Day:   uint8((v >> 11) & 0x1F),
	}
}

// Status is the status module, present on every Seesaw.
type Status struct{ d *Device }

func NewStatus(d *Device) Status { return Status{d: d} }

// HardwareID reads the raw hardware id byte.
func (s Status) HardwareID(ctx context.Context) (uint8, error) {
	return s.d.t.ReadU8(ctx, s.d.addr, regStatusHWID)
}

func (s Status) Capabilities(ctx context.Context) (Capabilities, error) {
	v, err := s.d.t.ReadU32(ctx, s.d.addr, regStatusOptions)
	if err != nil {
		return 0, err
	}
	return CapabilitiesFrom(v), nil
}

func (s Status) ProductInfo(ctx context.Context) (ProductDateCode, error) {
	v, err := s.d.t.ReadU32(ctx, s.d.addr, regStatusVersion)
	if err != nil {
		return ProductDateCode{}, err
	}
	return ProductDateCodeFrom(v), nil
}

// Reset issues a software reset and waits for the firmware to reboot.
func (s Status) Reset(ctx context.Context) error {
	if err := s.d.t.WriteU8(ctx, s.d.addr, regStatusSWReset, 0xFF); err != nil {
		return err
	}
	return s.d.t.Delay(ctx, ResetDelay)
}

// ResetAndVerify resets the device and checks the hardware id against the
// device type's descriptor. A mismatch yields an *Error of kind
// KindInvalidHardwareID carrying the observed id.
func (s Status) ResetAndVerify(ctx context.Context) error {
	if err := s.Reset(ctx); err != nil {
		return err
	}
	id, err := s.HardwareID(ctx)
	if err != nil {
		return err
	}
	if HardwareID(id) != s.d.desc.HardwareID {
		return &Error{
			Kind:       KindInvalidHardwareID,
			Op:         "reset_and_verify",
			Addr:       s.d.addr,
			Reg:        regStatusHWID,
			HardwareID: id,
		}
	}
	return nil
}

// Temp returns the die temperature in °C.
func (s Status) Temp(ctx context.Context) (float32, error) {
	v, err := s.d.t.ReadU32(ctx, s.d.addr, regStatusTemp)
	if err != nil {
		return 0, err
	}
	return float32(v) / (1 << 16), nil
}
