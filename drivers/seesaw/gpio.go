package seesaw

import "context"

// PinMode selects direction and pull for a GPIO pin.
type PinMode uint8

const (
	Input PinMode = iota
	InputPullup
	InputPulldown
	Output
)

func (m PinMode) String() string {
	switch m {
	case Input:
		return "input"
	case InputPullup:
		return "input_pullup"
	case InputPulldown:
		return "input_pulldown"
	case Output:
		return "output"
	}
	return "unknown"
}

// GPIO is the bulk GPIO module. Pins 0..31 are addressed as bits of a
// 32-bit mask.
type GPIO struct{ d *Device }

func NewGPIO(d *Device) GPIO { return GPIO{d: d} }

func pinMask(pin uint8) (uint32, error) {
	if pin >= 32 {
		return 0, ErrInvalidPin
	}
	return 1 << pin, nil
}

func (g GPIO) SetPinMode(ctx context.Context, pin uint8, mode PinMode) error {
	m, err := pinMask(pin)
	if err != nil {
		return err
	}
	return g.SetPinModeBulk(ctx, m, mode)
}

// SetPinModeBulk configures every pin set in mask. Pull direction is chosen
// by the output latch, so pull-ups also drive the latch high.
func (g GPIO) SetPinModeBulk(ctx context.Context, mask uint32, mode PinMode) error {
	t, a := g.d.t, g.d.addr
	switch mode {
	case Output:
		return t.WriteU32(ctx, a, regGPIODirSet, mask)
	case Input:
		if err := t.WriteU32(ctx, a, regGPIODirClr, mask); err != nil {
			return err
		}
		return t.WriteU32(ctx, a, regGPIOPullEnClr, mask)
	case InputPullup:
		if err := t.WriteU32(ctx, a, regGPIODirClr, mask); err != nil {
			return err
		}
		if err := t.WriteU32(ctx, a, regGPIOPullEnSet, mask); err != nil {
			return err
		}
		return t.WriteU32(ctx, a, regGPIOBulkSet, mask)
	case InputPulldown:
		if err := t.WriteU32(ctx, a, regGPIODirClr, mask); err != nil {
			return err
		}
		if err := t.WriteU32(ctx, a, regGPIOPullEnSet, mask); err != nil {
			return err
		}
		return t.WriteU32(ctx, a, regGPIOBulkClr, mask)
	}
	return ErrInvalidMode
}

func (g GPIO) DigitalRead(ctx context.Context, pin uint8) (bool, error) {
	m, err := pinMask(pin)
	if err != nil {
		return false, err
	}
	v, err := g.DigitalReadBulk(ctx, m)
	return v != 0, err
}

// DigitalReadBulk returns the input levels masked by mask.
func (g GPIO) DigitalReadBulk(ctx context.Context, mask uint32) (uint32, error) {
	v, err := g.d.t.ReadU32(ctx, g.d.addr, regGPIOBulk)
	return v & mask, err
}

func (g GPIO) DigitalWrite(ctx context.Context, pin uint8, high bool) error {
	m, err := pinMask(pin)
	if err != nil {
		return err
	}
	return g.DigitalWriteBulk(ctx, m, high)
}

func (g GPIO) DigitalWriteBulk(ctx context.Context, mask uint32, high bool) error {
	reg := regGPIOBulkClr
	if high {
		reg = regGPIOBulkSet
	}
	return g.d.t.WriteU32(ctx, g.d.addr, reg, mask)
}

func (g GPIO) TogglePins(ctx context.Context, mask uint32) error {
	return g.d.t.WriteU32(ctx, g.d.addr, regGPIOBulkTgl, mask)
}

// EnablePinInterrupts arms the change interrupt for the pins in mask. The
// device asserts its INT line until the flags are read.
func (g GPIO) EnablePinInterrupts(ctx context.Context, mask uint32) error {
	return g.d.t.WriteU32(ctx, g.d.addr, regGPIOIntEnSet, mask)
}

func (g GPIO) DisablePinInterrupts(ctx context.Context, mask uint32) error {
	return g.d.t.WriteU32(ctx, g.d.addr, regGPIOIntEnClr, mask)
}

// PinInterruptFlags reads (and thereby clears) the pending interrupt flags.
func (g GPIO) PinInterruptFlags(ctx context.Context) (uint32, error) {
	return g.d.t.ReadU32(ctx, g.d.addr, regGPIOIntFlag)
}
