package seesaw

import "context"

// Timer drives the 8-bit PWM outputs. On the SAMD09 these are PA04..PA07.
type Timer struct{ d *Device }

func NewTimer(d *Device) Timer { return Timer{d: d} }

// AnalogWrite sets the duty cycle of the PWM output on pin.
func (t Timer) AnalogWrite(ctx context.Context, pin, value uint8) error {
	p := pwmChannel(t.d.desc.HardwareID, pin)
	return t.d.t.WriteU16(ctx, t.d.addr, regTimerPWM, uint16(p)<<8|uint16(value))
}

// pwmChannel maps a pin to its PWM output index. Unmapped SAMD09 pins
// select output 0.
func pwmChannel(hw HardwareID, pin uint8) uint8 {
	if hw != HardwareSAMD09 {
		return pin
	}
	switch pin {
	case 4:
		return 0
	case 5:
		return 1
	case 6:
		return 2
	case 7:
		return 3
	}
	return 0
}
