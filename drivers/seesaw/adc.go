package seesaw

import "context"

// ADC reads the 10-bit analog inputs. The SAMD09 exposes 4 channels on pins
// 2..5, the ATtiny817 addresses channels by pin number directly.
type ADC struct{ d *Device }

func NewADC(d *Device) ADC { return ADC{d: d} }

// AnalogRead returns the conversion result of the channel behind pin.
func (a ADC) AnalogRead(ctx context.Context, pin uint8) (uint16, error) {
	off := adcChannel(a.d.desc.HardwareID, pin)
	return a.d.t.ReadU16(ctx, a.d.addr, regADCChannel0.Offset(off))
}

// adcChannel maps a pin to its channel offset from CHANNEL_0. Unmapped
// SAMD09 pins read channel 0.
func adcChannel(hw HardwareID, pin uint8) uint8 {
	if hw != HardwareSAMD09 {
		return pin
	}
	switch pin {
	case 2:
		return 0
	case 3:
		return 1
	case 4:
		return 2
	case 5:
		return 3
	}
	return 0
}
