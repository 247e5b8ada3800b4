package seesaw

import (
	"context"
	"image/color"
	"time"
)

// NeopixelSettle is the pause after each neopixel configuration write.
const NeopixelSettle = 10 * time.Millisecond

// NeopixelSpeed is the data rate of the pixel string.
type NeopixelSpeed uint8

const (
	Khz400 NeopixelSpeed = 0
	Khz800 NeopixelSpeed = 1
)

// NeopixelConfig describes the attached pixel string.
type NeopixelConfig struct {
	// Pin is the device pin driving the string.
	Pin uint8
	// Count is the number of RGB pixels; defaults to 1.
	Count uint16
}

// Neopixel drives an RGB pixel string through the device's pixel buffer.
// Colours are staged with SetNthNeopixelColor/SetNeopixelColors and become
// visible on SyncNeopixel.
type Neopixel struct {
	d   *Device
	pin uint8
	n   uint16
}

func NewNeopixel(d *Device, cfg NeopixelConfig) Neopixel {
	if cfg.Count == 0 {
		cfg.Count = 1
	}
	return Neopixel{d: d, pin: cfg.Pin, n: cfg.Count}
}

func (p Neopixel) NeopixelCount() uint16 { return p.n }

// EnableNeopixel sets the output pin and the buffer length (3 bytes per
// pixel).
func (p Neopixel) EnableNeopixel(ctx context.Context) error {
	t, a := p.d.t, p.d.addr
	if err := t.WriteU8(ctx, a, regNeopixelPin, p.pin); err != nil {
		return err
	}
	if err := t.Delay(ctx, NeopixelSettle); err != nil {
		return err
	}
	if err := t.WriteU16(ctx, a, regNeopixelLen, 3*p.n); err != nil {
		return err
	}
	return t.Delay(ctx, NeopixelSettle)
}

func (p Neopixel) SetNeopixelSpeed(ctx context.Context, s NeopixelSpeed) error {
	if s != Khz400 && s != Khz800 {
		return ErrInvalidSpeed
	}
	if err := p.d.t.WriteU8(ctx, p.d.addr, regNeopixelSpeed, uint8(s)); err != nil {
		return err
	}
	return p.d.t.Delay(ctx, NeopixelSettle)
}

// SetNeopixelColor stages the colour of the first pixel.
func (p Neopixel) SetNeopixelColor(ctx context.Context, c color.RGBA) error {
	return p.SetNthNeopixelColor(ctx, 0, c)
}

// SetNthNeopixelColor stages the colour of pixel n. Alpha is ignored.
func (p Neopixel) SetNthNeopixelColor(ctx context.Context, n uint16, c color.RGBA) error {
	if n >= p.n {
		return ErrPixelRange
	}
	return p.writePixel(ctx, n, c)
}

// SetNeopixelColors stages one colour per pixel, in order. len(colors) must
// equal the pixel count.
func (p Neopixel) SetNeopixelColors(ctx context.Context, colors []color.RGBA) error {
	if len(colors) != int(p.n) {
		return ErrPixelRange
	}
	for i, c := range colors {
		if err := p.writePixel(ctx, uint16(i), c); err != nil {
			return err
		}
	}
	return nil
}

func (p Neopixel) writePixel(ctx context.Context, n uint16, c color.RGBA) error {
	off := 3 * n
	frame := [6]byte{byte(off >> 8), byte(off), c.R, c.G, c.B, 0x00}
	return p.d.t.WriteRegister(ctx, p.d.addr, regNeopixelBuf, frame[:])
}

// SyncNeopixel latches the staged buffer onto the string.
func (p Neopixel) SyncNeopixel(ctx context.Context) error {
	if err := p.d.t.WriteRegister(ctx, p.d.addr, regNeopixelShow, nil); err != nil {
		return err
	}
	return p.d.t.Delay(ctx, TransactionDelay)
}
