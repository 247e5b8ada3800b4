// Package seesaw provides a TinyGo/Go driver for Adafruit Seesaw I/O
// expanders: small microcontrollers that expose ADC, GPIO, PWM, rotary
// encoder and NeoPixel functions as I2C registers.
//
// Every register access is one framed transaction on the bus:
//
//	read:  write [module, func] → wait 125µs → read N bytes
//	write: write [module, func, payload...] → wait 125µs
//
// The wait is part of the protocol (the firmware needs it before data is
// valid) and is always performed by the Transport, never by callers.
//
// A Transport runs in one of two models chosen at construction:
//
//	t := seesaw.NewTransport(machine.I2C0, nil)          // blocking
//	t := seesaw.NewContextTransport(worker, nil)         // suspending
//
// In the suspending model each bus transfer and each delay honours the
// context; cancelling it stops the operation at the next step without
// undoing steps already sent to the device.
//
// Device types are built by composing modules:
//
//	type RotaryEncoder struct {
//		*seesaw.Device
//		seesaw.Status
//		seesaw.GPIO
//		seesaw.Encoder
//	}
//
// Values are never cached; every call is a fresh bus transaction.
package seesaw

import (
	"context"
	"image/color"
)

// Capability interfaces. A device type implements the subset matching the
// modules it embeds.

type StatusModule interface {
	HardwareID(ctx context.Context) (uint8, error)
	Capabilities(ctx context.Context) (Capabilities, error)
	ProductInfo(ctx context.Context) (ProductDateCode, error)
	Reset(ctx context.Context) error
	ResetAndVerify(ctx context.Context) error
	Temp(ctx context.Context) (float32, error)
}

type ADCModule interface {
	AnalogRead(ctx context.Context, pin uint8) (uint16, error)
}

type TimerModule interface {
	AnalogWrite(ctx context.Context, pin, value uint8) error
}

type GPIOModule interface {
	SetPinMode(ctx context.Context, pin uint8, mode PinMode) error
	SetPinModeBulk(ctx context.Context, mask uint32, mode PinMode) error
	DigitalRead(ctx context.Context, pin uint8) (bool, error)
	DigitalReadBulk(ctx context.Context, mask uint32) (uint32, error)
	DigitalWrite(ctx context.Context, pin uint8, high bool) error
	DigitalWriteBulk(ctx context.Context, mask uint32, high bool) error
}

type EncoderModule interface {
	EnableButton(ctx context.Context) error
	Button(ctx context.Context) (bool, error)
	Position(ctx context.Context) (int32, error)
	SetPosition(ctx context.Context, pos int32) error
	Delta(ctx context.Context) (int32, error)
	EnableInterrupt(ctx context.Context) error
	DisableInterrupt(ctx context.Context) error
}

type NeopixelModule interface {
	NeopixelCount() uint16
	EnableNeopixel(ctx context.Context) error
	SetNeopixelSpeed(ctx context.Context, s NeopixelSpeed) error
	SetNeopixelColor(ctx context.Context, c color.RGBA) error
	SetNthNeopixelColor(ctx context.Context, n uint16, c color.RGBA) error
	SetNeopixelColors(ctx context.Context, colors []color.RGBA) error
	SyncNeopixel(ctx context.Context) error
}

var (
	_ StatusModule   = Status{}
	_ ADCModule      = ADC{}
	_ TimerModule    = Timer{}
	_ GPIOModule     = GPIO{}
	_ EncoderModule  = Encoder{}
	_ NeopixelModule = Neopixel{}
)
