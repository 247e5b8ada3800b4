package seesaw

import "context"

// EncoderConfig describes how the rotary encoder is wired.
type EncoderConfig struct {
	// ButtonPin is the GPIO pin of the push switch.
	ButtonPin uint8
}

// Encoder is the rotary encoder module. The push switch is an ordinary GPIO
// pin, so the module is built on top of GPIO.
type Encoder struct {
	gpio GPIO
	btn  uint8
}

func NewEncoder(g GPIO, cfg EncoderConfig) Encoder {
	return Encoder{gpio: g, btn: cfg.ButtonPin}
}

// EnableButton configures the switch pin as a pulled-up input.
func (e Encoder) EnableButton(ctx context.Context) error {
	if err := e.gpio.SetPinMode(ctx, e.btn, InputPullup); err != nil {
		return err
	}
	return e.gpio.d.t.Delay(ctx, TransactionDelay)
}

// Button returns the raw switch level. With the pull-up enabled a pressed
// switch reads false.
func (e Encoder) Button(ctx context.Context) (bool, error) {
	return e.gpio.DigitalRead(ctx, e.btn)
}

// Position returns the absolute position in detents.
func (e Encoder) Position(ctx context.Context) (int32, error) {
	return e.gpio.d.t.ReadI32(ctx, e.gpio.d.addr, regEncoderPosition)
}

func (e Encoder) SetPosition(ctx context.Context, pos int32) error {
	return e.gpio.d.t.WriteI32(ctx, e.gpio.d.addr, regEncoderPosition, pos)
}

// Delta returns the change since the previous Delta read.
func (e Encoder) Delta(ctx context.Context) (int32, error) {
	return e.gpio.d.t.ReadI32(ctx, e.gpio.d.addr, regEncoderDelta)
}

func (e Encoder) EnableInterrupt(ctx context.Context) error {
	return e.gpio.d.t.WriteU8(ctx, e.gpio.d.addr, regEncoderIntSet, 1)
}

func (e Encoder) DisableInterrupt(ctx context.Context) error {
	return e.gpio.d.t.WriteU8(ctx, e.gpio.d.addr, regEncoderIntClr, 1)
}
