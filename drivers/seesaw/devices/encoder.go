package devices

import (
	"context"

	"seesaw-go/drivers/seesaw"
)

const (
	encoderButtonPin   = 24
	encoderNeopixelPin = 6
)

// RotaryEncoder is the I2C QT rotary encoder: one detented encoder with a
// push switch and a single RGB pixel.
type RotaryEncoder struct {
	*seesaw.Device
	seesaw.Status
	seesaw.GPIO
	seesaw.Encoder
	seesaw.Neopixel
}

func NewRotaryEncoder(t *seesaw.Transport, cfg seesaw.Config) (*RotaryEncoder, error) {
	d, err := seesaw.New(t, RotaryEncoderDescriptor, cfg)
	if err != nil {
		return nil, err
	}
	g := seesaw.NewGPIO(d)
	return &RotaryEncoder{
		Device:   d,
		Status:   seesaw.NewStatus(d),
		GPIO:     g,
		Encoder:  seesaw.NewEncoder(g, seesaw.EncoderConfig{ButtonPin: encoderButtonPin}),
		Neopixel: seesaw.NewNeopixel(d, seesaw.NeopixelConfig{Pin: encoderNeopixelPin, Count: 1}),
	}, nil
}

// Init resets the board, then enables the push switch and the pixel.
func (e *RotaryEncoder) Init(ctx context.Context) error {
	if err := e.ResetAndVerify(ctx); err != nil {
		return err
	}
	if err := e.EnableButton(ctx); err != nil {
		return err
	}
	return e.EnableNeopixel(ctx)
}
