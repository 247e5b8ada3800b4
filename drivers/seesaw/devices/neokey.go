package devices

import (
	"context"

	"seesaw-go/drivers/seesaw"
)

const (
	neokeyNeopixelPin = 3
	neokeyFirstKey    = 4
	neokeyKeyMask     = uint32(0x0F) << neokeyFirstKey
)

// NeoKey1x4 is the four-key mechanical keypad with one pixel under each key.
type NeoKey1x4 struct {
	*seesaw.Device
	seesaw.Status
	seesaw.GPIO
	seesaw.Neopixel
}

func NewNeoKey1x4(t *seesaw.Transport, cfg seesaw.Config) (*NeoKey1x4, error) {
	d, err := seesaw.New(t, NeoKey1x4Descriptor, cfg)
	if err != nil {
		return nil, err
	}
	return &NeoKey1x4{
		Device:   d,
		Status:   seesaw.NewStatus(d),
		GPIO:     seesaw.NewGPIO(d),
		Neopixel: seesaw.NewNeopixel(d, seesaw.NeopixelConfig{Pin: neokeyNeopixelPin, Count: 4}),
	}, nil
}

func (k *NeoKey1x4) Init(ctx context.Context) error {
	if err := k.ResetAndVerify(ctx); err != nil {
		return err
	}
	if err := k.EnableNeopixel(ctx); err != nil {
		return err
	}
	return k.SetPinModeBulk(ctx, neokeyKeyMask, seesaw.InputPullup)
}

// Keys returns the pressed keys as a 4-bit mask, key 0 in bit 0. The
// switches pull their pins low when pressed.
func (k *NeoKey1x4) Keys(ctx context.Context) (uint8, error) {
	v, err := k.DigitalReadBulk(ctx, neokeyKeyMask)
	if err != nil {
		return 0, err
	}
	return uint8((^v & neokeyKeyMask) >> neokeyFirstKey), nil
}
