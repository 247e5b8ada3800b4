package devices

import (
	"context"

	"seesaw-go/drivers/seesaw"
)

var (
	arcadeButtonPins = [4]uint8{18, 19, 20, 2}
	arcadeLEDPins    = [4]uint8{12, 13, 0, 1}
)

// ArcadeButton1x4 is the ATtiny817 board for four arcade buttons with
// dimmable LEDs.
type ArcadeButton1x4 struct {
	*seesaw.Device
	seesaw.Status
	seesaw.GPIO
	seesaw.Timer
}

func NewArcadeButton1x4(t *seesaw.Transport, cfg seesaw.Config) (*ArcadeButton1x4, error) {
	d, err := seesaw.New(t, ArcadeButton1x4Descriptor, cfg)
	if err != nil {
		return nil, err
	}
	return &ArcadeButton1x4{
		Device: d,
		Status: seesaw.NewStatus(d),
		GPIO:   seesaw.NewGPIO(d),
		Timer:  seesaw.NewTimer(d),
	}, nil
}

func arcadeButtonMask() uint32 {
	var m uint32
	for _, p := range arcadeButtonPins {
		m |= 1 << p
	}
	return m
}

func (a *ArcadeButton1x4) Init(ctx context.Context) error {
	if err := a.ResetAndVerify(ctx); err != nil {
		return err
	}
	return a.SetPinModeBulk(ctx, arcadeButtonMask(), seesaw.InputPullup)
}

// Buttons reports which buttons are held down.
func (a *ArcadeButton1x4) Buttons(ctx context.Context) ([4]bool, error) {
	var out [4]bool
	v, err := a.DigitalReadBulk(ctx, arcadeButtonMask())
	if err != nil {
		return out, err
	}
	for i, p := range arcadeButtonPins {
		out[i] = v&(1<<p) == 0
	}
	return out, nil
}

// SetLEDs sets the duty cycle of each button LED, in button order.
func (a *ArcadeButton1x4) SetLEDs(ctx context.Context, duty [4]uint8) error {
	for i, p := range arcadeLEDPins {
		if err := a.AnalogWrite(ctx, p, duty[i]); err != nil {
			return err
		}
	}
	return nil
}
