package devices

import (
	"context"

	"seesaw-go/drivers/seesaw"
)

// GenericDevice is a bare SAMD09 breakout running the stock firmware.
type GenericDevice struct {
	*seesaw.Device
	seesaw.Status
	seesaw.GPIO
	seesaw.ADC
	seesaw.Timer
}

func NewGenericDevice(t *seesaw.Transport, cfg seesaw.Config) (*GenericDevice, error) {
	d, err := seesaw.New(t, GenericDescriptor, cfg)
	if err != nil {
		return nil, err
	}
	return &GenericDevice{
		Device: d,
		Status: seesaw.NewStatus(d),
		GPIO:   seesaw.NewGPIO(d),
		ADC:    seesaw.NewADC(d),
		Timer:  seesaw.NewTimer(d),
	}, nil
}

func (g *GenericDevice) Init(ctx context.Context) error {
	return g.ResetAndVerify(ctx)
}
