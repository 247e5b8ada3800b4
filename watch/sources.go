package watch

import (
	"context"

	"seesaw-go/drivers/seesaw"
)

// Encoder reports "position" (int32) and "pressed" (bool). The button pin
// must already be set up with EnableButton.
func Encoder(e seesaw.EncoderModule) Source {
	return SourceFunc(func(ctx context.Context) ([]Reading, error) {
		pos, err := e.Position(ctx)
		if err != nil {
			return nil, err
		}
		up, err := e.Button(ctx)
		if err != nil {
			return nil, err
		}
		return []Reading{{"position", pos}, {"pressed", !up}}, nil
	})
}

// Pins reports "levels" (uint32), the input levels of the pins in mask.
func Pins(g seesaw.GPIOModule, mask uint32) Source {
	return SourceFunc(func(ctx context.Context) ([]Reading, error) {
		v, err := g.DigitalReadBulk(ctx, mask)
		if err != nil {
			return nil, err
		}
		return []Reading{{"levels", v}}, nil
	})
}

// Analog reports "value" (uint16) of one ADC pin.
func Analog(a seesaw.ADCModule, pin uint8) Source {
	return SourceFunc(func(ctx context.Context) ([]Reading, error) {
		v, err := a.AnalogRead(ctx, pin)
		if err != nil {
			return nil, err
		}
		return []Reading{{"value", v}}, nil
	})
}
