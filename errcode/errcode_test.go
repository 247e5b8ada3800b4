package errcode

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"seesaw-go/drivers/mcp2221"
	"seesaw-go/drivers/seesaw"
)

func TestMapDriverErr(t *testing.T) {
	busFail := &seesaw.Error{Kind: seesaw.KindBus, Op: "read", Err: errors.New("i2c: nack")}
	cases := []struct {
		err  error
		want Code
	}{
		{nil, OK},
		{context.Canceled, Canceled},
		{fmt.Errorf("poll: %w", context.DeadlineExceeded), Timeout},
		{&seesaw.Error{Kind: seesaw.KindInvalidHardwareID, HardwareID: 0x87}, InvalidHardwareID},
		{seesaw.ErrAddressInUse, AddressInUse},
		{seesaw.ErrPixelRange, InvalidParams},
		{seesaw.ErrInvalidPin, InvalidParams},
		{busFail, IOError},
		{&seesaw.Error{Kind: seesaw.KindBus, Err: mcp2221.ErrTimeout}, Timeout},
		{&seesaw.Error{Kind: seesaw.KindBus, Err: mcp2221.ErrNACK}, IOError},
		{mcp2221.ErrNotFound, NoDevice},
		{errors.New("something else"), Error},
	}
	for _, c := range cases {
		if got := MapDriverErr(c.err); got != c.want {
			t.Errorf("MapDriverErr(%v) = %s, want %s", c.err, got, c.want)
		}
	}
}

func TestOf(t *testing.T) {
	if Of(UnknownBus) != UnknownBus {
		t.Fatal("bare code")
	}
	wrapped := fmt.Errorf("open: %w", &E{C: NoDevice, Msg: "no bridge"})
	if Of(wrapped) != NoDevice {
		t.Fatalf("Of(wrapped E) = %s", Of(wrapped))
	}
	if Of(seesaw.ErrAddressInUse) != AddressInUse {
		t.Fatal("fallback to driver mapping")
	}
	if Wrap(IOError, "adc", nil) != nil {
		t.Fatal("Wrap(nil) must stay nil")
	}
	e := Wrap(InvalidParams, "pixel", seesaw.ErrPixelRange)
	if !errors.Is(e, seesaw.ErrPixelRange) || e.Error() != "pixel: invalid_params: seesaw: neopixel index out of range" {
		t.Fatalf("Wrap = %v", e)
	}
}
