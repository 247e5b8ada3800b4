package cmd

import (
	"context"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"seesaw-go/drivers/seesaw"
	"seesaw-go/drivers/seesaw/devices"
	"seesaw-go/errcode"
)

// board is the set of modules the chosen board type carries. Absent modules
// are nil.
type board struct {
	name    string
	dev     *seesaw.Device
	setup   func(context.Context) error
	status  seesaw.StatusModule
	gpio    seesaw.GPIOModule
	adc     seesaw.ADCModule
	timer   seesaw.TimerModule
	encoder seesaw.EncoderModule
	pixel   seesaw.NeopixelModule
	buttons func(context.Context) ([]bool, error)
}

var boardDescriptors = map[string]seesaw.Descriptor{
	"generic": devices.GenericDescriptor,
	"encoder": devices.RotaryEncoderDescriptor,
	"neokey":  devices.NeoKey1x4Descriptor,
	"arcade":  devices.ArcadeButton1x4Descriptor,
}

func parseAddr() (seesaw.Config, error) {
	if addrFlag == "" {
		return seesaw.Config{}, nil
	}
	v, err := strconv.ParseUint(addrFlag, 0, 7)
	if err != nil || v == 0 {
		return seesaw.Config{}, &errcode.E{C: errcode.InvalidParams, Op: "addr", Msg: addrFlag}
	}
	return seesaw.Config{Address: uint16(v)}, nil
}

func openBoard(tr *seesaw.Transport) (*board, error) {
	cfg, err := parseAddr()
	if err != nil {
		return nil, err
	}
	switch deviceName {
	case "generic":
		g, err := devices.NewGenericDevice(tr, cfg)
		if err != nil {
			return nil, err
		}
		return &board{name: deviceName, dev: g.Device, setup: g.Init,
			status: g, gpio: g, adc: g, timer: g}, nil
	case "encoder":
		e, err := devices.NewRotaryEncoder(tr, cfg)
		if err != nil {
			return nil, err
		}
		return &board{name: deviceName, dev: e.Device, setup: e.Init,
			status: e, gpio: e, encoder: e, pixel: e}, nil
	case "neokey":
		k, err := devices.NewNeoKey1x4(tr, cfg)
		if err != nil {
			return nil, err
		}
		return &board{name: deviceName, dev: k.Device, setup: k.Init,
			status: k, gpio: k, pixel: k,
			buttons: func(ctx context.Context) ([]bool, error) {
				m, err := k.Keys(ctx)
				out := make([]bool, 4)
				for i := range out {
					out[i] = m&(1<<i) != 0
				}
				return out, err
			}}, nil
	case "arcade":
		a, err := devices.NewArcadeButton1x4(tr, cfg)
		if err != nil {
			return nil, err
		}
		return &board{name: deviceName, dev: a.Device, setup: a.Init,
			status: a, gpio: a, timer: a,
			buttons: func(ctx context.Context) ([]bool, error) {
				b, err := a.Buttons(ctx)
				return b[:], err
			}}, nil
	}
	return nil, &errcode.E{C: errcode.InvalidParams, Op: "device", Msg: "unknown board type " + deviceName}
}

func unsupported(b *board, module string) error {
	return &errcode.E{C: errcode.Unsupported, Op: module, Msg: b.name + " has no " + module + " module"}
}

// withBoard opens the bus and the board, runs fn and tears everything down.
// The context ends on interrupt, and after --timeout unless bounded is false.
func withBoard(cmd *cobra.Command, bounded bool, fn func(ctx context.Context, b *board) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if bounded && timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c, err := openConn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	b, err := openBoard(c.tr)
	if err != nil {
		return err
	}
	defer b.dev.Close()
	return fn(ctx, b)
}

func parseU8(what, s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: what, Msg: s}
	}
	return uint8(v), nil
}
