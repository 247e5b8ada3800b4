package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"seesaw-go/drivers/seesaw"
	"seesaw-go/errcode"
)

var gpioCmd = &cobra.Command{
	Use:   "gpio",
	Short: "Read, write and configure GPIO pins",
}

var gpioReadCmd = &cobra.Command{
	Use:   "read <pin>",
	Short: "Print the level of a pin (0 or 1)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := parseU8("pin", args[0])
		if err != nil {
			return err
		}
		return withBoard(cmd, true, func(ctx context.Context, b *board) error {
			hi, err := b.gpio.DigitalRead(ctx, pin)
			if err != nil {
				return err
			}
			v := 0
			if hi {
				v = 1
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

var gpioWriteCmd = &cobra.Command{
	Use:   "write <pin> <0|1>",
	Short: "Drive an output pin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := parseU8("pin", args[0])
		if err != nil {
			return err
		}
		var high bool
		switch args[1] {
		case "0", "low":
		case "1", "high":
			high = true
		default:
			return &errcode.E{C: errcode.InvalidParams, Op: "level", Msg: args[1]}
		}
		return withBoard(cmd, true, func(ctx context.Context, b *board) error {
			return b.gpio.DigitalWrite(ctx, pin, high)
		})
	},
}

var gpioModeCmd = &cobra.Command{
	Use:   "mode <pin> <input|input_pullup|input_pulldown|output>",
	Short: "Set the direction and pull of a pin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := parseU8("pin", args[0])
		if err != nil {
			return err
		}
		mode, err := parseMode(args[1])
		if err != nil {
			return err
		}
		return withBoard(cmd, true, func(ctx context.Context, b *board) error {
			return b.gpio.SetPinMode(ctx, pin, mode)
		})
	},
}

func parseMode(s string) (seesaw.PinMode, error) {
	for _, m := range []seesaw.PinMode{seesaw.Input, seesaw.InputPullup, seesaw.InputPulldown, seesaw.Output} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, &errcode.E{C: errcode.InvalidParams, Op: "mode", Msg: s, Err: seesaw.ErrInvalidMode}
}

func init() {
	rootCmd.AddCommand(gpioCmd)
	gpioCmd.AddCommand(gpioReadCmd, gpioWriteCmd, gpioModeCmd)
}
