package cmd

import (
	"context"
	"image/color"
	"strconv"

	"github.com/spf13/cobra"

	"seesaw-go/drivers/seesaw"
	"seesaw-go/errcode"
)

var pixelSlow bool

var pixelCmd = &cobra.Command{
	Use:   "pixel <n> <r> <g> <b>",
	Short: "Set one NeoPixel and show it",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseUint(args[0], 0, 16)
		if err != nil {
			return &errcode.E{C: errcode.InvalidParams, Op: "n", Msg: args[0]}
		}
		var c color.RGBA
		for i, p := range []*uint8{&c.R, &c.G, &c.B} {
			if *p, err = parseU8("colour", args[1+i]); err != nil {
				return err
			}
		}
		c.A = 0xFF

		return withBoard(cmd, true, func(ctx context.Context, b *board) error {
			if b.pixel == nil {
				return unsupported(b, "neopixel")
			}
			if err := b.pixel.EnableNeopixel(ctx); err != nil {
				return err
			}
			if pixelSlow {
				if err := b.pixel.SetNeopixelSpeed(ctx, seesaw.Khz400); err != nil {
					return err
				}
			}
			if err := b.pixel.SetNthNeopixelColor(ctx, uint16(n), c); err != nil {
				return err
			}
			return b.pixel.SyncNeopixel(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(pixelCmd)
	pixelCmd.Flags().BoolVar(&pixelSlow, "400khz", false, "drive the pixel string at 400kHz")
}
