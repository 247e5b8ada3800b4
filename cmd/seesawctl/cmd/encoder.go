package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	encoderWatch    bool
	encoderInterval time.Duration
)

var encoderCmd = &cobra.Command{
	Use:   "encoder",
	Short: "Show rotary encoder position, delta and button",
	Long: `Encoder prints the absolute position, the change since the previous read and
whether the push switch is pressed. With --watch it polls until interrupted
and prints a line whenever something changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(cmd, !encoderWatch, func(ctx context.Context, b *board) error {
			if b.encoder == nil {
				return unsupported(b, "encoder")
			}
			if err := b.encoder.EnableButton(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var lastPos int32
			var lastPressed bool
			for first := true; ; first = false {
				pos, err := b.encoder.Position(ctx)
				if err != nil {
					return err
				}
				delta, err := b.encoder.Delta(ctx)
				if err != nil {
					return err
				}
				up, err := b.encoder.Button(ctx)
				if err != nil {
					return err
				}
				pressed := !up
				if first || pos != lastPos || pressed != lastPressed {
					fmt.Fprintf(out, "position=%d delta=%d pressed=%t\n", pos, delta, pressed)
				}
				if !encoderWatch {
					return nil
				}
				lastPos, lastPressed = pos, pressed

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(encoderInterval):
				}
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(encoderCmd)
	encoderCmd.Flags().BoolVarP(&encoderWatch, "watch", "w", false, "poll until interrupted")
	encoderCmd.Flags().DurationVar(&encoderInterval, "interval", 50*time.Millisecond, "poll interval for --watch")
}
