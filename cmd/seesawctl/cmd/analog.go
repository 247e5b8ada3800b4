package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"seesaw-go/x/ramp"
)

var (
	pwmFrom  uint8
	pwmRamp  time.Duration
	pwmSteps int
)

var adcCmd = &cobra.Command{
	Use:   "adc <pin>",
	Short: "Read an analog input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := parseU8("pin", args[0])
		if err != nil {
			return err
		}
		return withBoard(cmd, true, func(ctx context.Context, b *board) error {
			if b.adc == nil {
				return unsupported(b, "adc")
			}
			v, err := b.adc.AnalogRead(ctx, pin)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

var pwmCmd = &cobra.Command{
	Use:   "pwm <pin> <duty>",
	Short: "Set an 8-bit PWM duty cycle",
	Long: `Pwm sets the duty cycle of a timer output. With --ramp it fades from --from
to <duty> over the given duration instead of jumping.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := parseU8("pin", args[0])
		if err != nil {
			return err
		}
		duty, err := parseU8("duty", args[1])
		if err != nil {
			return err
		}
		return withBoard(cmd, pwmRamp == 0, func(ctx context.Context, b *board) error {
			if b.timer == nil {
				return unsupported(b, "timer")
			}
			return ramp.Linear(ctx, pwmFrom, duty, pwmRamp, pwmSteps, func(ctx context.Context, v uint8) error {
				return b.timer.AnalogWrite(ctx, pin, v)
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(adcCmd)
	rootCmd.AddCommand(pwmCmd)
	pwmCmd.Flags().Uint8Var(&pwmFrom, "from", 0, "starting duty for --ramp")
	pwmCmd.Flags().DurationVar(&pwmRamp, "ramp", 0, "fade to the duty over this long")
	pwmCmd.Flags().IntVar(&pwmSteps, "steps", 32, "number of steps in a --ramp")
}
