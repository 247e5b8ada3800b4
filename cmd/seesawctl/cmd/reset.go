package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var initAfterReset bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Software-reset the board and check its hardware id",
	Long: `Reset issues a software reset, waits for the firmware to come back and
verifies the hardware id against the board type. With --init the board's
default setup (button pull-ups, pixel buffer) is applied as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(cmd, true, func(ctx context.Context, b *board) error {
			var err error
			if initAfterReset {
				err = b.setup(ctx)
			} else {
				err = b.status.ResetAndVerify(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&initAfterReset, "init", false, "apply the board's default setup after reset")
}
