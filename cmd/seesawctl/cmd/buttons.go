package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var buttonsCmd = &cobra.Command{
	Use:   "buttons",
	Short: "Show which keys or arcade buttons are pressed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(cmd, true, func(ctx context.Context, b *board) error {
			if b.buttons == nil {
				return unsupported(b, "button")
			}
			// The pull-ups are lost on reset; set them up again.
			if err := b.setup(ctx); err != nil {
				return err
			}
			pressed, err := b.buttons(ctx)
			if err != nil {
				return err
			}
			for i, p := range pressed {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %t\n", i, p)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(buttonsCmd)
}
