package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"seesaw-go/drivers/seesaw"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show hardware id, modules, product code and temperature",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(cmd, true, func(ctx context.Context, b *board) error {
			out := cmd.OutOrStdout()
			id, err := b.status.HardwareID(ctx)
			if err != nil {
				return err
			}
			caps, err := b.status.Capabilities(ctx)
			if err != nil {
				return err
			}
			pi, err := b.status.ProductInfo(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "address:      0x%02x (%s, %s transport)\n", b.dev.Addr(), b.name, b.dev.Transport().Mode())
			fmt.Fprintf(out, "hardware id:  0x%02x (%s)\n", id, seesaw.HardwareID(id))
			fmt.Fprintf(out, "modules:      %s\n", caps)
			fmt.Fprintf(out, "product:      %d, %04d-%02d-%02d\n", pi.ID, pi.Year, pi.Month, pi.Day)
			// Not every firmware build has a temperature sensor.
			if temp, err := b.status.Temp(ctx); err == nil {
				fmt.Fprintf(out, "temperature:  %.2f °C\n", temp)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
