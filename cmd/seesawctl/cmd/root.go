package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"seesaw-go/errcode"
)

var (
	// Global flags
	busSpec    string
	addrFlag   string
	deviceName string
	async      bool
	timeout    time.Duration
	speedKHz   int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "seesawctl",
	Short: "Inspect and drive Adafruit Seesaw boards",
	Long: `seesawctl reads and writes the modules of an Adafruit Seesaw board
(status, GPIO, ADC, PWM, rotary encoder, NeoPixel) over I2C.

Examples:
  seesawctl info --bus periph:1 --device generic           # Identify a board on /dev/i2c-1
  seesawctl encoder --device encoder --watch               # Follow a rotary encoder
  seesawctl pixel 2 255 0 0 --device neokey --bus mcp2221  # Red key through a USB bridge
  seesawctl watch --device arcade                          # Print button presses
  seesawctl pwm 12 255 --device arcade --ramp 1s           # Fade an arcade LED up`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Failures are reported with their error code
// and exit status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", errcode.Of(err), err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&busSpec, "bus", "b", "periph:",
		"bus to use: periph:<name> (empty name picks the first bus), mcp2221 or sim")
	pf.StringVarP(&addrFlag, "addr", "a", "",
		"7-bit device address, hex or decimal (default: the board's address)")
	pf.StringVarP(&deviceName, "device", "d", "generic",
		"board type (generic, encoder, neokey, arcade)")
	pf.BoolVar(&async, "async", false,
		"use the cancellable transport (bus worker for periph buses)")
	pf.DurationVar(&timeout, "timeout", 2*time.Second,
		"deadline for one command; needs --async to interrupt a transfer")
	pf.IntVar(&speedKHz, "speed", 100, "I2C clock in kHz")
	pf.BoolVarP(&verbose, "verbose", "v", false, "trace every bus transfer to stderr")
}
