package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"seesaw-go/watch"
)

var (
	watchInterval time.Duration
	watchPins     uint32
	watchFor      time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print input changes as they happen",
	Long: `Watch polls every input the board carries (encoder, keys or buttons, and the
GPIO pins selected with --pins) and prints one line per change, as
"<source>/<key> <value>". It runs until interrupted, or for --for.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(cmd, false, func(ctx context.Context, b *board) error {
			if b.buttons != nil {
				// Restore the key pull-ups.
				if err := b.setup(ctx); err != nil {
					return err
				}
			}
			hub := watch.NewHub(64)
			p := watch.NewPoller(hub)
			n := 0
			if b.encoder != nil {
				if err := b.encoder.EnableButton(ctx); err != nil {
					return err
				}
				p.Add("encoder", watch.Encoder(b.encoder), watchInterval, 0)
				n++
			}
			if b.buttons != nil {
				p.Add("buttons", watch.SourceFunc(func(ctx context.Context) ([]watch.Reading, error) {
					pressed, err := b.buttons(ctx)
					if err != nil {
						return nil, err
					}
					var m uint8
					for i, v := range pressed {
						if v {
							m |= 1 << i
						}
					}
					return []watch.Reading{{Key: "pressed", Value: m}}, nil
				}), watchInterval, 0)
				n++
			}
			if watchPins != 0 && b.gpio != nil {
				p.Add("gpio", watch.Pins(b.gpio, watchPins), watchInterval, 0)
				n++
			}
			if n == 0 {
				return unsupported(b, "input")
			}

			if watchFor > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, watchFor)
				defer cancel()
			}
			sub := hub.Subscribe(watch.Topic{"#"})
			defer sub.Close()

			done := make(chan struct{})
			go func() {
				defer close(done)
				p.Run(ctx)
			}()

			out := cmd.OutOrStdout()
			for {
				select {
				case e := <-sub.Events():
					printEvent(out, e)
				case <-done:
					for {
						select {
						case e := <-sub.Events():
							printEvent(out, e)
						default:
							return nil
						}
					}
				}
			}
		})
	},
}

func printEvent(w io.Writer, e *watch.Event) {
	if e.Err != nil {
		fmt.Fprintf(w, "%s %v\n", e.Topic, e.Err)
		return
	}
	switch v := e.Value.(type) {
	case uint8:
		fmt.Fprintf(w, "%s %04b\n", e.Topic, v)
	case uint32:
		fmt.Fprintf(w, "%s %#08x\n", e.Topic, v)
	default:
		fmt.Fprintf(w, "%s %v\n", e.Topic, v)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 20*time.Millisecond, "poll interval")
	watchCmd.Flags().Uint32Var(&watchPins, "pins", 0, "GPIO pin mask to watch")
	watchCmd.Flags().DurationVar(&watchFor, "for", 0, "stop after this long (0 runs until interrupted)")
}
