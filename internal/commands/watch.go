package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rbum/devtools/internal/stamper"
	"github.com/rbum/devtools/internal/terminal"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stamp files as they change",
	Long:  "Run one stamp pass, then keep re-stamping tracked files as they are created or saved until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		root, err := appConfig.AbsRoot()
		if err != nil {
			return err
		}
		unlock, err := lockRoot(appConfig, root)
		if err != nil {
			return err
		}
		defer unlock()

		started := time.Now()
		res, err := newStamper(appConfig).Run(ctx, root)
		if err != nil {
			return err
		}
		recordRun(appConfig, root, res, "watch", started)

		// A zero Now dates each event as it happens, so a long session
		// rolls over midnight.
		s := stamper.New(stamper.Options{
			Headers:     appConfig.HeaderOptions(time.Time{}),
			ExcludeDirs: appConfig.ExcludeDirs,
		}, terminal.Reporter{}, appLogger.Logger)
		return s.Watch(ctx, root, stamper.WatchOptions{
			Debounce: watchDebounce,
			Ready: func() {
				terminal.Info("Watching " + root + " (Ctrl+C to stop)")
			},
		})
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "Quiet period before a changed file is stamped")
}
