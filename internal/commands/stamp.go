package commands

import (
	"fmt"
	"time"

	"github.com/rbum/devtools/internal/terminal"
	"github.com/spf13/cobra"
)

var (
	stampDryRun       bool
	stampCreationDate string
	stampCounter      bool
)

var stampCmd = &cobra.Command{
	Use:   "stamp",
	Short: "Refresh file headers",
	Long:  "Write the First created / Last updated headers of every .swift and .md file under the project root.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if stampCreationDate != "" {
			cfg.CreationDate = stampCreationDate
		}
		if cmd.Flags().Changed("counter") {
			cfg.CounterEnabled = stampCounter
		}
		root, err := cfg.AbsRoot()
		if err != nil {
			return err
		}

		started := time.Now()
		s := newStamper(cfg)
		if stampDryRun {
			res, err := s.Plan(cmd.Context(), root)
			if err != nil {
				return err
			}
			recordRun(cfg, root, res, "stamp", started)
			for _, p := range res.Updated {
				terminal.Line("Would update " + relPath(root, p))
			}
			terminal.Info(fmt.Sprintf("%d of %d files would change.", len(res.Updated), res.Scanned))
			return nil
		}

		unlock, err := lockRoot(cfg, root)
		if err != nil {
			return err
		}
		defer unlock()

		res, err := s.Run(cmd.Context(), root)
		if err != nil {
			return err
		}
		recordRun(cfg, root, res, "stamp", started)
		terminal.Info(fmt.Sprintf("Updated %d of %d files.", len(res.Updated), res.Scanned))
		return nil
	},
}

func init() {
	stampCmd.Flags().BoolVar(&stampDryRun, "dry-run", false, "List the files that would change without writing")
	stampCmd.Flags().StringVar(&stampCreationDate, "creation-date", "", `Creation date for files without one, e.g. "6 February 2025"`)
	stampCmd.Flags().BoolVar(&stampCounter, "counter", false, "Write the Update count line (release builds only)")
}
