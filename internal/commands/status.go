package commands

import (
	"fmt"

	"github.com/rbum/devtools/internal/storage"
	"github.com/rbum/devtools/internal/terminal"
	"github.com/spf13/cobra"
)

var statusHistory bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show header dates per file",
	Long:  "List every tracked file with its recorded dates and whether stamp would rewrite it.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := appConfig.AbsRoot()
		if err != nil {
			return err
		}
		if statusHistory {
			return printHistory(root)
		}

		statuses, err := newStamper(appConfig).Status(root)
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			terminal.Info("No tracked files found.")
			return nil
		}

		stale := 0
		for _, st := range statuses {
			label := relPath(root, st.Path)
			if st.Title != "" {
				label += " (" + st.Title + ")"
			}
			terminal.Header(label)
			if !st.HasHeader {
				terminal.Detail("Header", "missing")
			} else {
				terminal.Detail("Created", orDash(st.Created))
				terminal.Detail("Updated", orDash(st.Updated))
				if st.Count != nil {
					terminal.Detail("Count", fmt.Sprintf("%d", *st.Count))
				}
			}
			if st.Stale {
				stale++
				terminal.Detail("State", "stale")
			} else {
				terminal.Detail("State", "current")
			}
		}

		terminal.Divider()
		if last, err := storage.NewRunStore(appConfig.StateDir).Last(root); err == nil && last != nil {
			terminal.Detail("Last stamp", fmt.Sprintf("%s (%s, %d of %d updated)",
				last.StartedAt.Local().Format("2 January 2006 15:04"), last.Trigger, len(last.Updated), last.Scanned))
		}
		if stale == 0 {
			terminal.Success(fmt.Sprintf("All %d files are current.", len(statuses)))
		} else {
			terminal.Warning(fmt.Sprintf("%d of %d files are stale. Run `rbumdev stamp`.", stale, len(statuses)))
		}
		return nil
	},
}

func printHistory(root string) error {
	runs, err := storage.NewRunStore(appConfig.StateDir).List(root)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		terminal.Info("No stamp runs recorded for " + root + ".")
		return nil
	}
	terminal.Header("Stamp runs")
	for _, r := range runs {
		summary := fmt.Sprintf("%s, %d of %d updated", r.Trigger, len(r.Updated), r.Scanned)
		if r.DryRun {
			summary += ", dry run"
		}
		terminal.Detail(r.StartedAt.Local().Format("2 January 2006 15:04:05"), summary)
	}
	return nil
}

func init() {
	statusCmd.Flags().BoolVar(&statusHistory, "history", false, "List the recorded stamp runs for the project instead")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
