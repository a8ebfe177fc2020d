package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs",
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if runStore == nil {
		return errors.New("history store not configured")
	}

	runs, err := runStore.ListRuns(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("list sync runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No sync runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		outcome := fmt.Sprintf("ok, %d events", run.ItemCount)
		if !run.Success {
			outcome = "failed: " + run.Error
		}
		cmd.Printf("%s  %-9s  %-24s  %s (%.1fs)\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(run.Trigger),
			run.CalendarID,
			outcome,
			run.Duration().Seconds())
	}
	return nil
}
