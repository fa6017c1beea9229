package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"raporty/internal/timeutil"
	"raporty/worklog"
)

var totalUser int64

var reportTotalCmd = &cobra.Command{
	Use:   "total",
	Short: "Aggregate a user's worked time per month across all history.",
	Example: `
  # Monthly totals for user 42
  raporty report total --user 42
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		history, err := svc.ledger.ReadAllHistory(totalUser)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Printf("No entries for user %d.\n", totalUser)
			return nil
		}

		totals := map[string]int{}
		for _, entry := range history {
			monthKey, err := timeutil.MonthKey(entry.Date)
			if err != nil {
				continue
			}
			totals[monthKey] += historyMinutes(entry)
		}

		months := make([]string, 0, len(totals))
		for month := range totals {
			months = append(months, month)
		}
		sort.Strings(months)

		for _, month := range months {
			fmt.Printf("%s  %s\n", month, timeutil.DurationLabel(totals[month]))
		}
		return nil
	},
}

func historyMinutes(entry worklog.HistoryEntry) int {
	if entry.Start == "" || entry.End == "" {
		return 0
	}
	start, err := timeutil.ParseClock(entry.Start)
	if err != nil {
		return 0
	}
	end, err := timeutil.ParseClock(entry.End)
	if err != nil {
		return 0
	}
	return end.Minutes() - start.Minutes()
}

func init() {
	reportTotalCmd.Flags().Int64Var(&totalUser, "user", 0, "User id to aggregate")

	reportTotalCmd.MarkFlagRequired("user")

	reportCmd.AddCommand(reportTotalCmd)
}
