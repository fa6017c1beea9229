package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"raporty/internal/timeutil"
	"raporty/worklog"
)

var (
	showUser int64
	showDate string
)

var reportShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a day's report with durations and tags.",
	Example: `
  # Show today's report
  raporty report show --user 42

  # Show a specific day
  raporty report show --user 42 --date 01.06.2025
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showDate == "" {
			showDate = timeutil.Today()
		}

		svc, err := buildServices()
		if err != nil {
			return err
		}

		entries, err := svc.ledger.ReadEntriesForDay(showUser, showDate)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No report for user %d on %s.\n", showUser, showDate)
			return nil
		}

		fmt.Printf("Report for %s on %s:\n", entries[0].OwnerName, showDate)
		for _, entry := range entries {
			fmt.Printf("  %s  %s-%s  %s", entry.ID, entry.Start, entry.End, entry.Place)
			if label := entryDuration(entry); label != "" {
				fmt.Printf("  (%s)", label)
			}
			fmt.Println()
			if entry.Tasks != "" {
				fmt.Printf("    tasks: %s\n", entry.Tasks)
			}
			if entry.Notes != "" && entry.Notes != "-" {
				fmt.Printf("    notes: %s\n", entry.Notes)
			}
		}

		fmt.Printf("Total: %s\n", timeutil.DurationLabel(worklog.DailyMinutes(entries)))
		if tags := dayTags(entries); len(tags) > 0 {
			fmt.Printf("Tags: %s\n", strings.Join(tags, " "))
		}
		return nil
	},
}

func entryDuration(entry worklog.Entry) string {
	start, err := timeutil.ParseClock(entry.Start)
	if err != nil {
		return ""
	}
	end, err := timeutil.ParseClock(entry.End)
	if err != nil {
		return ""
	}
	return timeutil.DurationLabel(end.Minutes() - start.Minutes())
}

func dayTags(entries []worklog.Entry) []string {
	seen := map[string]bool{}
	var tags []string
	for _, entry := range entries {
		for _, tag := range worklog.ExtractTags(entry.Tasks) {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func init() {
	reportShowCmd.Flags().Int64Var(&showUser, "user", 0, "User id owning the report")
	reportShowCmd.Flags().StringVar(&showDate, "date", "", "Report day as dd.mm.yyyy (default today)")

	reportShowCmd.MarkFlagRequired("user")

	reportCmd.AddCommand(reportShowCmd)
}
