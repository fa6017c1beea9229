package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"raporty/internal/timeutil"
	"raporty/worklog"
)

var (
	addUser  int64
	addName  string
	addDate  string
	addPlace string
	addStart string
	addEnd   string
	addTasks string
	addNotes string
	addForce bool
)

var reportAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a work entry to a day's report.",
	Long: `Append one timed work entry for a user and day.

The interval is validated (HH:MM format, start strictly before end) and
checked against every already saved entry of the same day. Overlaps are
reported and block the write unless --force is given; the entry id
continues the day's sequence and is never reused.`,
	Example: `
  # Log an entry for today
  raporty report add --user 42 --name "Anna" --place "Office" --start 08:00 --end 10:00 --tasks "Setup"

  # Write through a reported overlap
  raporty report add --user 42 --name "Anna" --place "Office" --start 09:00 --end 11:00 --force
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addDate == "" {
			addDate = timeutil.Today()
		}
		if err := validateInterval(addStart, addEnd); err != nil {
			return err
		}

		svc, err := buildServices()
		if err != nil {
			return err
		}

		hasConflict, conflicts, err := svc.ledger.CheckOverlap(addUser, addDate, addStart, addEnd, "", nil)
		if err != nil {
			return err
		}
		if hasConflict && !addForce {
			for _, conflict := range conflicts {
				fmt.Printf("Overlaps saved entry %s-%s\n", conflict.Start, conflict.End)
			}
			return fmt.Errorf("interval overlaps %d saved entries (use --force to save anyway)", len(conflicts))
		}

		draft := worklog.Draft{
			Place: addPlace,
			Start: addStart,
			End:   addEnd,
			Tasks: addTasks,
			Notes: addNotes,
		}
		if err := svc.ledger.AppendEntries(addUser, addDate, addName, []worklog.Draft{draft}); err != nil {
			return err
		}

		if addPlace != "" {
			if err := svc.presets.RememberPlace(addUser, addPlace); err != nil {
				return err
			}
		}
		if addTasks != "" {
			if err := svc.presets.RememberTask(addUser, addTasks); err != nil {
				return err
			}
		}

		fmt.Printf("Saved entry for %s on %s (%s-%s).\n", addName, addDate, addStart, addEnd)
		return nil
	},
}

func init() {
	reportAddCmd.Flags().Int64Var(&addUser, "user", 0, "User id owning the report")
	reportAddCmd.Flags().StringVar(&addName, "name", "", "Display name stored with the entry")
	reportAddCmd.Flags().StringVar(&addDate, "date", "", "Report day as dd.mm.yyyy (default today)")
	reportAddCmd.Flags().StringVar(&addPlace, "place", "", "Work place")
	reportAddCmd.Flags().StringVar(&addStart, "start", "", "Start time HH:MM")
	reportAddCmd.Flags().StringVar(&addEnd, "end", "", "End time HH:MM")
	reportAddCmd.Flags().StringVar(&addTasks, "tasks", "", "Task text, may embed #tags")
	reportAddCmd.Flags().StringVar(&addNotes, "notes", "", "Free note text")
	reportAddCmd.Flags().BoolVar(&addForce, "force", false, "Save even when the interval overlaps saved entries")

	reportAddCmd.MarkFlagRequired("user")
	reportAddCmd.MarkFlagRequired("name")
	reportAddCmd.MarkFlagRequired("start")
	reportAddCmd.MarkFlagRequired("end")

	reportCmd.AddCommand(reportAddCmd)
}
