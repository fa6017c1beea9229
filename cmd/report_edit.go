package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	editUser  int64
	editDate  string
	editID    string
	editField string
	editValue string
	editForce bool
)

var reportEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Overwrite one field of a saved entry.",
	Long: `Overwrite exactly one field of a saved entry, located by its id.

Editable fields: place, start, end, tasks, notes. Time edits are format
checked and re-validated against the day's other entries, excluding the
entry being edited; conflicts block the write unless --force is given.
The entry keeps its id, edits never renumber.`,
	Example: `
  # Move an entry's start
  raporty report edit --user 42 --date 01.06.2025 --id 42_01.06.2025_2 --field start --value 10:00

  # Rewrite the notes
  raporty report edit --user 42 --date 01.06.2025 --id 42_01.06.2025_1 --field notes --value "left early"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		if editField == "start" || editField == "end" {
			start, end, err := editedInterval(svc, editUser, editDate, editID, editField, editValue)
			if err != nil {
				return err
			}
			if err := validateInterval(start, end); err != nil {
				return err
			}

			hasConflict, conflicts, err := svc.ledger.CheckOverlap(editUser, editDate, start, end, editID, nil)
			if err != nil {
				return err
			}
			if hasConflict && !editForce {
				for _, conflict := range conflicts {
					fmt.Printf("Overlaps saved entry %s-%s\n", conflict.Start, conflict.End)
				}
				return fmt.Errorf("edited interval overlaps %d saved entries (use --force to save anyway)", len(conflicts))
			}
		}

		if err := svc.ledger.UpdateField(editUser, editDate, editID, editField, editValue); err != nil {
			return err
		}

		if editField == "place" && editValue != "" {
			if err := svc.presets.RememberPlace(editUser, editValue); err != nil {
				return err
			}
		}

		fmt.Printf("Updated %s of %s.\n", editField, editID)
		return nil
	},
}

// editedInterval rebuilds the full interval the edit would produce, taking
// the unchanged side from the saved entry.
func editedInterval(svc *services, userID int64, day, entryID, field, value string) (string, string, error) {
	entries, err := svc.ledger.ReadEntriesForDay(userID, day)
	if err != nil {
		return "", "", err
	}
	for _, entry := range entries {
		if entry.ID != entryID {
			continue
		}
		if field == "start" {
			return value, entry.End, nil
		}
		return entry.Start, value, nil
	}
	return "", "", fmt.Errorf("entry %s not found on %s", entryID, day)
}

func init() {
	reportEditCmd.Flags().Int64Var(&editUser, "user", 0, "User id owning the report")
	reportEditCmd.Flags().StringVar(&editDate, "date", "", "Report day as dd.mm.yyyy")
	reportEditCmd.Flags().StringVar(&editID, "id", "", "Entry id, e.g. 42_01.06.2025_1")
	reportEditCmd.Flags().StringVar(&editField, "field", "", "Field to overwrite: place, start, end, tasks, notes")
	reportEditCmd.Flags().StringVar(&editValue, "value", "", "New field value")
	reportEditCmd.Flags().BoolVar(&editForce, "force", false, "Save even when the edited interval overlaps saved entries")

	reportEditCmd.MarkFlagRequired("user")
	reportEditCmd.MarkFlagRequired("date")
	reportEditCmd.MarkFlagRequired("id")
	reportEditCmd.MarkFlagRequired("field")
	reportEditCmd.MarkFlagRequired("value")

	reportCmd.AddCommand(reportEditCmd)
}
