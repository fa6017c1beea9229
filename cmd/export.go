package cmd

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"raporty/output"
)

var (
	exportMonth     string
	exportUser      int64
	exportRequester int64
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one month of the store as a fresh workbook.",
	Long: `Copy one month sheet into a standalone single-sheet workbook.

With --user the artifact carries only that user's rows; without it the
whole month is exported, which requires the requester to be on the
configured admin list (an empty list allows everyone). The artifact is
written next to the store for the caller to hand out and delete.`,
	Example: `
  # Export your own June
  raporty export --month 2025-06 --user 42 --requester 42

  # Export the whole month (admins only when export.admin_ids is set)
  raporty export --month 2025-06 --requester 1
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !monthKeyPattern.MatchString(exportMonth) {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", exportMonth)
		}

		svc, err := buildServices()
		if err != nil {
			return err
		}

		if exportUser == 0 && !svc.cfg.IsAdmin(exportRequester) {
			return fmt.Errorf("user %d may not export all users, scope the export with --user", exportRequester)
		}

		path, err := svc.exporter.ExportMonth(exportMonth, exportUser)
		if errors.Is(err, output.ErrMonthNotFound) {
			fmt.Printf("No data for %s.\n", exportMonth)
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Export written to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Month to export as YYYY-MM")
	exportCmd.Flags().Int64Var(&exportUser, "user", 0, "Limit the export to one user id")
	exportCmd.Flags().Int64Var(&exportRequester, "requester", 0, "User id requesting the export")

	exportCmd.MarkFlagRequired("month")
	exportCmd.MarkFlagRequired("requester")

	rootCmd.AddCommand(exportCmd)
}
