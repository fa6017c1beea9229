package cmd

import "github.com/spf13/cobra"

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Log, inspect, and edit daily work reports.",
	Example: `
  # Log a work entry for today
  raporty report add --user 42 --name "Anna" --place "Office" --start 08:00 --end 10:00 --tasks "Setup"

  # Show a day
  raporty report show --user 42 --date 01.06.2025

  # Edit one field of a saved entry
  raporty report edit --user 42 --date 01.06.2025 --id 42_01.06.2025_1 --field start --value 09:00

  # Aggregate worked time per month
  raporty report total --user 42
`,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
