package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage raporty configuration file values.",
	Long: `Create and display the raporty configuration file.

The configuration stores:
- storage.data_dir / storage.backup_keep / storage.lock_timeout_seconds
- export.admin_ids
- the optional sharepoint upload block`,
	Example: `
  # Create default config in $HOME/.raporty.yaml
  raporty config create

  # Show active config and source file
  raporty config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
