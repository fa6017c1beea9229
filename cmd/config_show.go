package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"raporty/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  raporty config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		fmt.Println("Configuration:")
		fmt.Printf("storage.data_dir: %s\n", cfg.Storage.DataDir)
		fmt.Printf("storage.backup_keep: %d\n", cfg.Storage.BackupKeep)
		fmt.Printf("storage.lock_timeout_seconds: %d\n", cfg.Storage.LockTimeoutSeconds)
		fmt.Printf("export.admin_ids: %v\n", cfg.Export.AdminIDs)
		if cfg.SharePoint.Configured() {
			fmt.Printf("sharepoint.site_url: %s\n", cfg.SharePoint.SiteURL)
			fmt.Printf("sharepoint.doc_lib: %s\n", cfg.SharePoint.DocLib)
			fmt.Println("sharepoint upload: enabled")
		} else {
			fmt.Println("sharepoint upload: disabled")
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
