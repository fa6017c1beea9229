/*
Copyright © 2026 raporty maintainers

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"raporty/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "raporty",
	Short: "Log, edit, and export daily work reports kept in a shared workbook.",
	Long: `raporty keeps timed work reports in a shared spreadsheet store with one
sheet per month, validates new intervals against overlaps, remembers
per-user place presets, and exports single months as fresh workbooks.

All store access is serialized through an advisory lock file, so several
sessions or processes can write the same store safely.`,
	Example: `
  # Create configuration file
  raporty config create

  # Log a work entry for today
  raporty report add --user 42 --name "Anna" --place "Office" --start 08:00 --end 10:00 --tasks "Setup"

  # Show a day's report
  raporty report show --user 42 --date 01.06.2025

  # Edit one field of a saved entry
  raporty report edit --user 42 --date 01.06.2025 --id 42_01.06.2025_1 --field notes --value "left early"

  # Export a month for one user
  raporty export --month 2025-06 --user 42 --requester 42
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.raporty.yaml, then ./.raporty.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".raporty")
	}

	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: raporty config create")
	}
}
