package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	placesUser  int64
	placesTasks bool
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Show a user's most recently used places or task templates.",
	Long: `Show the bounded most-recent-first preset list kept for a user.

Places are remembered automatically whenever an entry with a place is
saved; the list holds at most five values with re-use moving a value back
to the front.`,
	Example: `
  # Recent places
  raporty places --user 42

  # Recent task templates
  raporty places --user 42 --tasks
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		values, err := svc.presets.RecentPlaces(placesUser)
		label := "places"
		if placesTasks {
			values, err = svc.presets.RecentTasks(placesUser)
			label = "tasks"
		}
		if err != nil {
			return err
		}

		if len(values) == 0 {
			fmt.Printf("No recent %s for user %d.\n", label, placesUser)
			return nil
		}
		for i, value := range values {
			fmt.Printf("%d. %s\n", i+1, value)
		}
		return nil
	},
}

func init() {
	placesCmd.Flags().Int64Var(&placesUser, "user", 0, "User id")
	placesCmd.Flags().BoolVar(&placesTasks, "tasks", false, "Show task templates instead of places")

	placesCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(placesCmd)
}
