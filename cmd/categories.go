package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tkoide/isekadle/internal/display"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Summarize the compared categories",
	Long: "Shows every category the game scores guesses on, with the numeric\n" +
		"range or the distinct values found in the catalog.",
	Example: `  isekadle categories
  isekadle categories --json`,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, _ []string) error {
	entries, cfg, err := loadCatalog()
	if err != nil {
		return err
	}

	summaries := display.Summarize(entries, cfg)
	if flagJSON {
		return display.PrintSummariesJSON(cmd.OutOrStdout(), summaries)
	}
	display.PrintSummaries(cmd.OutOrStdout(), summaries)
	return nil
}
