package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkoide/isekadle/internal/display"
	"github.com/tkoide/isekadle/internal/pool"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Fuzzy-search the guess pool",
	Long: "Runs the in-game suggestion engine once: normalizes the query, scores\n" +
		"every candidate title variant, and prints the ranked matches.",
	Example: `  isekadle search "re zero"
  isekadle search fma --json
  isekadle search "gintama" --related-mode 1`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	registerPoolFlags(searchCmd.Flags())
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validateTitleMode(); err != nil {
		return err
	}
	if err := validateRelatedMode(); err != nil {
		return err
	}

	entries, cfg, err := loadCatalog()
	if err != nil {
		return err
	}

	p := pool.Build(entries, cfg, poolSettings(cfg))
	matches := pool.Search(args[0], p.Candidates, pool.SearchLimit)
	if len(matches) == 0 {
		return notFoundError(
			fmt.Sprintf("no results for %q", args[0]),
			"Try a shorter query; matching is fuzzy.",
			"Loosen the pool with --include-all.",
		)
	}

	if flagJSON {
		return display.PrintSuggestionsJSON(cmd.OutOrStdout(), matches)
	}
	display.PrintSuggestions(cmd.OutOrStdout(), matches)
	return nil
}
