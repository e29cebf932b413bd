package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/display"
	"github.com/tkoide/isekadle/internal/pool"
)

var (
	flagSort  string
	flagDesc  bool
	flagLimit int
)

var libraryCmd = &cobra.Command{
	Use:   "library [query]",
	Short: "Browse the guessable catalog",
	Long: "Lists every entry the current filters would let you guess, with the\n" +
		"category values the game compares and a marker on entries you have\n" +
		"already won.",
	Example: `  isekadle library
  isekadle library "gintama"
  isekadle library --sort members --desc
  isekadle library --sort year --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLibrary,
}

func init() {
	rootCmd.AddCommand(libraryCmd)

	registerPoolFlags(libraryCmd.Flags())
	libraryCmd.Flags().StringVar(&flagSort, "sort", "", "Sort by title or a category key")
	libraryCmd.Flags().BoolVar(&flagDesc, "desc", false, "Sort descending")
	libraryCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "Limit number of rows (0 = all)")
}

func runLibrary(cmd *cobra.Command, args []string) error {
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

	if err := validateSortKey(cfg); err != nil {
		return err
	}

	p := pool.Build(entries, cfg, poolSettings(cfg))
	candidates := p.Candidates
	if len(candidates) == 0 {
		return notFoundError(
			"no candidates under current filters",
			"Relax filters like --min-members or use --include-all.",
		)
	}

	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		candidates = pool.Search(args[0], candidates, len(candidates))
		if len(candidates) == 0 {
			return notFoundError(
				fmt.Sprintf("no results for %q", args[0]),
				"Try a shorter query; matching is fuzzy.",
			)
		}
	}

	sortCandidates(candidates, flagSort, flagDesc)
	if flagLimit > 0 && flagLimit < len(candidates) {
		candidates = candidates[:flagLimit]
	}

	won := map[string]struct{}{}
	st, err := openProgressStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		ids, err := st.WonIDs()
		if err == nil {
			won = ids
		}
	}

	if flagJSON {
		return display.PrintCandidatesJSON(cmd.OutOrStdout(), cfg, candidates, won)
	}
	display.PrintCandidates(cmd.OutOrStdout(), cfg, candidates, won)
	return nil
}

func validateSortKey(cfg *catalog.Config) error {
	key := strings.ToLower(strings.TrimSpace(flagSort))
	if key == "" || key == "title" {
		return nil
	}
	for _, cat := range cfg.Categories {
		if cat.Key != key {
			continue
		}
		if cat.Type == catalog.TypeList {
			return invalidArgsError(
				fmt.Sprintf("cannot sort by list category %q", key),
				"isekadle library --sort title",
			)
		}
		return nil
	}
	return invalidArgsError(
		fmt.Sprintf("unknown sort key %q (use title or a category key)", key),
		"isekadle library --sort title",
		"isekadle categories",
	)
}

// sortCandidates orders rows by the chosen key. Numeric categories compare as
// numbers with missing values last; everything else compares as lowercased
// text. An empty key keeps the pool's stable order.
func sortCandidates(candidates []*pool.Candidate, key string, desc bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return
	}

	less := func(a, b *pool.Candidate) bool {
		if key == "title" {
			return strings.ToLower(a.DisplayTitle) < strings.ToLower(b.DisplayTitle)
		}
		an, aok := a.Entry.Number(key)
		bn, bok := b.Entry.Number(key)
		if aok && bok {
			if an != bn {
				return an < bn
			}
			return strings.ToLower(a.DisplayTitle) < strings.ToLower(b.DisplayTitle)
		}
		if aok != bok {
			return aok
		}
		at := strings.ToLower(a.Entry.Text(key))
		bt := strings.ToLower(b.Entry.Text(key))
		if at != bt {
			return at < bt
		}
		return strings.ToLower(a.DisplayTitle) < strings.ToLower(b.DisplayTitle)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if desc {
			return less(candidates[j], candidates[i])
		}
		return less(candidates[i], candidates[j])
	})
}
