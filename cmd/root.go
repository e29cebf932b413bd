package cmd

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/game"
	"github.com/tkoide/isekadle/internal/pool"
	"github.com/tkoide/isekadle/internal/store"
)

var (
	flagData           string
	flagConfig         string
	flagDailyFile      string
	flagMinMembers     int
	flagFinishedOnly   bool
	flagHideUnreleased bool
	flagIncludeAll     bool
	flagTitleMode      string
	flagRelatedMode    int
	flagMaxGuesses     int
	flagTarget         string
	flagSeed           int64
	flagNoStore        bool
	flagJSON           bool
)

var rootCmd = &cobra.Command{
	Use:   "isekadle",
	Short: "Guess the anime from its stats, one category at a time",
	Long: "Terminal guessing game over an anime catalog: pick a mystery entry,\n" +
		"type to search, and narrow it down with per-category verdicts (hit,\n" +
		"near, miss) until you find it or run out of guesses.\n\n" +
		"Agent-friendly mode: minor syntax issues are auto-corrected when intent is clear " +
		"(for example: -members 100000, title=japanese, --realted-mode 1).",
	Example: `  isekadle
  isekadle daily
  isekadle daily generate --out daily.json
  isekadle library --sort members --desc
  isekadle search "fullmetal" --json
  isekadle categories`,
	RunE: runPlay,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagData, "data", "data.json", "Path to the catalog dataset")
	pf.StringVar(&flagConfig, "config", "config.json", "Path to the game config")
	pf.BoolVar(&flagNoStore, "no-store", false, "Skip streak/progress persistence")
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")

	registerPoolFlags(rootCmd.Flags())
	registerRoundFlags(rootCmd.Flags())
}

// Execute runs the root command.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	resetCLIState()

	normalizedArgs, notes := normalizeCLIArgs(args)
	for _, note := range notes {
		fmt.Fprintf(stderr, "note: %s\n", note)
	}

	setCommandIO(rootCmd, stdout, stderr)
	rootCmd.SetArgs(normalizedArgs)

	if err := rootCmd.Execute(); err != nil {
		cliErr := classifyCLIError(err)
		if hasJSONPreference(normalizedArgs) {
			if jerr := printCLIErrorJSON(stderr, cliErr); jerr != nil {
				fmt.Fprintln(stderr, formatCLIErrorText(classifyCLIError(jerr)))
				return ExitInternal
			}
		} else {
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
		}
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func setCommandIO(cmd *cobra.Command, stdout, stderr io.Writer) {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdout, stderr)
	}
}

func resetCLIState() {
	flagData = "data.json"
	flagConfig = "config.json"
	flagDailyFile = "daily.json"
	flagMinMembers = -1
	flagFinishedOnly = true
	flagHideUnreleased = true
	flagIncludeAll = false
	flagTitleMode = ""
	flagRelatedMode = 0
	flagMaxGuesses = -1
	flagTarget = ""
	flagSeed = 0
	flagNoStore = false
	flagJSON = false
	flagSort = ""
	flagDesc = false
	flagLimit = 0
	flagOut = "daily.json"
}

func registerPoolFlags(f *pflag.FlagSet) {
	f.IntVar(&flagMinMembers, "min-members", -1, "Minimum member count for pool entries (-1 = config default)")
	f.BoolVar(&flagFinishedOnly, "finished-only", true, "Only finished entries are answers")
	f.BoolVar(&flagHideUnreleased, "hide-unreleased", true, "Exclude currently airing or unreleased entries")
	f.BoolVar(&flagIncludeAll, "include-all", false, "Disable member and status filters entirely")
	f.StringVar(&flagTitleMode, "title-mode", "", "Display titles in english or japanese")
	f.IntVar(&flagRelatedMode, "related-mode", 0, "Season handling: 1=collapse, 2=grouped, 3=strict (0 = config default)")
}

func registerRoundFlags(f *pflag.FlagSet) {
	f.IntVar(&flagMaxGuesses, "max-guesses", -1, "Guess limit for the round (-1 = config default, 0 = unlimited)")
	f.StringVar(&flagTarget, "target", "", "Force a specific entry id as the answer")
	f.Int64Var(&flagSeed, "seed", 0, "Seed for target selection (0 = random)")
	_ = f.MarkHidden("target")
	_ = f.MarkHidden("seed")
}

func validateTitleMode() error {
	switch strings.ToLower(strings.TrimSpace(flagTitleMode)) {
	case "", "english", "japanese":
		return nil
	default:
		return invalidArgsError(
			"invalid value for --title-mode (use english or japanese)",
			"isekadle --title-mode japanese",
			"isekadle library --title-mode english",
		)
	}
}

func validateRelatedMode() error {
	if flagRelatedMode >= 0 && flagRelatedMode <= 3 {
		return nil
	}
	return invalidArgsError(
		"invalid value for --related-mode (use 1, 2, or 3)",
		"isekadle --related-mode 1",
		"isekadle daily --related-mode 3",
	)
}

func loadCatalog() ([]catalog.Entry, *catalog.Config, error) {
	entries, err := catalog.LoadEntries(flagData)
	if err != nil {
		return nil, nil, dataError("loading entries", err)
	}
	cfg, err := catalog.LoadConfig(flagConfig)
	if err != nil {
		return nil, nil, dataError("loading config", err)
	}
	return entries, cfg, nil
}

func poolSettings(cfg *catalog.Config) pool.Settings {
	s := pool.Settings{
		MinMembers:     flagMinMembers,
		HideUnreleased: flagHideUnreleased,
		FinishedOnly:   flagFinishedOnly,
		TitleMode:      strings.ToLower(strings.TrimSpace(flagTitleMode)),
		RelatedMode:    flagRelatedMode,
	}
	if s.TitleMode == "" {
		s.TitleMode = cfg.DisplayTitle
	}
	if s.MinMembers < 0 {
		s.MinMembers = 0
	}
	if flagIncludeAll {
		s.MinMembers = 0
		s.HideUnreleased = false
		s.FinishedOnly = false
	}
	return s
}

func roundConfig(cfg *catalog.Config) *catalog.Config {
	if flagMaxGuesses < 0 {
		return cfg
	}
	adjusted := *cfg
	adjusted.MaxGuesses = flagMaxGuesses
	return &adjusted
}

func openProgressStore() (*store.Store, error) {
	if flagNoStore {
		return nil, nil
	}
	path, err := store.DefaultPath()
	if err != nil {
		return nil, dataError("opening progress store", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, dataError("opening progress store", err)
	}
	return st, nil
}

func newSeededRand() *rand.Rand {
	if flagSeed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(flagSeed))
}

func runPlay(cmd *cobra.Command, _ []string) error {
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

	session := game.NewSession(entries, roundConfig(cfg), poolSettings(cfg), newSeededRand())
	if err := session.StartRound(flagTarget); err != nil {
		return classifyRoundStartError(err)
	}

	st, err := openProgressStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	return runGameTUI(cmd, session, st, false)
}

func classifyRoundStartError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, game.ErrEmptyPool):
		return notFoundError(
			"no candidates under current filters",
			"Relax filters like --min-members or use --include-all.",
		)
	case errors.Is(err, game.ErrTargetUnavailable):
		return notFoundError(
			err.Error(),
			"The requested answer is filtered out; adjust --min-members or --related-mode.",
		)
	default:
		return err
	}
}
