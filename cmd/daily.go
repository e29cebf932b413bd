package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/daily"
	"github.com/tkoide/isekadle/internal/game"
)

var flagOut string

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Play today's puzzle",
	Long: "Plays the shared daily round: the answer comes from the daily id file\n" +
		"instead of a random draw, and progress is saved so the same puzzle can\n" +
		"be resumed later in the day.",
	Example: `  isekadle daily
  isekadle daily --daily-file puzzles/daily.json
  isekadle daily generate --out daily.json`,
	RunE: runDaily,
}

var dailyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Pick and write the next daily id",
	Long: "Offline batch job for puzzle rotation: draws a random answer from the\n" +
		"daily candidate pool, avoids repeating the previous id, and writes the\n" +
		"result as JSON.",
	Example: `  isekadle daily generate --out daily.json
  isekadle daily generate --data data.json --config config.json --seed 7`,
	RunE: runDailyGenerate,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
	dailyCmd.AddCommand(dailyGenerateCmd)

	dailyCmd.Flags().StringVar(&flagDailyFile, "daily-file", "daily.json", "Path to the daily id file")
	registerPoolFlags(dailyCmd.Flags())
	registerRoundFlags(dailyCmd.Flags())

	dailyGenerateCmd.Flags().StringVar(&flagOut, "out", "daily.json", "Where to write the picked daily id")
	dailyGenerateCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Seed for the draw (0 = random)")
}

func runDaily(cmd *cobra.Command, _ []string) error {
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

	dailyID, err := catalog.LoadDailyID(flagDailyFile)
	if err != nil {
		return dataError("loading daily id", err)
	}

	session := game.NewSession(entries, roundConfig(cfg), poolSettings(cfg), newSeededRand())
	if err := session.StartRound(dailyID); err != nil {
		return classifyRoundStartError(err)
	}

	st, err := openProgressStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()

		progress, ok, err := st.DailyProgress(dailyID)
		if err != nil {
			return dataError("opening progress store", err)
		}
		if ok {
			session.Restore(progress.GuessIDs, progress.SkipCount, progress.Hints, progress.Outcome)
		}
	}

	return runGameTUI(cmd, session, st, true)
}

func runDailyGenerate(cmd *cobra.Command, _ []string) error {
	id, err := daily.GenerateFile(flagData, flagConfig, flagOut, newSeededRand())
	if err != nil {
		return classifyRoundStartError(err)
	}

	if flagJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "{\"id\":%q,\"out\":%q}\n", id, flagOut)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "daily id %s written to %s\n", id, flagOut)
	return nil
}
