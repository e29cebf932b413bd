package cmd

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tkoide/isekadle/internal/display"
	"github.com/tkoide/isekadle/internal/game"
	"github.com/tkoide/isekadle/internal/store"
)

func isInteractiveSession(stdin io.Reader, stdout io.Writer) bool {
	inputFile, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return false
	}
	return isTTY(stdout)
}

// runGameTUI plays the prepared session in the terminal and settles the
// outcome with the progress store when the round finishes.
func runGameTUI(cmd *cobra.Command, session *game.Session, st *store.Store, isDaily bool) error {
	if !isInteractiveSession(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return invalidArgsError(
			"playing requires an interactive terminal",
			"Use `isekadle search QUERY --json` or `isekadle library --json` in pipelines.",
		)
	}

	model := newGameTUIModel(session, st, isDaily)

	program := tea.NewProgram(
		model,
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(gameTUIModel); ok {
		out := cmd.OutOrStdout()
		switch m.session.State() {
		case game.StateWon:
			display.PrintResult(out, m.session.Config(), m.session.Target(), true)
		case game.StateLost:
			display.PrintResult(out, m.session.Config(), m.session.Target(), false)
		}
	}
	return nil
}
