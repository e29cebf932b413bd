package cmd

import (
	"math/rand"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/game"
	"github.com/tkoide/isekadle/internal/pool"
)

func tuiTestSession(t *testing.T, targetID string) *game.Session {
	t.Helper()
	entries := []catalog.Entry{
		{
			ID:           "1",
			Titles:       catalog.Titles{Main: "Cowboy Bebop"},
			SearchTitles: []string{"Cowboy Bebop"},
			Categories:   map[string]any{"year": float64(1998), "studio": "Sunrise"},
		},
		{
			ID:           "2",
			Titles:       catalog.Titles{Main: "Mushishi"},
			SearchTitles: []string{"Mushishi"},
			Categories:   map[string]any{"year": float64(2005), "studio": "Artland"},
		},
	}
	cfg := &catalog.Config{
		Categories: []catalog.Category{
			{Key: "year", Label: "Year", Type: catalog.TypeNumber, Width: 8},
			{Key: "studio", Label: "Studio", Type: catalog.TypeText, Width: 12},
		},
		MaxGuesses: 3,
		Hints:      []catalog.Hint{{Key: "synopsis", Label: "Synopsis", UnlockAt: 2}},
	}

	s := game.NewSession(entries, cfg, pool.Settings{}, rand.New(rand.NewSource(1)))
	require.NoError(t, s.StartRound(targetID))
	return s
}

func TestGameTUIModel_SuggestAndGuessFlow(t *testing.T) {
	m := newGameTUIModel(tuiTestSession(t, "1"), nil, false)

	m.input.SetValue("cowboy")
	m.refreshSuggestions()
	require.Len(t, m.suggestions, 1)
	assert.Equal(t, "Cowboy Bebop", m.suggestions[0].DisplayTitle)

	m.submitSelection()
	assert.Equal(t, game.StateWon, m.session.State())
	assert.True(t, m.settled)
}

func TestGameTUIModel_WrongGuessKeepsPlaying(t *testing.T) {
	m := newGameTUIModel(tuiTestSession(t, "1"), nil, false)

	m.input.SetValue("mushishi")
	m.refreshSuggestions()
	require.Len(t, m.suggestions, 1)

	m.submitSelection()
	assert.Equal(t, game.StateInProgress, m.session.State())
	assert.Empty(t, m.input.Value())
	assert.Len(t, m.session.Guesses(), 1)
}

func TestGameTUIModel_NoMatchLeavesStatusMessage(t *testing.T) {
	m := newGameTUIModel(tuiTestSession(t, "1"), nil, false)

	m.input.SetValue("zzz")
	m.refreshSuggestions()
	m.submitSelection()

	assert.Contains(t, m.statusMsg, "no match")
	assert.Empty(t, m.session.Guesses())
}

func TestGameTUIModel_SkipToHintOpensIt(t *testing.T) {
	m := newGameTUIModel(tuiTestSession(t, "1"), nil, false)

	m.skipToHint()

	assert.Equal(t, 2, m.session.GuessCount())
	assert.True(t, m.session.HintState("synopsis").Open)
	assert.Contains(t, m.statusMsg, "Synopsis")
}

func TestGameTUIModel_QuitKeys(t *testing.T) {
	m := newGameTUIModel(tuiTestSession(t, "1"), nil, false)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestGameTUIModel_ViewShowsBoardAfterGuess(t *testing.T) {
	m := newGameTUIModel(tuiTestSession(t, "1"), nil, false)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(gameTUIModel)

	m.input.SetValue("mushishi")
	m.refreshSuggestions()
	m.submitSelection()

	view := m.View()
	assert.Contains(t, view, "Mushishi")
	assert.Contains(t, view, "Year")
	assert.Contains(t, view, "guess 1/3")
}

func TestGameTUIModel_TooSmallGuard(t *testing.T) {
	m := newGameTUIModel(tuiTestSession(t, "1"), nil, false)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m = updated.(gameTUIModel)

	assert.True(t, m.tooSmall)
	assert.Contains(t, m.View(), "Terminal too small")
}

func TestGameTUIModel_ResultViewOnLoss(t *testing.T) {
	m := newGameTUIModel(tuiTestSession(t, "1"), nil, false)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(gameTUIModel)

	// Burn the budget on skips plus a wrong guess.
	m.skipToHint()
	m.input.SetValue("mushishi")
	m.refreshSuggestions()
	m.submitSelection()

	assert.Equal(t, game.StateLost, m.session.State())
	assert.Contains(t, m.View(), "The answer was Cowboy Bebop")
}

func TestPadCell(t *testing.T) {
	assert.Equal(t, "ab   ", padCell("ab", 5))
	assert.Equal(t, "abcdef", padCell("abcdef", 3))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long…", truncate("long title", 5))
}

func TestColumnWidth_DefaultsWhenUnset(t *testing.T) {
	assert.Equal(t, 8, columnWidth(catalog.Category{Width: 8}))
	assert.Equal(t, 14, columnWidth(catalog.Category{}))
}
