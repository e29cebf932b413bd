package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/display"
	"github.com/tkoide/isekadle/internal/game"
	"github.com/tkoide/isekadle/internal/pool"
	"github.com/tkoide/isekadle/internal/store"
)

const (
	minTUIWidth  = 72
	minTUIHeight = 18

	maxSuggestionRows = 8
	titleColumnWidth  = 28
)

var (
	tuiHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tuiMetaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiHintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tuiWonStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tuiLostStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	tuiSectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	tuiLockedStyle   = lipgloss.NewStyle().Faint(true)
)

type gameTUIModel struct {
	session *game.Session
	store   *store.Store
	daily   bool

	input textinput.Model
	board viewport.Model

	suggestions  []*pool.Candidate
	suggestIndex int

	streaks    store.Streaks
	statusMsg  string
	showHelp   bool
	settled    bool
	storeError string

	width, height int
	boardHeight   int
	tooSmall      bool
}

func newGameTUIModel(session *game.Session, st *store.Store, isDaily bool) gameTUIModel {
	input := textinput.New()
	input.Placeholder = "type a title and press enter"
	input.Prompt = "guess> "
	input.CharLimit = 120
	input.Focus()

	board := viewport.New(0, 0)
	board.KeyMap.PageDown.SetKeys("pgdown")
	board.KeyMap.PageUp.SetKeys("pgup")
	board.KeyMap.HalfPageDown.SetKeys("ctrl+d")
	board.KeyMap.HalfPageUp.SetKeys("ctrl+u")
	board.KeyMap.Down.SetKeys("ctrl+j")
	board.KeyMap.Up.SetKeys("ctrl+k")

	m := gameTUIModel{
		session: session,
		store:   st,
		daily:   isDaily,
		input:   input,
		board:   board,
	}
	if st != nil {
		if streaks, err := st.Streaks(); err == nil {
			m.streaks = streaks
		}
	}
	// A restored daily round may already be settled.
	if session.State() == game.StateWon || session.State() == game.StateLost {
		m.settled = true
		m.input.Blur()
	}
	return m
}

func (m gameTUIModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m gameTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.roundOver() {
				return m, tea.Quit
			}
			m.submitSelection()
			m.resize()
			return m, nil
		case "tab":
			m.completeSelection()
			return m, nil
		case "down", "ctrl+n":
			if len(m.suggestions) > 0 {
				m.suggestIndex = (m.suggestIndex + 1) % len(m.suggestions)
			}
			return m, nil
		case "up", "ctrl+p":
			if len(m.suggestions) > 0 {
				m.suggestIndex = (m.suggestIndex + len(m.suggestions) - 1) % len(m.suggestions)
			}
			return m, nil
		case "ctrl+s":
			if !m.roundOver() {
				m.skipToHint()
				m.resize()
			}
			return m, nil
		case "ctrl+o":
			m.revealHint()
			return m, nil
		case "ctrl+g":
			m.showHelp = !m.showHelp
			m.resize()
			return m, nil
		}

		if m.roundOver() {
			if msg.String() == "q" {
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.board, cmd = m.board.Update(msg)
			return m, cmd
		}

		var inputCmd tea.Cmd
		m.input, inputCmd = m.input.Update(msg)
		m.refreshSuggestions()

		var boardCmd tea.Cmd
		m.board, boardCmd = m.board.Update(msg)
		return m, tea.Batch(inputCmd, boardCmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *gameTUIModel) roundOver() bool {
	state := m.session.State()
	return state == game.StateWon || state == game.StateLost
}

func (m *gameTUIModel) refreshSuggestions() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.suggestions = nil
		m.suggestIndex = 0
		return
	}
	m.suggestions = m.session.Suggest(query, maxSuggestionRows)
	if m.suggestIndex >= len(m.suggestions) {
		m.suggestIndex = 0
	}
}

func (m *gameTUIModel) completeSelection() {
	if m.suggestIndex < len(m.suggestions) {
		m.input.SetValue(m.suggestions[m.suggestIndex].DisplayTitle)
		m.input.CursorEnd()
		m.refreshSuggestions()
	}
}

func (m *gameTUIModel) submitSelection() {
	if len(m.suggestions) == 0 {
		m.statusMsg = "no match for that title"
		return
	}
	pick := m.suggestions[m.suggestIndex]

	guess, err := m.session.SubmitGuess(pick.ID)
	switch {
	case errors.Is(err, game.ErrAlreadyGuessed):
		m.statusMsg = fmt.Sprintf("%s is already on the board", pick.DisplayTitle)
		return
	case err != nil:
		m.statusMsg = err.Error()
		return
	}

	m.input.SetValue("")
	m.suggestions = nil
	m.suggestIndex = 0
	m.statusMsg = ""
	if guess.Correct {
		m.statusMsg = "you got it!"
	}

	m.afterMutation()
}

func (m *gameTUIModel) skipToHint() {
	hint, ok := m.session.SkipToNextHint()
	if !ok {
		m.statusMsg = "no more hints to skip to"
		return
	}
	m.statusMsg = fmt.Sprintf("skipped ahead to the %s hint", hint.Label)
	m.afterMutation()
}

func (m *gameTUIModel) revealHint() {
	for _, hint := range m.session.Config().Hints {
		if !m.session.HintUnlocked(hint) {
			continue
		}
		state := m.session.HintState(hint.Key)
		if state.Open {
			continue
		}
		m.session.ToggleHint(hint)
		m.statusMsg = fmt.Sprintf("%s hint revealed", hint.Label)
		m.afterMutation()
		return
	}
	m.statusMsg = "no unlocked hint to reveal"
}

// afterMutation persists the round and settles streaks once it finishes.
func (m *gameTUIModel) afterMutation() {
	if m.roundOver() {
		m.input.Blur()
		m.settleOutcome()
	}
	m.saveDailyProgress()
}

func (m *gameTUIModel) settleOutcome() {
	if m.settled {
		return
	}
	m.settled = true
	if m.store == nil {
		return
	}

	dailyID := ""
	if m.daily {
		dailyID = m.session.DailyID()
	}

	var err error
	if m.session.State() == game.StateWon {
		m.streaks, err = m.store.RecordWin(dailyID)
		if err == nil {
			err = m.store.AddWins(m.session.Target().WinIDs())
		}
	} else {
		m.streaks, err = m.store.RecordLoss(dailyID)
	}
	if err != nil {
		m.storeError = err.Error()
	}
}

func (m *gameTUIModel) saveDailyProgress() {
	if !m.daily || m.store == nil {
		return
	}

	guessIDs := make([]string, 0, len(m.session.Guesses()))
	for _, g := range m.session.Guesses() {
		guessIDs = append(guessIDs, g.Candidate.ID)
	}
	hints := make(map[string]game.HintState, len(m.session.Config().Hints))
	for _, hint := range m.session.Config().Hints {
		hints[hint.Key] = m.session.HintState(hint.Key)
	}
	outcome := ""
	switch m.session.State() {
	case game.StateWon:
		outcome = game.OutcomeWon
	case game.StateLost:
		outcome = game.OutcomeLost
	}

	err := m.store.SaveDailyProgress(store.DailyProgress{
		DailyID:   m.session.DailyID(),
		GuessIDs:  guessIDs,
		SkipCount: m.session.Skips(),
		Hints:     hints,
		Outcome:   outcome,
	})
	if err != nil {
		m.storeError = err.Error()
	}
}

func (m *gameTUIModel) resize() {
	m.tooSmall = m.width > 0 && (m.width < minTUIWidth || m.height < minTUIHeight)
	if m.tooSmall {
		return
	}

	fixed := lipgloss.Height(m.headerView()) +
		lipgloss.Height(m.promptView()) +
		lipgloss.Height(m.hintsView()) +
		lipgloss.Height(m.footerView())
	m.boardHeight = m.height - fixed
	if m.boardHeight < 3 {
		m.boardHeight = 3
	}
	m.board.Width = m.width
	m.board.Height = m.boardHeight
	m.board.SetContent(m.boardView())
	m.board.GotoBottom()
}

func (m gameTUIModel) View() string {
	if m.width == 0 || m.height == 0 {
		return tuiMetaStyle.Render("Loading interface...")
	}
	if m.tooSmall {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(fmt.Sprintf(
				"Terminal too small (%dx%d).\nResize to at least %dx%d to play.",
				m.width, m.height, minTUIWidth, minTUIHeight,
			))
	}

	m.board.SetContent(m.boardView())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.board.View(),
		m.hintsView(),
		m.promptView(),
		m.footerView(),
	)
}

func (m gameTUIModel) headerView() string {
	title := "isekadle"
	if m.daily {
		title = "isekadle daily"
	}

	guessLabel := fmt.Sprintf("guess %d", m.session.GuessCount())
	if max := m.session.MaxGuesses(); max > 0 {
		guessLabel = fmt.Sprintf("guess %d/%d", m.session.GuessCount(), max)
	}

	streakLabel := fmt.Sprintf("streak %d", m.streaks.Current)
	if m.daily {
		streakLabel = fmt.Sprintf("daily streak %d", m.streaks.Daily)
	}

	parts := []string{
		tuiHeaderStyle.Render(title),
		tuiMetaStyle.Render(fmt.Sprintf("%d candidates", len(m.session.Pool().Candidates))),
		tuiMetaStyle.Render(guessLabel),
	}
	if m.store != nil {
		parts = append(parts, tuiMetaStyle.Render(streakLabel))
	}
	return strings.Join(parts, tuiHintStyle.Render("  •  ")) + "\n"
}

func (m gameTUIModel) boardView() string {
	guesses := m.session.Guesses()
	if len(guesses) == 0 {
		return tuiMetaStyle.Render("No guesses yet. Start typing to search the pool.")
	}

	cfg := m.session.Config()
	var b strings.Builder

	header := make([]string, 0, len(cfg.Categories)+1)
	header = append(header, padCell(tuiSectionStyle.Render("Title"), titleColumnWidth))
	for _, cat := range cfg.Categories {
		header = append(header, padCell(tuiSectionStyle.Render(cat.Label), columnWidth(cat)))
	}
	b.WriteString(strings.Join(header, " "))
	b.WriteString("\n")

	for _, guess := range guesses {
		b.WriteString(m.guessRow(guess))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m gameTUIModel) guessRow(guess *game.Guess) string {
	cfg := m.session.Config()

	titleStatus := game.StatusMiss
	if guess.Correct {
		titleStatus = game.StatusHit
	}
	cells := make([]string, 0, len(cfg.Categories)+1)
	cells = append(cells, padCell(display.Cell(titleStatus, truncate(guess.Candidate.DisplayTitle, titleColumnWidth)), titleColumnWidth))

	for _, cat := range cfg.Categories {
		verdict := guess.Verdicts[cat.Key]
		cells = append(cells, padCell(renderVerdictCell(guess.Candidate, cat, verdict), columnWidth(cat)))
	}
	return strings.Join(cells, " ")
}

func renderVerdictCell(c *pool.Candidate, cat catalog.Category, verdict game.Verdict) string {
	if cat.Type == catalog.TypeList && len(verdict.Items) > 0 {
		parts := make([]string, 0, len(verdict.Items))
		for _, item := range verdict.Items {
			parts = append(parts, display.Cell(item.Status, item.Value))
		}
		return truncateStyled(strings.Join(parts, ", "), columnWidth(cat))
	}

	text := display.FormatValue(c.Entry, cat)
	if glyph := display.ArrowGlyph(verdict.Arrow); glyph != "" {
		text += " " + glyph
	}
	return display.Cell(verdict.Status, truncate(text, columnWidth(cat)))
}

func (m gameTUIModel) hintsView() string {
	cfg := m.session.Config()
	if len(cfg.Hints) == 0 {
		return ""
	}

	parts := make([]string, 0, len(cfg.Hints))
	for _, hint := range cfg.Hints {
		switch {
		case !m.session.HintUnlocked(hint):
			parts = append(parts, tuiLockedStyle.Render(
				fmt.Sprintf("%s (locked until guess %d)", hint.Label, hint.UnlockAt),
			))
		case m.session.HintState(hint.Key).Open:
			parts = append(parts, fmt.Sprintf(
				"%s: %s",
				tuiSelectedStyle.Render(hint.Label),
				truncate(m.session.HintValue(hint.Key), 60),
			))
		default:
			parts = append(parts, tuiMetaStyle.Render(fmt.Sprintf("%s (ctrl+o to reveal)", hint.Label)))
		}
	}
	return tuiSectionStyle.Render("Hints") + "  " + strings.Join(parts, tuiHintStyle.Render("  |  ")) + "\n"
}

func (m gameTUIModel) promptView() string {
	if m.roundOver() {
		return m.resultView()
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	for i, suggestion := range m.suggestions {
		cursor := "  "
		style := tuiMetaStyle
		if i == m.suggestIndex {
			cursor = "> "
			style = tuiSelectedStyle
		}
		b.WriteString(cursor + style.Render(suggestion.DisplayTitle) + "\n")
	}
	if m.statusMsg != "" {
		b.WriteString(tuiHintStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m gameTUIModel) resultView() string {
	target := m.session.Target()

	var headline string
	if m.session.State() == game.StateWon {
		headline = tuiWonStyle.Render(fmt.Sprintf(
			"Correct! %s in %d guesses.", target.DisplayTitle, m.session.GuessCount(),
		))
	} else {
		headline = tuiLostStyle.Render(fmt.Sprintf(
			"Out of guesses. The answer was %s.", target.DisplayTitle,
		))
	}

	lines := []string{headline}
	if m.storeError != "" {
		lines = append(lines, tuiHintStyle.Render("progress not saved: "+m.storeError))
	}
	lines = append(lines, tuiMetaStyle.Render("press enter or q to exit"))
	return strings.Join(lines, "\n") + "\n"
}

func (m gameTUIModel) footerView() string {
	if m.showHelp {
		return tuiHintStyle.Render(strings.Join([]string{
			"enter: guess the highlighted suggestion",
			"tab: complete input to the highlighted suggestion",
			"up/down: move the suggestion cursor",
			"ctrl+s: skip ahead to the next hint",
			"ctrl+o: reveal an unlocked hint",
			"ctrl+j/ctrl+k, pgup/pgdown: scroll the board",
			"ctrl+g: toggle this help",
			"esc: quit",
		}, "\n"))
	}
	return tuiHintStyle.Render("enter guess • tab complete • ctrl+s skip to hint • ctrl+o reveal hint • ctrl+g help • esc quit")
}

func columnWidth(cat catalog.Category) int {
	if cat.Width > 0 {
		return int(cat.Width)
	}
	return 14
}

func padCell(rendered string, width int) string {
	if gap := width - lipgloss.Width(rendered); gap > 0 {
		return rendered + strings.Repeat(" ", gap)
	}
	return rendered
}

func truncate(s string, width int) string {
	if width <= 1 || len([]rune(s)) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}

// truncateStyled trims already-styled text by visible width.
func truncateStyled(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
