// Package display renders pool candidates, category summaries and verdicts
// for the terminal, with JSON variants for pipelines.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/game"
	"github.com/tkoide/isekadle/internal/pool"
)

// Styles for terminal output.
var (
	TitleStyle  = lipgloss.NewStyle().Bold(true)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	HitStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
	NearStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")) // yellow
	MissStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // grey
	DimStyle    = lipgloss.NewStyle().Faint(true)
	WinStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")) // magenta
)

// StatusStyle maps a verdict status to its render style.
func StatusStyle(status game.Status) lipgloss.Style {
	switch status {
	case game.StatusHit:
		return HitStyle
	case game.StatusNear:
		return NearStyle
	default:
		return MissStyle
	}
}

// Cell renders a value in its verdict color.
func Cell(status game.Status, text string) string {
	return StatusStyle(status).Render(text)
}

// ArrowGlyph renders the numeric direction hint.
func ArrowGlyph(arrow game.Arrow) string {
	switch arrow {
	case game.ArrowUp:
		return "↑"
	case game.ArrowDown:
		return "↓"
	default:
		return ""
	}
}

// FormatValue renders a category value for display: integers plainly,
// fractional numbers to two decimals, lists comma-joined, absent values as
// a dash.
func FormatValue(entry *catalog.Entry, cat catalog.Category) string {
	switch cat.Type {
	case catalog.TypeNumber:
		if n, ok := entry.Number(cat.Key); ok {
			if n == float64(int64(n)) {
				return fmt.Sprintf("%d", int64(n))
			}
			return fmt.Sprintf("%.2f", n)
		}
	case catalog.TypeList:
		if list := entry.List(cat.Key); len(list) > 0 {
			return strings.Join(list, ", ")
		}
	default:
		if s := entry.Text(cat.Key); s != "" {
			return s
		}
	}
	return "-"
}

// CandidateJSON is the JSON output shape for a pool candidate.
type CandidateJSON struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Won        bool              `json:"won,omitempty"`
	Categories map[string]string `json:"categories"`
}

func toCandidateJSON(cfg *catalog.Config, c *pool.Candidate, won map[string]struct{}) CandidateJSON {
	values := make(map[string]string, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		values[cat.Key] = FormatValue(c.Entry, cat)
	}
	_, isWon := won[c.Entry.ID]
	return CandidateJSON{ID: c.ID, Title: c.DisplayTitle, Won: isWon, Categories: values}
}

// PrintCandidates renders a candidate listing with one block per entry; won
// entries carry a star marker.
func PrintCandidates(w io.Writer, cfg *catalog.Config, candidates []*pool.Candidate, won map[string]struct{}) {
	fmt.Fprintf(w, "\n%s — %s\n\n",
		HeaderStyle.Render("Library"),
		DimStyle.Render(fmt.Sprintf("%d entries", len(candidates))),
	)
	for _, c := range candidates {
		marker := "  "
		if _, ok := won[c.Entry.ID]; ok {
			marker = WinStyle.Render("★ ")
		}
		fmt.Fprintf(w, "%s%s\n", marker, TitleStyle.Render(c.DisplayTitle))
		parts := make([]string, 0, len(cfg.Categories))
		for _, cat := range cfg.Categories {
			parts = append(parts, fmt.Sprintf("%s: %s", cat.Label, FormatValue(c.Entry, cat)))
		}
		fmt.Fprintf(w, "    %s\n", DimStyle.Render(strings.Join(parts, " | ")))
	}
	fmt.Fprintln(w)
}

// PrintCandidatesJSON renders candidates as JSON.
func PrintCandidatesJSON(w io.Writer, cfg *catalog.Config, candidates []*pool.Candidate, won map[string]struct{}) error {
	out := make([]CandidateJSON, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, toCandidateJSON(cfg, c, won))
	}
	return json.NewEncoder(w).Encode(out)
}

// SuggestionJSON is the JSON output shape for one ranked search result.
type SuggestionJSON struct {
	Rank  int    `json:"rank"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PrintSuggestions renders ranked search results.
func PrintSuggestions(w io.Writer, candidates []*pool.Candidate) {
	for i, c := range candidates {
		fmt.Fprintf(w, "%2d. %s %s\n", i+1, TitleStyle.Render(c.DisplayTitle), DimStyle.Render("#"+c.ID))
	}
}

// PrintSuggestionsJSON renders ranked search results as JSON.
func PrintSuggestionsJSON(w io.Writer, candidates []*pool.Candidate) error {
	out := make([]SuggestionJSON, 0, len(candidates))
	for i, c := range candidates {
		out = append(out, SuggestionJSON{Rank: i + 1, ID: c.ID, Title: c.DisplayTitle})
	}
	return json.NewEncoder(w).Encode(out)
}

// Summary describes a category's value space across the catalog: a numeric
// range or the unique value list.
type Summary struct {
	Key    string   `json:"key"`
	Label  string   `json:"label"`
	Type   string   `json:"type"`
	Range  string   `json:"range,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Summarize computes per-category summaries over the given entries: a min to max range
// for numeric categories (two decimals when any value is fractional), sorted
// unique values otherwise.
func Summarize(entries []catalog.Entry, cfg *catalog.Config) []Summary {
	summaries := make([]Summary, 0, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		summary := Summary{Key: cat.Key, Label: cat.Label, Type: cat.Type}
		if cat.Type == catalog.TypeNumber {
			summary.Range = numberRange(entries, cat.Key)
		} else {
			summary.Values = uniqueValues(entries, cat)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func numberRange(entries []catalog.Entry, key string) string {
	var (
		min, max float64
		decimal  bool
		seen     bool
	)
	for i := range entries {
		n, ok := entries[i].Number(key)
		if !ok {
			continue
		}
		if !seen || n < min {
			min = n
		}
		if !seen || n > max {
			max = n
		}
		if n != float64(int64(n)) {
			decimal = true
		}
		seen = true
	}
	if !seen {
		return ""
	}
	if decimal {
		return fmt.Sprintf("%.2f - %.2f", min, max)
	}
	return fmt.Sprintf("%d - %d", int64(min), int64(max))
}

func uniqueValues(entries []catalog.Entry, cat catalog.Category) []string {
	seen := make(map[string]struct{})
	var values []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		values = append(values, v)
	}
	for i := range entries {
		if cat.Type == catalog.TypeList {
			for _, item := range entries[i].List(cat.Key) {
				add(item)
			}
		} else {
			add(entries[i].Text(cat.Key))
		}
	}
	sort.Strings(values)
	return values
}

const summaryPreview = 6

// PrintSummaries renders category summaries, previewing long value lists.
func PrintSummaries(w io.Writer, summaries []Summary) {
	fmt.Fprintf(w, "\n%s\n\n", HeaderStyle.Render("Categories"))
	for _, s := range summaries {
		fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(s.Label), DimStyle.Render("("+s.Type+")"))
		switch {
		case s.Type == catalog.TypeNumber && s.Range != "":
			fmt.Fprintf(w, "    %s\n", s.Range)
		case len(s.Values) > summaryPreview:
			fmt.Fprintf(w, "    %s, ... (%d values)\n", strings.Join(s.Values[:summaryPreview], ", "), len(s.Values))
		case len(s.Values) > 0:
			fmt.Fprintf(w, "    %s\n", strings.Join(s.Values, ", "))
		default:
			fmt.Fprintf(w, "    %s\n", DimStyle.Render("no data"))
		}
	}
	fmt.Fprintln(w)
}

// PrintSummariesJSON renders category summaries as JSON.
func PrintSummariesJSON(w io.Writer, summaries []Summary) error {
	return json.NewEncoder(w).Encode(summaries)
}

// PrintResult renders the revealed answer panel at round end.
func PrintResult(w io.Writer, cfg *catalog.Config, target *pool.Candidate, won bool) {
	headline := "Answer revealed"
	style := NearStyle
	if won {
		headline = "Correct answer"
		style = HitStyle
	}
	fmt.Fprintf(w, "\n%s — %s\n", style.Render(headline), TitleStyle.Render(target.DisplayTitle))

	var alts []string
	for _, alt := range []string{target.Entry.Titles.English, target.Entry.Titles.Japanese, target.Entry.Titles.Main} {
		if alt != "" && alt != target.DisplayTitle {
			alts = append(alts, alt)
		}
	}
	if len(alts) > 0 {
		fmt.Fprintf(w, "%s\n", DimStyle.Render(strings.Join(alts, " · ")))
	}
	for _, cat := range cfg.Categories {
		fmt.Fprintf(w, "  %s: %s\n", cat.Label, FormatValue(target.Entry, cat))
	}
	if target.Entry.Synopsis != "" {
		fmt.Fprintf(w, "\n%s\n", DimStyle.Render(target.Entry.Synopsis))
	}
	if target.Entry.URL != "" {
		fmt.Fprintf(w, "%s\n", DimStyle.Render(target.Entry.URL))
	}
	fmt.Fprintln(w)
}
