package display_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/display"
	"github.com/tkoide/isekadle/internal/game"
	"github.com/tkoide/isekadle/internal/pool"
)

func summaryEntries() []catalog.Entry {
	mk := func(id string, cats map[string]any) catalog.Entry {
		return catalog.Entry{ID: id, Titles: catalog.Titles{Main: "Show " + id}, Categories: cats}
	}
	return []catalog.Entry{
		mk("1", map[string]any{"year": float64(1998), "studio": "Sunrise", "genres": []any{"Action", "Sci-Fi"}}),
		mk("2", map[string]any{"year": float64(2016), "studio": "ufotable", "genres": []any{"Action", "Drama"}}),
		mk("3", map[string]any{"studio": "sunrise"}),
	}
}

func summaryConfig() *catalog.Config {
	return &catalog.Config{Categories: []catalog.Category{
		{Key: "year", Label: "Year", Type: catalog.TypeNumber},
		{Key: "studio", Label: "Studio", Type: catalog.TypeText},
		{Key: "genres", Label: "Genres", Type: catalog.TypeList},
	}}
}

func TestFormatValue(t *testing.T) {
	entry := &catalog.Entry{Categories: map[string]any{
		"year":   float64(2016),
		"score":  8.75,
		"genres": []any{"Action", "Drama"},
	}}

	assert.Equal(t, "2016", display.FormatValue(entry, catalog.Category{Key: "year", Type: catalog.TypeNumber}))
	assert.Equal(t, "8.75", display.FormatValue(entry, catalog.Category{Key: "score", Type: catalog.TypeNumber}))
	assert.Equal(t, "Action, Drama", display.FormatValue(entry, catalog.Category{Key: "genres", Type: catalog.TypeList}))
	assert.Equal(t, "-", display.FormatValue(entry, catalog.Category{Key: "studio", Type: catalog.TypeText}))
}

func TestSummarize(t *testing.T) {
	summaries := display.Summarize(summaryEntries(), summaryConfig())
	require.Len(t, summaries, 3)

	assert.Equal(t, "1998 - 2016", summaries[0].Range)
	// Unique values are case-insensitive and sorted.
	assert.Equal(t, []string{"Sunrise", "ufotable"}, summaries[1].Values)
	assert.Equal(t, []string{"Action", "Drama", "Sci-Fi"}, summaries[2].Values)
}

func TestSummarize_FractionalRangeUsesDecimals(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "1", Categories: map[string]any{"score": 7.5}},
		{ID: "2", Categories: map[string]any{"score": float64(9)}},
	}
	cfg := &catalog.Config{Categories: []catalog.Category{
		{Key: "score", Label: "Score", Type: catalog.TypeNumber},
	}}

	summaries := display.Summarize(entries, cfg)
	require.Len(t, summaries, 1)
	assert.Equal(t, "7.50 - 9.00", summaries[0].Range)
}

func TestPrintSuggestionsJSON(t *testing.T) {
	candidates := []*pool.Candidate{
		{ID: "1", DisplayTitle: "Cowboy Bebop"},
		{ID: "2", DisplayTitle: "Cowboy Bebop: Tengoku no Tobira"},
	}

	var buf bytes.Buffer
	require.NoError(t, display.PrintSuggestionsJSON(&buf, candidates))

	var out []display.SuggestionJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, "Cowboy Bebop", out[0].Title)
}

func TestPrintCandidatesJSON_MarksWins(t *testing.T) {
	entries := summaryEntries()
	candidates := []*pool.Candidate{
		{ID: "1", Entry: &entries[0], DisplayTitle: "Show 1"},
		{ID: "2", Entry: &entries[1], DisplayTitle: "Show 2"},
	}

	var buf bytes.Buffer
	won := map[string]struct{}{"2": {}}
	require.NoError(t, display.PrintCandidatesJSON(&buf, summaryConfig(), candidates, won))

	var out []display.CandidateJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.False(t, out[0].Won)
	assert.True(t, out[1].Won)
	assert.Equal(t, "2016", out[1].Categories["year"])
}

func TestCellAndArrowGlyphs(t *testing.T) {
	assert.Contains(t, display.Cell(game.StatusHit, "Bones"), "Bones")
	assert.Equal(t, "↑", display.ArrowGlyph(game.ArrowUp))
	assert.Equal(t, "↓", display.ArrowGlyph(game.ArrowDown))
	assert.Equal(t, "", display.ArrowGlyph(game.ArrowNone))
}

func TestPrintResult_RevealsAnswer(t *testing.T) {
	entries := summaryEntries()
	target := &pool.Candidate{ID: "1", Entry: &entries[0], DisplayTitle: "Show 1"}

	var buf bytes.Buffer
	display.PrintResult(&buf, summaryConfig(), target, true)

	assert.Contains(t, buf.String(), "Show 1")
	assert.Contains(t, buf.String(), "Correct answer")
}
