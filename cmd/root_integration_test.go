package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/display"
)

const fixtureData = `[
	{
		"id": "1",
		"titles": {"main": "Cowboy Bebop", "english": "Cowboy Bebop"},
		"search_titles": ["Cowboy Bebop"],
		"categories": {"year": 1998, "studio": "Sunrise", "genres": ["Action", "Sci-Fi"]},
		"members": 1900000,
		"status": "Finished Airing"
	},
	{
		"id": "2",
		"titles": {"main": "Mushishi"},
		"search_titles": ["Mushishi"],
		"categories": {"year": 2005, "studio": "Artland", "genres": ["Mystery"]},
		"members": 900000,
		"status": "Finished Airing"
	},
	{
		"id": "3",
		"titles": {"main": "Upcoming Show"},
		"search_titles": ["Upcoming Show"],
		"categories": {"year": 2027, "studio": "MAPPA", "genres": ["Action"]},
		"members": 40000,
		"status": "Not yet aired"
	}
]`

const fixtureConfig = `{
	"categories": [
		{"key": "year", "label": "Year", "type": "number"},
		{"key": "studio", "label": "Studio", "type": "text"},
		{"key": "genres", "label": "Genres", "type": "list"}
	],
	"relatedMode": 3,
	"maxGuesses": 8,
	"numericSimilarity": {"year": 2},
	"showArrows": true
}`

func writeFixtures(t *testing.T) (dataPath, configPath string) {
	t.Helper()
	dir := t.TempDir()
	dataPath = filepath.Join(dir, "data.json")
	configPath = filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(fixtureData), 0o644))
	require.NoError(t, os.WriteFile(configPath, []byte(fixtureConfig), 0o644))
	return dataPath, configPath
}

func TestRunCLI_SearchJSON(t *testing.T) {
	dataPath, configPath := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{"search", "cowboy", "--data", dataPath, "--config", configPath, "--json"}, &stdout, &stderr)

	assert.Equal(t, ExitSuccess, code)

	var results []display.SuggestionJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "Cowboy Bebop", results[0].Title)
}

func TestRunCLI_SearchNoResults(t *testing.T) {
	dataPath, configPath := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{"search", "zzzqqq", "--data", dataPath, "--config", configPath}, &stdout, &stderr)

	assert.Equal(t, ExitNotFound, code)
	assert.Contains(t, stderr.String(), "no results for")
}

func TestRunCLI_LibraryFiltersUnreleased(t *testing.T) {
	dataPath, configPath := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{
		"library", "--data", dataPath, "--config", configPath, "--no-store", "--json",
	}, &stdout, &stderr)

	assert.Equal(t, ExitSuccess, code)

	var rows []display.CandidateJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, "3", row.ID)
	}
}

func TestRunCLI_LibraryIncludeAllAndSort(t *testing.T) {
	dataPath, configPath := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{
		"library", "--data", dataPath, "--config", configPath, "--no-store",
		"--include-all", "--sort", "year", "--desc", "--json",
	}, &stdout, &stderr)

	assert.Equal(t, ExitSuccess, code)

	var rows []display.CandidateJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "3", rows[0].ID)
	assert.Equal(t, "1", rows[2].ID)
}

func TestRunCLI_LibraryRejectsListSortKey(t *testing.T) {
	dataPath, configPath := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{
		"library", "--data", dataPath, "--config", configPath, "--no-store", "--sort", "genres",
	}, &stdout, &stderr)

	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr.String(), "cannot sort by list category")
}

func TestRunCLI_CategoriesJSON(t *testing.T) {
	dataPath, configPath := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{"categories", "--data", dataPath, "--config", configPath, "--json"}, &stdout, &stderr)

	assert.Equal(t, ExitSuccess, code)

	var summaries []display.Summary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summaries))
	require.Len(t, summaries, 3)
	assert.Equal(t, "1998 - 2027", summaries[0].Range)
}

func TestRunCLI_DailyGenerateWritesID(t *testing.T) {
	dataPath, configPath := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "daily.json")
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{
		"daily", "generate", "--data", dataPath, "--config", configPath, "--out", outPath, "--seed", "7",
	}, &stdout, &stderr)

	assert.Equal(t, ExitSuccess, code)

	id, err := catalog.LoadDailyID(outPath)
	require.NoError(t, err)
	// Only the two finished entries clear the generator's popularity floor.
	assert.Contains(t, []string{"1", "2"}, id)
}

func TestRunCLI_DailyGenerateDefaultsToDailyJSON(t *testing.T) {
	dataPath, configPath := writeFixtures(t)
	t.Chdir(t.TempDir())
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{
		"daily", "generate", "--data", dataPath, "--config", configPath, "--seed", "7",
	}, &stdout, &stderr)

	assert.Equal(t, ExitSuccess, code)

	id, err := catalog.LoadDailyID("daily.json")
	require.NoError(t, err)
	assert.Contains(t, []string{"1", "2"}, id)
}

func TestRunCLI_PlayRequiresTTY(t *testing.T) {
	dataPath, configPath := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	rootCmd.SetIn(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	code := runCLI([]string{"--data", dataPath, "--config", configPath, "--no-store"}, &stdout, &stderr)

	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr.String(), "interactive terminal")
}

func TestRunCLI_MissingDataFile(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{"search", "cowboy", "--data", "missing.json", "--config", "missing.json"}, &stdout, &stderr)

	assert.Equal(t, ExitData, code)
	assert.Contains(t, stderr.String(), "error[data_error]")
}

func TestRunCLI_InvalidTitleMode(t *testing.T) {
	dataPath, configPath := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{"search", "cowboy", "--data", dataPath, "--config", configPath, "--title-mode", "romaji"}, &stdout, &stderr)

	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr.String(), "--title-mode")
}

func TestRunCLI_JSONErrorsGoToStderrAsJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{"search", "cowboy", "--data", "missing.json", "--json"}, &stdout, &stderr)

	assert.Equal(t, ExitData, code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &payload))
	_, ok := payload["error"]
	assert.True(t, ok)
}

func TestRunCLI_TolerantRewriteNote(t *testing.T) {
	dataPath, configPath := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{"search", "cowboy", "--data", dataPath, "--config", configPath, "-json"}, &stdout, &stderr)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr.String(), "interpreted `-json` as `--json`")
}

func TestRunCLI_HelpListsCommands(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := runCLI([]string{"--help"}, &stdout, &stderr)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout.String(), "isekadle")
	assert.Contains(t, stdout.String(), "daily")
	assert.Contains(t, stdout.String(), "library")
}
