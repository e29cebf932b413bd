package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkoide/isekadle/internal/catalog"
)

func TestParseEntries_BareArray(t *testing.T) {
	entries, err := catalog.ParseEntries([]byte(`[
		{"id": "1", "titles": {"main": "Cowboy Bebop"}, "members": 1900000},
		{"id": "5", "titles": {"main": "Cowboy Bebop: Tengoku no Tobira"}}
	]`))

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, 1900000, entries[0].Members)
	assert.Equal(t, "Cowboy Bebop", entries[0].Titles.Main)
}

func TestParseEntries_WrappedObject(t *testing.T) {
	entries, err := catalog.ParseEntries([]byte(`{"entries": [{"id": "20", "titles": {"main": "Naruto"}}]}`))

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "20", entries[0].ID)
}

func TestParseEntries_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"empty array", `[]`, "no entries"},
		{"missing id", `[{"titles": {"main": "X"}}]`, "has no id"},
		{"duplicate id", `[{"id": "1"}, {"id": "1"}]`, "duplicate entry id"},
		{"not json", `nope`, "decode entries"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.ParseEntries([]byte(tc.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParseConfig_ValidatesCategories(t *testing.T) {
	cfg, err := catalog.ParseConfig([]byte(`{
		"categories": [
			{"key": "year", "label": "Year", "type": "number"},
			{"key": "genres", "label": "Genres", "type": "list"}
		],
		"relatedMode": 1,
		"maxGuesses": 8,
		"numericSimilarity": {"year": 2},
		"hints": [{"key": "synopsis", "label": "Synopsis", "unlockAt": 3}]
	}`))

	require.NoError(t, err)
	assert.Equal(t, catalog.ModeCollapse, cfg.Mode())
	assert.Equal(t, 8, cfg.MaxGuesses)
	tol, ok := cfg.Tolerance("year")
	assert.True(t, ok)
	assert.Equal(t, 2.0, tol)
	_, ok = cfg.Tolerance("episodes")
	assert.False(t, ok)
	require.Len(t, cfg.Hints, 1)
	assert.Equal(t, 3, cfg.Hints[0].UnlockAt)
}

func TestParseConfig_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"no categories", `{"categories": []}`, "no categories"},
		{"missing key", `{"categories": [{"label": "Year", "type": "number"}]}`, "has no key"},
		{"duplicate key", `{"categories": [{"key": "a", "type": "text"}, {"key": "a", "type": "text"}]}`, "duplicate category key"},
		{"bad type", `{"categories": [{"key": "a", "type": "blob"}]}`, "unknown type"},
		{"hint without key", `{"categories": [{"key": "a", "type": "text"}], "hints": [{"label": "X"}]}`, "has no key"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.ParseConfig([]byte(tc.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParseConfig_DefaultsToStrictMode(t *testing.T) {
	cfg, err := catalog.ParseConfig([]byte(`{"categories": [{"key": "a", "type": "text"}]}`))

	require.NoError(t, err)
	assert.Equal(t, catalog.ModeStrict, cfg.Mode())
}

func TestParseDailyID_AcceptedShapes(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"bare string", `"1535"`, "1535"},
		{"bare number", `1535`, "1535"},
		{"wrapper object", `{"id": "g:205"}`, "g:205"},
		{"wrapper with numeric id", `{"id": 1535}`, "1535"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := catalog.ParseDailyID([]byte(tc.payload))
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestParseDailyID_RejectsEmptyPayloads(t *testing.T) {
	for _, payload := range []string{`""`, `{}`, `null`, `[]`} {
		_, err := catalog.ParseDailyID([]byte(payload))
		assert.Error(t, err, "payload %s", payload)
	}
}

func TestLoadEntries_MissingFile(t *testing.T) {
	_, err := catalog.LoadEntries(filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read catalog")
}

func TestLoadDailyID_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily.json")
	require.NoError(t, os.WriteFile(path, []byte(`"777"`), 0o644))

	id, err := catalog.LoadDailyID(path)
	require.NoError(t, err)
	assert.Equal(t, "777", id)
}

func TestEntry_TitleModes(t *testing.T) {
	entry := catalog.Entry{Titles: catalog.Titles{
		Main:     "Shingeki no Kyojin",
		English:  "Attack on Titan",
		Japanese: "進撃の巨人",
	}}

	assert.Equal(t, "Attack on Titan", entry.Title(catalog.TitleEnglish))
	assert.Equal(t, "進撃の巨人", entry.Title(catalog.TitleJapanese))

	noEnglish := catalog.Entry{Titles: catalog.Titles{Main: "Gintama"}}
	assert.Equal(t, "Gintama", noEnglish.Title(catalog.TitleEnglish))
	assert.Equal(t, "Gintama", noEnglish.Title(catalog.TitleJapanese))
}

func TestEntry_CategoryAccessors(t *testing.T) {
	entry := catalog.Entry{Categories: map[string]any{
		"studio": "Bones",
		"year":   float64(2003),
		"genres": []any{"Action", "Adventure"},
	}}

	assert.Equal(t, "Bones", entry.Text("studio"))
	year, ok := entry.Number("year")
	assert.True(t, ok)
	assert.Equal(t, 2003.0, year)
	assert.Equal(t, []string{"Action", "Adventure"}, entry.List("genres"))

	_, ok = entry.Number("studio")
	assert.False(t, ok)
	assert.Empty(t, entry.Text("missing"))
	assert.Nil(t, entry.List("missing"))
}
