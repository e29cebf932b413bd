package catalog

// Category types from config.json.
const (
	TypeText   = "text"
	TypeNumber = "number"
	TypeList   = "list"
)

// Title display modes.
const (
	TitleEnglish  = "english"
	TitleJapanese = "japanese"
)

// Titles holds the alternate official titles of an entry.
type Titles struct {
	Main     string `json:"main"`
	English  string `json:"english"`
	Japanese string `json:"japanese"`
}

// Related links an entry to the other works it shares an answer group with.
type Related struct {
	GroupID string   `json:"group_id"`
	AllIDs  []string `json:"all_ids"`
}

// Entry is one work in the dataset. Category values are decoded as-is from
// JSON: string, float64 or []any depending on the category definition.
type Entry struct {
	ID           string         `json:"id"`
	Titles       Titles         `json:"titles"`
	SearchTitles []string       `json:"search_titles"`
	Categories   map[string]any `json:"categories"`
	Synopsis     string         `json:"synopsis"`
	Poster       string         `json:"poster"`
	URL          string         `json:"url"`
	Type         string         `json:"type"`
	Members      int            `json:"members"`
	Status       string         `json:"status"`
	Related      *Related       `json:"related"`
}

// GroupID returns the answer-group identifier, falling back to the entry's
// own id for entries with no related works.
func (e *Entry) GroupID() string {
	if e.Related != nil && e.Related.GroupID != "" {
		return e.Related.GroupID
	}
	return e.ID
}

// RelatedIDs returns the ids sharing the entry's group, or nil.
func (e *Entry) RelatedIDs() []string {
	if e.Related == nil {
		return nil
	}
	return e.Related.AllIDs
}

// Title picks the display title for the given language mode. English mode
// prefers the english title, japanese mode the japanese one; both fall back
// through main to the other language.
func (e *Entry) Title(mode string) string {
	if mode == TitleJapanese {
		return firstNonEmpty(e.Titles.Japanese, e.Titles.Main, e.Titles.English)
	}
	return firstNonEmpty(e.Titles.English, e.Titles.Main, e.Titles.Japanese)
}

// Text returns the category value as a string, or "" when absent or not text.
func (e *Entry) Text(key string) string {
	if s, ok := e.Categories[key].(string); ok {
		return s
	}
	return ""
}

// Number returns the category value as a number. The second return is false
// when the value is absent or not numeric.
func (e *Entry) Number(key string) (float64, bool) {
	switch v := e.Categories[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// List returns the category value as a string list, or nil when absent.
func (e *Entry) List(key string) []string {
	switch v := e.Categories[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Category defines one comparison column.
type Category struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Type  string  `json:"type"`
	Width float64 `json:"width"`
}

// Hint is one configured hint with its unlock threshold.
type Hint struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	UnlockAt int    `json:"unlockAt"`
}

// Config is the immutable per-session game configuration.
type Config struct {
	Categories        []Category            `json:"categories"`
	RelatedMode       int                   `json:"relatedMode"`
	MaxGuesses        int                   `json:"maxGuesses"`
	Hints             []Hint                `json:"hints"`
	NumericSimilarity map[string]float64    `json:"numericSimilarity"`
	SimilarityGroups  map[string][][]string `json:"similarityGroups"`
	ShowArrows        bool                  `json:"showArrows"`
	DisplayTitle      string                `json:"displayTitle"`
	TitleWeight       float64               `json:"titleWeight"`
}

// Related-answer modes. Any other value behaves as ModeStrict.
const (
	ModeCollapse = 1 // related works collapse into one guessable group
	ModeGrouped  = 2 // any entry in the target's group counts as correct
	ModeStrict   = 3 // only the exact entry id wins
)

// Mode returns the configured related mode, defaulting to strict.
func (c *Config) Mode() int {
	if c.RelatedMode > 0 {
		return c.RelatedMode
	}
	return ModeStrict
}

// Category looks up a category definition by key.
func (c *Config) Category(key string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Key == key {
			return cat, true
		}
	}
	return Category{}, false
}

// Tolerance returns the near-miss tolerance for a numeric category. The
// second return is false when no tolerance is configured, meaning the
// category has no near state.
func (c *Config) Tolerance(key string) (float64, bool) {
	tol, ok := c.NumericSimilarity[key]
	return tol, ok
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
