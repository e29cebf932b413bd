package pool

import (
	"sort"
	"strings"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/match"
)

// SearchLimit caps ranked suggestion lists to bound rendering cost.
const SearchLimit = 12

// Settings are the visibility and grouping knobs a pool is built with.
type Settings struct {
	MinMembers     int
	HideUnreleased bool
	FinishedOnly   bool
	TitleMode      string
	RelatedMode    int // 0 means use the config's mode
}

// Mode resolves the effective related mode: an explicit setting wins over the
// config value, and anything unset falls back to strict.
func (s Settings) Mode(cfg *catalog.Config) int {
	if s.RelatedMode > 0 {
		return s.RelatedMode
	}
	return cfg.Mode()
}

// FilterEntries applies the visibility filters: minimum popularity AND the
// release-status policy. "Finished only" requires a status starting with
// "finished"; "hide unreleased" additionally admits anything airing.
func FilterEntries(entries []catalog.Entry, s Settings) []*catalog.Entry {
	out := make([]*catalog.Entry, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		if s.MinMembers > 0 && entry.Members < s.MinMembers {
			continue
		}
		if s.FinishedOnly || s.HideUnreleased {
			status := strings.ToLower(entry.Status)
			finished := strings.HasPrefix(status, "finished")
			airing := strings.Contains(status, "airing")
			if s.FinishedOnly {
				if !finished {
					continue
				}
			} else if !finished && !airing {
				continue
			}
		}
		out = append(out, entry)
	}
	return out
}

// Pool is the answer pool: every candidate the target can be drawn from,
// with the search index attached. It never shrinks; sessions track their own
// shrinking guessable subset over the same candidates.
type Pool struct {
	Candidates []*Candidate
	byID       map[string]*Candidate
}

// Build filters the catalog and materializes the candidate pool. In collapse
// mode related entries become one group candidate each; otherwise every
// filtered entry stands alone with its resolved display title and
// deduplicated title variants.
func Build(entries []catalog.Entry, cfg *catalog.Config, s Settings) *Pool {
	filtered := FilterEntries(entries, s)

	var candidates []*Candidate
	if s.Mode(cfg) == catalog.ModeCollapse {
		candidates = BuildGroups(filtered, s.TitleMode)
	} else {
		candidates = make([]*Candidate, 0, len(filtered))
		for _, entry := range filtered {
			candidates = append(candidates, &Candidate{
				ID:           entry.ID,
				Entry:        entry,
				DisplayTitle: entry.Title(s.TitleMode),
				SearchTitles: uniqueTitles(entry.SearchTitles),
			})
		}
	}

	byID := make(map[string]*Candidate, len(candidates))
	for _, c := range candidates {
		c.searchIndex = c.normalizedIndex()
		byID[c.ID] = c
	}
	return &Pool{Candidates: candidates, byID: byID}
}

// Lookup resolves a candidate by id, or nil when the id is not in the pool
// under the current filters.
func (p *Pool) Lookup(id string) *Candidate {
	return p.byID[id]
}

// Search ranks candidates against a free-text query: each candidate scores
// the minimum fuzzy score across its indexed title variants, non-matches are
// dropped, and results sort ascending by score with display title breaking
// ties. At most limit results are returned (SearchLimit when limit <= 0).
func Search(query string, candidates []*Candidate, limit int) []*Candidate {
	normalized := match.Normalize(query)
	if normalized == "" {
		return nil
	}
	if limit <= 0 {
		limit = SearchLimit
	}

	type scored struct {
		candidate *Candidate
		score     int
	}
	matches := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if best := match.BestScore(normalized, c.searchIndex); best != match.NoMatch {
			matches = append(matches, scored{c, best})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score < matches[j].score
		}
		return matches[i].candidate.DisplayTitle < matches[j].candidate.DisplayTitle
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]*Candidate, len(matches))
	for i, m := range matches {
		out[i] = m.candidate
	}
	return out
}
