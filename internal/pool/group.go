// Package pool derives the guessable and answerable candidate pools from the
// raw catalog: visibility filtering, answer-group collapsing, display-title
// resolution and the precomputed search index.
package pool

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/match"
)

var seasonOnePattern = regexp.MustCompile(`(?i)\bseason\s*1\b|\b1st\s*season\b|\bfirst\s*season\b|\bs1\b|\bseason\s*one\b|\bpart\s*1\b`)

// Candidate is one guessable/answerable pool element: a single entry, or a
// collapsed answer group represented by its canonical member.
type Candidate struct {
	ID           string
	Entry        *catalog.Entry   // the entry, or the canonical group member
	Members      []*catalog.Entry // all group members; nil outside collapsed mode
	DisplayTitle string
	SearchTitles []string

	searchIndex []string // normalized title variants, built once per pool
}

// GroupID returns the candidate's answer-group id.
func (c *Candidate) GroupID() string {
	if c.Members != nil {
		return c.ID
	}
	return c.Entry.GroupID()
}

// WinIDs returns every catalog id a win against this candidate covers: all
// group member ids plus the related id set.
func (c *Candidate) WinIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if c.Members != nil {
		for _, member := range c.Members {
			add(member.ID)
		}
	} else {
		add(c.Entry.ID)
	}
	for _, id := range c.Entry.RelatedIDs() {
		add(id)
	}
	return ids
}

func looksLikeSeasonOne(title string) bool {
	return seasonOnePattern.MatchString(title)
}

// stripSeasonOne removes the first season-one phrase and any trailing
// separator punctuation left behind ("Example Show: Season 1" -> "Example Show").
func stripSeasonOne(title string) string {
	if loc := seasonOnePattern.FindStringIndex(title); loc != nil {
		title = title[:loc[0]] + title[loc[1]:]
	}
	return strings.TrimRight(strings.TrimSpace(title), ":- \t")
}

// groupTitle resolves a collapsed group's display title. A canonical title
// that reads as "season one" is swapped for any sibling title that does not,
// so the group shows as "Example Show" rather than "Example Show Season 1".
func groupTitle(canonical *catalog.Entry, allTitles []string, mode string) string {
	title := canonical.Title(mode)
	if looksLikeSeasonOne(title) {
		replaced := false
		for _, alt := range allTitles {
			if !looksLikeSeasonOne(alt) {
				title = alt
				replaced = true
				break
			}
		}
		if !replaced {
			title = stripSeasonOne(title)
		}
	}
	if title == "" {
		return canonical.Titles.Main
	}
	return title
}

// uniqueTitles trims, drops empties and deduplicates case-insensitively while
// preserving first-seen casing and order.
func uniqueTitles(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, title := range titles {
		cleaned := strings.TrimSpace(title)
		if cleaned == "" {
			continue
		}
		key := strings.ToLower(cleaned)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}

// BuildGroups partitions entries into answer groups and selects each group's
// canonical member: earliest release year first, with entries missing a year
// sorting after every real year, ties broken by lowest numeric id.
func BuildGroups(entries []*catalog.Entry, titleMode string) []*Candidate {
	order := make([]string, 0, len(entries))
	byGroup := make(map[string][]*catalog.Entry, len(entries))
	for _, entry := range entries {
		groupID := entry.GroupID()
		if _, ok := byGroup[groupID]; !ok {
			order = append(order, groupID)
		}
		byGroup[groupID] = append(byGroup[groupID], entry)
	}

	groups := make([]*Candidate, 0, len(order))
	for _, groupID := range order {
		members := byGroup[groupID]
		sorted := make([]*catalog.Entry, len(members))
		copy(sorted, members)
		sort.SliceStable(sorted, func(i, j int) bool {
			return canonicalLess(sorted[i], sorted[j])
		})
		canonical := sorted[0]

		var titles []string
		for _, member := range members {
			titles = append(titles, member.SearchTitles...)
		}
		allTitles := uniqueTitles(titles)

		groups = append(groups, &Candidate{
			ID:           groupID,
			Entry:        canonical,
			Members:      members,
			DisplayTitle: groupTitle(canonical, allTitles, titleMode),
			SearchTitles: allTitles,
		})
	}
	return groups
}

func canonicalLess(a, b *catalog.Entry) bool {
	yearA, okA := a.Number("year")
	yearB, okB := b.Number("year")
	if okA != okB {
		return okA // a missing year sorts after every real year
	}
	if okA && yearA != yearB {
		return yearA < yearB
	}
	numA, errA := strconv.ParseFloat(a.ID, 64)
	numB, errB := strconv.ParseFloat(b.ID, 64)
	if errA == nil && errB == nil {
		return numA < numB
	}
	return a.ID < b.ID
}

// normalizedIndex precomputes the candidate's normalized title variants so
// per-keystroke search never re-normalizes.
func (c *Candidate) normalizedIndex() []string {
	variants := uniqueTitles(append([]string{c.DisplayTitle}, c.SearchTitles...))
	return match.NormalizeAll(variants)
}
