// Package daily implements the offline daily-puzzle id generator and its
// file format. The generator runs on its own fixed filters, stricter than the
// defaults players see, so the daily answer is always a well-known title.
package daily

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/pool"
)

// Generator defaults. Popularity and status filters only apply when the
// dataset actually carries those fields.
const generatorMinMembers = 100000

// Generate samples a daily id from the catalog: filter with the generator
// defaults, collapse to one candidate per answer group in collapse mode,
// exclude the previous day's id when more than one candidate remains, then
// draw uniformly. In collapse mode the group id is emitted so any season of
// the answer resolves.
func Generate(entries []catalog.Entry, cfg *catalog.Config, previousID string, rng *rand.Rand) (string, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	hasMembers := false
	hasStatus := false
	for i := range entries {
		if entries[i].Members > 0 {
			hasMembers = true
		}
		if entries[i].Status != "" {
			hasStatus = true
		}
	}
	settings := pool.Settings{
		HideUnreleased: hasStatus,
		FinishedOnly:   hasStatus,
	}
	if hasMembers {
		settings.MinMembers = generatorMinMembers
	}

	filtered := pool.FilterEntries(entries, settings)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no entries match the generator filters")
	}

	collapse := cfg.Mode() == catalog.ModeCollapse
	candidates := filtered
	if collapse {
		candidates = onePerGroup(filtered)
	}

	if previousID != "" && len(candidates) > 1 {
		remaining := make([]*catalog.Entry, 0, len(candidates))
		for _, entry := range candidates {
			if entry.ID != previousID {
				remaining = append(remaining, entry)
			}
		}
		if len(remaining) > 0 {
			candidates = remaining
		}
	}

	pick := candidates[rng.Intn(len(candidates))]
	if collapse {
		return pick.GroupID(), nil
	}
	return pick.ID, nil
}

// onePerGroup keeps the first entry seen for each answer group.
func onePerGroup(entries []*catalog.Entry) []*catalog.Entry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]*catalog.Entry, 0, len(entries))
	for _, entry := range entries {
		groupID := entry.GroupID()
		if _, dup := seen[groupID]; dup {
			continue
		}
		seen[groupID] = struct{}{}
		out = append(out, entry)
	}
	return out
}

// GenerateFile runs the generator end to end: load catalog and config, read
// the previously published id from outPath when present, sample, and write
// the new id back as a JSON string.
func GenerateFile(dataPath, configPath, outPath string, rng *rand.Rand) (string, error) {
	entries, err := catalog.LoadEntries(dataPath)
	if err != nil {
		return "", err
	}
	cfg, err := catalog.LoadConfig(configPath)
	if err != nil {
		return "", err
	}

	previousID := ""
	if raw, err := os.ReadFile(outPath); err == nil {
		if id, perr := catalog.ParseDailyID(raw); perr == nil {
			previousID = id
		}
	}

	id, err := Generate(entries, cfg, previousID, rng)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		return "", fmt.Errorf("write daily id: %w", err)
	}
	return id, nil
}
