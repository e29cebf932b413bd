package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadEntries reads the catalog file. Both a bare JSON array and an
// {"entries": [...]} wrapper are accepted. An empty or malformed catalog is
// an error: no meaningful round can start without data.
func LoadEntries(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	entries, err := ParseEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return entries, nil
}

// ParseEntries decodes and validates raw catalog JSON.
func ParseEntries(raw []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		var wrapper struct {
			Entries []Entry `json:"entries"`
		}
		if werr := json.Unmarshal(raw, &wrapper); werr != nil {
			return nil, fmt.Errorf("decode entries: %w", err)
		}
		entries = wrapper.Entries
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog has no entries")
	}

	seen := make(map[string]struct{}, len(entries))
	for i := range entries {
		id := entries[i].ID
		if id == "" {
			return nil, fmt.Errorf("entry %d has no id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate entry id %q", id)
		}
		seen[id] = struct{}{}
	}
	return entries, nil
}

// LoadConfig reads and validates the game configuration file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates raw config JSON.
func ParseConfig(raw []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Categories) == 0 {
		return nil, fmt.Errorf("config defines no categories")
	}
	keys := make(map[string]struct{}, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		if cat.Key == "" {
			return nil, fmt.Errorf("category %q has no key", cat.Label)
		}
		if _, dup := keys[cat.Key]; dup {
			return nil, fmt.Errorf("duplicate category key %q", cat.Key)
		}
		keys[cat.Key] = struct{}{}
		switch cat.Type {
		case TypeText, TypeNumber, TypeList:
		default:
			return nil, fmt.Errorf("category %q has unknown type %q", cat.Key, cat.Type)
		}
	}
	for _, hint := range cfg.Hints {
		if hint.Key == "" {
			return nil, fmt.Errorf("hint %q has no key", hint.Label)
		}
	}
	return &cfg, nil
}

// LoadDailyID reads a daily puzzle id file: either a bare JSON string or an
// {"id": "..."} object. Numeric ids are accepted and stringified, matching
// how the generator historically wrote them.
func LoadDailyID(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read daily id: %w", err)
	}
	id, err := ParseDailyID(raw)
	if err != nil {
		return "", fmt.Errorf("parse daily id %s: %w", path, err)
	}
	return id, nil
}

// ParseDailyID decodes a daily id payload.
func ParseDailyID(raw []byte) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil && id != "" {
		return id, nil
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil && num.String() != "" {
		return num.String(), nil
	}
	var wrapper struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.ID != "" {
		return wrapper.ID, nil
	}
	var numWrapper struct {
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(raw, &numWrapper); err == nil && numWrapper.ID.String() != "" {
		return numWrapper.ID.String(), nil
	}
	return "", fmt.Errorf("daily id payload is empty or invalid")
}
