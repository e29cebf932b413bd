package cmd

import (
	"fmt"
	"strings"
)

type flagSpec struct {
	name          string
	requiresValue bool
}

var knownFlags = map[string]flagSpec{
	"data":             {name: "data", requiresValue: true},
	"config":           {name: "config", requiresValue: true},
	"daily-file":       {name: "daily-file", requiresValue: true},
	"min-members":      {name: "min-members", requiresValue: true},
	"finished-only":    {name: "finished-only", requiresValue: false},
	"hide-unreleased":  {name: "hide-unreleased", requiresValue: false},
	"include-all":      {name: "include-all", requiresValue: false},
	"title-mode":       {name: "title-mode", requiresValue: true},
	"related-mode":     {name: "related-mode", requiresValue: true},
	"max-guesses":      {name: "max-guesses", requiresValue: true},
	"target":           {name: "target", requiresValue: true},
	"seed":             {name: "seed", requiresValue: true},
	"sort":             {name: "sort", requiresValue: true},
	"desc":             {name: "desc", requiresValue: false},
	"limit":            {name: "limit", requiresValue: true},
	"out":              {name: "out", requiresValue: true},
	"no-store":         {name: "no-store", requiresValue: false},
	"json":             {name: "json", requiresValue: false},
	"help":             {name: "help", requiresValue: false},
}

var knownCommands = []string{
	"daily",
	"library",
	"categories",
	"search",
	"completion",
	"help",
}

var flagAliases = map[string]string{
	"members":       "min-members",
	"minmembers":    "min-members",
	"title":         "title-mode",
	"language":      "title-mode",
	"related":       "related-mode",
	"grouping":      "related-mode",
	"guesses":       "max-guesses",
	"dataset":       "data",
	"daily":         "daily-file",
	"max":           "limit",
	"output":        "out",
}

// normalizeCLIArgs rewrites near-miss flags and commands before cobra sees
// them. Every rewrite produces a stderr note so the caller learns the
// canonical spelling.
func normalizeCLIArgs(args []string) ([]string, []string) {
	out := make([]string, 0, len(args))
	notes := make([]string, 0, 2)
	commandChosen := false
	expectingValue := false
	afterDoubleDash := false

	for i, tok := range args {
		if afterDoubleDash || expectingValue {
			out = append(out, tok)
			expectingValue = false
			continue
		}

		if tok == "--" {
			out = append(out, tok)
			afterDoubleDash = true
			continue
		}

		normalized, note, isFlag, needsValue := normalizeFlagToken(tok)
		if note != "" {
			notes = append(notes, note)
		}

		if !isFlag && !commandChosen && !strings.HasPrefix(tok, "-") {
			commandChosen = true
			if corrected, ok := resolveCommand(tok); ok && corrected != tok {
				notes = append(notes, fmt.Sprintf("interpreted command `%s` as `%s`; use `%s` next time.", tok, corrected, corrected))
				normalized = corrected
			}
		}

		out = append(out, normalized)
		if isFlag && needsValue && !strings.Contains(normalized, "=") && i < len(args)-1 {
			expectingValue = true
		}
	}

	return out, notes
}

func normalizeFlagToken(tok string) (normalized, note string, isFlag, needsValue bool) {
	var raw string
	switch {
	case strings.HasPrefix(tok, "--"):
		raw = strings.TrimPrefix(tok, "--")
	case strings.HasPrefix(tok, "-") && len(tok) > 2:
		// Long flag with a single dash, like -json or -min-members.
		raw = strings.TrimPrefix(tok, "-")
	default:
		return tok, "", false, false
	}

	flagName, rest := splitFlag(raw)
	canonical, ok := resolveFlagName(flagName)
	if !ok {
		return tok, "", true, false
	}

	newTok := "--" + canonical + rest
	if newTok != tok {
		note = fmt.Sprintf("interpreted `%s` as `%s`; use `%s` next time.", tok, newTok, newTok)
	}
	return newTok, note, true, knownFlags[canonical].requiresValue
}

func resolveFlagName(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, "_", "-")

	if canonical, ok := flagAliases[name]; ok {
		return canonical, true
	}
	if _, ok := knownFlags[name]; ok {
		return name, true
	}

	if suggestion, ok := closestMatch(name, mapKeys(knownFlags), 2); ok {
		return suggestion, true
	}
	return "", false
}

func resolveCommand(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, cmd := range knownCommands {
		if name == cmd {
			return cmd, true
		}
	}
	if suggestion, ok := closestMatch(name, knownCommands, 2); ok {
		return suggestion, true
	}
	return "", false
}

func explainCLIError(err error) string {
	return formatCLIErrorText(classifyCLIError(err))
}

func splitFlag(value string) (string, string) {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) == 2 {
		return parts[0], "=" + parts[1]
	}
	return value, ""
}

func extractUnknownValue(msg, marker string) string {
	idx := strings.Index(msg, marker)
	if idx == -1 {
		return ""
	}

	remaining := strings.TrimSpace(msg[idx+len(marker):])
	remaining = strings.TrimPrefix(remaining, ":")
	remaining = strings.TrimSpace(remaining)

	for _, quote := range []string{"\"", "`"} {
		if strings.HasPrefix(remaining, quote) {
			remaining = strings.TrimPrefix(remaining, quote)
			if end := strings.Index(remaining, quote); end >= 0 {
				return remaining[:end]
			}
		}
	}

	if fields := strings.Fields(remaining); len(fields) > 0 {
		return strings.Trim(fields[0], "\"`")
	}
	return ""
}

func mapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

func closestMatch(target string, candidates []string, maxDistance int) (string, bool) {
	best := ""
	bestDist := maxDistance + 1

	for _, candidate := range candidates {
		d := levenshtein(target, candidate)
		if d < bestDist {
			bestDist = d
			best = candidate
		}
	}

	if bestDist <= maxDistance {
		return best, true
	}
	return "", false
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = minInt(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(vals ...int) int {
	best := vals[0]
	for _, v := range vals[1:] {
		if v < best {
			best = v
		}
	}
	return best
}
