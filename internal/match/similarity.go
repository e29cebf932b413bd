package match

// Index answers whether two category values belong to the same configured
// similarity group ("shounen" ~ "shonen"). Immutable once built; rebuild only
// when configuration reloads.
type Index struct {
	groups map[string][][]string
}

// NewIndex builds a similarity index from the configured raw spelling groups,
// keyed by category. Every member is normalized once up front.
func NewIndex(raw map[string][][]string) *Index {
	groups := make(map[string][][]string, len(raw))
	for key, groupList := range raw {
		normalized := make([][]string, 0, len(groupList))
		for _, group := range groupList {
			normalized = append(normalized, NormalizeAll(group))
		}
		groups[key] = normalized
	}
	return &Index{groups: groups}
}

// Similar reports whether a and b normalize into the same similarity group
// for the category. Unknown categories and empty values are never similar.
func (ix *Index) Similar(categoryKey, a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	for _, group := range ix.groups[categoryKey] {
		if contains(group, na) && contains(group, nb) {
			return true
		}
	}
	return false
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
