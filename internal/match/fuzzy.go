package match

import "strings"

// NoMatch is the score returned when the query cannot match the candidate at
// all. Every real score is strictly smaller.
const NoMatch = int(^uint(0) >> 1)

// Score ranks how well a normalized query matches a normalized candidate.
// Lower is better: exact match scores 0, prefix 1, substring 2 plus the
// offset of the first occurrence. Failing those, a left-to-right subsequence
// scan scores 5 plus the number of skipped characters, so substring matches
// always beat sparse subsequence matches. Both inputs must already be
// normalized; normalized text is plain ASCII so byte indexing is exact.
func Score(query, candidate string) int {
	if query == "" || candidate == "" {
		return NoMatch
	}
	if query == candidate {
		return 0
	}
	if strings.HasPrefix(candidate, query) {
		return 1
	}
	if idx := strings.Index(candidate, query); idx != -1 {
		return 2 + idx
	}

	qi := 0
	skipped := 0
	for i := 0; i < len(candidate) && qi < len(query); i++ {
		if candidate[i] == query[qi] {
			qi++
		} else {
			skipped++
		}
	}
	if qi >= len(query) {
		return 5 + skipped
	}
	return NoMatch
}

// BestScore returns the minimum Score of the query across all candidates.
func BestScore(query string, candidates []string) int {
	best := NoMatch
	for _, candidate := range candidates {
		if s := Score(query, candidate); s < best {
			best = s
			if best == 0 {
				break
			}
		}
	}
	return best
}
