package diagnostic

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxEditDistance bounds how different a suggestion may be from the
// misspelled name before it is considered noise.
const maxEditDistance = 2

// Suggest returns a "did you mean" hint naming the candidate closest to
// target, or "" if nothing is close enough.
func Suggest(target string, candidates []string) string {
	match := closestMatch(target, candidates)
	if match == "" {
		return ""
	}
	return fmt.Sprintf("did you mean '%s'?", match)
}

func closestMatch(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}

	pool := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != target {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return ""
	}
	sort.Strings(pool)

	// Abbreviations first: "fwd" -> "forward"
	ranks := fuzzy.RankFindFold(target, pool)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	// Then typos: "fowrard" -> "forward"
	best, bestDist := "", maxEditDistance+1
	for _, c := range pool {
		if d := fuzzy.LevenshteinDistance(target, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
