// Package fuzzy implements edit-distance similarity for approximate matching.
package fuzzy

import "unicode/utf8"

// Fuzzy level bounds and threshold slope.
const (
	MinLevel     = 0.0
	MaxLevel     = 2.0
	DefaultLevel = 1.0
	levelStep    = 0.3
)

// Distance returns the Levenshtein distance between a and b, counted in runes.
// Insertion, deletion and substitution all cost 1.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity returns 1 - distance/max(len(a), len(b)). Two empty strings are identical.
// Callers normalize case before calling.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(Distance(a, b))/float64(longest)
}

// Threshold returns the minimum similarity accepted at the given fuzzy level.
// Level 0 demands an exact match, level 2 accepts similarity 0.4.
func Threshold(level float64) float64 {
	return 1 - level*levelStep
}

// Match reports whether a and b are similar enough at level and returns the similarity.
func Match(a, b string, level float64) (float64, bool) {
	s := Similarity(a, b)
	// Tolerate float noise at the boundary (e.g. 1 - 1*0.3 vs 0.7).
	return s, s+1e-9 >= Threshold(level)
}
