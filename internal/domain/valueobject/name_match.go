package valueobject

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Fuzzy category matching bounds. Short names must match exactly.
const (
	MaxNameDistance  = 1
	MinFuzzyNameRune = 5
)

// NameDistance returns the edit distance between two normalized names and
// whether it is close enough to treat them as the same name.
func NameDistance(a, b string) (int, bool) {
	if a == b {
		return 0, true
	}
	if utf8.RuneCountInString(a) < MinFuzzyNameRune || utf8.RuneCountInString(b) < MinFuzzyNameRune {
		return -1, false
	}

	distance := levenshtein.ComputeDistance(a, b)
	return distance, distance <= MaxNameDistance
}
