package validation

import (
	"strings"
	"unicode"
)

// Similarity scores two names in [0,1]. Equal normalized names score 1,
// containment scores 0.9, otherwise it is the share of aligned positions
// holding the same letter, relative to the longer name. Transpositions are
// not recognised.
func Similarity(a, b string) float64 {
	na, nb := normalizeName(a), normalizeName(b)
	if string(na) == string(nb) {
		return 1.0
	}

	longer, shorter := na, nb
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}
	if strings.Contains(string(longer), string(shorter)) {
		return 0.9
	}

	matches := 0
	for i := range shorter {
		if shorter[i] == longer[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(longer))
}

func normalizeName(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			out = append(out, r)
		}
	}
	return out
}
