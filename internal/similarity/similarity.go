// Package similarity scores the closeness of two company names on a
// bounded [0,1] scale.
package similarity

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/sells-group/company-match/internal/normalize"
)

// Score combines a character-level sequence-matcher ratio with a keyword
// overlap measure and returns the larger of the two. It is deterministic,
// symmetric, bounded to [0,1], and returns 0 when either name is empty.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	char := charRatio(a, b)
	token := keywordOverlap(normalize.Keywords(a), normalize.Keywords(b))
	if token > char {
		return token
	}
	return char
}

// charRatio is the classic sequence-matcher ratio over the two rune
// sequences: 2·matched / (lenA+lenB). The matching-block search is
// order-sensitive in rare tie cases, so operands are put in a canonical
// order first to keep the ratio symmetric.
func charRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	if a > b {
		a, b = b, a
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// keywordOverlap is |A∩B| / max(|A|,|B|), or 0 when either set is empty.
func keywordOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	var common int
	for _, k := range b {
		if _, ok := set[k]; ok {
			common++
		}
	}
	den := len(a)
	if len(b) > den {
		den = len(b)
	}
	return float64(common) / float64(den)
}
