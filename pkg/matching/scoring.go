package matching

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Scorer computes free-text similarity scores for brand attribution
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// TokenSetRatio returns a 0-100 similarity between two names that is
// insensitive to token order and to one side carrying extra tokens: the
// normalized token sets are split into intersection and differences, and the
// best pairwise ratio of the recombined strings wins. A name whose tokens are
// a subset of the other's scores 100. Returns 0 if either input has no
// tokens. Symmetric.
func (s *Scorer) TokenSetRatio(a, b string) int {
	tokensA := Tokens(a)
	tokensB := Tokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := toSet(tokensA)
	setB := toSet(tokensB)

	var intersection, onlyA, onlyB []string
	for token := range setA {
		if setB[token] {
			intersection = append(intersection, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range setB {
		if !setA[token] {
			onlyB = append(onlyB, token)
		}
	}
	sort.Strings(intersection)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	common := strings.Join(intersection, " ")
	combinedA := joinNonEmpty(common, strings.Join(onlyA, " "))
	combinedB := joinNonEmpty(common, strings.Join(onlyB, " "))

	best := s.Ratio(common, combinedA)
	if r := s.Ratio(common, combinedB); r > best {
		best = r
	}
	if r := s.Ratio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

// Ratio is a 0-100 Levenshtein similarity over whole strings
func (s *Scorer) Ratio(a, b string) int {
	if a == b {
		return 100
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(distance)/float64(longest))))
}

func toSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		set[token] = true
	}
	return set
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}
