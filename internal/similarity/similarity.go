// Package similarity computes pairwise field similarity scores used by
// the matcher: title (token-sort ratio), author (ratio), and publisher
// (ratio or partial-ratio against renewal full text), plus the title
// containment boost.
package similarity

import (
	"sort"
	"strings"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
)

// Calculator wraps a normalize.Normalizer with the field-dispatch rules
// from the matching pipeline.
type Calculator struct {
	norm *normalize.Normalizer
}

func New(norm *normalize.Normalizer) *Calculator {
	return &Calculator{norm: norm}
}

// Title returns the token-sort ratio between two titles after full
// normalization, with the containment boost applied. When both titles
// normalize away to nothing (e.g. two all-stopword titles), there are no
// tokens left to compare, so the raw originals decide the score instead:
// equal (case/space-insensitive) is a match, otherwise not.
func (c *Calculator) Title(a, b string, lang normalize.Language) float64 {
	na := c.norm.Tokens(a, lang, normalize.FieldTitle)
	nb := c.norm.Tokens(b, lang, normalize.FieldTitle)
	if len(na) == 0 && len(nb) == 0 {
		return rawEqualityScore(a, b)
	}
	score := tokenSortRatio(na, nb)
	if boosted, ok := containmentBoost(na, nb, score); ok {
		return boosted
	}
	return score
}

// Author returns the ratio between two author strings after conservative
// author-field normalization, falling back to raw-equality when both
// normalize away to nothing.
func (c *Calculator) Author(a, b string, lang normalize.Language) float64 {
	na := c.norm.Normalize(a, lang, normalize.FieldAuthor)
	nb := c.norm.Normalize(b, lang, normalize.FieldAuthor)
	if na == "" && nb == "" {
		return rawEqualityScore(a, b)
	}
	return ratio(na, nb)
}

// rawEqualityScore compares two strings case/space-insensitively when
// normalization has stripped both down to nothing, the fallback the
// normalized comparison can no longer make.
func rawEqualityScore(a, b string) float64 {
	if strings.TrimSpace(strings.ToLower(a)) == strings.TrimSpace(strings.ToLower(b)) {
		return 100
	}
	return 0
}

// Publisher returns the ratio between a MARC publisher and a candidate
// publisher, or — when the candidate is a renewal carrying non-empty full
// text — the partial ratio against that full text instead.
func (c *Calculator) Publisher(marcPublisher, candidatePublisher, candidateFullText string, lang normalize.Language) float64 {
	na := c.norm.Normalize(marcPublisher, lang, normalize.FieldPublisher)
	if candidateFullText != "" {
		nb := c.norm.Normalize(candidateFullText, lang, normalize.FieldPublisher)
		if na == "" && nb == "" {
			return 100
		}
		return partialRatio(na, nb)
	}
	nb := c.norm.Normalize(candidatePublisher, lang, normalize.FieldPublisher)
	if na == "" && nb == "" {
		return 100
	}
	return ratio(na, nb)
}

// tokenSortRatio sorts each token list alphabetically, joins with a space,
// then runs the plain Levenshtein ratio — tolerant of word reordering.
func tokenSortRatio(a, b []string) float64 {
	return ratio(sortedJoin(a), sortedJoin(b))
}

func sortedJoin(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

// containmentBoost raises the score to at least 85 when one title's token
// sequence is a contiguous prefix/suffix of the other, the overlap is at
// least 2 tokens and at least 40% of the longer title, and both titles
// clear a minimum length floor. Used for cases like "Base Title" vs
// "Base Title, with Subtitle, 1934".
const (
	containmentMinOverlapTokens = 2
	containmentMinOverlapFrac   = 0.4
	containmentMinTokens        = 2
	containmentFloor            = 85.0
)

func containmentBoost(a, b []string, score float64) (float64, bool) {
	if len(a) < containmentMinTokens || len(b) < containmentMinTokens {
		return score, false
	}
	shorter, longer := a, b
	if len(longer) < len(shorter) {
		shorter, longer = longer, shorter
	}
	overlap := contiguousOverlap(shorter, longer)
	if overlap < containmentMinOverlapTokens {
		return score, false
	}
	if float64(overlap) < containmentMinOverlapFrac*float64(len(longer)) {
		return score, false
	}
	if score >= containmentFloor {
		return score, false
	}
	return containmentFloor, true
}

// contiguousOverlap returns the length of the longest prefix-or-suffix
// match of shorter against longer.
func contiguousOverlap(shorter, longer []string) int {
	prefix := 0
	for i := 0; i < len(shorter) && i < len(longer); i++ {
		if shorter[i] != longer[i] {
			break
		}
		prefix++
	}
	suffix := 0
	for i := 0; i < len(shorter) && i < len(longer); i++ {
		if shorter[len(shorter)-1-i] != longer[len(longer)-1-i] {
			break
		}
		suffix++
	}
	if suffix > prefix {
		return suffix
	}
	return prefix
}
