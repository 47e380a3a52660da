package normalize

import (
	"strings"

	"github.com/surgebase/porter2"
)

// Stem reduces each token to its stem. English (and unknown-language) text
// uses the teacher's own Porter2 implementation. The other four supported
// languages don't have a dedicated stemmer available anywhere in the
// example corpus, so they get a conservative folded variant: common
// inflectional suffixes for that language family are stripped with a
// light suffix table rather than running full Porter2 (which is tuned for
// English morphology and would otherwise mangle Romance/Germanic words).
func Stem(tokens []string, lang Language) []string {
	out := make([]string, len(tokens))
	switch normalizeLanguage(lang) {
	case LangEnglish:
		for i, tok := range tokens {
			out[i] = porter2.Stem(tok)
		}
	default:
		suffixes := foldedSuffixesFor(lang)
		for i, tok := range tokens {
			out[i] = stripLongestSuffix(tok, suffixes)
		}
	}
	return out
}

func foldedSuffixesFor(lang Language) []string {
	switch normalizeLanguage(lang) {
	case LangFrench:
		return []string{"ement", "ment", "ions", "ion", "es", "s"}
	case LangGerman:
		return []string{"ungen", "ung", "heit", "keit", "en", "er", "e"}
	case LangSpanish:
		return []string{"ciones", "cion", "mente", "es", "s"}
	case LangItalian:
		return []string{"zioni", "zione", "mente", "i", "e"}
	default:
		return nil
	}
}

// stripLongestSuffix removes the longest matching suffix that leaves a stem
// of at least 3 characters, to avoid over-stemming short words.
func stripLongestSuffix(tok string, suffixes []string) string {
	best := tok
	bestLen := len(tok)
	for _, suf := range suffixes {
		if strings.HasSuffix(tok, suf) && len(tok)-len(suf) >= 3 {
			candidate := tok[:len(tok)-len(suf)]
			if len(candidate) < bestLen {
				best = candidate
				bestLen = len(candidate)
			}
		}
	}
	return best
}
