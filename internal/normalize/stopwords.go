package normalize

import "strings"

// minTokenLength is the floor applied to every token that is not a
// stopword; preserve-set membership does not waive it.
const minTokenLength = 2

var englishStopwords = buildSet(
	"a", "an", "the", "and", "or", "but", "of", "in", "on", "at", "to", "for",
	"with", "by", "from", "as", "is", "are", "was", "were", "be", "been",
	"being", "it", "its", "this", "that", "these", "those", "has", "will",
	"there", "another", "any", "many", "more", "most", "such", "no", "not",
)

// Romance/Germanic stopword sets are conservative: definite articles are
// left out of the set entirely rather than removed and rescued, since they
// carry identity signal in nearly every title.
var frenchStopwords = buildSet("et", "ou", "mais", "de", "en", "par", "pour", "avec")
var germanStopwords = buildSet("und", "oder", "aber", "von", "mit", "für")
var spanishStopwords = buildSet("y", "o", "pero", "de", "en", "por", "para", "con")
var italianStopwords = buildSet("e", "o", "ma", "di", "in", "per", "con")

func buildSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func stopwordSetFor(lang Language) map[string]struct{} {
	switch normalizeLanguage(lang) {
	case LangFrench:
		return frenchStopwords
	case LangGerman:
		return germanStopwords
	case LangSpanish:
		return spanishStopwords
	case LangItalian:
		return italianStopwords
	default:
		return englishStopwords
	}
}

// preserveSets rescue specific words that would otherwise be dropped as
// stopwords for that field, because they carry identity signal there. They
// have no effect on words that aren't stopwords to begin with.
var titlePreserve = buildSet(
	"new", "history", "story", "life", "american", "world", "book", "first",
	"second", "third", "complete", "selected", "collected",
)
var authorPreserve = buildSet("illustrated", "edited", "translated", "compiled", "introduction")
var publisherPreserve = buildSet(
	"company", "press", "university", "college", "institute", "corporation",
	"inc", "ltd", "limited", "publishing", "publishers",
)

func preserveSetFor(field Field) map[string]struct{} {
	switch field {
	case FieldPublisher:
		return publisherPreserve
	case FieldAuthor:
		return authorPreserve
	default:
		return titlePreserve
	}
}

// isStopWord reports whether tok is a stopword for (lang, field) that has
// NOT been rescued by that field's preserve set.
func isStopWord(tok string, lang Language, field Field) bool {
	_, stop := stopwordSetFor(lang)[tok]
	if !stop {
		return false
	}
	_, preserved := preserveSetFor(field)[tok]
	return !preserved
}

// RemoveStopwords tokenizes s on whitespace. A token that is a stopword for
// (lang, field) is dropped unless the field's preserve set rescues it, in
// which case it survives regardless of length. Every other token survives
// only if it meets minTokenLength: the length floor is unconditional and
// is not waived by preserve-set membership, since preserve only concerns
// words that would otherwise be removed as stopwords.
func RemoveStopwords(s string, lang Language, field Field) []string {
	tokens := strings.Fields(s)
	stopwords := stopwordSetFor(lang)
	preserve := preserveSetFor(field)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			if _, rescued := preserve[tok]; rescued {
				out = append(out, tok)
			}
			continue
		}
		if len(tok) < minTokenLength {
			continue
		}
		out = append(out, tok)
	}
	return out
}
