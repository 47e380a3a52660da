// Package generic flags bibliographic titles that carry little identity
// signal because they are formulaic or extremely common — "Annual
// Report", "Poems", and the like. Detection is English-only; other
// languages are skipped by design, since the pattern list and linguistic
// heuristics are tuned for English genre vocabulary.
package generic

import (
	"regexp"
	"strings"
	"sync"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
)

// DefaultPatterns is the configured set of generic title phrases, matched
// as an exact phrase or, for very short titles, as a substring.
var DefaultPatterns = []string{
	"collected works", "complete works", "selected works", "selected poems",
	"collected poems", "poems", "annual report", "report", "proceedings",
	"bulletin", "newsletter", "yearbook", "year book", "directory",
	"catalog", "catalogue", "handbook", "manual", "dictionary",
	"encyclopedia", "almanac", "who's who", "minutes", "transactions",
}

// genreWords backs the linguistic layer's all-genre-words check.
var genreWords = map[string]struct{}{
	"report": {}, "poems": {}, "proceedings": {}, "bulletin": {},
	"newsletter": {}, "yearbook": {}, "directory": {}, "catalog": {},
	"catalogue": {}, "handbook": {}, "manual": {}, "dictionary": {},
	"encyclopedia": {}, "almanac": {}, "minutes": {}, "transactions": {},
	"annual": {}, "digest": {}, "review": {}, "journal": {}, "studies": {},
}

// Options configures a Detector.
type Options struct {
	Patterns           []string
	FrequencyThreshold int // occurrences during index build before flagging; default 10
	Disable            bool
}

type cacheKey struct {
	title string
	lang  normalize.Language
}

type cacheEntry struct {
	generic bool
	reason  string
}

// Detector flags generic titles using pattern, frequency, and linguistic
// checks, in that priority order (first hit wins). The frequency map is
// mutable only during index construction; once the indexer hands a
// Detector to the matcher it is treated as frozen and workers only read
// it, matching the spec's "frozen at worker-init time" rule.
//
// Detection deliberately does not reuse the full TextNormalizer pipeline:
// stemming would turn "Poems" into "poem", which no longer matches the
// unstemmed pattern/genre-word lists, and stopword removal would leave the
// linguistic layer's stopword-ratio check with nothing left to count. It
// normalizes titles itself with normalizeLight (lowercase and punctuation
// strip only).
type Detector struct {
	opts      Options
	mu        sync.RWMutex
	frequency map[string]int
	cache     map[cacheKey]cacheEntry
}

func New(opts Options) *Detector {
	if opts.FrequencyThreshold <= 0 {
		opts.FrequencyThreshold = 10
	}
	if opts.Patterns == nil {
		opts.Patterns = DefaultPatterns
	}
	return &Detector{
		opts:      opts,
		frequency: make(map[string]int),
		cache:     make(map[cacheKey]cacheEntry),
	}
}

// nonWordOrHyphen matches anything that isn't a letter, digit, underscore,
// whitespace, or hyphen — the punctuation normalizeLight strips.
var nonWordOrHyphen = regexp.MustCompile(`[^\w\s\-]`)

// collapseWhitespaceHyphen matches runs of whitespace and/or hyphens to
// collapse into a single space.
var collapseWhitespaceHyphen = regexp.MustCompile(`[\s\-]+`)

// normalizeLight lowercases and strips punctuation (keeping hyphens,
// which then collapse to spaces), without stopword removal or stemming —
// the light touch the generic-title checks need so that pattern and
// genre-word lists (built against plain surface forms like "poems") and
// the stopword-ratio heuristic both still see their input words intact.
func normalizeLight(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	stripped := nonWordOrHyphen.ReplaceAllString(lowered, " ")
	collapsed := collapseWhitespaceHyphen.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(collapsed)
}

// Observe records one occurrence of a normalized title during index
// construction. Called once per publication across both the registration
// and renewal corpora, before any Detect calls are made.
func (d *Detector) Observe(title string, lang normalize.Language) {
	if lang != normalize.LangEnglish {
		return
	}
	normalized := normalizeLight(title)
	if normalized == "" {
		return
	}
	d.mu.Lock()
	d.frequency[normalized]++
	d.mu.Unlock()
}

// Detect reports whether title is generic, and why. Only English titles
// are evaluated; all others are reported non-generic with a reason
// naming the skipped language.
func (d *Detector) Detect(title string, lang normalize.Language) (bool, string) {
	if d.opts.Disable {
		return false, "disabled"
	}
	if lang != normalize.LangEnglish {
		return false, "skipped_non_english_" + string(lang)
	}

	normalized := normalizeLight(title)
	key := cacheKey{title: normalized, lang: lang}

	d.mu.RLock()
	if entry, ok := d.cache[key]; ok {
		d.mu.RUnlock()
		return entry.generic, entry.reason
	}
	d.mu.RUnlock()

	generic, reason := d.detectUncached(normalized)

	d.mu.Lock()
	d.cache[key] = cacheEntry{generic: generic, reason: reason}
	d.mu.Unlock()

	return generic, reason
}

func (d *Detector) detectUncached(normalized string) (bool, string) {
	tokens := strings.Fields(normalized)

	if generic, reason := matchPattern(normalized, tokens, d.opts.Patterns); generic {
		return true, reason
	}

	d.mu.RLock()
	count := d.frequency[normalized]
	d.mu.RUnlock()
	if count > d.opts.FrequencyThreshold {
		return true, "frequency_exceeded"
	}

	if generic, reason := linguisticCheck(tokens); generic {
		return true, reason
	}

	return false, "not_generic"
}

// matchPattern checks the normalized title against the configured pattern
// list: an exact phrase match always counts; a substring match counts
// only when the title itself is short (≤3 tokens), to avoid flagging a
// long distinctive title that happens to contain a common word.
func matchPattern(normalized string, tokens []string, patterns []string) (bool, string) {
	for _, p := range patterns {
		if normalized == p {
			return true, "pattern_exact"
		}
	}
	if len(tokens) <= 3 {
		for _, p := range patterns {
			if strings.Contains(normalized, p) {
				return true, "pattern_substring"
			}
		}
	}
	return false, ""
}

// linguisticCheck flags titles of ≤2 tokens that are entirely genre
// words, or titles of ≤4 tokens where more than 60% are stopwords.
func linguisticCheck(tokens []string) (bool, string) {
	if len(tokens) > 0 && len(tokens) <= 2 {
		allGenre := true
		for _, tok := range tokens {
			if _, ok := genreWords[tok]; !ok {
				allGenre = false
				break
			}
		}
		if allGenre {
			return true, "linguistic_all_genre_words"
		}
	}
	if len(tokens) > 0 && len(tokens) <= 4 {
		stopCount := 0
		for _, tok := range tokens {
			if isLikelyStopword(tok) {
				stopCount++
			}
		}
		if float64(stopCount)/float64(len(tokens)) > 0.6 {
			return true, "linguistic_high_stopword_ratio"
		}
	}
	return false, ""
}

// isLikelyStopword checks against a small local list of core English
// function words. Titles reach this check through normalizeLight, which
// removes no stopwords, so every such word in the title is still counted.
func isLikelyStopword(tok string) bool {
	switch tok {
	case "a", "an", "the", "of", "in", "on", "and", "or", "for", "to":
		return true
	default:
		return false
	}
}
