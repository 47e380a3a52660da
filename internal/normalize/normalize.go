// Package normalize implements the deterministic, side-effect-free text
// pipeline shared by indexing and similarity scoring: Unicode folding,
// lowercasing, abbreviation expansion, number normalization, stopword
// removal, and optional stemming.
package normalize

import "strings"

// Options configures a Normalizer. Zero value is a reasonable default;
// New fills an empty DefaultLanguage with English.
type Options struct {
	EnableStemming              bool
	EnableAbbreviationExpansion bool
	DefaultLanguage             Language
	Abbreviations               map[string]string // nil uses DefaultAbbreviations
	Corrections                 map[string]string // nil uses DefaultCorrections
}

// Normalizer applies the configured pipeline to field text. It holds no
// mutable state after construction and is safe for concurrent use by many
// goroutines, which is what lets it be shared read-only across the batch
// executor's worker pool.
type Normalizer struct {
	opts Options
}

// New builds a Normalizer, filling in default tables where the caller left
// them nil.
func New(opts Options) *Normalizer {
	if opts.Abbreviations == nil {
		opts.Abbreviations = DefaultAbbreviations
	}
	if opts.Corrections == nil {
		opts.Corrections = DefaultCorrections
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = LangEnglish
	}
	return &Normalizer{opts: opts}
}

func (n *Normalizer) language(lang Language) Language {
	if lang == "" {
		return n.opts.DefaultLanguage
	}
	return lang
}

// fold performs stages 1-2: Unicode/ASCII folding plus explicit corrections,
// then lowercasing.
func (n *Normalizer) fold(text string) string {
	s := foldUnicode(text)
	s = applyCorrections(s, n.opts.Corrections)
	return strings.ToLower(s)
}

// pipelineTokens runs stages 2-7 (lowercase was folded in already) and
// returns the resulting token list: abbreviation expansion, number
// normalization, stopword removal, and optional stemming.
func (n *Normalizer) pipelineTokens(text string, lang Language, field Field) []string {
	s := n.fold(text)
	if n.opts.EnableAbbreviationExpansion {
		s = ExpandAbbreviations(s, n.opts.Abbreviations)
	}
	s = normalizeNumbers(s, lang)
	tokens := RemoveStopwords(s, lang, field)
	if n.opts.EnableStemming {
		tokens = Stem(tokens, lang)
	}
	return tokens
}

// Normalize runs the full pipeline and joins the resulting tokens with a
// single space, suitable for fuzzy-ratio comparison.
func (n *Normalizer) Normalize(text string, lang Language, field Field) string {
	lang = n.language(lang)
	return strings.Join(n.pipelineTokens(text, lang, field), " ")
}

// Tokens runs the full pipeline and returns the token slice directly,
// suitable for index-key derivation.
func (n *Normalizer) Tokens(text string, lang Language, field Field) []string {
	lang = n.language(lang)
	return n.pipelineTokens(text, lang, field)
}
