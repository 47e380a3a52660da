package normalize

// Field selects the per-field stopword/preserve-set policy to apply.
type Field int

const (
	FieldTitle Field = iota
	FieldAuthor
	FieldPublisher
)

// Language is a 3-letter MARC-style language code. Unrecognized or empty
// codes fall back to English stopword/stemming rules.
type Language string

const (
	LangEnglish Language = "eng"
	LangFrench  Language = "fre"
	LangGerman  Language = "ger"
	LangSpanish Language = "spa"
	LangItalian Language = "ita"
)

func normalizeLanguage(lang Language) Language {
	switch lang {
	case LangFrench, LangGerman, LangSpanish, LangItalian:
		return lang
	default:
		return LangEnglish
	}
}
