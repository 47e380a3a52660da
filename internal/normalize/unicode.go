package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFolder decomposes accented and other composed Unicode characters and
// strips combining marks, producing a plain ASCII-ish approximation of the
// input. This is the systems-language equivalent of the teacher's
// combiningAccents lookup table: rather than hand-listing every combining
// mark name, NFD decomposition exposes them as a separate Mn-category rune
// that runes.Remove strips in one pass.
var asciiFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldUnicode(s string) string {
	out, _, err := transform.String(asciiFolder, s)
	if err != nil {
		return s
	}
	return out
}

// applyCorrections performs a small table of explicit post-fold corrections
// for characters that don't decompose cleanly (e.g. ligatures, currency-like
// letters), configured the way the teacher's htmlRepair/combiningAccents
// tables are: an explicit map consulted after the main transform.
func applyCorrections(s string, corrections map[string]string) string {
	if len(corrections) == 0 {
		return s
	}
	for from, to := range corrections {
		if from == "" {
			continue
		}
		s = strings.ReplaceAll(s, from, to)
	}
	return s
}

// DefaultCorrections is the small explicit correction table applied after
// Unicode folding, for characters NFD decomposition doesn't resolve to a
// plain ASCII base letter.
var DefaultCorrections = map[string]string{
	"ß": "ss", // ß
	"ł": "l",  // ł
	"Ł": "L",  // Ł
	"ø": "o",  // ø
	"Ø": "O",  // Ø
	"æ": "ae", // æ
	"Æ": "AE", // Æ
	"œ": "oe", // œ
	"Œ": "OE", // Œ
}

// removeBracketed strips [...] segments from a title, applied once at load
// time before any other normalization (spec: titles only).
func removeBracketed(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return compressSpaces(b.String())
}

// RemoveBracketed is the exported, trimmed form of removeBracketed. The
// loaders in internal/loader do not call it; they strip brackets from raw
// titles with their own removeBracketedAtLoad and reject a record whose
// title comes out empty.
func RemoveBracketed(title string) string {
	return strings.TrimSpace(removeBracketed(title))
}

func compressSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
