package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var romanValue = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// romanToArabic converts a string of Roman numeral letters to its integer
// value by the subtractive rule, or returns (0, false) if it is empty,
// contains a non-numeral letter, or its value falls outside 1-3000. The
// letter order is not checked for canonical form: "IIII" converts to 4.
func romanToArabic(s string) (int, bool) {
	s = strings.ToUpper(s)
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if _, ok := romanValue[s[i]]; !ok {
			return 0, false
		}
	}
	total := 0
	prev := 0
	for i := len(s) - 1; i >= 0; i-- {
		v := romanValue[s[i]]
		if v < prev {
			total -= v
		} else {
			total += v
			prev = v
		}
	}
	if total <= 0 || total > 3000 {
		return 0, false
	}
	return total, true
}

var romanToken = regexp.MustCompile(`(?i)\b[IVXLCDM]+\b`)

// normalizeRomanNumerals replaces word-bounded Roman numerals with their
// Arabic equivalent, case-insensitively. Tokens that don't parse as valid
// numerals (e.g. the word "IV" meaning "intravenous" would still convert,
// matching the source's own non-context-aware behavior) are left alone only
// when romanToArabic rejects them outright (empty or out of range).
func normalizeRomanNumerals(s string) string {
	return romanToken.ReplaceAllStringFunc(s, func(tok string) string {
		v, ok := romanToArabic(tok)
		if !ok {
			return tok
		}
		return strconv.Itoa(v)
	})
}

var digitOrdinal = regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th|º|ª|ère|ere|er|ème|eme|o|a)\b`)

// ordinalWords maps English and Romance-language ordinal words to their
// bare digit. Only a practical range is covered: in English, first through
// twentieth plus thirtieth, fortieth and fiftieth.
var ordinalWords = map[string]string{
	"first": "1", "second": "2", "third": "3", "fourth": "4", "fifth": "5",
	"sixth": "6", "seventh": "7", "eighth": "8", "ninth": "9", "tenth": "10",
	"eleventh": "11", "twelfth": "12", "thirteenth": "13", "fourteenth": "14",
	"fifteenth": "15", "sixteenth": "16", "seventeenth": "17", "eighteenth": "18",
	"nineteenth": "19", "twentieth": "20", "thirtieth": "30", "fortieth": "40",
	"fiftieth": "50",
	// French
	"premier": "1", "premiere": "1", "première": "1", "deuxieme": "2", "deuxième": "2",
	"troisieme": "3", "troisième": "3",
	// German
	"erste": "1", "zweite": "2", "dritte": "3",
	// Spanish / Italian
	"primero": "1", "primera": "1", "primo": "1", "prima": "1",
	"segundo": "2", "segunda": "2", "secondo": "2", "seconda": "2",
	"tercero": "3", "tercera": "3", "terzo": "3", "terza": "3",
}

var wordNumbers = map[string]string{
	"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4", "five": "5",
	"six": "6", "seven": "7", "eight": "8", "nine": "9", "ten": "10",
	"eleven": "11", "twelve": "12", "thirteen": "13", "fourteen": "14",
	"fifteen": "15", "sixteen": "16", "seventeen": "17", "eighteen": "18",
	"nineteen": "19", "twenty": "20", "thirty": "30", "forty": "40",
	"fifty": "50", "sixty": "60", "seventy": "70", "eighty": "80", "ninety": "90",
	"hundred": "100", "thousand": "1000",
}

var wordBoundary = regexp.MustCompile(`[a-zàâäéèêëïîôöùûüç]+`)

// normalizeNumbers applies, in order: Roman numeral conversion, ordinal
// reduction (word ordinals and digit+suffix forms), and per-word number-word
// replacement. Word numbers are replaced individually, not compounded:
// "twenty one" normalizes to "20 1", not "21", and a hyphenated compound
// is split the same way ("eighty-four" becomes "80 4").
func normalizeNumbers(s string, lang Language) string {
	s = normalizeRomanNumerals(s)
	s = digitOrdinal.ReplaceAllString(s, "$1")

	tokens := strings.Fields(s)
	for i, tok := range tokens {
		lower := strings.ToLower(tok)
		if rep, ok := ordinalWords[lower]; ok {
			tokens[i] = rep
			continue
		}
		if rep, ok := wordNumbers[lower]; ok {
			tokens[i] = rep
			continue
		}
		if parts := strings.Split(lower, "-"); len(parts) > 1 {
			converted := false
			for j, part := range parts {
				rep, ok := wordNumbers[part]
				if !ok {
					rep, ok = ordinalWords[part]
				}
				if ok {
					parts[j], converted = rep, true
				}
			}
			if converted {
				tokens[i] = strings.Join(parts, " ")
			}
		}
	}
	return strings.Join(tokens, " ")
}
