package index

import (
	"strconv"
	"strings"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
)

// titleKeys returns single significant tokens plus 2-token and 3-token
// shingles of the normalized, stemmed title.
func titleKeys(tokens []string) []string {
	keys := make([]string, 0, len(tokens)*2)
	keys = append(keys, tokens...)
	keys = append(keys, shingles(tokens, 2)...)
	keys = append(keys, shingles(tokens, 3)...)
	return dedupe(keys)
}

func shingles(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], " "))
	}
	return out
}

// authorKeys handles both "Last, First Middle" and "First Middle Last"
// forms and returns: surname alone; surname+first-given; surname+first
// initial; first+surname; and each individual given name.
func authorKeys(author string) []string {
	author = strings.TrimSpace(author)
	if author == "" {
		return nil
	}
	var surname string
	var givens []string
	if idx := strings.Index(author, ","); idx >= 0 {
		surname = strings.TrimSpace(author[:idx])
		rest := strings.Fields(author[idx+1:])
		givens = rest
	} else {
		fields := strings.Fields(author)
		if len(fields) == 0 {
			return nil
		}
		surname = fields[len(fields)-1]
		givens = fields[:len(fields)-1]
	}
	surname = strings.ToLower(surname)
	if surname == "" {
		return nil
	}
	keys := []string{surname}
	if len(givens) > 0 {
		first := strings.ToLower(strings.Trim(givens[0], "."))
		keys = append(keys, surname+" "+first)
		if len(first) > 0 {
			keys = append(keys, surname+" "+string([]rune(first)[0]))
			keys = append(keys, first+" "+surname)
		}
		for _, g := range givens {
			g = strings.ToLower(strings.Trim(g, "."))
			if g != "" {
				keys = append(keys, g)
			}
		}
	}
	return dedupe(keys)
}

// publisherKeys returns significant-word tokens, 2-word and 3-word
// combinations, and a single joined form of all significant words.
func publisherKeys(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tokens)*2+1)
	keys = append(keys, tokens...)
	keys = append(keys, shingles(tokens, 2)...)
	keys = append(keys, shingles(tokens, 3)...)
	keys = append(keys, strings.Join(tokens, " "))
	return dedupe(keys)
}

func yearKey(year int) string {
	return strconv.Itoa(year)
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// fieldLanguage resolves the language used for key derivation, defaulting
// to English when the publication carries no language code.
func fieldLanguage(lang string) normalize.Language {
	if lang == "" {
		return normalize.LangEnglish
	}
	return normalize.Language(lang)
}
