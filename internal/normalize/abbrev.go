package normalize

import (
	"sort"
	"strings"
)

// DefaultAbbreviations is the bibliographic abbreviation table consulted by
// ExpandAbbreviations. Keys are matched as whole tokens (case-insensitive,
// trailing period optional); the longest matching key wins when one token
// could match more than one entry (e.g. "co" vs "co.").
var DefaultAbbreviations = map[string]string{
	"co.":     "company",
	"co":      "company",
	"corp.":   "corporation",
	"corp":    "corporation",
	"inc.":    "incorporated",
	"inc":     "incorporated",
	"ltd.":    "limited",
	"ltd":     "limited",
	"assn.":   "association",
	"assn":    "association",
	"dept.":   "department",
	"dept":    "department",
	"univ.":   "university",
	"univ":    "university",
	"vol.":    "volume",
	"vols.":   "volumes",
	"vol":     "volume",
	"ed.":     "edition",
	"eds.":    "editions",
	"rev.":    "revised",
	"pub.":    "publisher",
	"pubs.":   "publishers",
	"publ.":   "publisher",
	"bros.":   "brothers",
	"bro.":    "brother",
	"&":       "and",
	"soc.":    "society",
	"natl.":   "national",
	"intl.":   "international",
	"govt.":   "government",
	"st.":     "saint",
	"mr.":     "mister",
	"mrs.":    "mistress",
	"jr.":     "junior",
	"sr.":     "senior",
	"no.":     "number",
	"nos.":    "numbers",
	"pp.":     "pages",
	"p.":      "page",
	"illus.":  "illustrated",
	"trans.":  "translated",
	"introd.": "introduction",
}

// ExpandAbbreviations replaces recognized bibliographic abbreviations with
// their expanded form, token by token, preferring the longest matching key
// when a token (with or without its trailing period) could match more than
// one table entry.
func ExpandAbbreviations(s string, table map[string]string) string {
	if len(table) == 0 {
		return s
	}
	tokens := strings.Fields(s)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if rep, ok := lookupAbbreviation(tok, table); ok {
			out = append(out, rep)
			continue
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

func lookupAbbreviation(tok string, table map[string]string) (string, bool) {
	lower := strings.ToLower(tok)
	candidates := []string{lower}
	if !strings.HasSuffix(lower, ".") {
		candidates = append(candidates, lower+".")
	} else {
		candidates = append(candidates, strings.TrimSuffix(lower, "."))
	}
	// Longest-match: sort candidates by length, descending.
	sort.Slice(candidates, func(i, j int) bool { return len(candidates[i]) > len(candidates[j]) })
	for _, c := range candidates {
		if rep, ok := table[c]; ok {
			return rep, true
		}
	}
	return "", false
}
