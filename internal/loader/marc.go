// Package loader provides reference implementations of the external
// collaborators named in the specification: MARC21/registration/renewal
// parsing and gob-encoded batch/result/stats file I/O. None of this is
// part of the matching pipeline's hard-engineering core; it exists so
// the CLI is runnable end to end.
package loader

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
)

// marcXMLRecord mirrors the MARCXML <record> shape narrowly: just the
// control field and the datafields/subfields the pipeline's fields come
// from, not a general-purpose MARC library.
type marcXMLRecord struct {
	ControlFields []struct {
		Tag   string `xml:"tag,attr"`
		Value string `xml:",chardata"`
	} `xml:"controlfield"`
	DataFields []struct {
		Tag       string `xml:"tag,attr"`
		Subfields []struct {
			Code  string `xml:"code,attr"`
			Value string `xml:",chardata"`
		} `xml:"subfield"`
	} `xml:"datafield"`
}

type marcXMLCollection struct {
	XMLName xml.Name        `xml:"collection"`
	Records []marcXMLRecord `xml:"record"`
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// LoadMARC streams MARCXML <record> elements and maps them to
// Publications with source_kind = MARC. Uses a streaming xml.Decoder
// (token-by-token, like the teacher's own XML tokenizer) rather than
// unmarshaling the whole collection at once, so large catalogs don't
// need to fit in memory as a single DOM.
func LoadMARC(r io.Reader) ([]domain.Publication, error) {
	decoder := xml.NewDecoder(r)
	var pubs []domain.Publication

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: marc xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "record" {
			continue
		}
		var rec marcXMLRecord
		if err := decoder.DecodeElement(&rec, &start); err != nil {
			return nil, fmt.Errorf("loader: marc record: %w", err)
		}
		pub := marcRecordToPublication(rec)
		if pub.Title == "" {
			continue // empty-title records are rejected upstream per spec
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

func marcRecordToPublication(rec marcXMLRecord) domain.Publication {
	pub := domain.Publication{SourceKind: domain.SourceMARC}

	for _, cf := range rec.ControlFields {
		switch cf.Tag {
		case "001":
			pub.SourceID = strings.TrimSpace(cf.Value)
		case "008":
			if raw := cf.Value; len(raw) >= 38 {
				pub.CountryCode = strings.TrimSpace(raw[15:18])
				pub.LanguageCode = strings.TrimSpace(raw[35:38])
			}
		}
	}

	for _, df := range rec.DataFields {
		switch df.Tag {
		case "245":
			pub.Title = removeBracketedAtLoad(joinSubfields(df.Subfields, "a", "b"))
		case "100", "110", "111":
			pub.MainAuthor = stripTrailingDates(joinSubfields(df.Subfields, "a", "b", "c"))
		case "700":
			if pub.Author == "" {
				pub.Author = joinSubfields(df.Subfields, "a", "b", "c")
			}
		case "260", "264":
			pub.Publisher = joinSubfields(df.Subfields, "b")
			pub.Place = joinSubfields(df.Subfields, "a")
			pub.PubDate = joinSubfields(df.Subfields, "c")
		case "250":
			pub.Edition = joinSubfields(df.Subfields, "a")
		case "010":
			pub.LCCN = joinSubfields(df.Subfields, "a")
		}
	}

	if pub.PubDate != "" {
		if m := yearPattern.FindString(pub.PubDate); m != "" {
			y := 0
			fmt.Sscanf(m, "%d", &y)
			pub.Year = &y
		}
	}
	pub.NormalizedLCCN = NormalizeLCCN(pub.LCCN)
	pub.CountryClassification = classifyCountry(pub.CountryCode)
	return pub
}

func joinSubfields(subfields []struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}, codes ...string) string {
	want := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		want[c] = struct{}{}
	}
	var parts []string
	for _, sf := range subfields {
		if _, ok := want[sf.Code]; ok {
			v := strings.TrimSpace(sf.Value)
			if v != "" {
				parts = append(parts, v)
			}
		}
	}
	return strings.Join(parts, " ")
}

// removeBracketedAtLoad strips bracketed content from a title at load
// time, before any downstream normalization runs.
func removeBracketedAtLoad(title string) string {
	depth := 0
	var out strings.Builder
	for _, r := range title {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				out.WriteRune(r)
			}
		}
	}
	return strings.Join(strings.Fields(out.String()), " ")
}

// stripTrailingDates removes a trailing MARC-style "1899-1963" or
// "1899-" life-dates suffix from a 1xx heading, producing main_author.
var trailingDates = regexp.MustCompile(`,?\s*\d{4}-(\d{4})?\.?\s*$`)

func stripTrailingDates(s string) string {
	return strings.TrimSpace(trailingDates.ReplaceAllString(s, ""))
}

// NormalizeLCCN canonicalizes a raw LCCN to its digits-only form.
func NormalizeLCCN(raw string) string {
	var out strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// usCountryCodes is the set of MARC country codes classified as US for
// the purposes of the copyright-status decision.
var usCountryCodes = map[string]struct{}{
	"xxu": {}, "nyu": {}, "cau": {}, "ilu": {}, "mau": {}, "pau": {},
	"dcu": {}, "txu": {}, "ohu": {}, "flu": {},
}

func classifyCountry(code string) domain.CountryClass {
	if code == "" {
		return domain.CountryUnknown
	}
	if _, ok := usCountryCodes[code]; ok {
		return domain.CountryUS
	}
	return domain.CountryNonUS
}
