package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
)

// renewalColumns names the expected header of the renewal-TSV corpus, in
// order.
var renewalColumns = []string{"id", "title", "author", "publisher", "pub_date", "lccn", "country", "language", "full_text"}

// LoadRenewals parses a tab-separated renewal corpus (header row
// required) into Publications with source_kind = Renewal. full_text is
// the only field populated here that registrations/MARC never carry.
func LoadRenewals(r io.Reader) ([]domain.Publication, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("loader: renewal tsv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, want := range renewalColumns {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("loader: renewal tsv missing column %q", want)
		}
	}

	var pubs []domain.Publication
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: renewal tsv row: %w", err)
		}
		title := removeBracketedAtLoad(row[col["title"]])
		if title == "" {
			continue
		}
		lccn := row[col["lccn"]]
		pub := domain.Publication{
			SourceID:       row[col["id"]],
			SourceKind:     domain.SourceRenewal,
			Title:          title,
			Author:         strings.TrimSpace(row[col["author"]]),
			Publisher:      strings.TrimSpace(row[col["publisher"]]),
			PubDate:        strings.TrimSpace(row[col["pub_date"]]),
			LCCN:           lccn,
			NormalizedLCCN: NormalizeLCCN(lccn),
			CountryCode:    strings.TrimSpace(row[col["country"]]),
			LanguageCode:   strings.TrimSpace(row[col["language"]]),
			FullText:       row[col["full_text"]],
		}
		pub.CountryClassification = classifyCountry(pub.CountryCode)
		if m := yearPattern.FindString(pub.PubDate); m != "" {
			y := 0
			fmt.Sscanf(m, "%d", &y)
			pub.Year = &y
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
