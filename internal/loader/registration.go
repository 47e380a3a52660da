package loader

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
)

// registrationEntry is the narrow shape of one copyright-registration
// record in the registration-XML corpus.
type registrationEntry struct {
	ID        string `xml:"id,attr"`
	Title     string `xml:"title"`
	Author    string `xml:"author"`
	Publisher string `xml:"publisher"`
	PubDate   string `xml:"pub_date"`
	LCCN      string `xml:"lccn"`
	Country   string `xml:"country"`
	Language  string `xml:"language"`
}

type registrationCollection struct {
	XMLName xml.Name            `xml:"registrations"`
	Entries []registrationEntry `xml:"entry"`
}

// LoadRegistrations parses the registration-XML corpus into Publications
// with source_kind = Registration.
func LoadRegistrations(r io.Reader) ([]domain.Publication, error) {
	var coll registrationCollection
	if err := xml.NewDecoder(r).Decode(&coll); err != nil {
		return nil, fmt.Errorf("loader: registration xml: %w", err)
	}
	pubs := make([]domain.Publication, 0, len(coll.Entries))
	for _, e := range coll.Entries {
		title := removeBracketedAtLoad(e.Title)
		if title == "" {
			continue
		}
		pub := domain.Publication{
			SourceID:       e.ID,
			SourceKind:     domain.SourceRegistration,
			Title:          title,
			Author:         strings.TrimSpace(e.Author),
			Publisher:      strings.TrimSpace(e.Publisher),
			PubDate:        strings.TrimSpace(e.PubDate),
			LCCN:           strings.TrimSpace(e.LCCN),
			NormalizedLCCN: NormalizeLCCN(e.LCCN),
			CountryCode:    strings.TrimSpace(e.Country),
			LanguageCode:   strings.TrimSpace(e.Language),
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
