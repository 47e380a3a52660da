// Package export provides reference CSV/JSON exporters for processed
// publications. Exporters are external collaborators per the
// specification, but are implemented concretely here so the CLI runs end
// to end; they read result files written by internal/loader and restore
// input order via (batch_id, within_batch_index), as required by the
// core's ordering guarantee.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
)

// Sort orders publications by (BatchID, WithinBatchIndex), the ordering
// required once per-batch results (which complete in arbitrary order)
// need to be rendered in original input order.
func Sort(pubs []domain.Publication) {
	sort.SliceStable(pubs, func(i, j int) bool {
		if pubs[i].BatchID != pubs[j].BatchID {
			return pubs[i].BatchID < pubs[j].BatchID
		}
		return pubs[i].WithinBatchIndex < pubs[j].WithinBatchIndex
	})
}

var csvHeader = []string{
	"source_id", "title", "author", "publisher", "year", "copyright_status",
	"registration_match_id", "registration_combined_score",
	"renewal_match_id", "renewal_combined_score",
}

// WriteCSV writes pubs (already sorted by the caller, typically via Sort)
// as CSV to w.
func WriteCSV(w io.Writer, pubs []domain.Publication) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: csv header: %w", err)
	}
	for _, p := range pubs {
		year := ""
		if p.Year != nil {
			year = strconv.Itoa(*p.Year)
		}
		regID, regScore := "", ""
		if p.RegistrationMatch != nil {
			regID = p.RegistrationMatch.SourceID
			regScore = strconv.FormatFloat(p.RegistrationMatch.CombinedScore, 'f', 2, 64)
		}
		renID, renScore := "", ""
		if p.RenewalMatch != nil {
			renID = p.RenewalMatch.SourceID
			renScore = strconv.FormatFloat(p.RenewalMatch.CombinedScore, 'f', 2, 64)
		}
		row := []string{
			p.SourceID, p.Title, p.Author, p.Publisher, year, p.CopyrightStatus,
			regID, regScore, renID, renScore,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: csv row for %s: %w", p.SourceID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes pubs as a JSON array to w.
func WriteJSON(w io.Writer, pubs []domain.Publication) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pubs); err != nil {
		return fmt.Errorf("export: json: %w", err)
	}
	return nil
}
