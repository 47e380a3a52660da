package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
)

func TestSortRestoresOrder(t *testing.T) {
	pubs := []domain.Publication{
		{SourceID: "b", BatchID: 1, WithinBatchIndex: 0},
		{SourceID: "a", BatchID: 0, WithinBatchIndex: 1},
		{SourceID: "c", BatchID: 0, WithinBatchIndex: 0},
	}
	Sort(pubs)
	assert.Equal(t, []string{"c", "a", "b"}, []string{pubs[0].SourceID, pubs[1].SourceID, pubs[2].SourceID})
}

func TestWriteCSV(t *testing.T) {
	year := 1925
	pubs := []domain.Publication{
		{
			SourceID: "marc-1", Title: "The Great Gatsby", Year: &year, CopyrightStatus: "IN_COPYRIGHT",
			RegistrationMatch: &domain.MatchResult{SourceID: "reg-1", CombinedScore: 95.5},
		},
	}
	buf := &bytes.Buffer{}
	require.NoError(t, WriteCSV(buf, pubs))

	reader := csv.NewReader(buf)
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "marc-1", rows[1][0])
	assert.Equal(t, "1925", rows[1][4])
	assert.Equal(t, "IN_COPYRIGHT", rows[1][5])
	assert.Equal(t, "reg-1", rows[1][6])
}

func TestWriteJSON(t *testing.T) {
	pubs := []domain.Publication{{SourceID: "marc-1", Title: "A Title"}}
	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSON(buf, pubs))
	assert.Contains(t, buf.String(), `"SourceID": "marc-1"`)
}
