package loader

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/batch"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
)

const sampleMARCXML = `<?xml version="1.0"?>
<collection>
  <record>
    <controlfield tag="001">marc-1</controlfield>
    <controlfield tag="008">230101s1925    xxu                 eng d</controlfield>
    <datafield tag="245"><subfield code="a">The Great Gatsby</subfield></datafield>
    <datafield tag="100"><subfield code="a">Fitzgerald, F. Scott,</subfield><subfield code="c">1896-1940.</subfield></datafield>
    <datafield tag="260"><subfield code="b">Scribner</subfield><subfield code="c">1925.</subfield></datafield>
    <datafield tag="010"><subfield code="a">25012345</subfield></datafield>
  </record>
  <record>
    <controlfield tag="001">marc-2</controlfield>
    <datafield tag="245"><subfield code="a">[no title data]</subfield></datafield>
  </record>
</collection>`

func TestLoadMARC(t *testing.T) {
	pubs, err := LoadMARC(strings.NewReader(sampleMARCXML))
	require.NoError(t, err)
	require.Len(t, pubs, 1) // second record's title folds to empty and is rejected

	p := pubs[0]
	assert.Equal(t, "marc-1", p.SourceID)
	assert.Equal(t, "The Great Gatsby", p.Title)
	assert.Equal(t, "Scribner", p.Publisher)
	assert.Equal(t, "25012345", p.NormalizedLCCN)
	require.NotNil(t, p.Year)
	assert.Equal(t, 1925, *p.Year)
	assert.Equal(t, domain.CountryUS, p.CountryClassification)
}

const sampleRegistrationXML = `<registrations>
  <entry id="reg-1">
    <title>The Great Gatsby</title>
    <author>Fitzgerald, F. Scott</author>
    <publisher>Scribner</publisher>
    <pub_date>1925</pub_date>
    <lccn>25012345</lccn>
    <country>xxu</country>
    <language>eng</language>
  </entry>
</registrations>`

func TestLoadRegistrations(t *testing.T) {
	pubs, err := LoadRegistrations(strings.NewReader(sampleRegistrationXML))
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, domain.SourceRegistration, pubs[0].SourceKind)
	assert.Equal(t, "25012345", pubs[0].NormalizedLCCN)
}

const sampleRenewalTSV = "id\ttitle\tauthor\tpublisher\tpub_date\tlccn\tcountry\tlanguage\tfull_text\n" +
	"ren-1\tFederal Tax Guide\tAcme Corp\t\t1962\t\txxu\teng\tThis edition published by the Acme Publishing Company\n"

func TestLoadRenewals(t *testing.T) {
	pubs, err := LoadRenewals(strings.NewReader(sampleRenewalTSV))
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, domain.SourceRenewal, pubs[0].SourceKind)
	assert.Contains(t, pubs[0].FullText, "Acme Publishing Company")
}

func TestBatchFileRoundTripDeletesInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch-0.gob")
	pubs := []domain.Publication{{SourceID: "p1", Title: "A Title"}}

	require.NoError(t, WriteBatchFile(path, pubs))
	got, err := ReadBatchFile(path)
	require.NoError(t, err)
	assert.Equal(t, pubs, got)

	_, err = ReadBatchFile(path)
	assert.Error(t, err)
}

func TestResultAndStatsFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	resultPath := filepath.Join(dir, "result.gob")
	statsPath := filepath.Join(dir, "stats.gob")

	pubs := []domain.Publication{{SourceID: "p1", Title: "A Title", CopyrightStatus: "UNKNOWN"}}
	require.NoError(t, WriteResultFile(resultPath, pubs))
	gotPubs, err := ReadResultFile(resultPath)
	require.NoError(t, err)
	assert.Equal(t, pubs, gotPubs)

	stats := batch.Stats{BatchID: 3, TotalRecords: 1, StatusCounts: map[string]int{"UNKNOWN": 1}}
	require.NoError(t, WriteStatsFile(statsPath, stats))
	gotStats, err := ReadStatsFile(statsPath)
	require.NoError(t, err)
	assert.Equal(t, stats, gotStats)
}
