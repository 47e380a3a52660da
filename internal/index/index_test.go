package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
)

func testNorm() *normalize.Normalizer {
	return normalize.New(normalize.Options{
		EnableStemming:              true,
		EnableAbbreviationExpansion: true,
		DefaultLanguage:             normalize.LangEnglish,
	})
}

func samplePubs() []domain.Publication {
	y1925 := 1925
	y1949 := 1949
	return []domain.Publication{
		{SourceID: "r1", Title: "The Great Gatsby", Author: "Fitzgerald, F. Scott", Publisher: "Scribner", Year: &y1925, NormalizedLCCN: "25012345"},
		{SourceID: "r2", Title: "Nineteen Eighty-Four", Author: "Orwell, George", Publisher: "Secker and Warburg", Year: &y1949},
	}
}

func TestIndexRoundTrip(t *testing.T) {
	norm := testNorm()
	pubs := samplePubs()
	idx := Build(norm, pubs)

	candidates := idx.FindCandidates(Query{Title: "The Great Gatsby", Author: "Fitzgerald, F. Scott"}, norm, 1)
	assert.Contains(t, candidates, int32(0))
}

func TestFindCandidatesByLCCN(t *testing.T) {
	norm := testNorm()
	pubs := samplePubs()
	idx := Build(norm, pubs)

	candidates := idx.FindCandidates(Query{NormalizedLCCN: "25012345"}, norm, 1)
	assert.Equal(t, map[int32]struct{}{0: {}}, candidates)
}

func TestFindCandidatesYearPrunes(t *testing.T) {
	norm := testNorm()
	pubs := samplePubs()
	idx := Build(norm, pubs)

	year := 1925
	candidates := idx.FindCandidates(Query{Title: "The Great Gatsby", Year: &year}, norm, 0)
	assert.Contains(t, candidates, int32(0))
	assert.NotContains(t, candidates, int32(1))
}

func TestBuildParallelMatchesSequentialForSmallInput(t *testing.T) {
	norm := testNorm()
	pubs := samplePubs()
	seq := Build(norm, pubs)
	par := BuildParallel(norm, pubs, 4)

	for _, q := range []Query{
		{Title: "The Great Gatsby", Author: "Fitzgerald, F. Scott"},
		{NormalizedLCCN: "25012345"},
	} {
		assert.Equal(t, seq.FindCandidates(q, norm, 1), par.FindCandidates(q, norm, 1))
	}
}

func TestBuildParallelLargeInput(t *testing.T) {
	norm := testNorm()
	base := samplePubs()
	pubs := make([]domain.Publication, 0, 1200)
	for i := 0; i < 600; i++ {
		pubs = append(pubs, base...)
	}
	idx := BuildParallel(norm, pubs, 4)
	assert.Equal(t, len(pubs), idx.Len())

	candidates := idx.FindCandidates(Query{NormalizedLCCN: "25012345"}, norm, 1)
	assert.Equal(t, 600, len(candidates))
}

func TestSnapshotRoundTrip(t *testing.T) {
	norm := testNorm()
	pubs := samplePubs()
	idx := Build(norm, pubs)

	restored := FromSnapshot(idx.Snapshot())
	assert.Equal(t, idx.Len(), restored.Len())

	candidates := restored.FindCandidates(Query{NormalizedLCCN: "25012345"}, norm, 1)
	assert.Equal(t, map[int32]struct{}{0: {}}, candidates)

	title := restored.FindCandidates(Query{Title: "The Great Gatsby", Author: "Fitzgerald, F. Scott"}, norm, 1)
	assert.Equal(t, idx.FindCandidates(Query{Title: "The Great Gatsby", Author: "Fitzgerald, F. Scott"}, norm, 1), title)
}

func TestAuthorKeysBothNameOrders(t *testing.T) {
	lastFirst := authorKeys("Orwell, George")
	firstLast := authorKeys("George Orwell")
	assert.Contains(t, lastFirst, "orwell")
	assert.Contains(t, firstLast, "orwell")
}
