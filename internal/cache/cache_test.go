package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/index"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	err = store.Put("k1", []byte("hello world"))
	require.NoError(t, err)

	got, ok, err := store.Get("k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("hello world"), got)
}

func TestGetMiss(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutGetIndexerRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	norm := normalize.New(normalize.Options{DefaultLanguage: normalize.LangEnglish})
	year := 1925
	pubs := []domain.Publication{
		{SourceID: "r1", Title: "The Great Gatsby", Author: "Fitzgerald, F. Scott", Year: &year, NormalizedLCCN: "25012345"},
	}
	idx := index.Build(norm, pubs)

	require.NoError(t, store.PutIndexer("idx-key", idx))

	restored, ok, err := store.GetIndexer("idx-key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, idx.Len(), restored.Len())

	candidates := restored.FindCandidates(index.Query{NormalizedLCCN: "25012345"}, norm, 1)
	assert.Equal(t, map[int32]struct{}{0: {}}, candidates)
}

func TestGetIndexerMiss(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.GetIndexer("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("fp1", "fp2", "cfg", 1920, 1970, false)
	b := Key("fp1", "fp2", "cfg", 1920, 1970, false)
	assert.Equal(t, a, b)

	c := Key("fp1", "fp2", "cfg", 1920, 1971, false)
	assert.NotEqual(t, a, c)
}
