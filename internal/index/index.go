// Package index implements DataIndexer: a word-based multi-field index
// over publications (title, author, publisher, year, LCCN) that maps
// normalized keys to publication ids and produces a small candidate set
// for a query record. Once built, an Indexer is read-only and safe to
// share across worker goroutines without any locking, the same
// immutable-after-construction sharing the matching pipeline relies on.
package index

import (
	"sync"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
)

// parallelBuildMinPubs is the input-size floor below which the parallel
// chunk/merge build falls back to sequential, since chunking overhead
// isn't worth it for small corpora.
const parallelBuildMinPubs = 1000

// chunkFactor is how many chunks to create per worker for load balancing.
const chunkFactor = 4

// Indexer is the built, read-only index over one corpus (registration or
// renewal).
type Indexer struct {
	publications []domain.Publication

	titleIndex     map[string]*domain.IndexEntry
	authorIndex    map[string]*domain.IndexEntry
	publisherIndex map[string]*domain.IndexEntry
	yearIndex      map[string]*domain.IndexEntry
	lccnIndex      map[string]*domain.IndexEntry
}

// Publication returns the publication at id, the caller's responsibility
// to bounds-check via Len if it came from an untrusted source.
func (idx *Indexer) Publication(id int32) *domain.Publication {
	return &idx.publications[id]
}

func (idx *Indexer) Len() int { return len(idx.publications) }

// Publications returns the corpus the index was built over, used to
// repopulate the generic-title frequency map on a cache hit without
// re-reading the source corpus file.
func (idx *Indexer) Publications() []domain.Publication { return idx.publications }

// Snapshot is the gob-serializable form of an Indexer, used to persist a
// built index to the cache store and reconstitute it on a cache hit
// without re-deriving every key from the source corpus.
type Snapshot struct {
	Publications   []domain.Publication
	TitleIndex     map[string][]int32
	AuthorIndex    map[string][]int32
	PublisherIndex map[string][]int32
	YearIndex      map[string][]int32
	LCCNIndex      map[string][]int32
}

func flatten(m map[string]*domain.IndexEntry) map[string][]int32 {
	out := make(map[string][]int32, len(m))
	for k, entry := range m {
		out[k] = entry.Ids()
	}
	return out
}

func unflatten(m map[string][]int32) map[string]*domain.IndexEntry {
	out := make(map[string]*domain.IndexEntry, len(m))
	for k, ids := range m {
		if len(ids) == 0 {
			continue
		}
		entry := domain.NewIndexEntry(ids[0])
		for _, id := range ids[1:] {
			entry.Add(id)
		}
		out[k] = entry
	}
	return out
}

// Snapshot captures idx in gob-serializable form.
func (idx *Indexer) Snapshot() Snapshot {
	return Snapshot{
		Publications:   idx.publications,
		TitleIndex:     flatten(idx.titleIndex),
		AuthorIndex:    flatten(idx.authorIndex),
		PublisherIndex: flatten(idx.publisherIndex),
		YearIndex:      flatten(idx.yearIndex),
		LCCNIndex:      flatten(idx.lccnIndex),
	}
}

// FromSnapshot rebuilds an Indexer from a previously captured Snapshot,
// the cache-hit path that avoids re-deriving keys from the source corpus.
func FromSnapshot(s Snapshot) *Indexer {
	return &Indexer{
		publications:   s.Publications,
		titleIndex:     unflatten(s.TitleIndex),
		authorIndex:    unflatten(s.AuthorIndex),
		publisherIndex: unflatten(s.PublisherIndex),
		yearIndex:      unflatten(s.YearIndex),
		lccnIndex:      unflatten(s.LCCNIndex),
	}
}

func newEmptyIndexer() *Indexer {
	return &Indexer{
		titleIndex:     make(map[string]*domain.IndexEntry),
		authorIndex:    make(map[string]*domain.IndexEntry),
		publisherIndex: make(map[string]*domain.IndexEntry),
		yearIndex:      make(map[string]*domain.IndexEntry),
		lccnIndex:      make(map[string]*domain.IndexEntry),
	}
}

func addKeys(m map[string]*domain.IndexEntry, keys []string, id int32) {
	for _, k := range keys {
		if entry, ok := m[k]; ok {
			entry.Add(id)
		} else {
			m[k] = domain.NewIndexEntry(id)
		}
	}
}

// indexOne derives every key set for pub and attributes them to id in the
// given maps.
func indexOne(norm *normalize.Normalizer, pub *domain.Publication, id int32, maps *Indexer) {
	lang := fieldLanguage(pub.LanguageCode)

	titleTokens := norm.Tokens(pub.Title, lang, normalize.FieldTitle)
	addKeys(maps.titleIndex, titleKeys(titleTokens), id)

	authorSource := pub.Author
	if authorSource == "" {
		authorSource = pub.MainAuthor
	}
	addKeys(maps.authorIndex, authorKeys(authorSource), id)

	publisherTokens := norm.Tokens(pub.Publisher, lang, normalize.FieldPublisher)
	addKeys(maps.publisherIndex, publisherKeys(publisherTokens), id)

	if pub.Year != nil {
		addKeys(maps.yearIndex, []string{yearKey(*pub.Year)}, id)
	}
	if pub.NormalizedLCCN != "" {
		addKeys(maps.lccnIndex, []string{pub.NormalizedLCCN}, id)
	}
}

// Build indexes publications sequentially.
func Build(norm *normalize.Normalizer, publications []domain.Publication) *Indexer {
	idx := newEmptyIndexer()
	idx.publications = publications
	for i := range publications {
		indexOne(norm, &publications[i], int32(i), idx)
	}
	return idx
}

// BuildParallel splits publications into chunk-per-goroutine batches
// (≥4× numWorkers chunks for load balancing), builds a partial index per
// chunk, then merges the partial maps preserving global ids. Falls back
// to the sequential build when the input is small or a single worker is
// requested, per the specification.
func BuildParallel(norm *normalize.Normalizer, publications []domain.Publication, numWorkers int) *Indexer {
	if numWorkers <= 1 || len(publications) < parallelBuildMinPubs {
		return Build(norm, publications)
	}

	numChunks := numWorkers * chunkFactor
	if numChunks > len(publications) {
		numChunks = len(publications)
	}
	chunkSize := (len(publications) + numChunks - 1) / numChunks

	partials := make([]*Indexer, numChunks)
	sem := make(chan struct{}, maxInt(numWorkers, 1))
	var wg sync.WaitGroup

	for c := 0; c < numChunks; c++ {
		start := c * chunkSize
		end := start + chunkSize
		if start >= len(publications) {
			partials[c] = newEmptyIndexer()
			continue
		}
		if end > len(publications) {
			end = len(publications)
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(chunkIdx, start, end int) {
			defer wg.Done()
			defer func() { <-sem }()
			partial := newEmptyIndexer()
			for i := start; i < end; i++ {
				indexOne(norm, &publications[i], int32(i), partial)
			}
			partials[chunkIdx] = partial
		}(c, start, end)
	}
	wg.Wait()

	merged := newEmptyIndexer()
	merged.publications = publications
	for _, p := range partials {
		mergeInto(merged.titleIndex, p.titleIndex)
		mergeInto(merged.authorIndex, p.authorIndex)
		mergeInto(merged.publisherIndex, p.publisherIndex)
		mergeInto(merged.yearIndex, p.yearIndex)
		mergeInto(merged.lccnIndex, p.lccnIndex)
	}
	return merged
}

func mergeInto(dst, src map[string]*domain.IndexEntry) {
	for k, entry := range src {
		for _, id := range entry.Ids() {
			if existing, ok := dst[k]; ok {
				existing.Add(id)
			} else {
				dst[k] = domain.NewIndexEntry(id)
			}
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Query carries the fields find_candidates needs from a MARC record.
type Query struct {
	Title          string
	Author         string
	MainAuthor     string
	Publisher      string
	Year           *int
	NormalizedLCCN string
	Language       string
}

// FindCandidates returns the candidate publication ids for a query,
// implementing the priority rules from the specification: an LCCN hit
// short-circuits everything else; otherwise title/author/publisher sets
// are combined preferring intersection for precision and falling back to
// union for recall, then pruned by the year set (expanded by
// yearTolerance) if one exists.
func (idx *Indexer) FindCandidates(q Query, norm *normalize.Normalizer, yearTolerance int) map[int32]struct{} {
	if q.NormalizedLCCN != "" {
		if entry, ok := idx.lccnIndex[q.NormalizedLCCN]; ok {
			return toSet(entry.Ids())
		}
	}

	lang := fieldLanguage(q.Language)

	titleSet := idx.lookupSet(idx.titleIndex, titleKeys(norm.Tokens(q.Title, lang, normalize.FieldTitle)))

	authorSource := q.Author
	if authorSource == "" {
		authorSource = q.MainAuthor
	}
	authorSet := idx.lookupSet(idx.authorIndex, authorKeys(authorSource))

	publisherSet := idx.lookupSet(idx.publisherIndex, publisherKeys(norm.Tokens(q.Publisher, lang, normalize.FieldPublisher)))

	var yearSet map[int32]struct{}
	if q.Year != nil {
		yearSet = make(map[int32]struct{})
		for y := *q.Year - yearTolerance; y <= *q.Year+yearTolerance; y++ {
			if entry, ok := idx.yearIndex[yearKey(y)]; ok {
				for _, id := range entry.Ids() {
					yearSet[id] = struct{}{}
				}
			}
		}
	}

	chosen := combineFieldSets(titleSet, authorSet, publisherSet, yearSet)

	if yearSet != nil && len(chosen) > 0 {
		chosen = intersect(chosen, yearSet)
	}
	return chosen
}

func (idx *Indexer) lookupSet(m map[string]*domain.IndexEntry, keys []string) map[int32]struct{} {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[int32]struct{})
	for _, k := range keys {
		if entry, ok := m[k]; ok {
			for _, id := range entry.Ids() {
				set[id] = struct{}{}
			}
		}
	}
	return set
}

// combineFieldSets applies the priority order from the specification:
// title∩author∩publisher → title∩author (∪publisher) → title∩publisher →
// union(title,author,publisher) → year set as last resort.
func combineFieldSets(title, author, publisher, year map[int32]struct{}) map[int32]struct{} {
	tap := intersect(intersect(title, author), publisher)
	if len(tap) > 0 {
		return tap
	}
	ta := intersect(title, author)
	if len(ta) > 0 {
		return union(ta, publisher)
	}
	tp := intersect(title, publisher)
	if len(tp) > 0 {
		return tp
	}
	all := union(union(title, author), publisher)
	if len(all) > 0 {
		return all
	}
	if len(year) > 0 {
		return year
	}
	return map[int32]struct{}{}
}

func intersect(a, b map[int32]struct{}) map[int32]struct{} {
	if a == nil || b == nil {
		return map[int32]struct{}{}
	}
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	out := make(map[int32]struct{})
	for id := range small {
		if _, ok := big[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func union(a, b map[int32]struct{}) map[int32]struct{} {
	out := make(map[int32]struct{}, len(a)+len(b))
	for id := range a {
		out[id] = struct{}{}
	}
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

func toSet(ids []int32) map[int32]struct{} {
	out := make(map[int32]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
