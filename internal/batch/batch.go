// Package batch implements BatchExecutor: process-based parallelism from
// the specification is modeled as a goroutine worker pool, since Go has
// no fork/COW distinction worth preserving and the two indexes can be
// shared immutably across goroutines without copying. Workers are fed
// over a bounded channel; results stream back over a second channel that
// the main goroutine drains and aggregates, matching the "Coroutine /
// multiprocessing model" design note.
package batch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pbnjay/memory"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/config"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/index"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/logging"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/matcher"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/status"
)

// Batch is one shard of MARC publications to process, already in memory
// (loaded from its input file by the caller — see internal/loader).
type Batch struct {
	ID           int
	Publications []domain.Publication
}

// Stats is the small per-batch counts object streamed alongside results,
// matching §6's stats-file schema.
type Stats struct {
	BatchID              int
	TotalRecords         int
	RegistrationMatches  int
	RenewalMatches       int
	SkippedNoYear        int
	SkippedOutOfRange    int // always 0: no min/max year record filter is wired in; reserved for the stats schema
	SkippedNonUS         int
	RecordsWithErrors    int
	StatusCounts         map[string]int
}

func newStats(batchID int) Stats {
	return Stats{BatchID: batchID, StatusCounts: make(map[string]int)}
}

// Result pairs one batch's processed publications with its stats.
type Result struct {
	BatchID      int
	Publications []domain.Publication
	Stats        Stats
}

// Registries bundles the two read-only indexes a worker queries.
type Registries struct {
	Registration *index.Indexer
	Renewal      *index.Indexer
}

// Executor runs batches against a shared set of indexes using a fixed
// worker pool.
type Executor struct {
	cfg        config.Config
	matcher    *matcher.Matcher
	registries Registries
	logger     *logging.Logger
	norm       *normalize.Normalizer
}

func New(cfg config.Config, m *matcher.Matcher, registries Registries, norm *normalize.Normalizer, logger *logging.Logger) *Executor {
	return &Executor{cfg: cfg, matcher: m, registries: registries, norm: norm, logger: logger}
}

// Run dispatches batches to a pool of cfg.NumWorkers goroutines and
// returns results as they complete, in arbitrary (batch-completion)
// order — callers that need input order must sort by
// (batch_id, within_batch_index), both of which are carried on every
// Publication. Run blocks until every batch has been processed or ctx is
// canceled.
func (e *Executor) Run(ctx context.Context, batches []Batch) []Result {
	e.logMemoryAdvisory()

	in := make(chan Batch)
	out := make(chan Result)

	var wg sync.WaitGroup
	for w := 0; w < e.cfg.NumWorkers; w++ {
		wg.Add(1)
		go e.worker(ctx, in, out, &wg)
	}

	go func() {
		defer close(in)
		for _, b := range batches {
			select {
			case in <- b:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]Result, 0, len(batches))
	start := time.Now()
	processed := 0
	for r := range out {
		results = append(results, r)
		processed += r.Stats.TotalRecords
		if e.logger != nil {
			e.logger.Progress("batch %d done: %s", r.BatchID, logging.Throughput(processed, time.Since(start)))
		}
	}
	return results
}

func (e *Executor) worker(ctx context.Context, in <-chan Batch, out chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case b, ok := <-in:
			if !ok {
				return
			}
			result := e.processBatch(b)
			select {
			case out <- result:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// processBatch implements the per-batch worker workflow from §4.7: for
// each publication, skip if it has no year (unless brute-force mode is
// on), otherwise query both indexes through CoreMatcher, attach results,
// and decide status. A panic or error scoring one record is swallowed
// and counted, never fatal to the batch.
func (e *Executor) processBatch(b Batch) Result {
	stats := newStats(b.ID)
	stats.TotalRecords = len(b.Publications)
	out := make([]domain.Publication, 0, len(b.Publications))

	for i := range b.Publications {
		pub := b.Publications[i]
		pub.BatchID = b.ID
		pub.WithinBatchIndex = i

		if pub.Year == nil && !e.cfg.BruteForceMissingYear {
			stats.SkippedNoYear++
			out = append(out, pub)
			continue
		}

		e.matchOne(&pub, &stats)
		out = append(out, pub)
	}

	return Result{BatchID: b.ID, Publications: out, Stats: stats}
}

func (e *Executor) matchOne(pub *domain.Publication, stats *Stats) {
	defer func() {
		if r := recover(); r != nil {
			stats.RecordsWithErrors++
			if e.logger != nil {
				e.logger.Debug("match error for %s: %v", pub.SourceID, r)
			}
		}
	}()

	if e.registries.Registration != nil {
		if cands := e.candidatesFor(e.registries.Registration, pub, domain.SourceTypeRegistration); len(cands) > 0 {
			if result := e.findMatch(pub, cands); result != nil {
				pub.RegistrationMatch = result
				stats.RegistrationMatches++
			}
		}
	}
	if e.registries.Renewal != nil {
		if cands := e.candidatesFor(e.registries.Renewal, pub, domain.SourceTypeRenewal); len(cands) > 0 {
			if result := e.findMatch(pub, cands); result != nil {
				pub.RenewalMatch = result
				stats.RenewalMatches++
			}
		}
	}

	pub.CopyrightStatus = status.Decide(pub.RegistrationMatch, pub.RenewalMatch, pub.CountryClassification, pub.Year)
	stats.StatusCounts[pub.CopyrightStatus]++
	if pub.CountryClassification == domain.CountryNonUS {
		stats.SkippedNonUS++
	}
}

func (e *Executor) findMatch(pub *domain.Publication, cands []matcher.Candidate) *domain.MatchResult {
	if e.cfg.ScoreEverythingMode {
		return e.matcher.FindBestMatchIgnoreThresholds(pub, cands, e.cfg.Thresholds.MinimumCombined)
	}
	return e.matcher.FindBestMatch(pub, cands)
}

func (e *Executor) candidatesFor(idx *index.Indexer, pub *domain.Publication, sourceType domain.SourceType) []matcher.Candidate {
	q := index.Query{
		Title: pub.Title, Author: pub.Author, MainAuthor: pub.MainAuthor,
		Publisher: pub.Publisher, Year: pub.Year, NormalizedLCCN: pub.NormalizedLCCN,
		Language: pub.LanguageCode,
	}
	ids := idx.FindCandidates(q, e.norm, e.cfg.Thresholds.YearTolerance)
	cands := make([]matcher.Candidate, 0, len(ids))
	for id := range ids {
		cands = append(cands, matcher.Candidate{ID: id, Publication: idx.Publication(id), SourceType: sourceType})
	}
	// ids comes from ranging over a set, so iteration order is random;
	// sort by source id so early-exit and tie-broken best-match selection
	// are independent of Go's map iteration order.
	sort.Slice(cands, func(i, j int) bool {
		return cands[i].Publication.SourceID < cands[j].Publication.SourceID
	})
	return cands
}

// logMemoryAdvisory logs available system memory and warns if it looks
// tight relative to a rough index-size estimate, mirroring the teacher's
// memory-awareness without introducing new scope.
func (e *Executor) logMemoryAdvisory() {
	if e.logger == nil {
		return
	}
	avail := memory.FreeMemory()
	e.logger.Debug("available system memory: %s", humanBytes(avail))
	const lowMemoryFloor = 512 * 1024 * 1024
	if avail > 0 && avail < lowMemoryFloor {
		e.logger.Warn("available memory is low (%s); large indexes may not fit comfortably", humanBytes(avail))
	}
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
