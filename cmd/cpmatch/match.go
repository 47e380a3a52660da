package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/batch"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/cache"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/config"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/generic"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/index"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/loader"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/logging"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/matcher"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/scoring"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/similarity"
)

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func runMatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	marcPath := fs.String("marc", "", "path to MARCXML input")
	registrationPath := fs.String("registrations", "", "path to registration-XML corpus")
	renewalPath := fs.String("renewals", "", "path to renewal-TSV corpus")
	cacheDir := fs.String("cache-dir", "", "cache directory populated by the index subcommand (optional)")
	outDir := fs.String("out", ".", "directory to write result/stats files into")
	configPath := fs.String("config", "", "YAML config file (optional)")
	fs.Parse(args)

	if *marcPath == "" || *registrationPath == "" || *renewalPath == "" {
		return fmt.Errorf("match: -marc, -registrations, and -renewals are required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger := logging.New(logging.LevelInfo)

	norm := normalize.New(normalize.Options{
		EnableStemming:              cfg.EnableStemming,
		EnableAbbreviationExpansion: cfg.EnableAbbreviationExpansion,
		DefaultLanguage:             cfg.DefaultLanguage,
	})

	marcFile, err := os.Open(*marcPath)
	if err != nil {
		return err
	}
	marcPubs, err := loader.LoadMARC(marcFile)
	marcFile.Close()
	if err != nil {
		return err
	}

	regIndex, renIndex, detector, err := loadOrBuildIndexes(logger, norm, cfg, *cacheDir, *registrationPath, *renewalPath)
	if err != nil {
		return err
	}

	sim := similarity.New(norm)
	combiner := scoring.New(cfg.Weights)
	m := matcher.New(sim, combiner, detector, cfg)

	exec := batch.New(cfg, m, batch.Registries{Registration: regIndex, Renewal: renIndex}, norm, logger)

	batches := shard(marcPubs, cfg.BatchSize)
	results := exec.Run(ctx, batches)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	for _, r := range results {
		resultPath := filepath.Join(*outDir, fmt.Sprintf("batch-%d_result.gob", r.BatchID))
		statsPath := filepath.Join(*outDir, fmt.Sprintf("batch-%d_stats.gob", r.BatchID))
		if err := loader.WriteResultFile(resultPath, r.Publications); err != nil {
			return err
		}
		if err := loader.WriteStatsFile(statsPath, r.Stats); err != nil {
			return err
		}
	}
	logger.Info("wrote %d batch result/stats file pairs to %s", len(results), *outDir)
	return nil
}

// loadOrBuildIndexes opens the cache (if cacheDir is set), checking for a
// registration/renewal index pair built by a prior "index" run under the
// key the current corpus paths and config would produce. On any miss, or
// when no cache directory is given, it degrades to loading the corpora
// from disk and building the indexes directly, per the specification's
// "cache miss / load errors: core degrades to rebuilding indexes from
// loader output" behavior.
func loadOrBuildIndexes(logger *logging.Logger, norm *normalize.Normalizer, cfg config.Config, cacheDir, registrationPath, renewalPath string) (*index.Indexer, *index.Indexer, *generic.Detector, error) {
	detector := generic.New(generic.Options{
		FrequencyThreshold: cfg.GenericTitle.FrequencyThreshold,
		Disable:            cfg.GenericTitle.Disable,
	})

	if cacheDir != "" {
		store, err := cache.Open(cacheDir)
		if err == nil {
			defer store.Close()
			key := cache.Key(registrationPath, renewalPath, fmt.Sprintf("%+v", cfg), 0, 0, cfg.BruteForceMissingYear)
			regIndex, regHit, regErr := store.GetIndexer(key + ":registration")
			renIndex, renHit, renErr := store.GetIndexer(key + ":renewal")
			if regErr == nil && renErr == nil && regHit && renHit {
				logger.Info("cache hit for key %s: reusing %d registration / %d renewal index entries",
					key, regIndex.Len(), renIndex.Len())
				observeAll(detector, regIndex.Publications())
				observeAll(detector, renIndex.Publications())
				return regIndex, renIndex, detector, nil
			}
			logger.Info("cache miss for key %s; rebuilding indexes from source corpora", key)
		} else {
			logger.Warn("cache unavailable (%v); rebuilding indexes from source corpora", err)
		}
	}

	regFile, err := os.Open(registrationPath)
	if err != nil {
		return nil, nil, nil, err
	}
	registrations, err := loader.LoadRegistrations(regFile)
	regFile.Close()
	if err != nil {
		return nil, nil, nil, err
	}

	renFile, err := os.Open(renewalPath)
	if err != nil {
		return nil, nil, nil, err
	}
	renewals, err := loader.LoadRenewals(renFile)
	renFile.Close()
	if err != nil {
		return nil, nil, nil, err
	}

	observeAll(detector, registrations)
	observeAll(detector, renewals)

	logger.Info("building registration index: %d publications", len(registrations))
	regIndex := index.BuildParallel(norm, registrations, cfg.NumWorkers)
	logger.Info("building renewal index: %d publications", len(renewals))
	renIndex := index.BuildParallel(norm, renewals, cfg.NumWorkers)
	return regIndex, renIndex, detector, nil
}

func observeAll(detector *generic.Detector, pubs []domain.Publication) {
	for _, p := range pubs {
		detector.Observe(p.Title, normalize.Language(p.LanguageCode))
	}
}

// shard splits pubs into fixed-size batches in input order, assigning
// each batch a sequential ID starting at 0.
func shard(pubs []domain.Publication, batchSize int) []batch.Batch {
	if batchSize <= 0 {
		batchSize = len(pubs)
		if batchSize == 0 {
			batchSize = 1
		}
	}
	batches := make([]batch.Batch, 0, (len(pubs)+batchSize-1)/batchSize)
	for start, id := 0, 0; start < len(pubs); start, id = start+batchSize, id+1 {
		end := start + batchSize
		if end > len(pubs) {
			end = len(pubs)
		}
		batches = append(batches, batch.Batch{ID: id, Publications: pubs[start:end]})
	}
	return batches
}
