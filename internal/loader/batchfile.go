package loader

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/batch"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
)

// batchFileVersion lets future changes to the stored shape be detected on
// read, per the self-describing/versioned serialization design note.
const batchFileVersion = 1

type batchFileEnvelope struct {
	Version      int
	Publications []domain.Publication
}

// WriteBatchFile gob-encodes publications to path, the on-disk form of
// one BatchExecutor input shard.
func WriteBatchFile(path string, publications []domain.Publication) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("loader: create batch file %s: %w", path, err)
	}
	defer f.Close()
	env := batchFileEnvelope{Version: batchFileVersion, Publications: publications}
	if err := gob.NewEncoder(f).Encode(env); err != nil {
		return fmt.Errorf("loader: encode batch file %s: %w", path, err)
	}
	return nil
}

// ReadBatchFile decodes a batch file and deletes it immediately after a
// successful read, per the worker workflow's "delete the input file
// immediately" step.
func ReadBatchFile(path string) ([]domain.Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open batch file %s: %w", path, err)
	}
	var env batchFileEnvelope
	err = gob.NewDecoder(f).Decode(&env)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("loader: decode batch file %s: %w", path, err)
	}
	if env.Version != batchFileVersion {
		return nil, fmt.Errorf("loader: batch file %s has unsupported version %d", path, env.Version)
	}
	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("loader: remove consumed batch file %s: %w", path, err)
	}
	return env.Publications, nil
}

type resultFileEnvelope struct {
	Version      int
	Publications []domain.Publication
}

// WriteResultFile writes the "<batch>_result" output: the full processed
// publication list for one batch.
func WriteResultFile(path string, publications []domain.Publication) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("loader: create result file %s: %w", path, err)
	}
	defer f.Close()
	env := resultFileEnvelope{Version: batchFileVersion, Publications: publications}
	if err := gob.NewEncoder(f).Encode(env); err != nil {
		return fmt.Errorf("loader: encode result file %s: %w", path, err)
	}
	return nil
}

// ReadResultFile decodes a "<batch>_result" file.
func ReadResultFile(path string) ([]domain.Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open result file %s: %w", path, err)
	}
	defer f.Close()
	var env resultFileEnvelope
	if err := gob.NewDecoder(f).Decode(&env); err != nil {
		return nil, fmt.Errorf("loader: decode result file %s: %w", path, err)
	}
	return env.Publications, nil
}

// WriteStatsFile writes the small "<batch>_stats" counts object,
// independent of the (potentially large) result file, so the main
// process can aggregate totals without loading any results into memory.
func WriteStatsFile(path string, stats batch.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("loader: create stats file %s: %w", path, err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(stats); err != nil {
		return fmt.Errorf("loader: encode stats file %s: %w", path, err)
	}
	return nil
}

// ReadStatsFile decodes a "<batch>_stats" file.
func ReadStatsFile(path string) (batch.Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return batch.Stats{}, fmt.Errorf("loader: open stats file %s: %w", path, err)
	}
	defer f.Close()
	var stats batch.Stats
	if err := gob.NewDecoder(f).Decode(&stats); err != nil {
		return batch.Stats{}, fmt.Errorf("loader: decode stats file %s: %w", path, err)
	}
	return stats, nil
}
