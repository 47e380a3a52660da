// Package config holds the single configuration object threaded through
// every pipeline component, its validation rules, and the worker-count
// default heuristic.
package config

import (
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/scoring"
)

// Thresholds holds the field-score gates used by CoreMatcher.
type Thresholds struct {
	Title             float64
	Author            float64
	Publisher         float64
	EarlyExitTitle    float64
	EarlyExitAuthor   float64
	EarlyExitPublisher float64
	YearTolerance     int
	MinimumCombined   float64
}

// GenericTitleConfig configures internal/generic.
type GenericTitleConfig struct {
	FrequencyThreshold int
	Disable            bool
}

// Config is the single object passed to every component.
type Config struct {
	Thresholds Thresholds

	ScoreEverythingMode   bool
	BruteForceMissingYear bool
	EnableLCCNMatching    bool
	LCCNScoreBoost        float64

	EnableStemming              bool
	EnableAbbreviationExpansion bool
	DefaultLanguage             normalize.Language
	GenericTitle                GenericTitleConfig

	Weights map[scoring.Profile]scoring.Weights

	BatchSize  int
	NumWorkers int
}

// Default returns a Config with the specification's documented defaults.
func Default() Config {
	return Config{
		Thresholds: Thresholds{
			Title: 40, Author: 50, Publisher: 50,
			EarlyExitTitle: 95, EarlyExitAuthor: 95, EarlyExitPublisher: 95,
			YearTolerance:   1,
			MinimumCombined: 60,
		},
		EnableLCCNMatching: true,
		LCCNScoreBoost:     35,

		EnableStemming:              true,
		EnableAbbreviationExpansion: true,
		DefaultLanguage:             normalize.LangEnglish,
		GenericTitle:                GenericTitleConfig{FrequencyThreshold: 10},

		Weights: scoring.DefaultWeights,

		BatchSize:  100,
		NumWorkers: DefaultNumWorkers(),
	}
}

// DefaultNumWorkers implements the spec's "CPU count minus 4, minimum 1"
// rule, using cpuid for physical/logical core introspection the same way
// the teacher's tuning code does, rather than a bare runtime.NumCPU()
// call with no topology awareness.
func DefaultNumWorkers() int {
	n := cpuid.CPU.LogicalCores
	if n <= 0 {
		n = runtime.NumCPU()
	}
	n -= 4
	if n < 1 {
		n = 1
	}
	return n
}

// Validate checks that weights sum to 1±0.01 and thresholds are in
// [0,100] (year tolerance is a count, not a year, and is only required to
// be non-negative). Config carries no min/max year fields, so no year
// range is checked.
func (c Config) Validate() error {
	if err := scoring.Validate(c.Weights, 0.01); err != nil {
		return err
	}
	for name, v := range map[string]float64{
		"title":              c.Thresholds.Title,
		"author":             c.Thresholds.Author,
		"publisher":          c.Thresholds.Publisher,
		"early_exit_title":   c.Thresholds.EarlyExitTitle,
		"early_exit_author":  c.Thresholds.EarlyExitAuthor,
		"early_exit_publisher": c.Thresholds.EarlyExitPublisher,
		"minimum_combined_score": c.Thresholds.MinimumCombined,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("config: threshold %q = %v out of range [0,100]", name, v)
		}
	}
	if c.Thresholds.YearTolerance < 0 {
		return fmt.Errorf("config: year_tolerance must be >= 0")
	}
	if c.LCCNScoreBoost < 0 || c.LCCNScoreBoost > 100 {
		return fmt.Errorf("config: lccn_score_boost out of range [0,100]")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: batch_size must be positive")
	}
	if c.NumWorkers <= 0 {
		return fmt.Errorf("config: num_workers must be positive")
	}
	return nil
}
