package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/scoring"
)

// fileFormat mirrors Config with yaml tags; it exists only at the load
// boundary so the in-memory Config stays free of serialization concerns.
type fileFormat struct {
	Thresholds struct {
		Title              float64 `yaml:"title"`
		Author             float64 `yaml:"author"`
		Publisher          float64 `yaml:"publisher"`
		EarlyExitTitle     float64 `yaml:"early_exit_title"`
		EarlyExitAuthor    float64 `yaml:"early_exit_author"`
		EarlyExitPublisher float64 `yaml:"early_exit_publisher"`
		YearTolerance      int     `yaml:"year_tolerance"`
		MinimumCombined    float64 `yaml:"minimum_combined_score"`
	} `yaml:"thresholds"`

	ScoreEverythingMode   bool `yaml:"score_everything_mode"`
	BruteForceMissingYear bool `yaml:"brute_force_missing_year"`
	EnableLCCNMatching    bool `yaml:"enable_lccn_matching"`
	LCCNScoreBoost        float64 `yaml:"lccn_score_boost"`

	EnableStemming              bool   `yaml:"enable_stemming"`
	EnableAbbreviationExpansion bool   `yaml:"enable_abbreviation_expansion"`
	DefaultLanguage             string `yaml:"default_language"`
	GenericTitle                struct {
		FrequencyThreshold int  `yaml:"frequency_threshold"`
		Disable            bool `yaml:"disable"`
	} `yaml:"generic_title"`

	Weights map[string]struct {
		Title     float64 `yaml:"title"`
		Author    float64 `yaml:"author"`
		Publisher float64 `yaml:"publisher"`
	} `yaml:"weights"`

	BatchSize  int `yaml:"batch_size"`
	NumWorkers int `yaml:"num_workers"`
}

var profileNames = map[string]scoring.Profile{
	"normal_with_publisher":  scoring.ProfileNormalWithPublisher,
	"generic_with_publisher": scoring.ProfileGenericWithPublisher,
	"normal_no_publisher":    scoring.ProfileNormalNoPublisher,
	"generic_no_publisher":   scoring.ProfileGenericNoPublisher,
}

// Load reads and validates a Config from a YAML file, filling any field
// the file omits from Default().
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(raw)
}

// Parse decodes YAML bytes into a Config, starting from Default() so a
// partial file only overrides what it sets. A numeric setting given as 0
// (a threshold, year_tolerance, lccn_score_boost, frequency_threshold,
// batch_size or num_workers) counts as unset and keeps its default.
func Parse(raw []byte) (Config, error) {
	var ff fileFormat
	cfg := Default()
	ff.BatchSize = cfg.BatchSize
	ff.NumWorkers = cfg.NumWorkers
	ff.EnableLCCNMatching = cfg.EnableLCCNMatching
	ff.EnableStemming = cfg.EnableStemming
	ff.EnableAbbreviationExpansion = cfg.EnableAbbreviationExpansion
	if err := yaml.Unmarshal(raw, &ff); err != nil {
		return Config{}, err
	}

	if ff.Thresholds.Title != 0 {
		cfg.Thresholds.Title = ff.Thresholds.Title
	}
	if ff.Thresholds.Author != 0 {
		cfg.Thresholds.Author = ff.Thresholds.Author
	}
	if ff.Thresholds.Publisher != 0 {
		cfg.Thresholds.Publisher = ff.Thresholds.Publisher
	}
	if ff.Thresholds.EarlyExitTitle != 0 {
		cfg.Thresholds.EarlyExitTitle = ff.Thresholds.EarlyExitTitle
	}
	if ff.Thresholds.EarlyExitAuthor != 0 {
		cfg.Thresholds.EarlyExitAuthor = ff.Thresholds.EarlyExitAuthor
	}
	if ff.Thresholds.EarlyExitPublisher != 0 {
		cfg.Thresholds.EarlyExitPublisher = ff.Thresholds.EarlyExitPublisher
	}
	if ff.Thresholds.YearTolerance != 0 {
		cfg.Thresholds.YearTolerance = ff.Thresholds.YearTolerance
	}
	if ff.Thresholds.MinimumCombined != 0 {
		cfg.Thresholds.MinimumCombined = ff.Thresholds.MinimumCombined
	}

	cfg.ScoreEverythingMode = ff.ScoreEverythingMode
	cfg.BruteForceMissingYear = ff.BruteForceMissingYear
	if ff.LCCNScoreBoost != 0 {
		cfg.LCCNScoreBoost = ff.LCCNScoreBoost
	}
	cfg.EnableLCCNMatching = ff.EnableLCCNMatching

	cfg.EnableStemming = ff.EnableStemming
	cfg.EnableAbbreviationExpansion = ff.EnableAbbreviationExpansion
	if ff.DefaultLanguage != "" {
		cfg.DefaultLanguage = normalize.Language(ff.DefaultLanguage)
	}
	if ff.GenericTitle.FrequencyThreshold != 0 {
		cfg.GenericTitle.FrequencyThreshold = ff.GenericTitle.FrequencyThreshold
	}
	cfg.GenericTitle.Disable = ff.GenericTitle.Disable

	if len(ff.Weights) > 0 {
		weights := make(map[scoring.Profile]scoring.Weights, len(ff.Weights))
		for name, w := range ff.Weights {
			profile, ok := profileNames[name]
			if !ok {
				continue
			}
			weights[profile] = scoring.Weights{Title: w.Title, Author: w.Author, Publisher: w.Publisher}
		}
		for p, w := range scoring.DefaultWeights {
			if _, ok := weights[p]; !ok {
				weights[p] = w
			}
		}
		cfg.Weights = weights
	}

	if ff.BatchSize != 0 {
		cfg.BatchSize = ff.BatchSize
	}
	if ff.NumWorkers != 0 {
		cfg.NumWorkers = ff.NumWorkers
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
