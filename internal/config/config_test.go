package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/scoring"
)

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsOutOfRangeThreshold(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.Title = 150
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadWeights(t *testing.T) {
	cfg := Default()
	cfg.Weights = map[scoring.Profile]scoring.Weights{
		scoring.ProfileNormalWithPublisher: {Title: 0.9, Author: 0.2, Publisher: 0.2},
	}
	assert.Error(t, cfg.Validate())
}

func TestDefaultNumWorkersIsPositive(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultNumWorkers(), 1)
}

func TestParseOverridesDefaults(t *testing.T) {
	raw := []byte(`
thresholds:
  title: 55
batch_size: 250
`)
	cfg, err := Parse(raw)
	assert.NoError(t, err)
	assert.Equal(t, 55.0, cfg.Thresholds.Title)
	assert.Equal(t, 250, cfg.BatchSize)
	assert.Equal(t, Default().Thresholds.Author, cfg.Thresholds.Author)
}

func TestParseRejectsInvalidWeights(t *testing.T) {
	raw := []byte(`
weights:
  normal_with_publisher:
    title: 0.9
    author: 0.2
    publisher: 0.2
`)
	_, err := Parse(raw)
	assert.Error(t, err)
}
