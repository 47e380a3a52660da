package generic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
)

func testDetector() *Detector {
	return New(Options{})
}

func TestDetectPatternExact(t *testing.T) {
	d := testDetector()
	generic, reason := d.Detect("Annual Report", normalize.LangEnglish)
	assert.True(t, generic)
	assert.Equal(t, "pattern_exact", reason)
}

func TestDetectNonGenericTitle(t *testing.T) {
	d := testDetector()
	generic, _ := d.Detect("The Great Gatsby", normalize.LangEnglish)
	assert.False(t, generic)
}

func TestDetectSkipsNonEnglish(t *testing.T) {
	d := testDetector()
	generic, reason := d.Detect("Rapport Annuel", normalize.LangFrench)
	assert.False(t, generic)
	assert.Equal(t, "skipped_non_english_fre", reason)
}

func TestDetectFrequency(t *testing.T) {
	d := testDetector()
	d.opts.FrequencyThreshold = 2
	for i := 0; i < 3; i++ {
		d.Observe("Report of the Society", normalize.LangEnglish)
	}
	generic, reason := d.Detect("Report of the Society", normalize.LangEnglish)
	assert.True(t, generic)
	assert.Equal(t, "frequency_exceeded", reason)
}

func TestDetectPoemsMatchesPatternUnstemmed(t *testing.T) {
	// "Poems" must match the literal "poems" pattern/genre-word entries.
	// If detection normalized with stemming (as the full TextNormalizer
	// would with stemming enabled), "Poems" would stem to "poem" and no
	// longer match either list.
	d := testDetector()
	generic, reason := d.Detect("Poems", normalize.LangEnglish)
	assert.True(t, generic)
	assert.Equal(t, "pattern_exact", reason)
}

func TestDetectLinguisticHighStopwordRatioFires(t *testing.T) {
	// This only flags if stopwords survive into linguisticCheck's token
	// list — a full-pipeline normalization that strips stopwords first
	// would leave nothing for this layer to count.
	d := testDetector()
	generic, reason := d.Detect("Of the and", normalize.LangEnglish)
	assert.True(t, generic)
	assert.Equal(t, "linguistic_high_stopword_ratio", reason)
}

func TestDetectIsCached(t *testing.T) {
	d := testDetector()
	first, _ := d.Detect("Poems", normalize.LangEnglish)
	second, _ := d.Detect("Poems", normalize.LangEnglish)
	assert.Equal(t, first, second)
	assert.Len(t, d.cache, 1)
}
