package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/config"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/generic"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/scoring"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/similarity"
)

func testMatcher(cfg config.Config) *Matcher {
	norm := normalize.New(normalize.Options{
		EnableStemming:              true,
		EnableAbbreviationExpansion: true,
		DefaultLanguage:             normalize.LangEnglish,
	})
	sim := similarity.New(norm)
	combiner := scoring.New(cfg.Weights)
	detector := generic.New(generic.Options{FrequencyThreshold: cfg.GenericTitle.FrequencyThreshold})
	return New(sim, combiner, detector, cfg)
}

func intPtr(v int) *int { return &v }

func TestExactMatchHighConfidence(t *testing.T) {
	cfg := config.Default()
	m := testMatcher(cfg)

	marc := &domain.Publication{
		Title: "The Great Gatsby", Author: "Fitzgerald, F. Scott", Year: intPtr(1925),
		NormalizedLCCN: "25012345",
	}
	cand := Candidate{
		ID: 0,
		Publication: &domain.Publication{
			SourceID: "reg-1", Title: "The Great Gatsby", Author: "Fitzgerald, F. Scott",
			Year: intPtr(1925), NormalizedLCCN: "25012345",
		},
		SourceType: domain.SourceTypeRegistration,
	}

	result := m.FindBestMatch(marc, []Candidate{cand})
	assert.NotNil(t, result)
	assert.Equal(t, 100.0, result.CombinedScore)
	assert.Equal(t, domain.MatchLCCN, result.MatchType)
	assert.True(t, result.IsLCCNMatch)
}

func TestTitleVariationSameAuthor(t *testing.T) {
	cfg := config.Default()
	m := testMatcher(cfg)

	marc := &domain.Publication{Title: "1984", Author: "Orwell, George", Year: intPtr(1949)}
	cand := Candidate{
		ID: 0,
		Publication: &domain.Publication{
			SourceID: "reg-2", Title: "Nineteen Eighty-Four", Author: "Orwell, George", Year: intPtr(1949),
		},
		SourceType: domain.SourceTypeRegistration,
	}

	result := m.FindBestMatch(marc, []Candidate{cand})
	assert.NotNil(t, result)
	assert.GreaterOrEqual(t, result.AuthorScore, 95.0)
	assert.GreaterOrEqual(t, result.CombinedScore, cfg.Thresholds.Title)
}

func TestYearOutsideToleranceNoMatch(t *testing.T) {
	cfg := config.Default()
	cfg.Thresholds.YearTolerance = 2
	m := testMatcher(cfg)

	marc := &domain.Publication{Title: "Book X", Author: "Author Y", Year: intPtr(1950)}
	cand := Candidate{
		ID: 0,
		Publication: &domain.Publication{
			SourceID: "reg-3", Title: "Book X", Author: "Author Y", Year: intPtr(1960),
		},
		SourceType: domain.SourceTypeRegistration,
	}

	result := m.FindBestMatch(marc, []Candidate{cand})
	assert.Nil(t, result)
}

func TestGenericTitlePenaltyUsesGenericWeights(t *testing.T) {
	cfg := config.Default()
	m := testMatcher(cfg)

	marc := &domain.Publication{Title: "Annual Report", Author: "Acme Corp", Publisher: "Acme", Year: intPtr(1955)}
	cand := Candidate{
		ID: 0,
		Publication: &domain.Publication{
			SourceID: "reg-4", Title: "Annual Report", Author: "Acme Corp", Publisher: "Acme", Year: intPtr(1955),
		},
		SourceType: domain.SourceTypeRegistration,
	}

	result := m.FindBestMatch(marc, []Candidate{cand})
	assert.NotNil(t, result)
	assert.Equal(t, 100.0, result.CombinedScore)

	isGeneric, _ := m.detector.Detect(marc.Title, normalize.LangEnglish)
	assert.True(t, isGeneric)
	publisherPresent := marc.Publisher != "" && cand.Publication.Publisher != ""
	assert.Equal(t, scoring.ProfileGenericWithPublisher, scoring.SelectProfile(publisherPresent, isGeneric))
}

func TestLCCNDataErrorProtection(t *testing.T) {
	cfg := config.Default()
	cfg.Thresholds.Title = 50
	m := testMatcher(cfg)

	marc := &domain.Publication{Title: "Encyclopedia Britannica", NormalizedLCCN: "25012345"}
	cand := Candidate{
		ID: 0,
		Publication: &domain.Publication{
			SourceID: "reg-5", Title: "Unrelated Title", NormalizedLCCN: "25012345",
		},
		SourceType: domain.SourceTypeRegistration,
	}

	result := m.FindBestMatch(marc, []Candidate{cand})
	assert.Nil(t, result)
}

func TestContainmentBoostTitle(t *testing.T) {
	cfg := config.Default()
	m := testMatcher(cfg)

	marc := &domain.Publication{Title: "Federal Tax Guide"}
	cand := Candidate{
		ID: 0,
		Publication: &domain.Publication{
			SourceID: "reg-6", Title: "Federal Tax Guide 1934 with Latest Supplement",
		},
		SourceType: domain.SourceTypeRegistration,
	}

	result := m.FindBestMatch(marc, []Candidate{cand})
	assert.NotNil(t, result)
	assert.GreaterOrEqual(t, result.TitleScore, 85.0)
}

func TestFindBestMatchBreaksTiesBySourceID(t *testing.T) {
	cfg := config.Default()
	// Disable early exit so both tied candidates are scored and compared
	// through the best-tracking tie-break, not short-circuited on the
	// first one encountered.
	cfg.Thresholds.EarlyExitTitle = 101
	cfg.Thresholds.EarlyExitAuthor = 101
	m := testMatcher(cfg)

	marc := &domain.Publication{Title: "The Great Gatsby", Author: "Fitzgerald, F. Scott", Year: intPtr(1925)}
	candHigh := Candidate{
		ID: 0,
		Publication: &domain.Publication{
			SourceID: "reg-9", Title: "The Great Gatsby", Author: "Fitzgerald, F. Scott", Year: intPtr(1925),
		},
		SourceType: domain.SourceTypeRegistration,
	}
	candLow := Candidate{
		ID: 1,
		Publication: &domain.Publication{
			SourceID: "reg-1", Title: "The Great Gatsby", Author: "Fitzgerald, F. Scott", Year: intPtr(1925),
		},
		SourceType: domain.SourceTypeRegistration,
	}

	// Both candidates score identically; regardless of which order they
	// are presented in, the lower source id must win.
	forward := m.FindBestMatch(marc, []Candidate{candHigh, candLow})
	backward := m.FindBestMatch(marc, []Candidate{candLow, candHigh})
	assert.NotNil(t, forward)
	assert.NotNil(t, backward)
	assert.Equal(t, "reg-1", forward.SourceID)
	assert.Equal(t, "reg-1", backward.SourceID)
}

func TestFindBestMatchIgnoreThresholdsAppliesMinimum(t *testing.T) {
	cfg := config.Default()
	m := testMatcher(cfg)

	marc := &domain.Publication{Title: "Completely Unrelated Words Here"}
	cand := Candidate{
		ID: 0,
		Publication: &domain.Publication{
			SourceID: "reg-7", Title: "Something Else Entirely Different",
		},
		SourceType: domain.SourceTypeRegistration,
	}

	result := m.FindBestMatchIgnoreThresholds(marc, []Candidate{cand}, 99)
	assert.Nil(t, result)
}
