// Package matcher implements CoreMatcher: given one MARC record and a
// candidate list from an Indexer, it applies the LCCN fast path, year
// filter, field thresholds, and early-exit policy to return the single
// best match, or none.
package matcher

import (
	"math"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/config"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/generic"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/scoring"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/similarity"
)

// Matcher holds the collaborators CoreMatcher needs: a similarity
// calculator, a score combiner, and (optionally) a generic-title
// detector for weight-profile selection.
type Matcher struct {
	sim      *similarity.Calculator
	combiner *scoring.Combiner
	detector *generic.Detector
	cfg      config.Config
}

func New(sim *similarity.Calculator, combiner *scoring.Combiner, detector *generic.Detector, cfg config.Config) *Matcher {
	return &Matcher{sim: sim, combiner: combiner, detector: detector, cfg: cfg}
}

// candidate bundles a corpus publication with its integer id, the shape
// CoreMatcher scores against.
type Candidate struct {
	ID          int32
	Publication *domain.Publication
	SourceType  domain.SourceType
}

func marcLanguage(marc *domain.Publication) string {
	return marc.LanguageCode
}

// FindBestMatch implements the seven-step algorithm from the
// specification: LCCN fast path, year filter, field scoring, threshold
// gate, best-tracking, early exit.
func (m *Matcher) FindBestMatch(marc *domain.Publication, candidates []Candidate) *domain.MatchResult {
	var best *domain.MatchResult
	bestScore := -1.0

	for _, cand := range candidates {
		result, err := m.scoreCandidate(marc, cand)
		if err != nil {
			continue // a scoring error skips this candidate; it is not counted or reported
		}
		if result == nil {
			continue // year filter or threshold gate rejected this candidate
		}

		if betterMatch(result, best, bestScore) {
			best = result
			bestScore = result.CombinedScore
		}

		if m.earlyExit(marc, cand.Publication, result) {
			return result
		}
	}
	return best
}

// betterMatch reports whether candidate should replace the current best:
// a strictly higher combined score always wins; an equal score wins only
// by sorting earlier by source id, so that tied candidates resolve the
// same way regardless of the order they were scored in.
func betterMatch(candidate, best *domain.MatchResult, bestScore float64) bool {
	if candidate.CombinedScore != bestScore {
		return candidate.CombinedScore > bestScore
	}
	return best == nil || candidate.SourceID < best.SourceID
}

// FindBestMatchIgnoreThresholds drops field thresholds and returns the
// highest combined-score candidate at or above minimumCombined. The LCCN
// fast path is still applied.
func (m *Matcher) FindBestMatchIgnoreThresholds(marc *domain.Publication, candidates []Candidate, minimumCombined float64) *domain.MatchResult {
	var best *domain.MatchResult
	bestScore := -1.0

	for _, cand := range candidates {
		result, err := m.scoreCandidateUnconditional(marc, cand)
		if err != nil {
			continue
		}
		if !m.yearWithinTolerance(marc, cand.Publication) {
			continue
		}
		if result.CombinedScore < minimumCombined {
			continue
		}
		if betterMatch(result, best, bestScore) {
			best = result
			bestScore = result.CombinedScore
		}
	}
	return best
}

func (m *Matcher) yearWithinTolerance(marc, cand *domain.Publication) bool {
	if marc.Year == nil || cand.Year == nil {
		return true
	}
	diff := *marc.Year - *cand.Year
	if diff < 0 {
		diff = -diff
	}
	return diff <= m.cfg.Thresholds.YearTolerance
}

// scoreCandidate implements steps 1-4: LCCN detection, year filter,
// scoring, and the threshold gate. Returns (nil, nil) when the candidate
// is filtered out (not an error, just not a match).
func (m *Matcher) scoreCandidate(marc *domain.Publication, cand Candidate) (*domain.MatchResult, error) {
	isLCCN := m.cfg.EnableLCCNMatching && marc.NormalizedLCCN != "" && marc.NormalizedLCCN == cand.Publication.NormalizedLCCN

	if !isLCCN && !m.yearWithinTolerance(marc, cand.Publication) {
		return nil, nil
	}

	result, err := m.score(marc, cand, isLCCN)
	if err != nil {
		return nil, err
	}

	if !m.passesThresholds(marc, cand.Publication, result) {
		return nil, nil
	}
	return result, nil
}

// scoreCandidateUnconditional scores without applying the threshold gate,
// for score-everything mode.
func (m *Matcher) scoreCandidateUnconditional(marc *domain.Publication, cand Candidate) (*domain.MatchResult, error) {
	isLCCN := m.cfg.EnableLCCNMatching && marc.NormalizedLCCN != "" && marc.NormalizedLCCN == cand.Publication.NormalizedLCCN
	return m.score(marc, cand, isLCCN)
}

func (m *Matcher) score(marc *domain.Publication, cand Candidate, isLCCN bool) (*domain.MatchResult, error) {
	lang := marcLanguage(marc)
	langCode := m.cfg.DefaultLanguage
	if lang != "" {
		langCode = normalize.Language(lang)
	}

	titleScore := m.sim.Title(marc.Title, cand.Publication.Title, langCode)

	authorScore := 0.0
	if marc.HasAuthorData() {
		a1 := m.sim.Author(marc.Author, cand.Publication.Author, langCode)
		a2 := m.sim.Author(marc.MainAuthor, cand.Publication.MainAuthor, langCode)
		authorScore = math.Max(a1, a2)
	}

	publisherScore := m.sim.Publisher(marc.Publisher, cand.Publication.Publisher, cand.Publication.FullText, langCode)

	isGeneric := false
	if m.detector != nil {
		g1, _ := m.detector.Detect(marc.Title, langCode)
		g2, _ := m.detector.Detect(cand.Publication.Title, langCode)
		isGeneric = g1 || g2
	}
	publisherPresent := marc.Publisher != "" && cand.Publication.Publisher != ""

	combined := m.combiner.Combine(titleScore, authorScore, publisherScore, publisherPresent, isGeneric)

	if isLCCN {
		combined = math.Min(100, combined+m.cfg.LCCNScoreBoost)
	}

	result := &domain.MatchResult{
		SourceID:         cand.Publication.SourceID,
		MatchedTitle:     cand.Publication.Title,
		MatchedAuthor:    cand.Publication.Author,
		MatchedPublisher: cand.Publication.Publisher,
		MatchedDate:      cand.Publication.PubDate,
		TitleScore:       titleScore,
		AuthorScore:      authorScore,
		PublisherScore:   publisherScore,
		CombinedScore:    combined,
		SourceType:       cand.SourceType,
		IsLCCNMatch:      isLCCN,
	}
	if isLCCN {
		result.MatchType = domain.MatchLCCN
	} else if marc.Year == nil || cand.Publication.Year == nil {
		result.MatchType = domain.MatchBruteForceWithoutYear
	} else {
		result.MatchType = domain.MatchSimilarity
	}
	if marc.Year != nil && cand.Publication.Year != nil {
		result.YearDifference = *marc.Year - *cand.Publication.Year
		if result.YearDifference < 0 {
			result.YearDifference = -result.YearDifference
		}
		result.HasYearDiff = true
	}
	return result, nil
}

// passesThresholds implements the threshold gate: title is always
// enforced; author is enforced unless either side lacks author data;
// publisher is enforced unless the MARC record has no publisher. LCCN
// boosting does not exempt a candidate from this gate — a boosted score
// can still fail on title, which is the data-error protection scenario.
func (m *Matcher) passesThresholds(marc, cand *domain.Publication, result *domain.MatchResult) bool {
	th := m.cfg.Thresholds
	if result.TitleScore < th.Title {
		return false
	}
	if marc.HasAuthorData() && cand.HasAuthorData() && result.AuthorScore < th.Author {
		return false
	}
	if marc.Publisher != "" && result.PublisherScore < th.Publisher {
		return false
	}
	return true
}

// earlyExit reports whether both title and author exceed the configured
// early-exit thresholds (with author data present on both sides),
// letting the matcher return immediately instead of scoring the rest of
// the candidate list.
func (m *Matcher) earlyExit(marc, cand *domain.Publication, result *domain.MatchResult) bool {
	th := m.cfg.Thresholds
	if result.TitleScore < th.EarlyExitTitle {
		return false
	}
	if !marc.HasAuthorData() || !cand.HasAuthorData() {
		return false
	}
	return result.AuthorScore >= th.EarlyExitAuthor
}
