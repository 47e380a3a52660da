// Package scoring combines per-field similarity scores into a single
// combined score using one of four weight profiles, selected by whether
// a publisher is present on both sides and whether either title was
// flagged generic.
package scoring

import "fmt"

// Weights is a three-way split across title, author, publisher that must
// sum to 1.0 (validated at config load, tolerance 0.01).
type Weights struct {
	Title     float64
	Author    float64
	Publisher float64
}

// Profile names the four closed-set weight profiles.
type Profile int

const (
	ProfileNormalWithPublisher Profile = iota
	ProfileGenericWithPublisher
	ProfileNormalNoPublisher
	ProfileGenericNoPublisher
)

// DefaultWeights is the weight table from the specification, indexed by
// Profile.
var DefaultWeights = map[Profile]Weights{
	ProfileNormalWithPublisher:  {Title: 0.60, Author: 0.25, Publisher: 0.15},
	ProfileGenericWithPublisher: {Title: 0.30, Author: 0.45, Publisher: 0.25},
	ProfileNormalNoPublisher:    {Title: 0.70, Author: 0.30, Publisher: 0},
	ProfileGenericNoPublisher:   {Title: 0.40, Author: 0.60, Publisher: 0},
}

// SelectProfile picks the weight profile for (publisher-present, generic).
func SelectProfile(publisherPresent, generic bool) Profile {
	switch {
	case publisherPresent && generic:
		return ProfileGenericWithPublisher
	case publisherPresent && !generic:
		return ProfileNormalWithPublisher
	case !publisherPresent && generic:
		return ProfileGenericNoPublisher
	default:
		return ProfileNormalNoPublisher
	}
}

// Combiner applies a weight table to field scores.
type Combiner struct {
	weights map[Profile]Weights
}

func New(weights map[Profile]Weights) *Combiner {
	if weights == nil {
		weights = DefaultWeights
	}
	return &Combiner{weights: weights}
}

// Combine returns the weighted sum of field scores for the profile
// selected by (publisherPresent, generic).
func (c *Combiner) Combine(titleScore, authorScore, publisherScore float64, publisherPresent, generic bool) float64 {
	w := c.weights[SelectProfile(publisherPresent, generic)]
	return w.Title*titleScore + w.Author*authorScore + w.Publisher*publisherScore
}

// Validate checks that every profile's weights are non-negative and sum
// to 1.0 within the given tolerance.
func Validate(weights map[Profile]Weights, tolerance float64) error {
	for p, w := range weights {
		if w.Title < 0 || w.Author < 0 || w.Publisher < 0 {
			return fmt.Errorf("scoring: profile %d has a negative weight", p)
		}
		sum := w.Title + w.Author + w.Publisher
		if diff := sum - 1.0; diff < -tolerance || diff > tolerance {
			return fmt.Errorf("scoring: profile %d weights sum to %.4f, want 1.0±%.2f", p, sum, tolerance)
		}
	}
	return nil
}
