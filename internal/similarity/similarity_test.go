package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
)

func testCalc() *Calculator {
	return New(normalize.New(normalize.Options{
		EnableStemming:              true,
		EnableAbbreviationExpansion: true,
		DefaultLanguage:             normalize.LangEnglish,
	}))
}

func TestTitleReflexive(t *testing.T) {
	c := testCalc()
	score := c.Title("The Great Gatsby", "The Great Gatsby", normalize.LangEnglish)
	assert.Equal(t, 100.0, score)
}

func TestTitleSymmetric(t *testing.T) {
	c := testCalc()
	a := c.Title("Nineteen Eighty-Four", "1984", normalize.LangEnglish)
	b := c.Title("1984", "Nineteen Eighty-Four", normalize.LangEnglish)
	assert.Equal(t, a, b)
}

func TestTitleTokenSortToleratesReorder(t *testing.T) {
	c := testCalc()
	score := c.Title("Guide Federal Tax", "Federal Tax Guide", normalize.LangEnglish)
	assert.Equal(t, 100.0, score)
}

func TestTitleContainmentBoost(t *testing.T) {
	c := testCalc()
	score := c.Title("Federal Tax Guide", "Federal Tax Guide 1934 with Latest Supplement", normalize.LangEnglish)
	assert.GreaterOrEqual(t, score, 85.0)
}

func TestAuthorReflexive(t *testing.T) {
	c := testCalc()
	score := c.Author("Fitzgerald, F. Scott", "Fitzgerald, F. Scott", normalize.LangEnglish)
	assert.Equal(t, 100.0, score)
}

func TestTitleBothNormalizeEmptyFallsBackToRawEquality(t *testing.T) {
	c := testCalc()
	// "The" and "A" are both pure stopwords, so both normalize to no
	// tokens at all; the raw originals differ, so this must not score 100.
	assert.Equal(t, 0.0, c.Title("The", "A", normalize.LangEnglish))
	assert.Equal(t, 100.0, c.Title("The", "the", normalize.LangEnglish))
}

func TestAuthorBothNormalizeEmptyFallsBackToRawEquality(t *testing.T) {
	c := testCalc()
	assert.Equal(t, 0.0, c.Author("The", "A", normalize.LangEnglish))
	assert.Equal(t, 100.0, c.Author("The", "the", normalize.LangEnglish))
}

func TestPublisherUsesFullTextPartialRatio(t *testing.T) {
	c := testCalc()
	score := c.Publisher("Acme", "", "This edition published by the Acme Publishing Company of New York", normalize.LangEnglish)
	assert.Greater(t, score, 50.0)
}

func TestScoresAreBounded(t *testing.T) {
	c := testCalc()
	pairs := [][2]string{
		{"", ""},
		{"a", ""},
		{"Completely Different Title", "Something Else Entirely"},
	}
	for _, p := range pairs {
		s := c.Title(p[0], p[1], normalize.LangEnglish)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
	}
}
