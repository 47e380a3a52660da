package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
)

func TestDecideRegisteredAndRenewed(t *testing.T) {
	reg := &domain.MatchResult{SourceID: "r1"}
	ren := &domain.MatchResult{SourceID: "n1"}
	assert.Equal(t, InCopyright, Decide(reg, ren, domain.CountryUS, nil))
}

func TestDecideRenewedOnly(t *testing.T) {
	ren := &domain.MatchResult{SourceID: "n1"}
	assert.Equal(t, InCopyright, Decide(nil, ren, domain.CountryUS, nil))
}

func TestDecideRegisteredNotRenewedOldYear(t *testing.T) {
	reg := &domain.MatchResult{SourceID: "r1"}
	year := 1930
	assert.Equal(t, PublicDomainNotRenewed, Decide(reg, nil, domain.CountryUS, &year))
}

func TestDecideRegisteredNotRenewedRecentYear(t *testing.T) {
	reg := &domain.MatchResult{SourceID: "r1"}
	year := 1970
	assert.Equal(t, Unknown, Decide(reg, nil, domain.CountryUS, &year))
}

func TestDecideNoEvidenceNonUS(t *testing.T) {
	assert.Equal(t, OutOfScopeNonUS, Decide(nil, nil, domain.CountryNonUS, nil))
}

func TestDecideNoEvidenceUS(t *testing.T) {
	assert.Equal(t, Unknown, Decide(nil, nil, domain.CountryUS, nil))
}
