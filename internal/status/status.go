// Package status implements the copyright-status decision table: a pure
// function of match outcomes, country classification, and publication
// year. It has no hidden state, so it is implemented directly here
// rather than left as an external stub, which is what lets the CLI run
// end to end.
package status

import "github.com/pulibrary/marc-pd-tool-sub000/internal/domain"

// Labels returned by Decide.
const (
	InCopyright        = "IN_COPYRIGHT"
	PublicDomain        = "PUBLIC_DOMAIN"
	PublicDomainNotRenewed = "PUBLIC_DOMAIN_NOT_RENEWED"
	Unknown             = "UNKNOWN"
	OutOfScopeNonUS     = "OUT_OF_SCOPE_NON_US"
)

// renewalWindowYears is the number of years after registration during
// which a US pre-1978 work could be renewed; if that window has closed
// with no renewal on file, the work is public domain.
const renewalWindowYears = 28

// cutoffYear is the threshold year: renewal protection for anything
// registered before this year has, as of any plausible run date, already
// either been renewed or definitively lapsed.
const cutoffYear = 1964

// Decide applies the standard pre-1978 US renewal/registration rule
// table:
//   - registered and renewed                       → IN_COPYRIGHT
//   - registered, not renewed, renewal window closed → PUBLIC_DOMAIN_NOT_RENEWED
//   - registered, not renewed, window still open     → UNKNOWN (can't yet tell)
//   - not registered, country is non-US, no evidence → OUT_OF_SCOPE_NON_US
//   - not registered, no renewal, US/unknown country     → UNKNOWN
//   - not registered but renewed on its own (rare, e.g. serial renewal)
//     → IN_COPYRIGHT
func Decide(reg, ren *domain.MatchResult, country domain.CountryClass, year *int) string {
	switch {
	case reg != nil && ren != nil:
		return InCopyright
	case reg == nil && ren != nil:
		return InCopyright
	case reg != nil && ren == nil:
		if year != nil && *year < cutoffYear {
			return PublicDomainNotRenewed
		}
		return Unknown
	case country == domain.CountryNonUS:
		return OutOfScopeNonUS
	default:
		return Unknown
	}
}
