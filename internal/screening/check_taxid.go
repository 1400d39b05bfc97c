package screening

import (
	"context"
	"fmt"
	"strings"

	"clearway/internal/applicant"
)

// minTaxIDLength is the shortest plausible tax identification number after
// stripping separators. Shorter values are treated as missing or mistyped.
const minTaxIDLength = 5

// TaxIDFormatCheck is a shallow format heuristic on the tax identification
// number. It is deliberately not a registry validation: an absent or obviously
// truncated TIN blocks the case, everything else passes.
type TaxIDFormatCheck struct{}

// NewTaxIDFormatCheck creates the tax-ID format check.
func NewTaxIDFormatCheck() *TaxIDFormatCheck {
	return &TaxIDFormatCheck{}
}

func (c *TaxIDFormatCheck) Name() string { return CheckTaxIDFormat }

func (c *TaxIDFormatCheck) Run(_ context.Context, rec *applicant.Record) CheckResult {
	normalized := strings.NewReplacer(" ", "", "-", "", ".", "").Replace(strings.TrimSpace(rec.TIN))
	evidence := map[string]string{
		"country":    rec.TaxResidencyCountry,
		"checked_at": checkedAt(),
	}

	switch {
	case normalized == "":
		return red(c.Name(), "tax identification number absent", evidence)
	case len(normalized) < minTaxIDLength:
		return red(c.Name(), fmt.Sprintf("tax identification number too short (%d characters)", len(normalized)), evidence)
	default:
		return green(c.Name(), "tax identification number format plausible", evidence)
	}
}

var _ Check = (*TaxIDFormatCheck)(nil)
