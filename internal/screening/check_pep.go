package screening

import (
	"context"
	"fmt"

	"clearway/internal/applicant"
	"clearway/internal/screening/sources"
)

// PEPCheck looks the applicant up in a register of politically exposed
// persons, scoped to their tax residency country. A confirmed PEP needs
// human review (AMBER), not an automatic block; the self-declared PEP flag
// feeds the missing-information rules instead of this check.
type PEPCheck struct {
	register sources.PEPSource
}

// NewPEPCheck creates a PEP check backed by the given register.
func NewPEPCheck(register sources.PEPSource) *PEPCheck {
	return &PEPCheck{register: register}
}

func (c *PEPCheck) Name() string { return CheckPEP }

func (c *PEPCheck) Run(ctx context.Context, rec *applicant.Record) CheckResult {
	severity, reason, evidence := screenPersonForPEP(ctx, c.register, rec.FullLegalName, rec.TaxResidencyCountry)
	return CheckResult{Name: c.Name(), Severity: severity, Reason: reason, Evidence: evidence}
}

// screenPersonForPEP applies the PEP policy to one person. Shared with UBO
// screening. A register failure degrades to AMBER: "could not verify" is
// never the same as "clear".
func screenPersonForPEP(ctx context.Context, register sources.PEPSource, fullName, country string) (Severity, string, map[string]string) {
	evidence := map[string]string{
		"register":   register.ID(),
		"country":    country,
		"checked_at": checkedAt(),
	}

	result, err := register.Screen(ctx, fullName, country)
	if err != nil {
		evidence["failure"] = string(sources.GetCategory(err))
		return SeverityAmber, "PEP register unreachable", evidence
	}

	if result.Matched {
		if result.Position != "" {
			evidence["position"] = result.Position
		}
		if result.Jurisdiction != "" {
			evidence["jurisdiction"] = result.Jurisdiction
		}
		return SeverityAmber, fmt.Sprintf("politically exposed person match for %s", fullName), evidence
	}

	return SeverityGreen, "no PEP match", evidence
}

var _ Check = (*PEPCheck)(nil)
