package screening

import (
	"context"
	"fmt"
	"math"

	"clearway/internal/applicant"
	"clearway/internal/screening/sources"
)

// ownershipTolerance absorbs floating-point noise when validating that
// declared ownership percentages sum to 100.
const ownershipTolerance = 0.01

// UBOCheck screens the ultimate beneficial owners of an entity applicant.
// It parses the free-text owner list, validates that declared ownership sums
// to 100%, and runs each owner through the same sanctions and PEP policies
// applied to the applicant. The worst per-owner outcome drives the result.
type UBOCheck struct {
	lists    []sources.SanctionsSource
	register sources.PEPSource
}

// NewUBOCheck creates a UBO check reusing the sanctions lists and PEP register.
func NewUBOCheck(lists []sources.SanctionsSource, register sources.PEPSource) *UBOCheck {
	return &UBOCheck{lists: lists, register: register}
}

func (c *UBOCheck) Name() string { return CheckUBO }

// Applies limits the check to entity clients.
func (c *UBOCheck) Applies(rec *applicant.Record) bool { return rec.IsEntity() }

func (c *UBOCheck) Run(ctx context.Context, rec *applicant.Record) CheckResult {
	entries := ParseUBOList(rec.UBOListText)
	if len(entries) == 0 {
		return amber(c.Name(), "no UBO information provided", map[string]string{
			"checked_at": checkedAt(),
		})
	}

	evidence := map[string]string{
		"owners":     fmt.Sprintf("%d", len(entries)),
		"checked_at": checkedAt(),
	}

	severity := SeverityGreen
	reason := fmt.Sprintf("%d beneficial owners screened clear", len(entries))

	total := TotalOwnership(entries)
	evidence["ownership_total"] = fmt.Sprintf("%.1f", total)
	if math.Abs(total-100) > ownershipTolerance {
		severity = SeverityAmber
		reason = fmt.Sprintf("declared ownership totals %.1f%%, expected 100%%", total)
	}

	for _, entry := range entries {
		ownerSeverity, ownerReason := c.screenOwner(ctx, entry, rec.TaxResidencyCountry, evidence)
		if ownerSeverity > severity {
			severity = ownerSeverity
			reason = fmt.Sprintf("%s: %s", entry.Name, ownerReason)
		}
		if severity == SeverityRed {
			break
		}
	}

	return CheckResult{Name: c.Name(), Severity: severity, Reason: reason, Evidence: evidence}
}

// screenOwner runs one beneficial owner through sanctions and PEP screening,
// recording per-owner outcomes in the shared evidence map.
func (c *UBOCheck) screenOwner(ctx context.Context, entry UBOEntry, country string, evidence map[string]string) (Severity, string) {
	sanctionsSeverity, sanctionsReason, _ := screenNameAgainstLists(ctx, c.lists, entry.Name)
	if sanctionsSeverity == SeverityRed {
		evidence["owner:"+entry.Name] = "sanctions match"
		return SeverityRed, sanctionsReason
	}

	pepSeverity, pepReason, _ := screenPersonForPEP(ctx, c.register, entry.Name, country)
	if pepSeverity > SeverityGreen {
		evidence["owner:"+entry.Name] = pepReason
		return pepSeverity, pepReason
	}

	evidence["owner:"+entry.Name] = "clear"
	return SeverityGreen, "clear"
}

var _ Check = (*UBOCheck)(nil)
