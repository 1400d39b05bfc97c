package screening

import (
	"context"
	"fmt"

	"clearway/internal/applicant"
	"clearway/internal/screening/sources"
)

// SanctionsCheck screens the applicant's full legal name against every
// configured sanctions list. A match from any list is decisive and blocks the
// case; list failures are recorded as evidence but do not degrade the result.
// False negatives are preferred over blocking all traffic while a list is down.
type SanctionsCheck struct {
	lists []sources.SanctionsSource
}

// NewSanctionsCheck creates a sanctions check over the given list sources.
func NewSanctionsCheck(lists []sources.SanctionsSource) *SanctionsCheck {
	return &SanctionsCheck{lists: lists}
}

func (c *SanctionsCheck) Name() string { return CheckSanctions }

func (c *SanctionsCheck) Run(ctx context.Context, rec *applicant.Record) CheckResult {
	severity, reason, evidence := screenNameAgainstLists(ctx, c.lists, rec.FullLegalName)
	return CheckResult{Name: c.Name(), Severity: severity, Reason: reason, Evidence: evidence}
}

// screenNameAgainstLists applies the sanctions policy to one name. Shared
// with UBO screening, which runs the same lookup per beneficial owner.
func screenNameAgainstLists(ctx context.Context, lists []sources.SanctionsSource, fullName string) (Severity, string, map[string]string) {
	evidence := map[string]string{"checked_at": checkedAt()}

	for _, list := range lists {
		result, err := list.Screen(ctx, fullName)
		if err != nil {
			evidence[list.ID()] = fmt.Sprintf("lookup failed: %s", sources.GetCategory(err))
			continue
		}
		if result.Listed {
			evidence[list.ID()] = "match"
			evidence["matched_name"] = result.MatchedName
			return SeverityRed, fmt.Sprintf("name matched on sanctions list %s", result.List), evidence
		}
		evidence[list.ID()] = "clear"
	}

	return SeverityGreen, "no sanctions match", evidence
}

var _ Check = (*SanctionsCheck)(nil)
