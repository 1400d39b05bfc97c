package screening

import (
	"context"
	"time"

	"clearway/internal/applicant"
)

// Check names as they appear in screening summaries and RFIs.
const (
	CheckSanctions      = "sanctions"
	CheckPEP            = "pep"
	CheckEntityRegistry = "entity_registry"
	CheckUBO            = "ubo"
	CheckTaxIDFormat    = "tax_id_format"
	CheckEmailDomain    = "email_domain"
	CheckAdverseMedia   = "adverse_media"
)

// Check is one independent verification. Run must never fail: any internal
// problem (source unreachable, parse error, timeout) is converted into an
// AMBER result describing the failure class, so one broken source can never
// abort the rest of the screening.
type Check interface {
	Name() string
	Run(ctx context.Context, rec *applicant.Record) CheckResult
}

// green, amber and red build uniform results so evidence payloads stay
// consistent across checks.
func green(name, reason string, evidence map[string]string) CheckResult {
	return CheckResult{Name: name, Severity: SeverityGreen, Reason: reason, Evidence: evidence}
}

func amber(name, reason string, evidence map[string]string) CheckResult {
	return CheckResult{Name: name, Severity: SeverityAmber, Reason: reason, Evidence: evidence}
}

func red(name, reason string, evidence map[string]string) CheckResult {
	return CheckResult{Name: name, Severity: SeverityRed, Reason: reason, Evidence: evidence}
}

func checkedAt() string {
	return time.Now().UTC().Format(time.RFC3339)
}
