package screening

import (
	"fmt"

	"clearway/internal/applicant"
)

// Document category tags the onboarding form uses for the uploads the
// missing-information rules care about.
const (
	DocProofOfAddress = "proof_of_address"
	DocSourceOfFunds  = "source_of_funds"
	DocRegisterOfUBOs = "register_of_ubos"
)

// MissingInfo applies the static completeness rules to a submitted record.
// The list informs reviewers only; it never changes the overall severity.
func MissingInfo(rec *applicant.Record) []string {
	missing := []string{}

	if !rec.HasDocument(DocProofOfAddress) {
		missing = append(missing, "proof of address document not provided")
	}
	if !rec.HasDocument(DocSourceOfFunds) {
		missing = append(missing, "source of funds document not provided")
	}
	if rec.PEPStatus == applicant.PEPYes && rec.PEPDetails == "" {
		missing = append(missing, "PEP status declared without details")
	}
	if rec.IsEntity() && !rec.HasDocument(DocRegisterOfUBOs) {
		missing = append(missing, "register of beneficial owners not provided")
	}

	return missing
}

// RequestsForInformation derives the reviewer RFI list from check results:
// one entry per AMBER check. RED checks are blocking, not clarifiable, so
// they never generate an RFI.
func RequestsForInformation(results []CheckResult) []string {
	rfis := []string{}
	for _, r := range results {
		if r.Severity == SeverityAmber {
			rfis = append(rfis, fmt.Sprintf("%s: %s", r.Name, r.Reason))
		}
	}
	return rfis
}
