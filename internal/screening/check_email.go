package screening

import (
	"context"
	"errors"
	"net"
	"net/mail"
	"strings"

	"clearway/internal/applicant"
)

// MXResolver resolves mail-exchange records. *net.Resolver satisfies it.
type MXResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// EmailDomainCheck validates that the contact address can plausibly receive
// mail. A malformed address blocks the case (the decision flow depends on
// reaching the client); a domain with a mail-exchange record is clear; a
// lookup that cannot give a definite answer stays AMBER.
type EmailDomainCheck struct {
	resolver MXResolver
}

// NewEmailDomainCheck creates an email-domain check. A nil resolver defaults
// to the system resolver.
func NewEmailDomainCheck(resolver MXResolver) *EmailDomainCheck {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &EmailDomainCheck{resolver: resolver}
}

func (c *EmailDomainCheck) Name() string { return CheckEmailDomain }

func (c *EmailDomainCheck) Run(ctx context.Context, rec *applicant.Record) CheckResult {
	evidence := map[string]string{"checked_at": checkedAt()}

	addr, err := mail.ParseAddress(rec.Email)
	if err != nil {
		return red(c.Name(), "contact email address malformed", evidence)
	}

	at := strings.LastIndex(addr.Address, "@")
	if at < 0 || at == len(addr.Address)-1 {
		return red(c.Name(), "contact email address malformed", evidence)
	}
	domain := addr.Address[at+1:]
	evidence["domain"] = domain

	records, err := c.resolver.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return amber(c.Name(), "email domain has no mail-exchange record", evidence)
		}
		return amber(c.Name(), "email domain lookup inconclusive", evidence)
	}
	if len(records) == 0 {
		return amber(c.Name(), "email domain has no mail-exchange record", evidence)
	}

	evidence["mx"] = records[0].Host
	return green(c.Name(), "email domain accepts mail", evidence)
}

var _ Check = (*EmailDomainCheck)(nil)
