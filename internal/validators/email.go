package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// DomainResolver is the subset of *net.Resolver used to check that an
// e-mail domain can receive mail.
type DomainResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

const domainLookupTimeout = 3 * time.Second

// EmailDomain returns the lower-cased domain part of email, or "" when
// there is none.
func EmailDomain(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}

// EmailDomainResolves accepts the address when its domain has an MX record
// or, failing that, an A/AAAA record.
func EmailDomainResolves(ctx context.Context, r DomainResolver, email string) bool {
	domain := EmailDomain(email)
	if domain == "" || !strings.Contains(domain, ".") {
		return false
	}
	if r == nil {
		r = net.DefaultResolver
	}

	ctx, cancel := context.WithTimeout(ctx, domainLookupTimeout)
	defer cancel()

	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if hosts, err := r.LookupHost(ctx, domain); err == nil && len(hosts) > 0 {
		return true
	}

	return false
}
