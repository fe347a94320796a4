package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const lookupTimeout = 3 * time.Second

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmailDomainValid accepts a domain with an MX record or, failing that,
// any address record.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	if mx, err := net.DefaultResolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.DefaultResolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
