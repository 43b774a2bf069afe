// Package dns provides the MX-record existence check used by the identity
// validation pipeline.
package dns

import (
	"context"
	"errors"
	"net"
	"time"
)

const defaultTimeout = 3 * time.Second

// MXResolver checks whether a domain publishes MX records. Timeouts and
// resolution failures are returned as errors; the pipeline treats both as
// validation failure, so lookups are never retried synchronously.
type MXResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewMXResolver builds a resolver with the given lookup timeout. A
// non-positive timeout falls back to 3 seconds.
func NewMXResolver(timeout time.Duration) *MXResolver {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &MXResolver{resolver: net.DefaultResolver, timeout: timeout}
}

// HasMX reports whether domain has at least one usable MX record.
func (r *MXResolver) HasMX(ctx context.Context, domain string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.resolver.LookupMX(ctx, domain)
	if err != nil {
		// A clean NXDOMAIN is a definitive "no MX", not a lookup fault.
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return false, nil
		}
		return false, err
	}

	for _, mx := range records {
		// RFC 7505 null MX ("0 .") announces the domain accepts no mail.
		if mx.Host != "" && mx.Host != "." {
			return true, nil
		}
	}
	return false, nil
}
