// Package blocklist holds the process-wide domain-reputation state consulted
// by the identity validation pipeline. The static seed lists ship with the
// binary; the dynamic disposable list is loaded at startup and refreshed on a
// schedule, so validation never hits the configuration store per call.
package blocklist

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// disposableSeed are well-known throwaway mail providers.
var disposableSeed = []string{
	"mailinator.com",
	"guerrillamail.com",
	"10minutemail.com",
	"tempmail.com",
	"temp-mail.org",
	"throwawaymail.com",
	"yopmail.com",
	"getnada.com",
	"maildrop.cc",
	"sharklasers.com",
	"trashmail.com",
	"dispostable.com",
	"fakeinbox.com",
	"mintemail.com",
	"spamgourmet.com",
}

// dangerousDomains are exact domains with a history of abuse.
var dangerousDomains = []string{
	"spam4.me",
	"mail.ru.invalid",
	"bulkmail.example",
}

// abusedTLDs are free or heavily abused top-level domains rejected outright.
var abusedTLDs = []string{"tk", "ml", "ga", "cf", "gq"}

// Source supplies the dynamic disposable-domain list.
type Source interface {
	FetchDisposableDomains(ctx context.Context) ([]string, error)
}

// Blocklist implements service.DomainBlocklist. Reads take the read lock;
// the dynamic set is swapped wholesale on refresh.
type Blocklist struct {
	mu         sync.RWMutex
	disposable map[string]struct{} // seed merged with dynamic
	dangerous  map[string]struct{}
	tlds       map[string]struct{}

	source Source
	log    zerolog.Logger
}

// New builds a Blocklist from the static seeds. Call Refresh to merge the
// dynamic list; a nil source keeps the seeds only.
func New(source Source, log zerolog.Logger) *Blocklist {
	b := &Blocklist{
		disposable: make(map[string]struct{}, len(disposableSeed)),
		dangerous:  make(map[string]struct{}, len(dangerousDomains)),
		tlds:       make(map[string]struct{}, len(abusedTLDs)),
		source:     source,
		log:        log,
	}
	for _, d := range disposableSeed {
		b.disposable[d] = struct{}{}
	}
	for _, d := range dangerousDomains {
		b.dangerous[d] = struct{}{}
	}
	for _, t := range abusedTLDs {
		b.tlds[t] = struct{}{}
	}
	return b
}

// IsDisposable reports whether the domain is a known throwaway provider.
func (b *Blocklist) IsDisposable(domain string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.disposable[strings.ToLower(domain)]
	return ok
}

// IsDangerous reports whether the exact domain is blacklisted or its TLD is
// in the abused set.
func (b *Blocklist) IsDangerous(domain string) bool {
	domain = strings.ToLower(domain)

	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.dangerous[domain]; ok {
		return true
	}
	if i := strings.LastIndex(domain, "."); i >= 0 {
		if _, ok := b.tlds[domain[i+1:]]; ok {
			return true
		}
	}
	return false
}

// Refresh merges the dynamic disposable list into the seed set. A fetch
// failure keeps the previous state; validation stays available on stale data.
func (b *Blocklist) Refresh(ctx context.Context) error {
	if b.source == nil {
		return nil
	}
	dynamic, err := b.source.FetchDisposableDomains(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("blocklist refresh failed, keeping previous list")
		return err
	}

	next := make(map[string]struct{}, len(disposableSeed)+len(dynamic))
	for _, d := range disposableSeed {
		next[d] = struct{}{}
	}
	for _, d := range dynamic {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			next[d] = struct{}{}
		}
	}

	b.mu.Lock()
	b.disposable = next
	b.mu.Unlock()

	b.log.Info().Int("domains", len(next)).Msg("disposable blocklist refreshed")
	return nil
}
