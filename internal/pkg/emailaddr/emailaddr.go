// Package emailaddr canonicalizes, masks, and format-checks email addresses.
//
// Normalization is the basis for duplicate detection: two raw addresses that
// normalize identically are the same mailbox. Provider-specific rules (tag
// suffixes, dot-insensitive local parts) are registered per domain.
package emailaddr

import (
	"regexp"
	"strings"
)

const (
	minLength = 5
	maxLength = 254

	maskRune = '*'
)

// rfc-lite: one local part, one @, domain labels with a 2+ letter TLD.
var addressPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Normalizer rewrites a local part under a provider's equivalence rules.
type Normalizer func(localPart string) string

// providerNormalizers holds per-domain local-part rules, keyed by the
// case-folded domain. Gmail ignores dots and anything after '+'.
var providerNormalizers = map[string]Normalizer{
	"gmail.com":      gmailLocalPart,
	"googlemail.com": gmailLocalPart,
}

func gmailLocalPart(local string) string {
	if i := strings.Index(local, "+"); i >= 0 {
		local = local[:i]
	}
	return strings.ReplaceAll(local, ".", "")
}

// RegisterNormalizer installs a provider rule for the given domain. Intended
// to be called during startup, before any validation traffic.
func RegisterNormalizer(domain string, n Normalizer) {
	providerNormalizers[strings.ToLower(domain)] = n
}

// Split returns the local part and domain of an address. ok is false when the
// address does not contain exactly one usable @ separator.
func Split(email string) (local, domain string, ok bool) {
	i := strings.LastIndex(email, "@")
	if i <= 0 || i == len(email)-1 {
		return "", "", false
	}
	return email[:i], email[i+1:], true
}

// Normalize canonicalizes an address for duplicate comparison: case-fold,
// then apply the owning provider's local-part rules when registered.
// Malformed input is returned case-folded so the result is still stable.
func Normalize(email string) string {
	lowered := strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := Split(lowered)
	if !ok {
		return lowered
	}
	if normalize, found := providerNormalizers[domain]; found {
		local = normalize(local)
	}
	return local + "@" + domain
}

// ValidFormat applies the structural checks: pattern match, overall length in
// [5,254], no consecutive dots, no leading dot, and no dot adjacent to the @.
func ValidFormat(email string) bool {
	if len(email) < minLength || len(email) > maxLength {
		return false
	}
	if !addressPattern.MatchString(email) {
		return false
	}
	if strings.Contains(email, "..") {
		return false
	}
	if strings.HasPrefix(email, ".") {
		return false
	}
	if strings.Contains(email, ".@") || strings.Contains(email, "@.") {
		return false
	}
	return true
}

// Mask redacts an address for logs and audit records: the first two
// characters of the local part survive, the remainder becomes mask
// characters, and the domain is left intact. Local parts of length <= 2 are
// not masked. This is a privacy measure, not a security control.
func Mask(email string) string {
	local, domain, ok := Split(email)
	if !ok || len(local) <= 2 {
		return email
	}
	masked := []rune(local)
	for i := 2; i < len(masked); i++ {
		masked[i] = maskRune
	}
	return string(masked) + "@" + domain
}
