package domain

import (
	"strings"
)

// Filter decides which emails found on an external site are trusted.
//
// An email is kept when its registered domain equals the site's registered
// domain, or when it belongs to a public email provider. Everything else is
// treated as third-party (a label, a venue, a web designer) and skipped.
//
// Example:
//
//	f := NewFilter(PublicProviders())
//	kept, skipped := f.Apply([]string{"band@example.com", "fan@gmail.com", "promo@other.net"}, "example.com")
//	// kept = ["band@example.com", "fan@gmail.com"], skipped = ["promo@other.net"]
type Filter struct {
	providers Set
}

// NewFilter creates a Filter that trusts the given public provider domains.
func NewFilter(providers Set) *Filter {
	return &Filter{providers: providers}
}

// Apply splits emails into kept and skipped lists, preserving input order.
//
// reference is the registered domain of the site the emails came from. It
// may be empty when the site's domain could not be determined; then only
// public-provider addresses survive. Strings without an "@" are dropped and
// appear in neither list.
//
// Apply is idempotent: filtering an already-kept list keeps all of it.
func (f *Filter) Apply(emails []string, reference string) (kept, skipped []string) {
	reference = strings.ToLower(reference)

	for _, e := range emails {
		at := strings.LastIndex(e, "@")
		if at == -1 {
			continue
		}

		emailDomain := strings.ToLower(e[at+1:])
		registered := Registered(emailDomain)
		if registered == "" {
			registered = emailDomain
		}

		switch {
		case reference != "" && registered == reference:
			kept = append(kept, e)
		case f.providers.Contains(registered):
			kept = append(kept, e)
		default:
			skipped = append(skipped, e)
		}
	}

	return kept, skipped
}
