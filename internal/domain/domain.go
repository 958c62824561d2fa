package domain

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Set is an immutable set of lowercase registered domains.
type Set struct {
	m map[string]struct{}
}

// NewSet builds a Set from the given domains. Entries are lowercased and
// trimmed; empty entries are ignored.
func NewSet(domains ...string) Set {
	m := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			m[d] = struct{}{}
		}
	}
	return Set{m: m}
}

// Contains reports whether d is in the set. The lookup is case-insensitive.
func (s Set) Contains(d string) bool {
	if d == "" {
		return false
	}
	_, ok := s.m[strings.ToLower(d)]
	return ok
}

// ContainsURL reports whether the URL's registered domain or its full
// hostname is in the set. The hostname check lets entries such as
// "play.google.com" match even though their registered domain is broader.
func (s Set) ContainsURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	return s.Contains(host) || s.Contains(Registered(host))
}

// Registered returns the registered domain (eTLD+1) of host using the
// public suffix list, e.g. "mail.example.co.uk" becomes "example.co.uk".
//
// A trailing dot is removed first. An empty string is returned when host is
// itself a public suffix or cannot be parsed.
func Registered(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" {
		return ""
	}

	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return d
}

// RegisteredFromURL returns the registered domain of the URL's host.
// Malformed URLs and URLs without a host yield an empty string.
func RegisteredFromURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return Registered(u.Hostname())
}
