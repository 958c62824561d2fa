package email

import (
	"regexp"
	"sort"
	"strings"
)

// MaxLength is the longest address IsValid accepts.
const MaxLength = 254

var (
	// plainPattern finds addresses embedded in free text.
	plainPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// validPattern is plainPattern anchored at both ends.
	validPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

	// obfuscatedPattern matches "user [at] domain [dot] tld" forms.
	obfuscatedPattern = regexp.MustCompile(`(?i)([A-Za-z0-9._%+-]+)\s?\[at\]\s?([A-Za-z0-9.-]+)\s?\[dot\]\s?([A-Za-z.]{2,})`)
)

// IsValid reports whether s is a strictly formatted ASCII email address.
//
// The address must be non-empty, no longer than MaxLength, and consist of a
// local part, "@", a domain and an alphabetic top-level domain of at least
// two letters. Internationalized addresses are rejected.
//
// Example:
//
//	IsValid("a@b.co") // true
//	IsValid("a@b")    // false, no TLD
func IsValid(s string) bool {
	if s == "" || len(s) > MaxLength {
		return false
	}
	return validPattern.MatchString(s)
}

// Extract returns every valid email address found in text.
//
// Both plain addresses and obfuscated ones written as
// "jane [at] example [dot] com" are recognized; the latter are rebuilt into
// "jane@example.com". Matches are merged into a set, validated with IsValid
// and returned sorted. Addresses are compared as exact strings, so
// "A@B.com" and "a@b.com" are both kept.
//
// Example:
//
//	emails := Extract("contact me at jane [at] example [dot] com")
//	// emails = []string{"jane@example.com"}
func Extract(text string) []string {
	set := make(map[string]struct{})

	for _, m := range plainPattern.FindAllString(text, -1) {
		set[m] = struct{}{}
	}

	for _, m := range obfuscatedPattern.FindAllStringSubmatch(text, -1) {
		set[m[1]+"@"+m[2]+"."+m[3]] = struct{}{}
	}

	return validSorted(set)
}

// FromMailto extracts the address from a mailto: href.
//
// The "mailto:" scheme is matched case-insensitively. Anything from the
// first "?" on (subject, cc, body) is dropped and surrounding whitespace is
// trimmed. The second return value is false when href is not a mailto link
// or the remaining address fails IsValid.
//
// Example:
//
//	FromMailto("MAILTO: band@example.com?subject=Hi") // "band@example.com", true
//	FromMailto("mailto:")                             // "", false
//	FromMailto("https://example.com")                 // "", false
func FromMailto(href string) (string, bool) {
	const scheme = "mailto:"
	if len(href) < len(scheme) || !strings.EqualFold(href[:len(scheme)], scheme) {
		return "", false
	}

	addr := href[len(scheme):]
	if i := strings.Index(addr, "?"); i != -1 {
		addr = addr[:i]
	}
	addr = strings.TrimSpace(addr)

	if !IsValid(addr) {
		return "", false
	}
	return addr, true
}

// Set collects addresses into a sorted, duplicate-free slice, dropping
// anything that fails IsValid.
func Set(addrs ...string) []string {
	set := make(map[string]struct{}, len(addrs))
	for _, a := range addrs {
		set[a] = struct{}{}
	}
	return validSorted(set)
}

func validSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for e := range set {
		if IsValid(e) {
			out = append(out, e)
		}
	}
	sort.Strings(out)
	return out
}
