// Package email finds and validates contact email addresses in page text.
//
// # Extraction
//
// Extract recognizes plain addresses and the bracketed obfuscation artists
// use to dodge scrapers:
//
//	email.Extract("booking: band@example.com")          // ["band@example.com"]
//	email.Extract("jane [at] example [dot] com")        // ["jane@example.com"]
//
// # Validation
//
// IsValid is deliberately strict: ASCII only, at most 254 characters and an
// alphabetic TLD of two or more letters. Every address returned by Extract
// and FromMailto has passed it.
//
// # Mailto Links
//
//	addr, ok := email.FromMailto("mailto:band@example.com?subject=Booking")
//	// addr = "band@example.com", ok = true
package email
