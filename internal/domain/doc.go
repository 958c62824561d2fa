// Package domain holds the domain knowledge used to judge contact emails
// and outbound links.
//
// Registered and RegisteredFromURL reduce hostnames to their registered
// domain with the public suffix list. Set is an immutable domain set; the
// default public-provider and excluded-site sets are returned by
// PublicProviders and Excluded, and tests can substitute their own.
//
// Filter applies the trust rule for emails found on an artist's external
// website:
//
//	f := domain.NewFilter(domain.PublicProviders())
//	kept, skipped := f.Apply(emails, domain.RegisteredFromURL(siteURL))
package domain
