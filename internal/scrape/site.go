package scrape

import (
	"context"
	"fmt"

	"github.com/handiism/bandcamp-contacts/internal/domain"
	"github.com/handiism/bandcamp-contacts/internal/email"
	"github.com/handiism/bandcamp-contacts/internal/http"
	"github.com/handiism/bandcamp-contacts/internal/page"
)

// Fetcher retrieves pages. *http.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// RobotsChecker decides whether a URL may be fetched. *http.Robots
// satisfies it.
type RobotsChecker interface {
	Allowed(ctx context.Context, url string) bool
}

// SiteResolver looks for a trusted contact email on an artist's own
// website.
//
// The site's front page is tried first (visible text, then mailto links),
// then a single "contact" subpage. Every address found is passed through
// the domain trust Filter using the site's registered domain, so a
// web designer's or label's address in the footer is not mistaken for the
// artist's.
//
// Example usage:
//
//	site := NewSiteResolver(client, page.NewHarvester(domain.Excluded()), domain.NewFilter(domain.PublicProviders()))
//	emails := site.Resolve(ctx, "https://the-band.com", log.Printf)
type SiteResolver struct {
	fetcher   Fetcher
	harvester *page.Harvester
	filter    *domain.Filter
	robots    RobotsChecker
}

// NewSiteResolver creates a SiteResolver.
func NewSiteResolver(f Fetcher, h *page.Harvester, filter *domain.Filter) *SiteResolver {
	return &SiteResolver{
		fetcher:   f,
		harvester: h,
		filter:    filter,
	}
}

// WithRobots makes the resolver skip pages that robots.txt disallows.
func (r *SiteResolver) WithRobots(rc RobotsChecker) *SiteResolver {
	r.robots = rc
	return r
}

// Resolve returns the trusted emails found on siteURL or its contact page.
//
// The stages are tried in order and the first non-empty result wins:
//  1. Visible text of the front page
//  2. mailto: links of the front page
//  3. Visible text of the first contact page
//  4. mailto: links of the first contact page
//
// Excluded domains are never fetched. Fetch and parse failures end the
// search with no result; they are logged through logf but never returned.
func (r *SiteResolver) Resolve(ctx context.Context, siteURL string, logf func(format string, args ...any)) []string {
	logf("  Visiting external site: %s", siteURL)

	if r.harvester.Excluded().ContainsURL(siteURL) {
		logf("    Skipping excluded domain")
		return nil
	}
	reference := domain.RegisteredFromURL(siteURL)

	p, err := r.fetch(ctx, siteURL)
	if err != nil {
		logf("    Request failed: %v", err)
		return nil
	}

	if kept := r.trusted(email.Extract(p.Text()), reference, logf); len(kept) > 0 {
		logf("    Found email(s) in text: %q", kept)
		return kept
	}

	if kept := r.trusted(r.harvester.MailtoEmails(p), reference, logf); len(kept) > 0 {
		logf("    Found email(s) in mailto links: %q", kept)
		return kept
	}

	logf("    Checking for contact page...")
	contactURL, ok := r.harvester.ContactCandidate(p)
	if !ok {
		return nil
	}
	logf("    Found contact page: %s", contactURL)

	cp, err := r.fetch(ctx, contactURL)
	if err != nil {
		return nil
	}

	if kept := r.trusted(email.Extract(cp.Text()), reference, logf); len(kept) > 0 {
		logf("    Found email(s) on contact page (text): %q", kept)
		return kept
	}

	if kept := r.trusted(r.harvester.MailtoEmails(cp), reference, logf); len(kept) > 0 {
		logf("    Found email(s) on contact page (mailto): %q", kept)
		return kept
	}

	return nil
}

// fetch retrieves and parses a page with non-content markup removed.
func (r *SiteResolver) fetch(ctx context.Context, rawURL string) (*page.Page, error) {
	if r.robots != nil && !r.robots.Allowed(ctx, rawURL) {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}

	resp, err := r.fetcher.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	p, err := page.Parse(resp.Body, resp.URL)
	if err != nil {
		return nil, err
	}
	p.StripNonContent()
	return p, nil
}

func (r *SiteResolver) trusted(emails []string, reference string, logf func(format string, args ...any)) []string {
	if len(emails) == 0 {
		return nil
	}
	kept, skipped := r.filter.Apply(emails, reference)
	if len(skipped) > 0 {
		logf("    Skipped email(s) (domain mismatch): %q", skipped)
	}
	return kept
}
