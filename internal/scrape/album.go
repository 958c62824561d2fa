package scrape

import (
	"context"
	"errors"
	"fmt"

	"github.com/handiism/bandcamp-contacts/internal/bandcamp"
	"github.com/handiism/bandcamp-contacts/internal/email"
	"github.com/handiism/bandcamp-contacts/internal/http"
	"github.com/handiism/bandcamp-contacts/internal/model"
	"github.com/handiism/bandcamp-contacts/internal/page"
)

// AlbumResolver finds contact emails for the artist behind one album page.
//
// Addresses in the album page's own bio or mailto links are trusted as-is.
// Only when the page has neither does the resolver follow the artist's
// external website, where the SiteResolver's domain filter applies.
//
// An AlbumResolver is safe for concurrent use as long as its Fetcher is.
type AlbumResolver struct {
	fetcher     Fetcher
	parser      *bandcamp.Parser
	harvester   *page.Harvester
	site        *SiteResolver
	notesLength int
}

// NewAlbumResolver creates an AlbumResolver. notesLength bounds the bio
// excerpt stored in each contact; zero means model.DefaultNotesLength.
func NewAlbumResolver(f Fetcher, h *page.Harvester, site *SiteResolver, notesLength int) *AlbumResolver {
	return &AlbumResolver{
		fetcher:     f,
		parser:      bandcamp.NewParser(),
		harvester:   h,
		site:        site,
		notesLength: notesLength,
	}
}

// Resolve fetches albumURL and returns the contacts found for its artist.
//
// The search stops at the first source that yields an address:
//  1. Emails in the bio text
//  2. mailto: links anywhere on the page
//  3. The artist's external website (see SiteResolver.Resolve)
//
// A 429 response sets RateLimited and stops immediately; the caller decides
// how to back off. Any other failure yields an empty result with the reason
// in Logs. Finding nothing is a normal outcome, not an error.
func (r *AlbumResolver) Resolve(ctx context.Context, albumURL string) model.AlbumResult {
	result := model.AlbumResult{URL: albumURL}
	logf := func(format string, args ...any) {
		result.Logs = append(result.Logs, fmt.Sprintf(format, args...))
	}

	logf("Scraping album: %s", albumURL)

	resp, err := r.fetcher.Get(ctx, albumURL)
	if err != nil {
		if errors.Is(err, http.ErrRateLimited) {
			logf("  Rate limited by Bandcamp - backing off...")
			result.RateLimited = true
			return result
		}
		logf("  Request failed: %v", err)
		return result
	}

	p, err := page.Parse(resp.Body, resp.URL)
	if err != nil {
		logf("  Parse failed: %v", err)
		return result
	}

	album := r.parser.ParseAlbumPage(p, albumURL)

	if emails := email.Extract(album.Bio); len(emails) > 0 {
		logf("  Found email(s) in bio: %q", emails)
		result.Contacts = album.Contacts(emails, r.notesLength)
		return result
	}

	if emails := r.harvester.MailtoEmails(p); len(emails) > 0 {
		logf("  Found email(s) in mailto links: %q", emails)
		result.Contacts = album.Contacts(emails, r.notesLength)
		return result
	}

	logf("  No email in bio or mailto links, checking external links...")

	siteURL, ok := r.harvester.ExternalCandidate(p)
	if !ok {
		logf("  No external link found")
		return result
	}
	logf("  Found external link: %s", siteURL)

	if emails := r.site.Resolve(ctx, siteURL, logf); len(emails) > 0 {
		result.Contacts = album.Contacts(emails, r.notesLength)
	}

	return result
}
