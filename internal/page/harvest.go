package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/handiism/bandcamp-contacts/internal/domain"
	"github.com/handiism/bandcamp-contacts/internal/email"
)

// BandLinksSelector matches the artist's outbound links on a Bandcamp page.
const BandLinksSelector = "#band-links a"

// Harvester pulls contact leads out of a parsed page: mailto addresses,
// the artist's own website, and a site's contact page.
//
// The excluded domain set is fixed at construction time.
//
// Example usage:
//
//	h := NewHarvester(domain.Excluded())
//
//	emails := h.MailtoEmails(p)
//	if site, ok := h.ExternalCandidate(p); ok {
//	    fmt.Println("artist website:", site)
//	}
type Harvester struct {
	excluded      domain.Set
	linksSelector string
}

// NewHarvester creates a Harvester that skips the given domains when
// looking for an artist's website.
func NewHarvester(excluded domain.Set) *Harvester {
	return &Harvester{
		excluded:      excluded,
		linksSelector: BandLinksSelector,
	}
}

// Excluded returns the harvester's excluded domain set.
func (h *Harvester) Excluded() domain.Set {
	return h.excluded
}

// MailtoEmails returns the valid addresses of every mailto: link on the
// page as a sorted set.
func (h *Harvester) MailtoEmails(p *Page) []string {
	var found []string
	p.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if addr, ok := email.FromMailto(href); ok {
			found = append(found, addr)
		}
	})
	return email.Set(found...)
}

// ExternalCandidate returns the first link in the band links region that
// points at a non-excluded http(s) site, in document order.
//
// Links whose domain cannot be determined are skipped. The second return
// value is false when no link qualifies.
func (h *Harvester) ExternalCandidate(p *Page) (string, bool) {
	var found string
	p.doc.Find(h.linksSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if !isHTTP(href) {
			return true
		}
		if domain.RegisteredFromURL(href) == "" || h.excluded.ContainsURL(href) {
			return true
		}
		found = href
		return false
	})
	return found, found != ""
}

// ContactCandidate returns the first link whose text or href mentions
// "contact", resolved against the page URL.
//
// Links that do not resolve to an absolute http(s) URL are skipped and the
// scan continues.
func (h *Harvester) ContactCandidate(p *Page) (string, bool) {
	var found string
	p.doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		text := strings.ToLower(strings.TrimSpace(s.Text()))
		if !strings.Contains(text, "contact") && !strings.Contains(strings.ToLower(href), "contact") {
			return true
		}

		u, err := p.Resolve(href)
		if err != nil || !u.IsAbs() || !isHTTP(u.String()) {
			return true
		}
		found = u.String()
		return false
	})
	return found, found != ""
}

func isHTTP(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
