package bandcamp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/handiism/bandcamp-contacts/internal/http"
	"github.com/handiism/bandcamp-contacts/internal/page"
)

// ErrNoAlbumFound is returned when no album or track URLs can be found on a page.
//
// This typically occurs when:
//   - The URL is not a valid Bandcamp artist/music page
//   - The artist has no published albums or tracks
//   - The HTML structure has changed unexpectedly
var ErrNoAlbumFound = errors.New("no album found on page")

// Fetcher retrieves pages. *http.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Discography turns artist URLs into album URLs.
//
// Album and track URLs pass through unchanged. For an artist's root URL
// the /music page is fetched and every album and track link on it is
// returned, so a whole roster can be scraped from a handful of artist URLs.
//
// Example usage:
//
//	disco := NewDiscography(client)
//	urls, err := disco.Expand(ctx, "https://artist.bandcamp.com")
//	// urls = ["https://artist.bandcamp.com/album/first", ...]
type Discography struct {
	fetcher Fetcher
}

// NewDiscography creates a Discography that fetches through f.
func NewDiscography(f Fetcher) *Discography {
	return &Discography{fetcher: f}
}

// Expand returns the album URLs behind inputURL.
//
// Returns an error if inputURL is malformed, the music page cannot be
// fetched, or the page lists no albums (ErrNoAlbumFound).
func (d *Discography) Expand(ctx context.Context, inputURL string) ([]string, error) {
	u, err := url.Parse(strings.TrimSpace(inputURL))
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q", inputURL)
	}

	if IsAlbumURL(u.String()) {
		return []string{CleanAlbumURL(u.String())}, nil
	}

	musicURL := fmt.Sprintf("%s://%s/music", u.Scheme, u.Host)
	resp, err := d.fetcher.Get(ctx, musicURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", musicURL, err)
	}

	pg, err := page.Parse(resp.Body, resp.URL)
	if err != nil {
		return nil, err
	}

	return AlbumURLs(pg)
}

// AlbumURLs extracts all album and track URLs from a Bandcamp music page.
//
// Relative links are resolved against the page URL, queries are dropped
// and duplicates are removed, keeping page order. When an artist has a
// single release the /music page redirects to it; the release URL itself
// is then returned.
//
// Returns ErrNoAlbumFound if no album or track URLs can be found.
func AlbumURLs(pg *page.Page) ([]string, error) {
	if pg.Document().Find("div#discography").Length() > 0 && IsAlbumURL(pg.URL.String()) {
		return []string{CleanAlbumURL(pg.URL.String())}, nil
	}

	seen := make(map[string]struct{})
	var urls []string
	pg.Document().Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		abs, err := pg.Resolve(href)
		if err != nil || !IsAlbumURL(abs.String()) {
			return
		}
		clean := CleanAlbumURL(abs.String())
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		urls = append(urls, clean)
	})

	if len(urls) == 0 {
		return nil, ErrNoAlbumFound
	}
	return urls, nil
}

// IsAlbumURL reports whether rawURL points at an album or track page.
func IsAlbumURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Contains(u.Path, "/album/") || strings.Contains(u.Path, "/track/")
}

// CleanAlbumURL strips the query string and fragment from an album URL,
// leaving scheme, host and path untouched.
//
// Edge cases:
//   - "https://a.bandcamp.com/album/x?from=discover" becomes "https://a.bandcamp.com/album/x"
//   - a URL without a query is returned trimmed but otherwise unchanged
//   - a trailing slash is kept, so "/album/x/" and "/album/x" stay distinct
func CleanAlbumURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if i := strings.IndexAny(rawURL, "?#"); i != -1 {
		rawURL = rawURL[:i]
	}
	return rawURL
}
