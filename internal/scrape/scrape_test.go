package scrape

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/handiism/bandcamp-contacts/internal/domain"
	"github.com/handiism/bandcamp-contacts/internal/http"
	"github.com/handiism/bandcamp-contacts/internal/page"
)

// fakeFetcher serves canned pages by URL and records every request.
type fakeFetcher struct {
	pages     map[string]string
	redirects map[string]string
	errs      map[string]error

	mu        sync.Mutex
	requested []string
}

func (f *fakeFetcher) Get(_ context.Context, url string) (*http.Response, error) {
	f.mu.Lock()
	f.requested = append(f.requested, url)
	f.mu.Unlock()

	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	final := url
	if to, ok := f.redirects[url]; ok {
		final = to
	}
	body, ok := f.pages[final]
	if !ok {
		return nil, &http.StatusError{Code: 404, Status: "404 Not Found"}
	}
	return &http.Response{URL: final, StatusCode: 200, Body: []byte(body)}, nil
}

func (f *fakeFetcher) wasRequested(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.requested {
		if u == url {
			return true
		}
	}
	return false
}

type denyRobots struct{ prefix string }

func (d denyRobots) Allowed(_ context.Context, url string) bool {
	return !strings.HasPrefix(url, d.prefix)
}

func newResolvers(f Fetcher) (*AlbumResolver, *SiteResolver) {
	harvester := page.NewHarvester(domain.Excluded())
	site := NewSiteResolver(f, harvester, domain.NewFilter(domain.PublicProviders()))
	return NewAlbumResolver(f, harvester, site, 0), site
}

func albumPage(bio, extra string) string {
	return fmt.Sprintf(`<html><body>
	<p id="band-name-location"><span class="title">The Band</span></p>
	<p id="bio-text">%s</p>
	%s
	</body></html>`, bio, extra)
}

const albumURL = "https://theband.bandcamp.com/album/first"

func TestAlbumResolver_BioEmail(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		albumURL: albumPage("Booking: band [at] label [dot] net",
			`<a href="mailto:other@example.com">mail</a><ol id="band-links"><a href="https://the-band.com">site</a></ol>`),
	}}
	albums, _ := newResolvers(f)

	res := albums.Resolve(context.Background(), albumURL)

	if len(res.Contacts) != 1 {
		t.Fatalf("got %d contacts, want 1: %+v", len(res.Contacts), res.Contacts)
	}
	c := res.Contacts[0]
	if c.Email != "band@label.net" {
		t.Errorf("Email = %q, want %q", c.Email, "band@label.net")
	}
	if c.Name != "The Band" {
		t.Errorf("Name = %q, want %q", c.Name, "The Band")
	}
	if c.SourceURL != albumURL {
		t.Errorf("SourceURL = %q, want %q", c.SourceURL, albumURL)
	}
	if c.Notes != "Booking: band [at] label [dot] net" {
		t.Errorf("Notes = %q", c.Notes)
	}
	if f.wasRequested("https://the-band.com") {
		t.Error("external site should not be visited when the bio has an email")
	}
}

func TestAlbumResolver_MailtoEmail(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		albumURL: albumPage("No address here.", `<a href="mailto:Band@Label.net?subject=hi">mail</a>`),
	}}
	albums, _ := newResolvers(f)

	res := albums.Resolve(context.Background(), albumURL)

	if len(res.Contacts) != 1 || res.Contacts[0].Email != "Band@Label.net" {
		t.Errorf("Contacts = %+v, want Band@Label.net", res.Contacts)
	}
}

func TestAlbumResolver_RateLimited(t *testing.T) {
	f := &fakeFetcher{errs: map[string]error{
		albumURL: fmt.Errorf("%w: %s", http.ErrRateLimited, albumURL),
	}}
	albums, _ := newResolvers(f)

	res := albums.Resolve(context.Background(), albumURL)

	if !res.RateLimited {
		t.Error("RateLimited = false, want true")
	}
	if len(res.Contacts) != 0 {
		t.Errorf("got %d contacts, want 0", len(res.Contacts))
	}
}

func TestAlbumResolver_FetchFailure(t *testing.T) {
	f := &fakeFetcher{}
	albums, _ := newResolvers(f)

	res := albums.Resolve(context.Background(), albumURL)

	if res.RateLimited {
		t.Error("RateLimited = true, want false")
	}
	if len(res.Contacts) != 0 {
		t.Errorf("got %d contacts, want 0", len(res.Contacts))
	}
	if !strings.Contains(strings.Join(res.Logs, "\n"), "Request failed") {
		t.Errorf("Logs = %v, want a request failure line", res.Logs)
	}
}

func TestAlbumResolver_OnlyExcludedLinks(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		albumURL: albumPage("Just music.", `<ol id="band-links">
			<a href="https://instagram.com/theband">Instagram</a>
			<a href="https://theband.bandcamp.com">Bandcamp</a>
		</ol>`),
	}}
	albums, _ := newResolvers(f)

	res := albums.Resolve(context.Background(), albumURL)

	if len(res.Contacts) != 0 {
		t.Errorf("got %d contacts, want 0", len(res.Contacts))
	}
	if len(f.requested) != 1 {
		t.Errorf("requested %v, want only the album page", f.requested)
	}
}

func TestAlbumResolver_ExternalContactPage(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		albumURL: albumPage("Just music.", `<ol id="band-links">
			<a href="https://instagram.com/theband">Instagram</a>
			<a href="https://domain.com">Website</a>
		</ol>`),
		"https://domain.com":         `<html><body><p>Welcome!</p><a href="/contact">Contact</a></body></html>`,
		"https://domain.com/contact": `<html><body><a href="mailto:info@domain.com">Write us</a></body></html>`,
	}}
	albums, _ := newResolvers(f)

	res := albums.Resolve(context.Background(), albumURL)

	if len(res.Contacts) != 1 {
		t.Fatalf("got %d contacts, want 1", len(res.Contacts))
	}
	if res.Contacts[0].Email != "info@domain.com" {
		t.Errorf("Email = %q, want %q", res.Contacts[0].Email, "info@domain.com")
	}
	if res.Contacts[0].SourceURL != albumURL {
		t.Errorf("SourceURL = %q, want the album URL", res.Contacts[0].SourceURL)
	}
}

func TestAlbumResolver_Logs(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		albumURL:             albumPage("Just music.", `<ol id="band-links"><a href="https://domain.com">Website</a></ol>`),
		"https://domain.com": `<html><body><a href="mailto:info@domain.com">Write us</a></body></html>`,
	}}
	albums, _ := newResolvers(f)

	res := albums.Resolve(context.Background(), albumURL)

	want := []string{
		"Scraping album: " + albumURL,
		"  No email in bio or mailto links, checking external links...",
		"  Found external link: https://domain.com",
		"  Visiting external site: https://domain.com",
		`    Found email(s) in mailto links: ["info@domain.com"]`,
	}
	for i, line := range want {
		if i >= len(res.Logs) {
			t.Fatalf("Logs = %q, want at least %d lines", res.Logs, len(want))
		}
		if res.Logs[i] != line {
			t.Errorf("Logs[%d] = %q, want %q", i, res.Logs[i], line)
		}
	}
}

func TestSiteResolver_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		pages     map[string]string
		redirects map[string]string
		siteURL   string
		want      []string
	}{
		{
			name: "contact page mailto on matching domain",
			pages: map[string]string{
				"https://domain.com":         `<a href="/contact">Contact</a>`,
				"https://domain.com/contact": `<a href="mailto:info@domain.com">mail</a>`,
			},
			siteURL: "https://domain.com",
			want:    []string{"info@domain.com"},
		},
		{
			name: "text emails filtered by domain",
			pages: map[string]string{
				"https://www.the-band.co.uk": `<p>Site by design@agency.io. Booking: hello@the-band.co.uk or fan@gmail.com</p>`,
			},
			siteURL: "https://www.the-band.co.uk",
			want:    []string{"fan@gmail.com", "hello@the-band.co.uk"},
		},
		{
			name: "script text ignored",
			pages: map[string]string{
				"https://the-band.com": `<script>var x = "hidden@the-band.com";</script><p>Nothing</p>`,
			},
			siteURL: "https://the-band.com",
			want:    nil,
		},
		{
			name: "only mismatched emails falls through to mailto",
			pages: map[string]string{
				"https://the-band.com": `<p>label@biglabel.com</p><a href="mailto:me@the-band.com">mail</a>`,
			},
			siteURL: "https://the-band.com",
			want:    []string{"me@the-band.com"},
		},
		{
			name: "contact link resolved against final URL",
			pages: map[string]string{
				"https://the-band.com/en/":             `<a href="contact.html">Contact</a>`,
				"https://the-band.com/en/contact.html": `<p>mgmt@the-band.com</p>`,
			},
			redirects: map[string]string{"https://the-band.com": "https://the-band.com/en/"},
			siteURL:   "https://the-band.com",
			want:      []string{"mgmt@the-band.com"},
		},
		{
			name: "contact page failure swallowed",
			pages: map[string]string{
				"https://the-band.com":           `<a href="/contact">Contact</a><a href="/contact-2">Contact again</a>`,
				"https://the-band.com/contact-2": `<a href="mailto:x@the-band.com">x</a>`,
			},
			siteURL: "https://the-band.com",
			want:    nil,
		},
		{
			name:    "excluded site not fetched",
			pages:   map[string]string{},
			siteURL: "https://linktr.ee/theband",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{pages: tt.pages, redirects: tt.redirects}
			_, site := newResolvers(f)

			var logs []string
			got := site.Resolve(context.Background(), tt.siteURL, func(format string, args ...any) { logs = append(logs, fmt.Sprintf(format, args...)) })

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %v, want %v\nlogs:\n%s", got, tt.want, strings.Join(logs, "\n"))
			}
		})
	}
}

func TestSiteResolver_ExcludedNotFetched(t *testing.T) {
	f := &fakeFetcher{}
	_, site := newResolvers(f)

	site.Resolve(context.Background(), "https://www.facebook.com/theband", func(string, ...any) {})

	if len(f.requested) != 0 {
		t.Errorf("requested %v, want nothing", f.requested)
	}
}

func TestSiteResolver_SkippedLogged(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://the-band.com": `<p>promo@othersite.net</p>`,
	}}
	_, site := newResolvers(f)

	var logs []string
	site.Resolve(context.Background(), "https://the-band.com", func(format string, args ...any) { logs = append(logs, fmt.Sprintf(format, args...)) })

	joined := strings.Join(logs, "\n")
	if !strings.Contains(joined, `Skipped email(s) (domain mismatch): ["promo@othersite.net"]`) {
		t.Errorf("logs missing skipped line:\n%s", joined)
	}
}

func TestSiteResolver_Robots(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://the-band.com": `<p>hello@the-band.com</p>`,
	}}
	_, site := newResolvers(f)
	site.WithRobots(denyRobots{prefix: "https://the-band.com"})

	got := site.Resolve(context.Background(), "https://the-band.com", func(string, ...any) {})

	if got != nil {
		t.Errorf("Resolve() = %v, want nil", got)
	}
	if len(f.requested) != 0 {
		t.Errorf("requested %v, want nothing", f.requested)
	}
}
