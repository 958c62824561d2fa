package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/handiism/bandcamp-contacts/internal/bandcamp"
	"github.com/handiism/bandcamp-contacts/internal/config"
	"github.com/handiism/bandcamp-contacts/internal/domain"
	"github.com/handiism/bandcamp-contacts/internal/http"
	"github.com/handiism/bandcamp-contacts/internal/model"
	"github.com/handiism/bandcamp-contacts/internal/page"
	"github.com/handiism/bandcamp-contacts/internal/scrape"
)

// ErrNoInputURLs is returned by Initialize when inputs were given but none
// of them is an http(s) URL.
var ErrNoInputURLs = errors.New("no http(s) URLs in input")

// Discoverer finds seed album URLs when no inputs are given.
// *bandcamp.Discoverer satisfies it.
type Discoverer interface {
	Discover(ctx context.Context) ([]string, error)
}

// Manager wires a whole run together from Settings: seed discovery or
// artist expansion, then the worker pool.
type Manager struct {
	discography *bandcamp.Discography
	discoverer  Discoverer
	coordinator *Coordinator

	albumURLs []string
	errors    []string

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new Manager. The settings should already be
// validated.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	client := http.NewClient(http.Options{
		Timeout:           settings.Timeout(),
		UserAgent:         settings.UserAgent,
		RequestsPerSecond: settings.RequestsPerSecond,
	})

	harvester := page.NewHarvester(domain.Excluded())
	site := scrape.NewSiteResolver(client, harvester, domain.NewFilter(domain.PublicProviders()))
	if settings.RespectRobots {
		site.WithRobots(http.NewRobots(client))
	}
	albums := scrape.NewAlbumResolver(client, harvester, site, settings.NotesMaxLength)

	m := &Manager{
		discography: bandcamp.NewDiscography(client),
		onProgress:  onProgress,
	}
	m.discoverer = bandcamp.NewDiscoverer(bandcamp.DiscoverOptions{
		Tag:        settings.Tag,
		Clicks:     settings.Clicks,
		Headless:   settings.Headless,
		UserAgent:  client.UserAgent(),
		Timeout:    settings.DiscoveryDeadline(),
		ClickDelay: settings.ClickInterval(),
	}, func(msg string) {
		m.progress(ProgressEvent{Message: msg, Level: LevelInfo})
	})
	m.coordinator = NewCoordinator(albums, Options{
		Workers:   settings.Workers,
		Cooldown:  settings.Cooldown(),
		TaskDelay: settings.Delay(),
	}, onProgress)
	return m
}

// WithDiscoverer replaces the browser-based discovery.
func (m *Manager) WithDiscoverer(d Discoverer) *Manager {
	m.discoverer = d
	return m
}

// Initialize collects the album URLs to scrape.
//
// With no inputs the discover page for settings.Tag is crawled in a
// browser. A discovery failure is recorded as a run error and leaves the
// manager with zero albums; it is not returned. Input URLs are expanded:
// album pages are kept and artist pages are replaced by their discography.
// An error is returned only when inputs were given but none is a URL, or
// when ctx is canceled during expansion.
func (m *Manager) Initialize(ctx context.Context, inputURLs []string) error {
	if len(inputURLs) == 0 {
		found, err := m.discoverer.Discover(ctx)
		if err != nil {
			m.recordError(fmt.Sprintf("Discovery failed: %v", err))
			return nil
		}
		m.albumURLs = found
		return nil
	}

	urls := parseInputURLs(inputURLs)
	if len(urls) == 0 {
		return ErrNoInputURLs
	}

	seen := make(map[string]struct{})
	for _, inputURL := range urls {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		albumURLs, err := m.discography.Expand(ctx, inputURL)
		if err != nil {
			m.recordError(fmt.Sprintf("Error getting albums from %s: %v", inputURL, err))
			continue
		}
		for _, u := range albumURLs {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			m.albumURLs = append(m.albumURLs, u)
		}
	}

	return nil
}

// AlbumURLs returns the album URLs collected by Initialize.
func (m *Manager) AlbumURLs() []string {
	return m.albumURLs
}

// Workers returns the effective worker count.
func (m *Manager) Workers() int {
	return m.coordinator.Workers()
}

// Run scrapes every collected album. Errors recorded during Initialize come
// first in the result.
func (m *Manager) Run(ctx context.Context) model.BatchResult {
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Scraping %d albums with %d workers...", len(m.albumURLs), m.Workers()),
		Level:   LevelInfo,
	})

	result := m.coordinator.Run(ctx, m.albumURLs)

	m.mu.Lock()
	result.Errors = append(append([]string(nil), m.errors...), result.Errors...)
	m.mu.Unlock()

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Scraping complete: %d unique emails found", len(result.Contacts)),
		Level:   LevelSuccess,
	})
	return result
}

// GetProgress returns completed and total album counts and the number of
// contacts found so far.
func (m *Manager) GetProgress() (completed, total, found int32) {
	return m.coordinator.GetProgress()
}

func (m *Manager) recordError(msg string) {
	m.mu.Lock()
	m.errors = append(m.errors, msg)
	m.mu.Unlock()
	m.progress(ProgressEvent{Message: msg, Level: LevelError})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// parseInputURLs splits comma- or newline-separated arguments and keeps
// only http(s) URLs.
func parseInputURLs(inputs []string) []string {
	var urls []string
	for _, input := range inputs {
		fields := strings.FieldsFunc(input, func(r rune) bool {
			return r == ',' || r == '\n' || r == '\r'
		})
		for _, f := range fields {
			f = strings.TrimSpace(f)
			if strings.HasPrefix(f, "http://") || strings.HasPrefix(f, "https://") {
				urls = append(urls, f)
			}
		}
	}
	return urls
}
