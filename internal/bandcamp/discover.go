package bandcamp

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/handiism/bandcamp-contacts/internal/http"
)

const (
	discoverBaseURL = "https://bandcamp.com/discover"

	// ResultLinkSelector matches album links in the discover results grid.
	ResultLinkSelector = "li.results-grid-item div.meta a"

	// ViewMoreSelector matches the button that loads another page of results.
	ViewMoreSelector = "#view-more"
)

const (
	collectLinksJS = `Array.from(document.querySelectorAll(%q)).map(a => a.getAttribute("href")).filter(Boolean)`

	acceptCookiesJS = `(() => {
	const b = Array.from(document.querySelectorAll("button")).find(b => b.textContent.includes("Accept"));
	if (!b) return false;
	b.click();
	return true;
})()`

	viewMoreJS = `(() => {
	const b = document.querySelector(%q);
	if (!b) return false;
	b.scrollIntoView({block: "center"});
	b.click();
	return true;
})()`
)

// DiscoverOptions configures a Discoverer.
type DiscoverOptions struct {
	// Tag is the genre tag to browse. Empty browses the generic page.
	Tag string

	// Clicks is the maximum number of "View more" expansions.
	Clicks int

	// Headless runs the browser without a window.
	Headless bool

	// UserAgent is sent by the browser.
	UserAgent string

	// Timeout bounds the whole discovery session.
	Timeout time.Duration

	// ClickDelay is how long to wait for results after each click.
	ClickDelay time.Duration
}

// Discoverer collects album URLs from Bandcamp's discover page with a
// headless Chrome session.
//
// The discover page renders its results with JavaScript, so a plain HTTP
// fetch sees an empty grid. Discoverer loads the page, accepts the cookie
// banner if present, then repeatedly clicks "View more" and gathers every
// album link in the results grid.
//
// Example usage:
//
//	d := NewDiscoverer(DiscoverOptions{Tag: "ambient", Clicks: 3, Headless: true}, func(msg string) {
//	    fmt.Fprintln(os.Stderr, msg)
//	})
//	urls, err := d.Discover(ctx)
type Discoverer struct {
	opts DiscoverOptions
	logf func(string)
}

// NewDiscoverer creates a Discoverer. logf receives progress lines and may
// be nil.
func NewDiscoverer(opts DiscoverOptions, logf func(string)) *Discoverer {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.ClickDelay <= 0 {
		opts.ClickDelay = 1500 * time.Millisecond
	}
	if opts.UserAgent == "" {
		opts.UserAgent = http.DefaultUserAgent
	}
	return &Discoverer{opts: opts, logf: logf}
}

// DiscoverURL returns the randomized discover page URL for tag.
//
// Example:
//
//	DiscoverURL("ambient") // "https://bandcamp.com/discover/ambient?s=rand"
//	DiscoverURL("")        // "https://bandcamp.com/discover?s=rand"
func DiscoverURL(tag string) string {
	if tag == "" {
		return discoverBaseURL + "?s=rand"
	}
	return discoverBaseURL + "/" + url.PathEscape(tag) + "?s=rand"
}

// Discover runs the browser session and returns the unique album URLs
// found, in the order they were first seen.
//
// A failure to load the page is returned as an error. Failures while
// expanding results stop the expansion but keep what was collected.
func (d *Discoverer) Discover(ctx context.Context) ([]string, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.opts.Headless),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancel := context.WithTimeout(browserCtx, d.opts.Timeout)
	defer cancel()

	target := DiscoverURL(d.opts.Tag)
	if d.opts.Tag != "" {
		d.log(fmt.Sprintf("Discovering albums for tag '%s'...", d.opts.Tag))
	} else {
		d.log("Discovering albums from generic discover page...")
	}

	d.log("Loading discover page...")
	if err := chromedp.Run(browserCtx,
		emulation.SetUserAgentOverride(d.opts.UserAgent),
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.Sleep(time.Second),
	); err != nil {
		return nil, fmt.Errorf("load %s: %w", target, err)
	}

	var accepted bool
	if err := chromedp.Run(browserCtx, chromedp.Evaluate(acceptCookiesJS, &accepted)); err == nil && accepted {
		d.log("Cookies accepted")
	}

	links := NewLinkSet()

	d.log("Scraping initially visible albums...")
	hrefs, err := d.collect(browserCtx)
	if err != nil {
		return nil, fmt.Errorf("collect album links: %w", err)
	}
	links.Add(hrefs...)
	d.log(fmt.Sprintf("Found %d initial album URLs", links.Len()))

	d.log(fmt.Sprintf("Clicking 'View more' up to %d times...", d.opts.Clicks))
	for i := 0; i < d.opts.Clicks; i++ {
		var clicked bool
		if err := chromedp.Run(browserCtx, chromedp.Evaluate(fmt.Sprintf(viewMoreJS, ViewMoreSelector), &clicked)); err != nil {
			d.log(fmt.Sprintf("Error during click %d: %v", i+1, err))
			break
		}
		if !clicked {
			d.log("No more 'View more' button found")
			break
		}

		d.log(fmt.Sprintf("Click %d/%d - waiting for content...", i+1, d.opts.Clicks))
		if err := chromedp.Run(browserCtx, chromedp.Sleep(d.opts.ClickDelay)); err != nil {
			d.log(fmt.Sprintf("Error during click %d: %v", i+1, err))
			break
		}

		hrefs, err := d.collect(browserCtx)
		if err != nil {
			d.log(fmt.Sprintf("Error during click %d: %v", i+1, err))
			break
		}
		d.log(fmt.Sprintf("Found %d new album URLs", links.Add(hrefs...)))
	}

	d.log(fmt.Sprintf("Total: %d unique album URLs collected", links.Len()))
	return links.URLs(), nil
}

func (d *Discoverer) collect(ctx context.Context) ([]string, error) {
	var hrefs []string
	err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(collectLinksJS, ResultLinkSelector), &hrefs))
	return hrefs, err
}

func (d *Discoverer) log(msg string) {
	if d.logf != nil {
		d.logf(msg)
	}
}

// LinkSet is an insertion-ordered set of cleaned album URLs.
type LinkSet struct {
	seen map[string]struct{}
	urls []string
}

// NewLinkSet creates an empty LinkSet.
func NewLinkSet() *LinkSet {
	return &LinkSet{seen: make(map[string]struct{})}
}

// Add cleans each href with CleanAlbumURL and adds the ones not seen
// before. Empty hrefs are ignored. It returns how many were new.
func (s *LinkSet) Add(hrefs ...string) int {
	added := 0
	for _, href := range hrefs {
		clean := CleanAlbumURL(href)
		if clean == "" {
			continue
		}
		if _, ok := s.seen[clean]; ok {
			continue
		}
		s.seen[clean] = struct{}{}
		s.urls = append(s.urls, clean)
		added++
	}
	return added
}

// Len returns the number of unique URLs.
func (s *LinkSet) Len() int {
	return len(s.urls)
}

// URLs returns the URLs in insertion order.
func (s *LinkSet) URLs() []string {
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}
