package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// DefaultUserAgent is a desktop browser identity. Bandcamp and many artist
// sites serve reduced or blocked pages to obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// DefaultTimeout is the per-request timeout.
const DefaultTimeout = 15 * time.Second

// maxBodySize caps how much of a page is read into memory.
const maxBodySize = 10 << 20

// ErrRateLimited is returned when the server answers 429 Too Many Requests.
var ErrRateLimited = errors.New("rate limited")

// StatusError is returned for any non-2xx response other than 429.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Options configures a Client.
type Options struct {
	// Timeout bounds each request including redirects and body read.
	// Zero means DefaultTimeout.
	Timeout time.Duration

	// UserAgent overrides DefaultUserAgent when non-empty.
	UserAgent string

	// RequestsPerSecond paces all requests made through the client.
	// Zero or negative disables pacing.
	RequestsPerSecond float64
}

// Client wraps HTTP operations shared by every scraping worker.
//
// Client provides:
//   - Browser-like default headers on every request
//   - Timeout handling and redirect following
//   - A cookie jar scoped with the public suffix list
//   - Optional global request pacing
//   - 429 detection surfaced as ErrRateLimited
//
// A Client is safe for concurrent use.
//
// Example usage:
//
//	client := NewClient(Options{})
//
//	page, err := client.Get(ctx, "https://artist.bandcamp.com/album/name")
//	if errors.Is(err, ErrRateLimited) {
//	    // back off
//	}
type Client struct {
	httpClient *http.Client
	headers    http.Header
	limiter    *rate.Limiter
}

// Response is a fetched page.
type Response struct {
	// URL is the final URL after redirects.
	URL string

	// StatusCode is the HTTP status of the final response.
	StatusCode int

	// Body is the response body decoded to UTF-8.
	Body []byte
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 15 second timeout unless opts.Timeout is set
//   - Desktop Chrome User-Agent, Accept and Accept-Language headers
//   - A cookie jar so session cookies survive across pages
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	// cookiejar.New always returns a nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	headers := make(http.Header)
	headers.Set("User-Agent", ua)
	headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	headers.Set("Accept-Language", "en-US,en;q=0.9")

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		headers: headers,
		limiter: limiter,
	}
}

// UserAgent returns the User-Agent header sent with every request.
func (c *Client) UserAgent() string {
	return c.headers.Get("User-Agent")
}

// Get performs a GET request, following redirects, and returns the page.
//
// Returns an error if:
//   - The request fails or times out
//   - The response status is 429 (wraps ErrRateLimited)
//   - The response status is not 2xx (*StatusError)
//   - Reading or decoding the body fails
//
// Example:
//
//	resp, err := client.Get(ctx, "https://example.com/contact")
//	fmt.Println(resp.URL) // final URL after redirects
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header = c.headers.Clone()

	return c.httpClient.Do(req)
}
