// Package http provides the HTTP transport shared by all scraping workers.
//
// The Client in this package handles:
//   - Browser-like User-Agent, Accept and Accept-Language headers
//   - Timeout handling and redirect following
//   - Session cookies via a public-suffix-aware cookie jar
//   - Optional global request pacing with a token bucket
//   - Decoding page bodies to UTF-8
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{Timeout: 15 * time.Second})
//
//	resp, err := client.Get(ctx, "https://artist.bandcamp.com/album/name")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.URL, len(resp.Body))
//
// # Status Handling
//
// A 429 response is reported as ErrRateLimited so callers can back off
// instead of treating the page as dead:
//
//	if errors.Is(err, http.ErrRateLimited) {
//	    // cool down
//	}
//
// Any other non-2xx response is a *StatusError.
//
// # robots.txt
//
// Robots caches robots.txt per origin and answers Allowed for a URL:
//
//	robots := http.NewRobots(client)
//	if !robots.Allowed(ctx, siteURL) {
//	    return
//	}
package http
