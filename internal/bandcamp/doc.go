// Package bandcamp knows how Bandcamp pages are laid out.
//
// The package handles three jobs:
//
//  1. Discovering album URLs on the JavaScript-rendered discover page
//  2. Expanding artist URLs into their album URLs
//  3. Reading the artist name and bio from an album page
//
// # Discovery
//
// Discoverer drives a headless Chrome session with chromedp:
//
//	d := bandcamp.NewDiscoverer(bandcamp.DiscoverOptions{Tag: "ambient", Clicks: 3, Headless: true}, logf)
//	urls, err := d.Discover(ctx)
//
// # Album Page Parsing
//
//	parser := bandcamp.NewParser()
//	album := parser.ParseAlbumPage(p, albumURL)
//	fmt.Printf("%s\n%s\n", album.Artist, album.Bio)
//
// # Bandcamp Data Format
//
// Bandcamp embeds album data as JSON in a data-tralbum attribute. The
// parser reads the artist and title from it when the visible markup lacks
// them.
package bandcamp
