// Package scrape resolves album URLs into artist contact emails.
//
// # Resolution Order
//
// AlbumResolver works through an album page:
//
//  1. Bio text emails, including [at]/[dot] obfuscations
//  2. mailto: links on the album page
//  3. The artist's website from the band links, via SiteResolver
//
// SiteResolver tries the website's text, its mailto links, and then one
// contact page. Emails from the album page itself are trusted; emails from
// an external site must share its registered domain or belong to a public
// mail provider.
//
// # Basic Usage
//
//	harvester := page.NewHarvester(domain.Excluded())
//	site := scrape.NewSiteResolver(client, harvester, domain.NewFilter(domain.PublicProviders()))
//	albums := scrape.NewAlbumResolver(client, harvester, site, model.DefaultNotesLength)
//
//	result := albums.Resolve(ctx, "https://artist.bandcamp.com/album/name")
//	for _, c := range result.Contacts {
//	    fmt.Println(c.Email)
//	}
package scrape
