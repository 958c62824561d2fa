// Package page parses fetched HTML and harvests contact leads from it.
//
// Page wraps a goquery document together with the URL it was served from,
// so relative links can be resolved. Harvester finds mailto addresses, the
// artist's own website among a Bandcamp page's band links, and a "contact"
// subpage on an external site.
//
//	p, err := page.Parse(body, finalURL)
//	if err != nil {
//	    return err
//	}
//	p.StripNonContent()
//	text := p.Text()
package page
