package page

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nonContent are subtrees whose text is never visible to a reader.
const nonContent = "script, style, noscript"

// Page is one fetched and parsed HTML document.
//
// A Page is owned by the resolver that fetched it and is discarded once
// extraction is done. It is not safe for concurrent use.
type Page struct {
	// URL is the final URL the document was served from, used to resolve
	// relative links.
	URL *url.URL

	doc *goquery.Document
}

// Parse parses an HTML body served from pageURL.
//
// Returns an error if pageURL is not a valid URL or the markup cannot be
// parsed. The HTML parser is lenient, so the latter is rare.
func Parse(body []byte, pageURL string) (*Page, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &Page{URL: u, doc: doc}, nil
}

// Document exposes the underlying goquery document for site-specific
// selectors.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// StripNonContent removes script, style and noscript elements so that Text
// only returns what a visitor would read.
func (p *Page) StripNonContent() {
	p.doc.Find(nonContent).Remove()
}

// Text returns the document's visible text with runs of whitespace
// collapsed to single spaces.
func (p *Page) Text() string {
	return JoinText(p.doc.Selection)
}

// SelectText returns the space-joined text of the first element matching
// selector, or "" when nothing matches.
func (p *Page) SelectText(selector string) string {
	return JoinText(p.doc.Find(selector).First())
}

// Resolve turns href into an absolute URL relative to the page URL.
func (p *Page) Resolve(href string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, err
	}
	return p.URL.ResolveReference(ref), nil
}

// JoinText collects the text nodes under sel and joins them with single
// spaces. Whitespace inside and between nodes is collapsed, so adjacent
// elements never run their words together.
func JoinText(sel *goquery.Selection) string {
	var words []string
	collectWords(sel, &words)
	return strings.Join(words, " ")
}

func collectWords(sel *goquery.Selection, words *[]string) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			*words = append(*words, strings.Fields(s.Text())...)
			return
		}
		collectWords(s, words)
	})
}
