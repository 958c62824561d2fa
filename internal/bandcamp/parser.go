package bandcamp

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/handiism/bandcamp-contacts/internal/bandcamp/dto"
	"github.com/handiism/bandcamp-contacts/internal/model"
	"github.com/handiism/bandcamp-contacts/internal/page"
)

// ArtistNameSelector matches the artist display name on album pages.
const ArtistNameSelector = "p#band-name-location span.title"

// BioSelectors are the regions that may hold the artist bio. Bandcamp uses
// different ones depending on bio length and page layout; all matches are
// concatenated.
var BioSelectors = []string{"#bio-text", ".peekaboo-text", ".tralbumData.truncated"}

// concatPattern matches JavaScript-style string concatenation that
// Bandcamp sometimes leaves inside data-tralbum.
var concatPattern = regexp.MustCompile(`(url: ".+)" \+ "(.+",)`)

// Parser extracts contact-relevant content from Bandcamp album pages.
//
// The artist name and bio come from the visible markup. When the name
// region is missing, the Parser falls back to the data-tralbum JSON that
// Bandcamp embeds in every album and track page.
//
// Example usage:
//
//	parser := NewParser()
//
//	p, _ := page.Parse(body, albumURL)
//	album := parser.ParseAlbumPage(p, albumURL)
//	fmt.Printf("%s: %s\n", album.Artist, album.Bio)
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseAlbumPage reads the artist name and bio from a parsed
// album page.
//
// The bio is the text of every BioSelectors region that exists, joined with
// single spaces and trimmed. Missing regions are not an error; the returned
// album simply has empty fields.
func (p *Parser) ParseAlbumPage(pg *page.Page, albumURL string) *model.Album {
	album := &model.Album{
		URL:    albumURL,
		Artist: pg.SelectText(ArtistNameSelector),
	}

	var bio strings.Builder
	for _, sel := range BioSelectors {
		if text := pg.SelectText(sel); text != "" {
			bio.WriteString(" ")
			bio.WriteString(text)
		}
	}
	album.Bio = strings.TrimSpace(bio.String())

	if album.Artist == "" {
		if data, err := albumData(pg); err == nil {
			data.Fill(album)
		}
	}

	return album
}

// albumData decodes the data-tralbum attribute of the page.
//
// Bandcamp embeds album data like this:
//
//	<script ... data-tralbum="{...JSON...}">
//
// The HTML parser has already unescaped the attribute value.
func albumData(pg *page.Page) (*dto.JSONAlbum, error) {
	raw, ok := pg.Document().Find("[data-tralbum]").First().Attr("data-tralbum")
	if !ok {
		return nil, fmt.Errorf("could not find album data in HTML")
	}

	var data dto.JSONAlbum
	if err := json.Unmarshal([]byte(fixJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("failed to parse album JSON: %w", err)
	}
	return &data, nil
}

// fixJSON removes JavaScript-style URL concatenation:
//
//	url: "http://example.bandcamp.com" + "/album/name",
//
// becomes
//
//	url: "http://example.bandcamp.com/album/name",
func fixJSON(albumData string) string {
	return concatPattern.ReplaceAllString(albumData, "${1}${2}")
}
