package model

import (
	"strings"
	"unicode/utf8"
)

// DefaultNotesLength is the number of bio characters kept in Contact.Notes.
const DefaultNotesLength = 500

// Album is the contact-relevant content of one Bandcamp album page.
//
// Album holds what a contact record is built from:
//   - URL of the album page, used as the record's source
//   - Artist display name
//   - Bio text concatenated from the page's bio regions
//
// Example:
//
//	album := &Album{URL: albumURL, Artist: "The Band", Bio: bio}
//	contact := album.Contact("band@example.com", DefaultNotesLength)
type Album struct {
	// URL is the album page the data was read from.
	URL string

	// Artist is the artist display name. Empty if the page had none.
	Artist string

	// Bio is the artist biography with surrounding whitespace trimmed.
	Bio string
}

// Contact builds a Contact for addr found on this album's page or on the
// artist's website.
//
// Notes holds at most notesLength characters of the bio. A notesLength of
// zero or less means DefaultNotesLength.
func (a *Album) Contact(addr string, notesLength int) Contact {
	return Contact{
		Email:     addr,
		Name:      a.Artist,
		Notes:     truncate(strings.TrimSpace(a.Bio), notesLength),
		SourceURL: a.URL,
	}
}

// Contacts builds one Contact per address, preserving order.
func (a *Album) Contacts(addrs []string, notesLength int) []Contact {
	contacts := make([]Contact, 0, len(addrs))
	for _, addr := range addrs {
		contacts = append(contacts, a.Contact(addr, notesLength))
	}
	return contacts
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if n <= 0 {
		n = DefaultNotesLength
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
