package dto

import (
	"strings"

	"github.com/handiism/bandcamp-contacts/internal/model"
)

// JSONAlbum is the part of Bandcamp's embedded data-tralbum JSON used as a
// fallback when the visible page markup lacks the artist name.
type JSONAlbum struct {
	Artist string `json:"artist"`
}

// Fill copies the artist name into album when album has none.
func (ja *JSONAlbum) Fill(album *model.Album) {
	if album.Artist == "" {
		album.Artist = strings.TrimSpace(ja.Artist)
	}
}
