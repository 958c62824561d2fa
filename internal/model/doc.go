// Package model defines the core data structures used throughout
// bandcamp-contacts.
//
// # Album
//
// Album is what the resolver reads from an album page, and builds contacts:
//
//	album := &model.Album{URL: albumURL, Artist: "The Band", Bio: bio}
//	contacts := album.Contacts([]string{"band@example.com"}, model.DefaultNotesLength)
//
// # Contact
//
// Contact is one output record: email, name, notes and source_url.
//
// # Results
//
// AlbumResult is what a single album task returns. BatchResult aggregates a
// run and Dedup keeps the first record for each email. Report is the final
// JSON/CSV document.
package model
