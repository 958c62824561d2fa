package model

// Contact is one discovered contact email for an artist.
//
// Contacts are created once and never modified. The JSON field names form
// the output contract shared by the JSON and CSV writers.
type Contact struct {
	// Email is the validated address.
	Email string `json:"email"`

	// Name is the artist display name.
	Name string `json:"name"`

	// Notes is the start of the artist bio, for context when reaching out.
	Notes string `json:"notes"`

	// SourceURL is the album page that led to the address.
	SourceURL string `json:"source_url"`
}

// ContactFields are the column names of a Contact in tabular output.
var ContactFields = []string{"email", "name", "notes", "source_url"}

// Record returns the contact as a row matching ContactFields.
func (c Contact) Record() []string {
	return []string{c.Email, c.Name, c.Notes, c.SourceURL}
}
