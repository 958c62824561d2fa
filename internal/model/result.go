package model

// AlbumResult is the outcome of resolving one album URL.
type AlbumResult struct {
	// URL is the album page that was resolved.
	URL string

	// Contacts are the addresses found for the album, possibly none.
	Contacts []Contact

	// Logs are the diagnostic lines produced while resolving, in order.
	Logs []string

	// RateLimited is true when the album page answered 429.
	RateLimited bool
}

// BatchResult aggregates the outcome of a whole scraping run.
type BatchResult struct {
	// Contacts are unique by email after Dedup, first seen wins.
	Contacts []Contact

	// Errors are batch-level failures in the order they were recorded.
	Errors []string

	// Albums is the number of album URLs processed.
	Albums int

	// RateLimited counts album tasks that hit a 429.
	RateLimited int
}

// Dedup removes contacts whose email was already seen earlier in the
// slice. Emails are compared as exact strings.
func (r *BatchResult) Dedup() {
	seen := make(map[string]struct{}, len(r.Contacts))
	unique := make([]Contact, 0, len(r.Contacts))
	for _, c := range r.Contacts {
		if _, ok := seen[c.Email]; ok {
			continue
		}
		seen[c.Email] = struct{}{}
		unique = append(unique, c)
	}
	r.Contacts = unique
}

// Report is the structured document emitted at the end of a run.
type Report struct {
	Success            bool      `json:"success"`
	Tag                string    `json:"tag"`
	TotalAlbumsScraped int       `json:"total_albums_scraped"`
	Results            []Contact `json:"results"`
	Errors             []string  `json:"errors"`
}

// NewReport builds the output document for a finished batch.
//
// Results and Errors are never nil so they serialize as empty arrays.
func NewReport(tag string, result BatchResult) Report {
	results := result.Contacts
	if results == nil {
		results = []Contact{}
	}
	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}

	return Report{
		Success:            true,
		Tag:                tag,
		TotalAlbumsScraped: result.Albums,
		Results:            results,
		Errors:             errs,
	}
}
