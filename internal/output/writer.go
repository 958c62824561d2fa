package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/handiism/bandcamp-contacts/internal/model"
)

// Format is a supported report format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned for a format other than json or csv.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat parses a format name, ignoring case and surrounding spaces.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Write renders the report in the given format.
//
// JSON writes the whole report. CSV writes only the contacts, because the
// run metadata has no tabular form.
func Write(w io.Writer, report model.Report, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, report)
	case FormatCSV:
		return WriteCSV(w, report.Results)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteJSON writes the report as indented JSON followed by a newline.
func WriteJSON(w io.Writer, report model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteCSV writes a header row of model.ContactFields followed by one row
// per contact.
func WriteCSV(w io.Writer, contacts []model.Contact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.ContactFields); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, c := range contacts {
		if err := cw.Write(c.Record()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile renders the report to path, creating parent directories as
// needed. An existing file is truncated.
func WriteFile(path string, report model.Report, format Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Write(f, report, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	spaces       = regexp.MustCompile(`\s+`)
)

// FileName returns a report file name for a tag, such as
// "contacts-ambient.json". Characters invalid in file names become
// underscores; an empty tag yields "contacts-all".
//
// Example:
//
//	FileName("lo-fi/chill", FormatCSV) // "contacts-lo-fi_chill.csv"
func FileName(tag string, format Format) string {
	name := invalidChars.ReplaceAllString(strings.TrimSpace(tag), "_")
	name = spaces.ReplaceAllString(name, "-")
	name = strings.Trim(name, ".")
	if name == "" {
		name = "all"
	}
	return "contacts-" + name + format.Extension()
}
