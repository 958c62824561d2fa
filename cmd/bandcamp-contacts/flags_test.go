package main

import (
	"errors"
	"flag"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/handiism/bandcamp-contacts/internal/config"
)

func TestParseArgs_Headless(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    bool
		wantErr string
	}{
		{"default", nil, true, ""},
		{"equals false", []string{"-headless=false"}, false, ""},
		{"equals true", []string{"--headless=true"}, true, ""},
		{"bare", []string{"-headless"}, true, ""},
		{"separate false", []string{"-headless", "false"}, true, "-name=false"},
		{"separate false after url", []string{"-headless", "false", "https://a.bandcamp.com"}, true, "-name=false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseArgs(tt.args, config.DefaultSettings(), io.Discard)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("parseArgs() error = %v, want one mentioning %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArgs() error = %v", err)
			}

			settings := config.DefaultSettings()
			opts.apply(settings)
			if settings.Headless != tt.want {
				t.Errorf("Headless = %v, want %v", settings.Headless, tt.want)
			}
		})
	}
}

func TestParseArgs_Inputs(t *testing.T) {
	opts, err := parseArgs([]string{"-urls", "https://a.com,https://b.com", "-verbose", "https://c.com"}, config.DefaultSettings(), io.Discard)
	if err != nil {
		t.Fatalf("parseArgs() error = %v", err)
	}

	want := []string{"https://a.com,https://b.com", "https://c.com"}
	if got := opts.inputs(); !reflect.DeepEqual(got, want) {
		t.Errorf("inputs() = %q, want %q", got, want)
	}
	if !opts.verbose {
		t.Error("verbose = false, want true")
	}
}

func TestCLIOptions_ApplyOnlyGiven(t *testing.T) {
	opts, err := parseArgs([]string{"-tag", "ambient"}, config.DefaultSettings(), io.Discard)
	if err != nil {
		t.Fatalf("parseArgs() error = %v", err)
	}

	// Values as if loaded from a config file.
	settings := config.DefaultSettings()
	settings.Workers = 7
	settings.Headless = false

	opts.apply(settings)

	if settings.Tag != "ambient" {
		t.Errorf("Tag = %q, want %q", settings.Tag, "ambient")
	}
	if settings.Workers != 7 {
		t.Errorf("Workers = %d, want 7", settings.Workers)
	}
	if settings.Headless {
		t.Error("Headless = true, want the loaded false kept")
	}
}

func TestParseArgs_Help(t *testing.T) {
	var out strings.Builder
	_, err := parseArgs([]string{"-h"}, config.DefaultSettings(), &out)

	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("parseArgs(-h) error = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(out.String(), "-headless=false") {
		t.Errorf("usage does not mention -headless=false:\n%s", out.String())
	}
}
