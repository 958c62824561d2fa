// Package config provides configuration management for bandcamp-contacts.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Environment overrides from BANDCAMP_CONTACTS_* variables and .env
//   - Validation of worker counts and the output format
//
// # Precedence
//
// Later sources win: defaults, then the config file, then the environment,
// then command-line flags applied by the caller.
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// 3 "view more" clicks, headless browser
//	// 1 worker, 5s rate-limit cooldown, 0.3s between albums
//	// JSON output
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // The file exists but is unreadable or malformed
//	}
//	if err := settings.ApplyEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := settings.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Saving Settings
//
//	settings.Workers = 4
//	err := settings.Save("/path/to/config.json")
package config
