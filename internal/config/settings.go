package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. BANDCAMP_CONTACTS_WORKERS.
const EnvPrefix = "BANDCAMP_CONTACTS"

// Worker pool bounds enforced by Validate.
const (
	MinWorkers = 1
	MaxWorkers = 10
)

// ErrInvalidOutput is returned by Validate for an unsupported output format.
var ErrInvalidOutput = errors.New("output must be json or csv")

// Settings holds all configuration options.
//
// Durations are stored in seconds so config files stay readable.
type Settings struct {
	// Discovery settings
	Tag              string  `json:"tag" yaml:"tag" envconfig:"TAG"`
	Clicks           int     `json:"clicks" yaml:"clicks" envconfig:"CLICKS"`
	Headless         bool    `json:"headless" yaml:"headless" envconfig:"HEADLESS"`
	DiscoveryTimeout float64 `json:"discovery_timeout" yaml:"discovery_timeout" envconfig:"DISCOVERY_TIMEOUT"`
	ClickDelay       float64 `json:"click_delay" yaml:"click_delay" envconfig:"CLICK_DELAY"`

	// Scraping settings
	Workers           int     `json:"workers" yaml:"workers" envconfig:"WORKERS"`
	RateLimitCooldown float64 `json:"rate_limit_cooldown" yaml:"rate_limit_cooldown" envconfig:"RATE_LIMIT_COOLDOWN"`
	TaskDelay         float64 `json:"task_delay" yaml:"task_delay" envconfig:"TASK_DELAY"`
	NotesMaxLength    int     `json:"notes_max_length" yaml:"notes_max_length" envconfig:"NOTES_MAX_LENGTH"`
	RespectRobots     bool    `json:"respect_robots" yaml:"respect_robots" envconfig:"RESPECT_ROBOTS"`

	// HTTP settings
	RequestTimeout    float64 `json:"request_timeout" yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	UserAgent         string  `json:"user_agent" yaml:"user_agent" envconfig:"USER_AGENT"`
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"` // 0 = unlimited

	// Output settings
	Output string `json:"output" yaml:"output" envconfig:"OUTPUT"` // json, csv
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Tag:              "",
		Clicks:           3,
		Headless:         true,
		DiscoveryTimeout: 120,
		ClickDelay:       1.5,

		Workers:           1,
		RateLimitCooldown: 5,
		TaskDelay:         0.3,
		NotesMaxLength:    500,
		RespectRobots:     false,

		RequestTimeout:    15,
		UserAgent:         "",
		RequestsPerSecond: 0,

		Output: "json",
	}
}

// Load reads settings from a YAML file (.yaml, .yml) or a JSON file (any
// other extension). Fields missing from the file keep their defaults, and a
// missing file yields DefaultSettings.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a file, as YAML or JSON by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from the environment.
//
// A .env file in the working directory is loaded first if present; it does
// not replace variables that are already set. Only variables that exist
// are applied, e.g. BANDCAMP_CONTACTS_WORKERS=4.
func (s *Settings) ApplyEnv() error {
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	return nil
}

// Validate normalizes the settings in place.
//
// Workers are clamped to MinWorkers..MaxWorkers and negative counts and
// durations are reset to zero. The output format is lowercased and must be
// json or csv, otherwise ErrInvalidOutput is returned.
func (s *Settings) Validate() error {
	s.Workers = min(max(s.Workers, MinWorkers), MaxWorkers)
	s.Clicks = max(s.Clicks, 0)
	s.NotesMaxLength = max(s.NotesMaxLength, 0)
	s.RateLimitCooldown = max(s.RateLimitCooldown, 0)
	s.TaskDelay = max(s.TaskDelay, 0)
	s.RequestsPerSecond = max(s.RequestsPerSecond, 0)

	s.Output = strings.ToLower(strings.TrimSpace(s.Output))
	if s.Output != "json" && s.Output != "csv" {
		return fmt.Errorf("%w: %q", ErrInvalidOutput, s.Output)
	}
	return nil
}

// Cooldown returns the pause after a rate-limited album.
func (s *Settings) Cooldown() time.Duration {
	return seconds(s.RateLimitCooldown)
}

// Delay returns the pause after every other album.
func (s *Settings) Delay() time.Duration {
	return seconds(s.TaskDelay)
}

// Timeout returns the per-request HTTP timeout.
func (s *Settings) Timeout() time.Duration {
	return seconds(s.RequestTimeout)
}

// DiscoveryDeadline returns the time budget for browser discovery.
func (s *Settings) DiscoveryDeadline() time.Duration {
	return seconds(s.DiscoveryTimeout)
}

// ClickInterval returns the pause between "view more" clicks.
func (s *Settings) ClickInterval() time.Duration {
	return seconds(s.ClickDelay)
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
