// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/a11y-audit/internal/scheduling"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	URL      string `json:"url,omitempty"`      // Page URL to audit
	Findings string `json:"findings,omitempty"` // Path to checker findings JSON file
	Taxonomy string `json:"taxonomy,omitempty"` // Path to a criteria reference override

	// Campaign
	CampaignID    string  `json:"campaign_id,omitempty"`    // Campaign UUID for scans and plans
	DurationYears int     `json:"duration_years,omitempty"` // Remediation plan window (1-5)
	TargetRate    float64 `json:"target_rate,omitempty"`    // Target conformity rate (0-100)

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Use headless browser for SPA sites
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	Concurrency int    `json:"concurrency,omitempty"`  // Parallel enrichment consultations
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.DurationYears != 0 &&
		(c.DurationYears < scheduling.MinDurationYears || c.DurationYears > scheduling.MaxDurationYears) {
		return fmt.Errorf("config error: 'duration_years' must be between %d and %d",
			scheduling.MinDurationYears, scheduling.MaxDurationYears)
	}
	if c.TargetRate < 0 || c.TargetRate > 100 {
		return fmt.Errorf("config error: 'target_rate' must be between 0 and 100")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Findings != "" {
		if _, err := os.Stat(c.Findings); os.IsNotExist(err) {
			return fmt.Errorf("config error: findings file not found: %s", c.Findings)
		}
	}
	if c.Taxonomy != "" {
		if _, err := os.Stat(c.Taxonomy); os.IsNotExist(err) {
			return fmt.Errorf("config error: taxonomy file not found: %s", c.Taxonomy)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.URL == "" {
		result.URL = defaults.URL
	}
	if result.Findings == "" {
		result.Findings = defaults.Findings
	}
	if result.Taxonomy == "" {
		result.Taxonomy = defaults.Taxonomy
	}
	if result.CampaignID == "" {
		result.CampaignID = defaults.CampaignID
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.DurationYears == 0 {
		result.DurationYears = defaults.DurationYears
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Float fields
	if result.TargetRate == 0 {
		result.TargetRate = defaults.TargetRate
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
