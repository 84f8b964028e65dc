package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/joho/godotenv"
)

// BaseURLEnv overrides the registration host, e.g. for a staging mirror
const BaseURLEnv = "LANGARA_BASE_URL"

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	BaseURL       string   `json:"base_url,omitempty"`
	DefaultYear   int      `json:"default_year,omitempty"`
	DefaultTerm   int      `json:"default_term,omitempty"`
	SavedSubjects []string `json:"saved_subjects,omitempty"`
	SavedCRNs     []string `json:"saved_crns,omitempty"`
	AccentColor   string   `json:"accent_color,omitempty"`
}

// getConfigPath returns the absolute path to ~/.langara.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".langara.json"), nil
}

// Load reads the application configuration from disk.
// Returns an empty struct if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv reads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// ResolveBaseURL returns the registration host to use: environment first,
// then the saved setting, then the public site.
func (c *AppConfig) ResolveBaseURL() string {
	if v := os.Getenv(BaseURLEnv); v != "" {
		return v
	}
	if c != nil && c.BaseURL != "" {
		return c.BaseURL
	}
	return scraper.DefaultBaseURL
}

// Term returns the saved default term, or the term in session at now
func (c *AppConfig) Term(now time.Time) scraper.Term {
	if c != nil && c.DefaultYear != 0 && c.DefaultTerm != 0 {
		return scraper.Term{Year: c.DefaultYear, Code: c.DefaultTerm}
	}
	return scraper.CurrentTerm(now)
}
