package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds ingester configuration.
type Config struct {
	BaseURL      string
	DirectoryURL string
	ListingPath  string
	DBPath       string
	MaxPages     int
	Timeout      time.Duration
	UserAgent    string
	MetricsAddr  string
	ExportFile   string
	Discover     bool
	Verbose      bool
}

// DefaultConfig returns the defaults for the live catalog target.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "https://www.kitapyurdu.com",
		DirectoryURL: "https://www.kitapyurdu.com/yayincilar",
		ListingPath:  "/index.php?route=product/publisher_products/all&publisher_id=%s&sort=purchased_365&order=DESC&filter_in_stock=1&page=%d",
		DBPath:       "librai.db",
		MaxPages:     200,
		Timeout:      10 * time.Second,
		UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3",
		MetricsAddr:  "",
		ExportFile:   "",
		Discover:     false,
		Verbose:      false,
	}
}

// ListingURL builds the listing-page URL for a publisher id and page number.
func (c *Config) ListingURL(publisherID string, page int) string {
	return c.BaseURL + fmt.Sprintf(c.ListingPath, publisherID, page)
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.DirectoryURL == "" {
		return fmt.Errorf("directory URL cannot be empty")
	}
	if c.ListingPath == "" {
		return fmt.Errorf("listing path cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}

// EnvInt reads an integer environment variable. The second return value
// reports whether the variable was set.
func EnvInt(name string) (int, bool, error) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", name, err)
	}
	return value, true, nil
}

// EnvString reads a string environment variable.
func EnvString(name string) (string, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
