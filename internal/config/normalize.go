package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLetterboxd(); err != nil {
		return err
	}
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	c.normalizeMatcher()
	c.normalizeCache()
	c.normalizeGit()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLetterboxd() error {
	c.Letterboxd.BaseURL = strings.TrimRight(strings.TrimSpace(c.Letterboxd.BaseURL), "/")
	if c.Letterboxd.BaseURL == "" {
		c.Letterboxd.BaseURL = defaultLetterboxdBaseURL
	}
	if c.Letterboxd.RequestDelayMS < 0 {
		c.Letterboxd.RequestDelayMS = defaultRequestDelayMS
	}
	if c.Letterboxd.RequestTimeout <= 0 {
		c.Letterboxd.RequestTimeout = defaultRequestTimeout
	}
	if c.Letterboxd.MaxPages <= 0 {
		c.Letterboxd.MaxPages = defaultMaxPages
	}

	// Letterboxd usernames are case-insensitive; canonicalize so cache keys
	// and report names stay stable across config edits.
	users := make([]string, 0, len(c.Letterboxd.Users))
	seen := make(map[string]struct{}, len(c.Letterboxd.Users))
	for _, user := range c.Letterboxd.Users {
		normalized := strings.ToLower(strings.TrimSpace(user))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		users = append(users, normalized)
	}
	c.Letterboxd.Users = users
	return nil
}

func (c *Config) normalizeLibrary() error {
	var err error
	if c.Library.MoviesDir, err = expandPath(c.Library.MoviesDir); err != nil {
		return fmt.Errorf("library.movies_dir: %w", err)
	}
	if c.Library.TVDir, err = expandPath(c.Library.TVDir); err != nil {
		return fmt.Errorf("library.tv_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatcher() {
	if c.Matcher.Threshold <= 0 || c.Matcher.Threshold > 1 {
		c.Matcher.Threshold = defaultMatchThreshold
	}
	if c.Matcher.YearPenalty <= 0 || c.Matcher.YearPenalty > 1 {
		c.Matcher.YearPenalty = defaultYearPenalty
	}
}

func (c *Config) normalizeCache() {
	if c.Cache.MaxAgeHours <= 0 {
		c.Cache.MaxAgeHours = defaultCacheMaxAgeHours
	}
}

func (c *Config) normalizeGit() {
	c.Git.Remote = strings.TrimSpace(c.Git.Remote)
	if c.Git.Remote == "" {
		c.Git.Remote = defaultGitRemote
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("REELSYNC_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
