package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLetterboxd(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateMatcher(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateGit(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLetterboxd() error {
	parsed, err := url.Parse(c.Letterboxd.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("letterboxd.base_url must be an absolute URL, got %q", c.Letterboxd.BaseURL)
	}
	if err := ensurePositiveMap(map[string]int{
		"letterboxd.request_timeout": c.Letterboxd.RequestTimeout,
		"letterboxd.max_pages":       c.Letterboxd.MaxPages,
	}); err != nil {
		return err
	}
	for _, user := range c.Letterboxd.Users {
		if strings.ContainsAny(user, "/ \t") {
			return fmt.Errorf("letterboxd.users entry %q is not a valid username", user)
		}
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.MoviesDir == "" && c.Library.TVDir == "" {
		return errors.New("library.movies_dir or library.tv_dir must be set")
	}
	return nil
}

func (c *Config) validateMatcher() error {
	if c.Matcher.Threshold <= 0 || c.Matcher.Threshold > 1 {
		return errors.New("matcher.threshold must be between 0 and 1")
	}
	if c.Matcher.YearPenalty <= 0 || c.Matcher.YearPenalty > 1 {
		return errors.New("matcher.year_penalty must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.MaxAgeHours <= 0 {
		return errors.New("cache.max_age_hours must be positive")
	}
	return nil
}

func (c *Config) validateGit() error {
	if c.Git.Enabled && c.Git.Push && strings.TrimSpace(c.Git.Remote) == "" {
		return errors.New("git.remote must be set when git.push is true")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
