// Package setup implements the interactive first-run wizard.
//
// The wizard asks for the handful of values a new install needs and writes
// a complete TOML config. Every prompt has a default, so mashing enter
// produces a working file.
package setup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"reelsync/internal/config"
)

// Run walks the prompts and writes the resulting config to path. The
// returned config is the one written.
func Run(in io.Reader, out io.Writer, path string) (*config.Config, error) {
	reader := bufio.NewReader(in)
	cfg := config.Default()

	fmt.Fprintln(out, "reelsync setup")
	fmt.Fprintln(out, "Press enter to accept the value in brackets.")
	fmt.Fprintln(out)

	users, err := prompt(reader, out, "Letterboxd usernames (comma separated)", "")
	if err != nil {
		return nil, err
	}
	cfg.Letterboxd.Users = splitUsers(users)

	if cfg.Library.MoviesDir, err = prompt(reader, out, "Movies directory", cfg.Library.MoviesDir); err != nil {
		return nil, err
	}
	if cfg.Library.TVDir, err = prompt(reader, out, "TV directory", cfg.Library.TVDir); err != nil {
		return nil, err
	}

	threshold, err := prompt(reader, out, "Match threshold (0-1]", formatFloat(cfg.Matcher.Threshold))
	if err != nil {
		return nil, err
	}
	if value, parseErr := strconv.ParseFloat(threshold, 64); parseErr == nil && value > 0 && value <= 1 {
		cfg.Matcher.Threshold = value
	} else {
		fmt.Fprintf(out, "Keeping default threshold %s.\n", formatFloat(cfg.Matcher.Threshold))
	}

	maxAge, err := prompt(reader, out, "Cache max age in hours", strconv.Itoa(cfg.Cache.MaxAgeHours))
	if err != nil {
		return nil, err
	}
	if value, parseErr := strconv.Atoi(maxAge); parseErr == nil && value > 0 {
		cfg.Cache.MaxAgeHours = value
	}

	topic, err := prompt(reader, out, "ntfy topic (empty to disable notifications)", "")
	if err != nil {
		return nil, err
	}
	cfg.Notifications.NtfyTopic = strings.TrimSpace(topic)

	gitAnswer, err := prompt(reader, out, "Commit report changes to git? (y/N)", "n")
	if err != nil {
		return nil, err
	}
	cfg.Git.Enabled = isYes(gitAnswer)

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(out, "\nWrote %s\n", path)
	return &cfg, nil
}

// prompt reads one answer, returning the fallback on a blank line. EOF is
// treated as accepting the remaining defaults.
func prompt(reader *bufio.Reader, out io.Writer, question, fallback string) (string, error) {
	if fallback != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, fallback)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read answer: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback, nil
	}
	return line, nil
}

func splitUsers(value string) []string {
	var users []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			users = append(users, part)
		}
	}
	return users
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
