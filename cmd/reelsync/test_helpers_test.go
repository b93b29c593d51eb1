package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"reelsync/internal/config"
	"reelsync/internal/fetchcache"
	"reelsync/internal/logging"
	"reelsync/internal/media"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()

	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Letterboxd.Users = []string{"alice", "bob"}
	cfg.Library.MoviesDir = filepath.Join(base, "movies")
	cfg.Library.TVDir = filepath.Join(base, "tv")
	cfg.Logging.Level = "error"

	for _, dir := range []string{cfg.Library.MoviesDir, cfg.Library.TVDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	configPath := filepath.Join(base, "config.toml")
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{cfg: &cfg, configPath: configPath, baseDir: base}
}

// addMovie drops a movie folder into the test library.
func (env *cliTestEnv) addMovie(t *testing.T, name string) {
	t.Helper()
	dir := filepath.Join(env.cfg.Library.MoviesDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

// seedCache writes both lists for a user so offline commands have data.
func (env *cliTestEnv) seedCache(t *testing.T, username string, watched []media.RatedRecord, watchlist []media.Record) {
	t.Helper()
	store := fetchcache.NewStore(env.cfg.Paths.CacheDir, logging.NewNop())
	if err := os.MkdirAll(env.cfg.Paths.CacheDir, 0o755); err != nil {
		t.Fatalf("mkdir cache dir: %v", err)
	}

	now := time.Now().UTC()
	if err := store.Write(username, media.DatasetWatched, fetchcache.Entry{Records: watched, FetchedAt: now}); err != nil {
		t.Fatalf("seed watched: %v", err)
	}
	var rated []media.RatedRecord
	for _, record := range watchlist {
		rated = append(rated, media.RatedRecord{Record: record})
	}
	if err := store.Write(username, media.DatasetWatchlist, fetchcache.Entry{Records: rated, FetchedAt: now}); err != nil {
		t.Fatalf("seed watchlist: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func mustRecord(t *testing.T, title string, year int, kind media.Kind) media.Record {
	t.Helper()
	record, err := media.NewRecord(title, year, kind)
	if err != nil {
		t.Fatalf("record %q: %v", title, err)
	}
	return record
}
