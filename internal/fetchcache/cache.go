package fetchcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"reelsync/internal/fileutil"
	"reelsync/internal/logging"
	"reelsync/internal/media"
	"reelsync/internal/textutil"
)

// ErrMiss indicates the requested dataset is not usable from cache. A
// missing, empty, or corrupt file all surface as a miss; callers refetch.
var ErrMiss = errors.New("cache miss")

// Entry is the persisted form of one fetched dataset. Ratings ride along on
// watched records and marshal away for watchlists.
type Entry struct {
	Records   []media.RatedRecord `json:"records"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// Plain strips ratings from the cached records.
func (e Entry) Plain() []media.Record {
	return media.Plain(e.Records)
}

// Info summarizes one cache file for listings.
type Info struct {
	Username  string
	Kind      media.DatasetKind
	FetchedAt time.Time
	Count     int
	Path      string
}

// IsFresh reports whether the entry was fetched within maxAge of now. An
// entry aged exactly maxAge still counts as fresh.
func IsFresh(entry Entry, maxAge time.Duration) bool {
	return freshAt(entry, maxAge, time.Now())
}

func freshAt(entry Entry, maxAge time.Duration, now time.Time) bool {
	if entry.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(entry.FetchedAt) <= maxAge
}

// Store persists fetched datasets as one JSON file per (username, kind).
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// first write.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "fetchcache"),
	}
}

// Read loads the cached dataset for (username, kind). Any unusable file
// reports ErrMiss; corruption is logged but never fatal.
func (s *Store) Read(username string, kind media.DatasetKind) (Entry, error) {
	path := s.entryPath(username, kind)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, ErrMiss
		}
		return Entry{}, fmt.Errorf("read cache file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.Warn("discarding corrupt cache file",
			logging.String("path", path),
			logging.Error(err))
		return Entry{}, ErrMiss
	}
	if entry.FetchedAt.IsZero() {
		return Entry{}, ErrMiss
	}
	return entry, nil
}

// Write persists the dataset atomically so a crashed run never leaves a
// partial file behind.
func (s *Store) Write(username string, kind media.DatasetKind, entry Entry) error {
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now()
	}
	entry.FetchedAt = entry.FetchedAt.UTC()

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	path := s.entryPath(username, kind)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("persist cache entry: %w", err)
	}

	s.logger.Debug("cached dataset",
		logging.String("user", username),
		logging.String("kind", string(kind)),
		logging.Int("records", len(entry.Records)))
	return nil
}

// Remove deletes the cache file for (username, kind). Removing an absent
// entry is not an error.
func (s *Store) Remove(username string, kind media.DatasetKind) error {
	err := os.Remove(s.entryPath(username, kind))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}

// Clear deletes every cache file in the store directory.
func (s *Store) Clear() error {
	infos, err := s.List()
	if err != nil {
		return err
	}
	for _, info := range infos {
		if err := os.Remove(info.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove cache file: %w", err)
		}
	}
	return nil
}

// List summarizes every readable cache file, sorted by username then kind.
// Unreadable files are skipped with a warning.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache directory: %w", err)
	}

	var infos []Info
	for _, dirEntry := range entries {
		if dirEntry.IsDir() {
			continue
		}
		username, kind, ok := parseFileName(dirEntry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(s.dir, dirEntry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable cache file",
				logging.String("path", path),
				logging.Error(err))
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			s.logger.Warn("skipping corrupt cache file",
				logging.String("path", path),
				logging.Error(err))
			continue
		}
		infos = append(infos, Info{
			Username:  username,
			Kind:      kind,
			FetchedAt: entry.FetchedAt,
			Count:     len(entry.Records),
			Path:      path,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Username != infos[j].Username {
			return infos[i].Username < infos[j].Username
		}
		return infos[i].Kind < infos[j].Kind
	})
	return infos, nil
}

func (s *Store) entryPath(username string, kind media.DatasetKind) string {
	name := textutil.SanitizeToken(strings.ToLower(username))
	return filepath.Join(s.dir, name+"."+string(kind)+".json")
}

func parseFileName(name string) (string, media.DatasetKind, bool) {
	base, ok := strings.CutSuffix(name, ".json")
	if !ok {
		return "", "", false
	}
	username, kindText, ok := strings.Cut(base, ".")
	if !ok || username == "" {
		return "", "", false
	}
	kind := media.DatasetKind(kindText)
	if !kind.Valid() {
		return "", "", false
	}
	return username, kind, true
}
