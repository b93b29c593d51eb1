package inventory

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"reelsync/internal/logging"
	"reelsync/internal/media"
)

// Scanner reads the local library directories into inventory snapshots.
type Scanner struct {
	moviesDir string
	tvDir     string
	logger    *slog.Logger
}

// NewScanner creates a scanner over the two library roots. Either directory
// may be empty to skip that kind.
func NewScanner(moviesDir, tvDir string, logger *slog.Logger) *Scanner {
	return &Scanner{
		moviesDir: moviesDir,
		tvDir:     tvDir,
		logger:    logging.NewComponentLogger(logger, "inventory"),
	}
}

// Scan snapshots both library roots. Entries that parse to an empty title
// are skipped; duplicates collapse to one record.
func (s *Scanner) Scan() (media.Inventory, error) {
	inv := media.Inventory{ScannedAt: time.Now().UTC()}

	movies, err := s.scanDir(s.moviesDir, media.KindMovie)
	if err != nil {
		return media.Inventory{}, err
	}
	inv.Movies = movies

	tv, err := s.scanDir(s.tvDir, media.KindTV)
	if err != nil {
		return media.Inventory{}, err
	}
	inv.TV = tv

	s.logger.Info("scanned library",
		logging.Int("movies", len(inv.Movies)),
		logging.Int("tv", len(inv.TV)))
	return inv, nil
}

func (s *Scanner) scanDir(dir string, kind media.Kind) ([]media.Record, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("library directory missing",
				logging.String("dir", dir),
				logging.String("kind", string(kind)))
			return nil, nil
		}
		return nil, fmt.Errorf("read library directory %q: %w", dir, err)
	}

	var records []media.Record
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !entry.IsDir() && !isVideoFile(name) {
			continue
		}

		title, year := parseName(name)
		if title == "" {
			s.logger.Warn("skipping unparseable entry",
				logging.String("dir", dir),
				logging.String("name", name))
			continue
		}
		records = append(records, media.Record{Title: title, Year: year, Kind: kind})
	}

	records = media.Dedupe(records)
	media.Sort(records)
	return records, nil
}
