package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"reelsync/internal/config"
	"reelsync/internal/fetchcache"
	"reelsync/internal/gitsync"
	"reelsync/internal/history"
	"reelsync/internal/logging"
	"reelsync/internal/media"
	"reelsync/internal/notify"
	"reelsync/internal/reconcile"
	"reelsync/internal/report"
)

// ErrLocked indicates another sync run holds the lock file.
var ErrLocked = errors.New("another sync is already running")

// Fetcher retrieves a user's remote dataset.
type Fetcher interface {
	FetchUser(ctx context.Context, username string) (media.UserDataset, error)
}

// Scanner snapshots the local library.
type Scanner interface {
	Scan() (media.Inventory, error)
}

// Deps carries the pipeline's collaborators. Config, Fetcher, Scanner,
// Cache, and Engine are required; History and Git may be nil to disable
// those stages, and a nil Notifier falls back to the noop service.
type Deps struct {
	Config   *config.Config
	Fetcher  Fetcher
	Scanner  Scanner
	Cache    *fetchcache.Store
	Engine   *reconcile.Engine
	History  *history.Store
	Git      *gitsync.Syncer
	Notifier notify.Service
	Logger   *slog.Logger
}

// SyncOptions tunes one run.
type SyncOptions struct {
	// Users overrides the configured user list when non-empty.
	Users []string
	// Refresh bypasses cache freshness and always refetches.
	Refresh bool
}

// Summary is the outcome of one sync run.
type Summary struct {
	Results []reconcile.Result
	Pairs   []reconcile.PairResult
	// Failed maps usernames to the error that kept them out of the run.
	Failed map[string]error
	// Changed reports whether any report file differs from the previous run.
	Changed bool
	RunID   string
}

// MissingTotal counts distinct missing records across all users.
func (s *Summary) MissingTotal() int {
	seen := make(map[media.Record]struct{})
	for _, result := range s.Results {
		for _, record := range result.Missing {
			seen[record.Identity()] = struct{}{}
		}
	}
	return len(seen)
}

// Usernames lists the successfully reconciled users in run order.
func (s *Summary) Usernames() []string {
	names := make([]string, 0, len(s.Results))
	for _, result := range s.Results {
		names = append(names, result.Username)
	}
	return names
}

// Pipeline wires the sync stages together.
type Pipeline struct {
	deps   Deps
	logger *slog.Logger
}

// New validates deps and builds a pipeline.
func New(deps Deps) (*Pipeline, error) {
	switch {
	case deps.Config == nil:
		return nil, errors.New("pipeline: config is required")
	case deps.Fetcher == nil:
		return nil, errors.New("pipeline: fetcher is required")
	case deps.Scanner == nil:
		return nil, errors.New("pipeline: scanner is required")
	case deps.Cache == nil:
		return nil, errors.New("pipeline: cache is required")
	case deps.Engine == nil:
		return nil, errors.New("pipeline: engine is required")
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Noop()
	}
	return &Pipeline{
		deps:   deps,
		logger: logging.NewComponentLogger(deps.Logger, "pipeline"),
	}, nil
}

// Sync runs the full reconciliation pipeline.
func (p *Pipeline) Sync(ctx context.Context, opts SyncOptions) (*Summary, error) {
	lock := flock.New(p.deps.Config.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire sync lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	defer func() { _ = lock.Unlock() }()

	inventory, err := p.deps.Scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan library: %w", err)
	}

	users := opts.Users
	if len(users) == 0 {
		users = p.deps.Config.Letterboxd.Users
	}
	if len(users) == 0 {
		return nil, errors.New("no letterboxd users configured")
	}

	summary := &Summary{Failed: make(map[string]error)}
	for _, username := range users {
		dataset, err := p.LoadDataset(ctx, username, opts.Refresh)
		if err != nil {
			p.logger.Error("skipping user",
				logging.String("user", username),
				logging.Error(err))
			summary.Failed[username] = err
			if notifyErr := p.deps.Notifier.NotifyUserFailed(ctx, username, err); notifyErr != nil {
				p.logger.Warn("notification failed", logging.Error(notifyErr))
			}
			continue
		}
		summary.Results = append(summary.Results, p.deps.Engine.Reconcile(dataset, inventory))
	}
	if len(summary.Results) == 0 {
		return summary, errors.New("every configured user failed")
	}

	for i := 0; i < len(summary.Results); i++ {
		for j := i + 1; j < len(summary.Results); j++ {
			summary.Pairs = append(summary.Pairs, p.deps.Engine.Intersect(summary.Results[i], summary.Results[j]))
		}
	}

	changed, err := report.WriteAll(p.deps.Config.ReportsDir(), summary.Results, summary.Pairs)
	if err != nil {
		return summary, err
	}
	summary.Changed = changed

	if p.deps.History != nil {
		runID, err := p.deps.History.RecordRun(ctx, summary.Results)
		if err != nil {
			// History is bookkeeping; a failed insert must not fail the sync.
			p.logger.Warn("recording run history failed", logging.Error(err))
		} else {
			summary.RunID = runID
		}
	}

	if changed {
		p.afterChange(ctx, summary)
	}

	p.logger.Info("sync complete",
		logging.Int("users", len(summary.Results)),
		logging.Int("failed", len(summary.Failed)),
		logging.Bool("changed", summary.Changed))
	return summary, nil
}

func (p *Pipeline) afterChange(ctx context.Context, summary *Summary) {
	if p.deps.Git != nil {
		if _, err := p.deps.Git.Commit(ctx, gitsync.DefaultMessage(time.Now())); err != nil {
			p.logger.Warn("git commit failed", logging.Error(err))
		}
	}
	if err := p.deps.Notifier.NotifyReportsChanged(ctx, summary.Usernames(), summary.MissingTotal()); err != nil {
		p.logger.Warn("notification failed", logging.Error(err))
	}
}

// LoadDataset returns the user's dataset, served from cache when fresh and
// refetched otherwise. A failed fetch falls back to stale cache entries when
// both lists are present.
func (p *Pipeline) LoadDataset(ctx context.Context, username string, refresh bool) (media.UserDataset, error) {
	maxAge := p.deps.Config.CacheMaxAge()

	watched, watchedErr := p.deps.Cache.Read(username, media.DatasetWatched)
	watchlist, watchlistErr := p.deps.Cache.Read(username, media.DatasetWatchlist)
	cached := watchedErr == nil && watchlistErr == nil

	if !refresh && cached && fetchcache.IsFresh(watched, maxAge) && fetchcache.IsFresh(watchlist, maxAge) {
		p.logger.Debug("serving dataset from cache", logging.String("user", username))
		return datasetFromCache(username, watched, watchlist), nil
	}

	dataset, err := p.deps.Fetcher.FetchUser(ctx, username)
	if err != nil {
		if cached {
			p.logger.Warn("fetch failed, falling back to stale cache",
				logging.String("user", username),
				logging.Error(err))
			return datasetFromCache(username, watched, watchlist), nil
		}
		return media.UserDataset{}, err
	}

	p.storeDataset(dataset)
	return dataset, nil
}

// storeDataset persists both lists. Cache write failures are logged, never
// propagated: the fetched data is already in hand.
func (p *Pipeline) storeDataset(dataset media.UserDataset) {
	watched := fetchcache.Entry{Records: dataset.Watched, FetchedAt: dataset.FetchedAt}
	if err := p.deps.Cache.Write(dataset.Username, media.DatasetWatched, watched); err != nil {
		p.logger.Warn("caching watched list failed", logging.Error(err))
	}

	var rated []media.RatedRecord
	for _, record := range dataset.Watchlist {
		rated = append(rated, media.RatedRecord{Record: record})
	}
	watchlist := fetchcache.Entry{Records: rated, FetchedAt: dataset.FetchedAt}
	if err := p.deps.Cache.Write(dataset.Username, media.DatasetWatchlist, watchlist); err != nil {
		p.logger.Warn("caching watchlist failed", logging.Error(err))
	}
}

func datasetFromCache(username string, watched, watchlist fetchcache.Entry) media.UserDataset {
	fetchedAt := watched.FetchedAt
	if watchlist.FetchedAt.Before(fetchedAt) {
		fetchedAt = watchlist.FetchedAt
	}
	return media.UserDataset{
		Username:  username,
		Watched:   watched.Records,
		Watchlist: watchlist.Plain(),
		FetchedAt: fetchedAt,
	}
}
