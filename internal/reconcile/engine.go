package reconcile

import (
	"log/slog"
	"strings"

	"reelsync/internal/logging"
	"reelsync/internal/match"
	"reelsync/internal/media"
)

// Result is the per-user outcome of one reconciliation. All slices are
// deduplicated and sorted, so identical inputs produce identical results.
type Result struct {
	Username string

	// Watchlist is the cleaned watchlist the remaining slices partition.
	Watchlist []media.Record
	// Available holds watchlist records matched to a library entry.
	Available []media.Record
	// Missing holds watchlist records with no library match.
	Missing []media.Record
	// Undiscovered holds library entries the user has neither watched nor
	// listed.
	Undiscovered []media.Record
}

// Engine reconciles datasets against inventories with fixed match options.
type Engine struct {
	opts   match.Options
	logger *slog.Logger
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(opts match.Options, logger *slog.Logger) *Engine {
	return &Engine{
		opts:   opts.Normalized(),
		logger: logging.NewComponentLogger(logger, "reconcile"),
	}
}

// Reconcile partitions the user's watchlist by library availability and
// collects undiscovered library entries.
func (e *Engine) Reconcile(dataset media.UserDataset, inventory media.Inventory) Result {
	result := Result{Username: dataset.Username}

	watched := e.cleaned(dataset.Username, media.Plain(dataset.Watched))
	watchlist := e.cleaned(dataset.Username, dataset.Watchlist)
	result.Watchlist = watchlist

	pools := map[media.Kind]*match.Pool{
		media.KindMovie: match.NewPool(inventory.Movies),
		media.KindTV:    match.NewPool(inventory.TV),
	}

	for _, record := range watchlist {
		found := pools[record.Kind].Find(record, e.opts)
		if found.Matched != nil {
			result.Available = append(result.Available, record)
		} else {
			result.Missing = append(result.Missing, record)
		}
	}

	// A library entry counts as discovered when it matches anything the user
	// has watched or listed, in either direction of the same kind pools.
	known := make(map[media.Kind][]media.Record)
	for _, record := range watched {
		known[record.Kind] = append(known[record.Kind], record)
	}
	for _, record := range watchlist {
		known[record.Kind] = append(known[record.Kind], record)
	}
	for _, kind := range []media.Kind{media.KindMovie, media.KindTV} {
		pool := match.NewPool(known[kind])
		for _, record := range inventory.Records(kind) {
			if found := pool.Find(record, e.opts); found.Matched == nil {
				result.Undiscovered = append(result.Undiscovered, record)
			}
		}
	}

	media.Sort(result.Available)
	media.Sort(result.Missing)
	media.Sort(result.Undiscovered)
	return result
}

// cleaned drops unusable records and deduplicates while keeping first
// occurrences, then sorts for deterministic downstream order.
func (e *Engine) cleaned(username string, records []media.Record) []media.Record {
	usable := make([]media.Record, 0, len(records))
	for _, record := range records {
		if strings.TrimSpace(record.Title) == "" || !record.Kind.Valid() {
			e.logger.Warn("dropping unusable record",
				logging.String("user", username),
				logging.String("title", record.Title),
				logging.String("kind", string(record.Kind)))
			continue
		}
		usable = append(usable, record)
	}
	usable = media.Dedupe(usable)
	media.Sort(usable)
	return usable
}
