package reconcile

import (
	"reelsync/internal/match"
	"reelsync/internal/media"
)

// PairResult is the shared watchlist of two users, partitioned by the first
// user's library availability. Records are taken from UserA's watchlist, so
// titles render the way A's dataset spelled them.
type PairResult struct {
	UserA string
	UserB string

	SharedAvailable []media.Record
	SharedMissing   []media.Record
}

// SharedTotal returns the size of the shared watchlist.
func (p PairResult) SharedTotal() int {
	return len(p.SharedAvailable) + len(p.SharedMissing)
}

// Intersect computes the shared watchlist of two reconciliation results.
// Membership uses the same matcher and thresholds as Reconcile, so two
// spellings that reconcile to the same library entry also count as the same
// watchlist entry across users.
func (e *Engine) Intersect(a, b Result) PairResult {
	pair := PairResult{UserA: a.Username, UserB: b.Username}

	byKind := make(map[media.Kind][]media.Record)
	for _, record := range b.Watchlist {
		byKind[record.Kind] = append(byKind[record.Kind], record)
	}
	pools := make(map[media.Kind]*match.Pool, len(byKind))
	for kind, records := range byKind {
		pools[kind] = match.NewPool(records)
	}

	available := make(map[media.Record]struct{}, len(a.Available))
	for _, record := range a.Available {
		available[record.Identity()] = struct{}{}
	}

	for _, record := range a.Watchlist {
		pool := pools[record.Kind]
		if pool == nil || pool.Find(record, e.opts).Matched == nil {
			continue
		}
		if _, ok := available[record.Identity()]; ok {
			pair.SharedAvailable = append(pair.SharedAvailable, record)
		} else {
			pair.SharedMissing = append(pair.SharedMissing, record)
		}
	}

	media.Sort(pair.SharedAvailable)
	media.Sort(pair.SharedMissing)
	return pair
}
