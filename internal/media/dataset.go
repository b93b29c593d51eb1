package media

import "time"

// DatasetKind names the two remote record lists kept per user. The string
// values are part of the cache file format and must stay stable.
type DatasetKind string

const (
	DatasetWatched   DatasetKind = "watched"
	DatasetWatchlist DatasetKind = "watchlist"
)

// Valid reports whether k is one of the two known dataset kinds.
func (k DatasetKind) Valid() bool {
	return k == DatasetWatched || k == DatasetWatchlist
}

// UserDataset is one user's scraped state. A refresh replaces the whole
// value; nothing merges into an existing dataset.
type UserDataset struct {
	Username  string
	Watched   []RatedRecord
	Watchlist []Record
	FetchedAt time.Time
}

// Inventory is an atomic snapshot of the local library produced by the
// directory scan.
type Inventory struct {
	Movies    []Record
	TV        []Record
	ScannedAt time.Time
}

// Records returns the inventory slice for the given kind.
func (inv Inventory) Records(kind Kind) []Record {
	switch kind {
	case KindMovie:
		return inv.Movies
	case KindTV:
		return inv.TV
	default:
		return nil
	}
}

// All returns movies followed by TV entries.
func (inv Inventory) All() []Record {
	out := make([]Record, 0, len(inv.Movies)+len(inv.TV))
	out = append(out, inv.Movies...)
	out = append(out, inv.TV...)
	return out
}

// Size returns the total entry count.
func (inv Inventory) Size() int {
	return len(inv.Movies) + len(inv.TV)
}
