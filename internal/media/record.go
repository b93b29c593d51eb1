package media

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind partitions records into matching candidate pools.
type Kind string

const (
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
)

// Valid reports whether the kind is one of the known values.
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindTV
}

// ErrMissingTitle marks a record that cannot participate in matching.
var ErrMissingTitle = errors.New("record missing title")

// Record is a single title as seen by either the remote scrape or the local
// scan. Year 0 means unknown. Slug is the Letterboxd film slug when the
// record came from a scrape; local records leave it empty.
type Record struct {
	Title string `json:"title"`
	Year  int    `json:"year,omitempty"`
	Kind  Kind   `json:"kind"`
	Slug  string `json:"slug,omitempty"`
}

// NewRecord validates and constructs a Record. The title must be non-blank
// and the kind must be a known value; enforcement happens here so downstream
// code never re-validates.
func NewRecord(title string, year int, kind Kind) (Record, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Record{}, ErrMissingTitle
	}
	if !kind.Valid() {
		return Record{}, fmt.Errorf("unknown record kind %q", kind)
	}
	return Record{Title: title, Year: year, Kind: kind}, nil
}

// Identity returns the structural identity key for deduplication. The slug is
// deliberately excluded: two sources describing the same title/year/kind are
// one logical record.
func (r Record) Identity() Record {
	return Record{Title: r.Title, Year: r.Year, Kind: r.Kind}
}

// String renders the record the way reports do: "(1999) The Matrix".
func (r Record) String() string {
	if r.Year > 0 {
		return fmt.Sprintf("(%d) %s", r.Year, r.Title)
	}
	return fmt.Sprintf("(????) %s", r.Title)
}

// RatedRecord extends Record with the user's own rating on a 0.5-5.0 scale.
// Rating 0 means unrated.
type RatedRecord struct {
	Record
	Rating float64 `json:"rating,omitempty"`
}

// Dedupe removes structural duplicates from records, keeping the first
// occurrence. Input order is preserved.
func Dedupe(records []Record) []Record {
	seen := make(map[Record]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		id := r.Identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, r)
	}
	return out
}

// DedupeRated removes structural duplicates from rated records, keeping the
// first occurrence.
func DedupeRated(records []RatedRecord) []RatedRecord {
	seen := make(map[Record]struct{}, len(records))
	out := make([]RatedRecord, 0, len(records))
	for _, r := range records {
		id := r.Identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Sort orders records lexically by lowercased title, then year, then kind.
// Matching requires a deterministic candidate order; this is it.
func Sort(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		ti := strings.ToLower(records[i].Title)
		tj := strings.ToLower(records[j].Title)
		if ti != tj {
			return ti < tj
		}
		if records[i].Year != records[j].Year {
			return records[i].Year < records[j].Year
		}
		return records[i].Kind < records[j].Kind
	})
}

// Plain strips ratings, returning the underlying records.
func Plain(records []RatedRecord) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, r.Record)
	}
	return out
}
