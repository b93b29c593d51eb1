package match

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"reelsync/internal/media"
	"reelsync/internal/textutil"
)

// Options centralizes matching thresholds.
type Options struct {
	// Threshold is the minimum similarity score for a fuzzy match to be
	// accepted. The default is deliberately conservative: near-duplicate
	// franchise titles ("Spider-Man" vs "The Amazing Spider-Man", "Alien"
	// vs "Aliens") stay below it.
	Threshold float64
	// YearPenalty multiplies the text score when both records carry a year
	// and the years differ by more than one. It only ever down-weights.
	YearPenalty float64
}

// DefaultOptions returns the documented default thresholds.
func DefaultOptions() Options {
	return Options{
		Threshold:   0.85,
		YearPenalty: 0.8,
	}
}

// Normalized replaces out-of-range values with defaults.
func (o Options) Normalized() Options {
	d := DefaultOptions()
	if o.Threshold <= 0 || o.Threshold > 1 {
		o.Threshold = d.Threshold
	}
	if o.YearPenalty <= 0 || o.YearPenalty > 1 {
		o.YearPenalty = d.YearPenalty
	}
	return o
}

// Result is the outcome of matching one query against a candidate pool.
// Matched is nil when no candidate reached the threshold; Score then holds
// the best score observed (0 for an empty pool).
type Result struct {
	Query   media.Record
	Matched *media.Record
	Score   float64
	Exact   bool
}

type candidate struct {
	record media.Record
	key    textutil.Key
	sorted string
}

// Pool holds normalized candidates in a deterministic order so repeated
// queries avoid renormalizing. Candidates are sorted lexically by title,
// which also fixes the first-encountered tie-break.
type Pool struct {
	candidates []candidate
	metric     *metrics.Levenshtein
}

// NewPool normalizes and orders the candidate records.
func NewPool(records []media.Record) *Pool {
	sorted := make([]media.Record, len(records))
	copy(sorted, records)
	media.Sort(sorted)

	p := &Pool{
		candidates: make([]candidate, 0, len(sorted)),
		metric:     metrics.NewLevenshtein(),
	}
	for _, r := range sorted {
		key := textutil.NormalizeTitle(r.Title, r.Year)
		p.candidates = append(p.candidates, candidate{
			record: r,
			key:    key,
			sorted: textutil.SortTokens(key.Text),
		})
	}
	return p
}

// Len returns the number of candidates in the pool.
func (p *Pool) Len() int {
	return len(p.candidates)
}

// Find returns the best match for the query. Complexity is O(len(pool)).
func (p *Pool) Find(query media.Record, opts Options) Result {
	opts = opts.Normalized()
	result := Result{Query: query}
	if len(p.candidates) == 0 {
		return result
	}

	qKey := textutil.NormalizeTitle(query.Title, query.Year)
	qSorted := textutil.SortTokens(qKey.Text)

	for i := range p.candidates {
		c := &p.candidates[i]
		if c.key.Text == qKey.Text && exactYears(qKey.Year, c.key.Year) {
			return Result{Query: query, Matched: &c.record, Score: 1.0, Exact: true}
		}
	}

	var best *media.Record
	var bestScore float64
	var bestYearHit bool
	for i := range p.candidates {
		c := &p.candidates[i]
		score := p.similarity(qKey.Text, qSorted, c.key.Text, c.sorted)
		if yearsConflict(qKey.Year, c.key.Year) {
			score *= opts.YearPenalty
		}
		yearHit := qKey.Year != 0 && qKey.Year == c.key.Year

		switch {
		case score > bestScore:
			best, bestScore, bestYearHit = &c.record, score, yearHit
		case score == bestScore && yearHit && !bestYearHit:
			// Exact score tie: prefer the candidate whose year matches.
			best, bestYearHit = &c.record, true
		}
	}

	result.Score = bestScore
	if bestScore >= opts.Threshold {
		result.Matched = best
	}
	return result
}

// similarity is the documented metric: the higher of the normalized
// Levenshtein similarity on the plain and token-sorted text channels.
func (p *Pool) similarity(a, aSorted, b, bSorted string) float64 {
	if a == "" || b == "" {
		return 0
	}
	score := strutil.Similarity(a, b, p.metric)
	if aSorted != a || bSorted != b {
		if ts := strutil.Similarity(aSorted, bSorted, p.metric); ts > score {
			score = ts
		}
	}
	return score
}

// Find matches a single query against ad-hoc candidates. Callers issuing
// many queries over the same records should build a Pool once instead.
func Find(query media.Record, candidates []media.Record, opts Options) Result {
	return NewPool(candidates).Find(query, opts)
}

// exactYears reports whether years qualify for the exact-match short
// circuit: equal, or at least one unknown.
func exactYears(a, b int) bool {
	return a == 0 || b == 0 || a == b
}

// yearsConflict reports whether both years are known and differ by more than
// one. The one-year slack absorbs festival-vs-wide-release discrepancies.
func yearsConflict(a, b int) bool {
	if a == 0 || b == 0 {
		return false
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff > 1
}
