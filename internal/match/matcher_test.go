package match_test

import (
	"testing"

	"reelsync/internal/match"
	"reelsync/internal/media"
)

func movie(title string, year int) media.Record {
	return media.Record{Title: title, Year: year, Kind: media.KindMovie}
}

func TestFindReflexive(t *testing.T) {
	records := []media.Record{
		movie("Parasite", 2019),
		movie("The Matrix", 1999),
		movie("Amélie", 2001),
		movie("Cléo from 5 to 7", 0),
	}
	for _, r := range records {
		res := match.Find(r, []media.Record{r}, match.DefaultOptions())
		if res.Matched == nil || !res.Exact || res.Score != 1.0 {
			t.Fatalf("expected exact self-match for %+v, got %+v", r, res)
		}
	}
}

func TestFindExactAfterNormalization(t *testing.T) {
	// Article-stripped duplicate collapses to the same key: exact match, no
	// fuzzy scoring involved.
	res := match.Find(movie("The Matrix", 1999), []media.Record{movie("Matrix", 1999)}, match.DefaultOptions())
	if res.Matched == nil || !res.Exact || res.Score != 1.0 {
		t.Fatalf("expected exact match, got %+v", res)
	}
}

func TestFindEmptyCandidates(t *testing.T) {
	res := match.Find(movie("Parasite", 2019), nil, match.DefaultOptions())
	if res.Matched != nil || res.Score != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestFindTokenOrderInsensitive(t *testing.T) {
	res := match.Find(movie("Of Wrath Grapes", 1940), []media.Record{movie("Grapes of Wrath", 1940)}, match.DefaultOptions())
	if res.Matched == nil {
		t.Fatalf("expected token-sorted channel to match, got score %.3f", res.Score)
	}
}

func TestFindRejectsNearDuplicateTitles(t *testing.T) {
	// Regression set for the default threshold: these franchise pairs are
	// distinct films and must never cross it.
	cases := []struct {
		query     media.Record
		candidate media.Record
	}{
		{movie("Spider-Man", 2002), movie("The Amazing Spider-Man", 2012)},
		{movie("Alien", 1979), movie("Aliens", 1986)},
		{movie("The Matrix", 1999), movie("The Matrix Reloaded", 2003)},
	}
	for _, tc := range cases {
		res := match.Find(tc.query, []media.Record{tc.candidate}, match.DefaultOptions())
		if res.Matched != nil {
			t.Fatalf("%q should not match %q (score %.3f)", tc.query.Title, tc.candidate.Title, res.Score)
		}
	}
}

func TestFindYearTolerance(t *testing.T) {
	// One year of slack: festival vs wide-release year.
	res := match.Find(movie("Parasite", 2019), []media.Record{movie("Parasite", 2020)}, match.DefaultOptions())
	if res.Matched == nil || res.Score != 1.0 {
		t.Fatalf("expected ±1 year to match at full score, got %+v", res)
	}
}

func TestFindYearPenalty(t *testing.T) {
	// Same text, conflicting years: penalized below the default threshold.
	res := match.Find(movie("Heat", 1995), []media.Record{movie("Heat", 2023)}, match.DefaultOptions())
	if res.Matched != nil {
		t.Fatalf("expected year conflict to block the match, got %+v", res)
	}
	if res.Score != 0.8 {
		t.Fatalf("expected penalized score 0.8, got %.3f", res.Score)
	}

	// A present, matching year wins over the conflicting remake.
	pool := match.NewPool([]media.Record{movie("Heat", 2023), movie("Heat", 1995)})
	got := pool.Find(movie("Heat", 1995), match.DefaultOptions())
	if got.Matched == nil || got.Matched.Year != 1995 {
		t.Fatalf("expected the 1995 candidate, got %+v", got)
	}
}

func TestFindTieBreakFirstEncountered(t *testing.T) {
	// Equal scores, no year preference possible: the first candidate in the
	// sorted pool order wins, deterministically.
	pool := match.NewPool([]media.Record{movie("King Kong", 1976), movie("King Kong", 1933)})
	opts := match.Options{Threshold: 0.5}
	res := pool.Find(movie("King Kong", 2005), opts)
	if res.Matched == nil || res.Matched.Year != 1933 {
		t.Fatalf("expected first-encountered 1933 candidate, got %+v", res)
	}
}

func TestFindThresholdMonotonic(t *testing.T) {
	query := movie("The Grape of Wrath", 0)
	candidates := []media.Record{movie("The Grapes of Wrath", 1940)}
	pool := match.NewPool(candidates)

	matched := false
	for _, threshold := range []float64{0.1, 0.3, 0.5, 0.7, 0.85, 0.95, 1.0} {
		res := pool.Find(query, match.Options{Threshold: threshold})
		if res.Matched != nil && matched {
			t.Fatalf("raising threshold to %.2f turned a non-match into a match", threshold)
		}
		if res.Matched == nil {
			matched = true
		}
	}
}

func TestOptionsNormalized(t *testing.T) {
	opts := match.Options{Threshold: -1, YearPenalty: 2}.Normalized()
	def := match.DefaultOptions()
	if opts.Threshold != def.Threshold || opts.YearPenalty != def.YearPenalty {
		t.Fatalf("expected defaults, got %+v", opts)
	}
}
