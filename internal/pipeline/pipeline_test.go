package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"reelsync/internal/config"
	"reelsync/internal/fetchcache"
	"reelsync/internal/logging"
	"reelsync/internal/match"
	"reelsync/internal/media"
	"reelsync/internal/pipeline"
	"reelsync/internal/reconcile"
)

type stubFetcher struct {
	datasets map[string]media.UserDataset
	errs     map[string]error
	calls    map[string]int
}

func (f *stubFetcher) FetchUser(_ context.Context, username string) (media.UserDataset, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[username]++
	if err := f.errs[username]; err != nil {
		return media.UserDataset{}, err
	}
	dataset, ok := f.datasets[username]
	if !ok {
		return media.UserDataset{}, errors.New("unknown user")
	}
	dataset.FetchedAt = time.Now().UTC()
	return dataset, nil
}

type stubScanner struct {
	inventory media.Inventory
}

func (s stubScanner) Scan() (media.Inventory, error) { return s.inventory, nil }

func movie(title string, year int) media.Record {
	return media.Record{Title: title, Year: year, Kind: media.KindMovie}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.DataDir = base + "/data"
	cfg.Paths.CacheDir = base + "/cache"
	cfg.Paths.StateDir = base + "/state"
	cfg.Paths.LogDir = base + "/logs"
	cfg.Letterboxd.Users = []string{"alice", "bob"}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	return &cfg
}

func newPipeline(t *testing.T, cfg *config.Config, fetcher pipeline.Fetcher, inv media.Inventory) *pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.New(pipeline.Deps{
		Config:  cfg,
		Fetcher: fetcher,
		Scanner: stubScanner{inventory: inv},
		Cache:   fetchcache.NewStore(cfg.Paths.CacheDir, logging.NewNop()),
		Engine:  reconcile.NewEngine(match.DefaultOptions(), nil),
		Logger:  logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return p
}

func TestSyncReconcilesAllUsers(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &stubFetcher{datasets: map[string]media.UserDataset{
		"alice": {Username: "alice", Watchlist: []media.Record{movie("Dune", 2021), movie("Heat", 1995)}},
		"bob":   {Username: "bob", Watchlist: []media.Record{movie("Dune", 2021)}},
	}}
	inv := media.Inventory{Movies: []media.Record{movie("Dune", 2021)}}

	summary, err := newPipeline(t, cfg, fetcher, inv).Sync(context.Background(), pipeline.SyncOptions{})
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}

	if len(summary.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(summary.Results))
	}
	if len(summary.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(summary.Pairs))
	}
	pair := summary.Pairs[0]
	if len(pair.SharedAvailable) != 1 || pair.SharedAvailable[0].Title != "Dune" {
		t.Fatalf("unexpected pair result: %+v", pair)
	}
	if !summary.Changed {
		t.Fatal("first run must report changed reports")
	}
	if summary.MissingTotal() != 1 {
		t.Fatalf("expected 1 distinct missing record, got %d", summary.MissingTotal())
	}
}

func TestSyncIsolatesFailedUsers(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &stubFetcher{
		datasets: map[string]media.UserDataset{
			"alice": {Username: "alice", Watchlist: []media.Record{movie("Dune", 2021)}},
		},
		errs: map[string]error{"bob": errors.New("profile is private")},
	}

	summary, err := newPipeline(t, cfg, fetcher, media.Inventory{}).Sync(context.Background(), pipeline.SyncOptions{})
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if len(summary.Results) != 1 || summary.Results[0].Username != "alice" {
		t.Fatalf("expected alice to survive, got %+v", summary.Results)
	}
	if summary.Failed["bob"] == nil {
		t.Fatalf("expected bob recorded as failed: %+v", summary.Failed)
	}
}

func TestSyncFailsWhenEveryUserFails(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &stubFetcher{errs: map[string]error{
		"alice": errors.New("down"),
		"bob":   errors.New("down"),
	}}

	if _, err := newPipeline(t, cfg, fetcher, media.Inventory{}).Sync(context.Background(), pipeline.SyncOptions{}); err == nil {
		t.Fatal("expected error when no user succeeds")
	}
}

func TestSyncServesFreshCacheWithoutFetching(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &stubFetcher{datasets: map[string]media.UserDataset{
		"alice": {Username: "alice", Watchlist: []media.Record{movie("Dune", 2021)}},
		"bob":   {Username: "bob"},
	}}
	p := newPipeline(t, cfg, fetcher, media.Inventory{})

	if _, err := p.Sync(context.Background(), pipeline.SyncOptions{}); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if fetcher.calls["alice"] != 1 {
		t.Fatalf("expected one fetch, got %d", fetcher.calls["alice"])
	}

	if _, err := p.Sync(context.Background(), pipeline.SyncOptions{}); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if fetcher.calls["alice"] != 1 {
		t.Fatalf("expected cache to satisfy second run, got %d fetches", fetcher.calls["alice"])
	}

	cache := fetchcache.NewStore(cfg.Paths.CacheDir, logging.NewNop())
	before, err := cache.Read("alice", media.DatasetWatched)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Sync(context.Background(), pipeline.SyncOptions{Refresh: true}); err != nil {
		t.Fatalf("refresh sync: %v", err)
	}
	if fetcher.calls["alice"] != 2 {
		t.Fatalf("expected refresh to force a fetch, got %d", fetcher.calls["alice"])
	}

	// The forced fetch overwrites the still-fresh cache entries.
	after, err := cache.Read("alice", media.DatasetWatched)
	if err != nil {
		t.Fatal(err)
	}
	if !after.FetchedAt.After(before.FetchedAt) {
		t.Fatalf("expected refresh to rewrite cache entry: before %v, after %v",
			before.FetchedAt, after.FetchedAt)
	}
}

func TestSyncFallsBackToStaleCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Letterboxd.Users = []string{"alice"}

	fetcher := &stubFetcher{datasets: map[string]media.UserDataset{
		"alice": {Username: "alice", Watchlist: []media.Record{movie("Dune", 2021)}},
	}}
	p := newPipeline(t, cfg, fetcher, media.Inventory{})

	if _, err := p.Sync(context.Background(), pipeline.SyncOptions{}); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	// Expire the cache, then break the fetcher: the stale entries carry the run.
	cfg.Cache.MaxAgeHours = 1
	cache := fetchcache.NewStore(cfg.Paths.CacheDir, logging.NewNop())
	for _, kind := range []media.DatasetKind{media.DatasetWatched, media.DatasetWatchlist} {
		entry, err := cache.Read("alice", kind)
		if err != nil {
			t.Fatal(err)
		}
		entry.FetchedAt = time.Now().Add(-48 * time.Hour)
		if err := cache.Write("alice", kind, entry); err != nil {
			t.Fatal(err)
		}
	}
	fetcher.errs = map[string]error{"alice": errors.New("letterboxd is down")}

	summary, err := p.Sync(context.Background(), pipeline.SyncOptions{})
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if len(summary.Results) != 1 {
		t.Fatalf("expected stale cache to carry the run: %+v", summary)
	}
	if got := summary.Results[0].Missing; len(got) != 1 || got[0].Title != "Dune" {
		t.Fatalf("unexpected reconciled data from stale cache: %+v", got)
	}
}

func TestSyncUnchangedSecondRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.Letterboxd.Users = []string{"alice"}
	fetcher := &stubFetcher{datasets: map[string]media.UserDataset{
		"alice": {Username: "alice", Watchlist: []media.Record{movie("Dune", 2021)}},
	}}
	p := newPipeline(t, cfg, fetcher, media.Inventory{})

	first, err := p.Sync(context.Background(), pipeline.SyncOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !first.Changed {
		t.Fatal("first run must change reports")
	}

	second, err := p.Sync(context.Background(), pipeline.SyncOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if second.Changed {
		t.Fatal("identical second run must not change reports")
	}
}
