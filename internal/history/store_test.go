package history_test

import (
	"context"
	"path/filepath"
	"testing"

	"reelsync/internal/history"
	"reelsync/internal/media"
	"reelsync/internal/reconcile"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func result(username string, watchlist, available, missing int) reconcile.Result {
	mk := func(n int, prefix string) []media.Record {
		out := make([]media.Record, n)
		for i := range out {
			out[i] = media.Record{Title: prefix, Year: 2000 + i, Kind: media.KindMovie}
		}
		return out
	}
	return reconcile.Result{
		Username:  username,
		Watchlist: mk(watchlist, "w"),
		Available: mk(available, "a"),
		Missing:   mk(missing, "m"),
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	runID, err := store.RecordRun(ctx, []reconcile.Result{
		result("alice", 3, 2, 1),
		result("bob", 5, 0, 5),
	})
	if err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(runs))
	}
	for _, run := range runs {
		if run.RunID != runID {
			t.Fatalf("row carries wrong run id: %+v", run)
		}
		if run.RecordedAt.IsZero() {
			t.Fatalf("expected recorded_at parsed: %+v", run)
		}
	}
	if runs[0].Username != "alice" || runs[0].Watchlist != 3 || runs[0].Available != 2 || runs[0].Missing != 1 {
		t.Fatalf("unexpected alice row: %+v", runs[0])
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.RecordRun(ctx, []reconcile.Result{result("alice", i, 0, i)}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit respected, got %d rows", len(runs))
	}
}

func TestLastForUser(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, found, err := store.LastForUser(ctx, "alice"); err != nil || found {
		t.Fatalf("expected no rows yet, got found=%v err=%v", found, err)
	}

	if _, err := store.RecordRun(ctx, []reconcile.Result{result("alice", 1, 1, 0)}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordRun(ctx, []reconcile.Result{result("alice", 4, 2, 2)}); err != nil {
		t.Fatal(err)
	}

	run, found, err := store.LastForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("LastForUser returned error: %v", err)
	}
	if !found {
		t.Fatal("expected a row")
	}
	if run.Watchlist != 4 || run.Missing != 2 {
		t.Fatalf("expected newest row, got %+v", run)
	}
}
