package gitsync_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"reelsync/internal/gitsync"
	"reelsync/internal/logging"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	return dir
}

func TestCommitSkipsCleanWorktree(t *testing.T) {
	dir := initRepo(t)
	syncer := gitsync.New(dir, "origin", false, logging.NewNop())

	committed, err := syncer.Commit(context.Background(), "no changes")
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if committed {
		t.Fatal("expected clean worktree to skip the commit")
	}
}

func TestCommitStagesAndCommits(t *testing.T) {
	dir := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "alice.md"), []byte("# report"), 0o644); err != nil {
		t.Fatal(err)
	}

	syncer := gitsync.New(dir, "origin", false, logging.NewNop())
	committed, err := syncer.Commit(context.Background(), "update reports")
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if !committed {
		t.Fatal("expected a commit")
	}

	// A second run with no edits is a no-op.
	committed, err = syncer.Commit(context.Background(), "update reports")
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if committed {
		t.Fatal("expected no second commit")
	}
}

func TestCommitOutsideRepositoryFails(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	syncer := gitsync.New(dir, "origin", false, logging.NewNop())
	if _, err := syncer.Commit(context.Background(), "x"); err == nil {
		t.Fatal("expected error outside a repository")
	}
}

func TestDefaultMessage(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	if got := gitsync.DefaultMessage(now); got != "reelsync: update reports 2024-03-01 12:30" {
		t.Fatalf("unexpected message: %q", got)
	}
}
