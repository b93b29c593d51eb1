// Package gitsync commits report changes to a git repository.
//
// The data directory is expected to already be a repository; reelsync only
// stages, commits, and optionally pushes. A clean worktree means no commit,
// which keeps cron-driven syncs from producing empty history.
package gitsync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"reelsync/internal/logging"
)

// Syncer runs git operations in a fixed working directory.
type Syncer struct {
	dir    string
	remote string
	push   bool
	logger *slog.Logger
}

// New creates a syncer for the repository at dir.
func New(dir, remote string, push bool, logger *slog.Logger) *Syncer {
	return &Syncer{
		dir:    dir,
		remote: remote,
		push:   push,
		logger: logging.NewComponentLogger(logger, "gitsync"),
	}
}

// Commit stages everything under the directory and commits with message.
// Reports whether a commit was created; a clean worktree is a no-op.
func (s *Syncer) Commit(ctx context.Context, message string) (bool, error) {
	if _, err := s.git(ctx, "rev-parse", "--git-dir"); err != nil {
		return false, fmt.Errorf("%s is not a git repository: %w", s.dir, err)
	}

	if _, err := s.git(ctx, "add", "-A"); err != nil {
		return false, fmt.Errorf("git add: %w", err)
	}

	status, err := s.git(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	if strings.TrimSpace(status) == "" {
		s.logger.Debug("worktree clean, skipping commit")
		return false, nil
	}

	if _, err := s.git(ctx, "commit", "-m", message); err != nil {
		return false, fmt.Errorf("git commit: %w", err)
	}
	s.logger.Info("committed report changes", logging.String("message", message))

	if s.push {
		if _, err := s.git(ctx, "push", s.remote); err != nil {
			return true, fmt.Errorf("git push: %w", err)
		}
		s.logger.Info("pushed report changes", logging.String("remote", s.remote))
	}
	return true, nil
}

// DefaultMessage builds the standard sync commit message.
func DefaultMessage(now time.Time) string {
	return "reelsync: update reports " + now.UTC().Format("2006-01-02 15:04")
}

func (s *Syncer) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("%w: %s", err, detail)
		}
		return "", err
	}
	return stdout.String(), nil
}
