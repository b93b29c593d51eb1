package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"reelsync/internal/fileutil"
	"reelsync/internal/media"
	"reelsync/internal/reconcile"
	"reelsync/internal/textutil"
)

// UserMarkdown renders one user's reconciliation result.
func UserMarkdown(result reconcile.Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Watchlist for %s\n", result.Username)

	writeSection(&b, "In your library", result.Available)
	writeSection(&b, "Missing from your library", result.Missing)
	writeSection(&b, "In your library, not on your radar", result.Undiscovered)

	return []byte(b.String())
}

// PairMarkdown renders the shared watchlist of two users.
func PairMarkdown(pair reconcile.PairResult) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Shared watchlist: %s and %s\n", pair.UserA, pair.UserB)

	writeSection(&b, "Ready to watch", pair.SharedAvailable)
	writeSection(&b, "Not in the library yet", pair.SharedMissing)

	return []byte(b.String())
}

// CombinedMissing renders the union of every user's missing records,
// annotated with who wants each one. This is the acquisition shopping list.
func CombinedMissing(results []reconcile.Result) []byte {
	wantedBy := make(map[media.Record][]string)
	var order []media.Record
	for _, result := range results {
		for _, record := range result.Missing {
			identity := record.Identity()
			if _, seen := wantedBy[identity]; !seen {
				order = append(order, identity)
			}
			wantedBy[identity] = append(wantedBy[identity], result.Username)
		}
	}
	media.Sort(order)

	var b strings.Builder
	b.WriteString("# Missing from the library\n")
	if len(order) == 0 {
		b.WriteString("\nNothing missing.\n")
		return []byte(b.String())
	}
	b.WriteString("\n")
	for _, record := range order {
		fmt.Fprintf(&b, "- %s (wanted by %s)\n", record.String(), strings.Join(wantedBy[record], ", "))
	}
	return []byte(b.String())
}

func writeSection(b *strings.Builder, heading string, records []media.Record) {
	fmt.Fprintf(b, "\n## %s (%d)\n", heading, len(records))
	if len(records) == 0 {
		b.WriteString("\n(none)\n")
		return
	}
	b.WriteString("\n")
	for _, record := range records {
		fmt.Fprintf(b, "- %s\n", record.String())
	}
}

// UserFileName returns the report file name for one user.
func UserFileName(username string) string {
	return textutil.SanitizeToken(username) + ".md"
}

// PairFileName returns the report file name for a user pair.
func PairFileName(userA, userB string) string {
	return "shared." + textutil.SanitizeToken(userA) + "." + textutil.SanitizeToken(userB) + ".md"
}

// CombinedFileName is the file name of the combined missing-records report.
const CombinedFileName = "missing.md"

// WriteAll writes every report under dir and reports whether any file
// changed. Unchanged files are left untouched so change detection and file
// mtimes stay meaningful.
func WriteAll(dir string, results []reconcile.Result, pairs []reconcile.PairResult) (bool, error) {
	changed := false

	write := func(name string, data []byte) error {
		fileChanged, err := fileutil.WriteFileIfChanged(filepath.Join(dir, name), data, 0o644)
		if err != nil {
			return fmt.Errorf("write report %s: %w", name, err)
		}
		changed = changed || fileChanged
		return nil
	}

	for _, result := range results {
		if err := write(UserFileName(result.Username), UserMarkdown(result)); err != nil {
			return changed, err
		}
	}
	for _, pair := range pairs {
		if err := write(PairFileName(pair.UserA, pair.UserB), PairMarkdown(pair)); err != nil {
			return changed, err
		}
	}
	if err := write(CombinedFileName, CombinedMissing(results)); err != nil {
		return changed, err
	}
	return changed, nil
}
