package textutil_test

import (
	"testing"

	"reelsync/internal/textutil"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		name     string
		title    string
		year     int
		wantText string
		wantYear int
	}{
		{"lowercase", "The MATRIX", 1999, "matrix", 1999},
		{"leading article the", "The Matrix", 1999, "matrix", 1999},
		{"leading article a", "A Quiet Place", 2018, "quiet place", 2018},
		{"leading article an", "An American Werewolf in London", 1981, "american werewolf in london", 1981},
		{"single word article kept", "It", 2017, "it", 2017},
		{"colon removed", "Blade Runner: The Final Cut", 1982, "blade runner final cut", 1982},
		{"apostrophe removed", "Ocean's Eleven", 2001, "oceans eleven", 2001},
		{"hyphen to space", "Spider-Man", 2002, "spider man", 2002},
		{"bracketed content dropped", "House [Hausu]", 1977, "house", 1977},
		{"embedded year lifted", "Parasite (2019)", 0, "parasite", 2019},
		{"explicit year wins over embedded", "Parasite (2019)", 2019, "parasite", 2019},
		{"edition suffix dropped", "Blade Runner Directors Cut", 1982, "blade runner", 1982},
		{"roman numeral", "Rocky II", 1979, "rocky 2", 1979},
		{"roman numeral viii", "Friday the 13th Part VIII", 1989, "friday the 13th part 8", 1989},
		{"diacritics folded", "Amélie", 2001, "amelie", 2001},
		{"whitespace collapsed", "  The   Matrix  ", 1999, "matrix", 1999},
		{"empty input", "   ", 1984, "", 1984},
		{"punctuation only", "?!", 0, "", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := textutil.NormalizeTitle(tc.title, tc.year)
			if got.Text != tc.wantText {
				t.Fatalf("NormalizeTitle(%q, %d).Text = %q, want %q", tc.title, tc.year, got.Text, tc.wantText)
			}
			if got.Year != tc.wantYear {
				t.Fatalf("NormalizeTitle(%q, %d).Year = %d, want %d", tc.title, tc.year, got.Year, tc.wantYear)
			}
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	titles := []string{
		"The Matrix",
		"Spider-Man",
		"Blade Runner: The Final Cut",
		"Rocky II",
		"Amélie",
		"House [Hausu]",
		"Ocean's Eleven",
		"Star Wars: Episode IV - A New Hope",
	}
	for _, title := range titles {
		first := textutil.NormalizeTitle(title, 0)
		second := textutil.NormalizeTitle(first.Text, first.Year)
		if second.Text != first.Text {
			t.Fatalf("normalization not idempotent for %q: %q -> %q", title, first.Text, second.Text)
		}
	}
}

func TestSortTokens(t *testing.T) {
	if got := textutil.SortTokens("of wrath grapes"); got != "grapes of wrath" {
		t.Fatalf("SortTokens = %q", got)
	}
	if got := textutil.SortTokens(""); got != "" {
		t.Fatalf("SortTokens(empty) = %q", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := map[string]string{
		"Alice":        "alice",
		"user name":    "user_name",
		"  ":           "unknown",
		"a.b/c":        "a_b_c",
		"film-buff_99": "film-buff_99",
	}
	for in, want := range cases {
		if got := textutil.SanitizeToken(in); got != want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}
