package textutil

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key is the normalized form of a title used for comparison. Text carries the
// canonical text channel; Year is kept separate (0 = unknown).
type Key struct {
	Text string
	Year int
}

var (
	trailingYearPattern = regexp.MustCompile(`\(((?:19|20)\d{2})\)\s*$`)
	bracketPattern      = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

	// Longer numerals first so "viii" is not consumed as "v" + "iii".
	romanNumerals = []struct {
		pattern *regexp.Regexp
		digit   string
	}{
		{regexp.MustCompile(`\bviii\b`), "8"},
		{regexp.MustCompile(`\bvii\b`), "7"},
		{regexp.MustCompile(`\bvi\b`), "6"},
		{regexp.MustCompile(`\biv\b`), "4"},
		{regexp.MustCompile(`\biii\b`), "3"},
		{regexp.MustCompile(`\bii\b`), "2"},
		{regexp.MustCompile(`\bv\b`), "5"},
		{regexp.MustCompile(`\bi\b`), "1"},
	}

	editionSuffixes = []string{
		"directors cut",
		"director's cut",
		"remastered",
		"extended",
		"theatrical",
		"unrated",
		"special edition",
	}

	punctReplacer = strings.NewReplacer(
		".", "",
		":", "",
		"'", "",
		",", "",
		"!", "",
		"?", "",
		"-", " ",
		"_", " ",
	)

	diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NormalizeTitle canonicalizes a raw title for comparison. The step order is
// fixed; cache keys and regression tests depend on it:
// lowercase, diacritic fold, bracketed-segment removal, leading-article strip,
// edition-suffix removal, punctuation normalization, roman-numeral
// conversion, whitespace collapse.
//
// Never fails: unparseable input normalizes to an empty text channel with the
// original year. When no year is supplied but the title ends in "(YYYY)", the
// embedded year is lifted into the key before the brackets are dropped.
func NormalizeTitle(title string, year int) Key {
	t := strings.ToLower(strings.TrimSpace(title))

	if folded, _, err := transform.String(diacriticFold, t); err == nil {
		t = folded
	}

	if year == 0 {
		if m := trailingYearPattern.FindStringSubmatch(t); m != nil {
			if y, err := strconv.Atoi(m[1]); err == nil {
				year = y
			}
		}
	}

	t = bracketPattern.ReplaceAllString(t, " ")
	t = stripLeadingArticle(t)

	for _, suffix := range editionSuffixes {
		t = strings.ReplaceAll(t, suffix, " ")
	}

	t = punctReplacer.Replace(t)

	for _, rn := range romanNumerals {
		t = rn.pattern.ReplaceAllString(t, rn.digit)
	}

	t = strings.Join(strings.Fields(t), " ")
	return Key{Text: t, Year: year}
}

// stripLeadingArticle drops a definite or indefinite article when it is the
// first of at least two words.
func stripLeadingArticle(t string) string {
	fields := strings.Fields(t)
	if len(fields) < 2 {
		return t
	}
	switch fields[0] {
	case "the", "a", "an":
		return strings.Join(fields[1:], " ")
	}
	return t
}

// SortTokens returns the string with its whitespace-separated tokens in
// lexical order, for word-order-insensitive comparison.
func SortTokens(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}
