package letterboxd

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"reelsync/internal/media"
)

var (
	displayNamePattern = regexp.MustCompile(`^(.*?)\s*\((\d{4})\)\s*$`)
	ratedClassPattern  = regexp.MustCompile(`\brated-(\d{1,2})\b`)
)

// parsePosters extracts the film records from one list page. Returned
// records are in page order; the rating is 0 when the page carries none.
func parsePosters(doc *goquery.Document) []media.RatedRecord {
	var records []media.RatedRecord

	doc.Find("div.react-component[data-item-slug]").Each(func(_ int, sel *goquery.Selection) {
		display := strings.TrimSpace(sel.AttrOr("data-item-full-display-name", ""))
		if display == "" {
			display = strings.TrimSpace(sel.AttrOr("data-item-name", ""))
		}
		if display == "" {
			display = strings.TrimSpace(sel.Find("img").AttrOr("alt", ""))
		}

		title, year := splitDisplayName(display)
		if title == "" {
			return
		}

		record := media.RatedRecord{
			Record: media.Record{
				Title: title,
				Year:  year,
				Kind:  media.KindMovie,
				Slug:  strings.TrimSpace(sel.AttrOr("data-item-slug", "")),
			},
		}
		record.Rating = parseRating(sel.Closest("li"))
		records = append(records, record)
	})

	return records
}

// splitDisplayName separates "Title (YYYY)" into its parts. A display name
// without a trailing year comes back with year 0.
func splitDisplayName(display string) (string, int) {
	display = strings.TrimSpace(display)
	if display == "" {
		return "", 0
	}
	if m := displayNamePattern.FindStringSubmatch(display); m != nil {
		year, err := strconv.Atoi(m[2])
		if err == nil && m[1] != "" {
			return strings.TrimSpace(m[1]), year
		}
	}
	return display, 0
}

// parseRating reads the star rating off a films-page list item. Letterboxd
// encodes it as a rated-N class where N is half-stars, so rated-9 is 4.5.
func parseRating(item *goquery.Selection) float64 {
	if item.Length() == 0 {
		return 0
	}
	class, ok := item.Find("span.rating").Attr("class")
	if !ok {
		return 0
	}
	m := ratedClassPattern.FindStringSubmatch(class)
	if m == nil {
		return 0
	}
	halfStars, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return float64(halfStars) / 2
}
