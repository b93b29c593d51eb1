package inventory

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	bracketYearPattern = regexp.MustCompile(`^(.+?)\s*\(((?:19|20)\d{2})\)`)
	releaseYearPattern = regexp.MustCompile(`^(.+?)[. _]((?:19|20)\d{2})(?:[. _]|$)`)
)

// videoExtensions covers the containers that show up in a media library.
var videoExtensions = map[string]struct{}{
	".mkv": {}, ".mp4": {}, ".avi": {}, ".m4v": {}, ".mov": {}, ".ts": {}, ".webm": {},
}

func isVideoFile(name string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// parseName extracts a title and year from a library entry name. Release
// tags after the year ("1080p", codec names) are discarded along with it.
func parseName(name string) (string, int) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0
	}
	if isVideoFile(name) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	if m := bracketYearPattern.FindStringSubmatch(name); m != nil {
		return cleanTitle(m[1]), mustYear(m[2])
	}
	if m := releaseYearPattern.FindStringSubmatch(name); m != nil {
		return cleanTitle(m[1]), mustYear(m[2])
	}
	return cleanTitle(name), 0
}

func cleanTitle(title string) string {
	title = strings.NewReplacer(".", " ", "_", " ").Replace(title)
	return strings.Join(strings.Fields(title), " ")
}

func mustYear(digits string) int {
	year, _ := strconv.Atoi(digits)
	return year
}
