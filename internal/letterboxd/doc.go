// Package letterboxd scrapes public Letterboxd profiles into datasets.
//
// Letterboxd has no public API, so the client walks the paginated films and
// watchlist pages and reads the poster components out of the HTML. Requests
// are rate limited and carry a descriptive User-Agent. Parsing is tolerant:
// a poster without a recognizable title is skipped, never fatal.
package letterboxd
