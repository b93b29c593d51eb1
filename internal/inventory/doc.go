// Package inventory builds a snapshot of the local media library.
//
// The scan walks the top level of the configured movie and TV directories
// and parses titles and years out of the entry names. Both "Title (2021)"
// folders and release-style "Title.2021.1080p.x265" names are understood. A
// missing directory is logged and yields an empty slice, not an error.
package inventory
