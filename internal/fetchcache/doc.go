// Package fetchcache persists fetched Letterboxd datasets between runs.
//
// Each (username, kind) pair maps to one JSON file holding the records and a
// fetch timestamp. Files are replaced atomically, and anything unreadable is
// treated as a miss rather than an error: the cache is an optimization, not
// a source of truth.
package fetchcache
