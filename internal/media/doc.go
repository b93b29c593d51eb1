// Package media defines the record types shared across the reconciliation
// pipeline: individual title records, per-user datasets scraped from
// Letterboxd, and the local library inventory snapshot. Records are immutable
// value types; identity is structural (title, year, kind) rather than a
// synthetic ID.
package media
