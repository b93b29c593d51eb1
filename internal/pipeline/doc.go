// Package pipeline orchestrates a full sync run.
//
// A run locks out concurrent invocations, snapshots the library, refreshes
// each user's dataset through the cache, reconciles, writes reports, records
// history, and triggers git and notifications when anything changed. One
// user failing to fetch never aborts the others.
package pipeline
