// Package history records reconciliation runs in a local SQLite database.
//
// Each sync run gets a row per user with the result-set sizes. The history
// feeds the `reelsync history` command and lets a run see whether anything
// moved since the previous one.
package history
