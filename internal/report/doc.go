// Package report renders reconciliation results to markdown files.
//
// Output is deliberately timestamp-free and byte-stable for identical
// inputs: report changes between runs are detected by comparing file
// contents, and that comparison is what gates git commits and
// notifications.
package report
