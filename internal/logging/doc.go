// Package logging builds slog loggers for reelsync.
//
// Two output formats are supported: a single-line console format for
// interactive use and JSON for machine consumption. Components tag their
// loggers via NewComponentLogger so console lines read
// "TIME LEVEL component: message key=value".
package logging
