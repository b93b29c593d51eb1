// Package config loads, normalizes, and validates reelsync configuration.
//
// Configuration is a single TOML file resolved from an explicit path, the
// default location (~/.config/reelsync/config.toml), or a reelsync.toml in
// the working directory. Loading always starts from Default() so a missing
// file yields a fully usable config. Path fields come back expanded and
// absolute.
package config
