// Package match scores a query record against a pool of candidate records
// and selects the best one above a configurable acceptance threshold.
//
// Matching runs in two phases. Identical normalized keys with compatible
// years short-circuit to an exact match with score 1.0. Everything else goes
// through the fuzzy path: a normalized Levenshtein similarity computed on
// both the raw and token-sorted text channels, down-weighted when the years
// conflict. A no-match outcome is a normal result, not an error.
package match
