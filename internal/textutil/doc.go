// Package textutil provides the title normalization used for record
// comparison and token sanitization for cache and report filenames.
//
// Normalization is a deterministic, total function: the same raw title and
// year always produce the same key, and keys renormalize to themselves. The
// year travels as a separate comparison field rather than being folded into
// the text, so titles differing only by year are never conflated by the text
// channel alone.
package textutil
