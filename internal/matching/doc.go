// Package matching aligns roster entries with raw attendance records.
//
// Names are reduced to comparison keys with Normalize and compared with
// TokenSetRatio, a word-set similarity that tolerates reordering and one name
// being a subset of the other. Matcher then picks, per roster entry, the
// first raw record with the highest score and accepts it at or above the
// threshold (85 by default).
//
// By default matching is greedy and non-exclusive: a raw record that was
// already accepted for one roster entry remains a candidate for the next.
// Options.Exclusive switches to one-to-one matching.
package matching
