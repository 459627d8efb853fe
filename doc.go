// Package keyspan is a client-side access layer over an embedded
// ordered key-value engine. It layers bounded bidirectional iteration,
// key-prefix namespace views, snapshot views and atomic write batches
// on top of a pluggable engine (pebble or goleveldb).
//
// Keys and values are opaque byte strings. All key ordering goes
// through the comparer the store was opened with.
package keyspan
