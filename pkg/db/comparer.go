package db

import "bytes"

// Comparer defines a total order over keys. A database must be opened
// and used with a single comparer for its entire lifetime; bound checks
// performed with a different order than the one the engine sorted with
// are undefined behaviour.
type Comparer interface {
	// Compare returns -1, 0 or +1 per the usual contract.
	Compare(a, b []byte) int
	// Name identifies the order. Engines persist it and refuse to open
	// a database with a mismatched comparer name.
	Name() string
}

// Bytewise is the built-in lexicographic comparer. It is shared and is
// never released.
var Bytewise Comparer = bytewise{}

type bytewise struct{}

func (bytewise) Compare(a, b []byte) int { return bytes.Compare(a, b) }
func (bytewise) Name() string            { return "leveldb.BytewiseComparator" }
