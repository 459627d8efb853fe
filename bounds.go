package keyspan

// bound is one end of an iteration window. A nil *bound means the end
// is unbounded.
type bound struct {
	key       []byte
	inclusive bool
}

// increment returns the smallest key ordering after every key that has
// k as a byte prefix, treating k as a big-endian counter: the last byte
// below 0xff is incremented and everything after it truncated. When
// every byte is 0xff there is no successor and increment returns nil,
// which callers must treat as "no upper bound".
func increment(k []byte) []byte {
	for i := len(k) - 1; i >= 0; i-- {
		if k[i] != 0xff {
			out := make([]byte, i+1)
			copy(out, k)
			out[i]++
			return out
		}
	}
	return nil
}

// join concatenates a namespace prefix and a caller key into a fresh
// slice. A nil prefix passes the key through untouched.
func join(prefix, key []byte) []byte {
	if len(prefix) == 0 {
		return key
	}
	out := make([]byte, 0, len(prefix)+len(key))
	out = append(out, prefix...)
	return append(out, key...)
}
