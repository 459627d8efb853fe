package keyspan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncrement(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"simple", []byte("a"), []byte("b")},
		{"trailing_max", []byte("a\xff"), []byte("b")},
		{"middle", []byte("abc"), []byte("abd")},
		{"multi_trailing_max", []byte("ab\xff\xff"), []byte("ac")},
		{"all_max", []byte("\xff\xff"), nil},
		{"single_max", []byte{0xff}, nil},
		{"empty", nil, nil},
		{"zero_byte", []byte{0x00}, []byte{0x01}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, increment(tc.in))
		})
	}
}

func TestIncrementDoesNotAliasInput(t *testing.T) {
	in := []byte("ab")
	out := increment(in)
	out[0] = 'x'
	assert.Equal(t, []byte("ab"), in)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, []byte("pk"), join([]byte("p"), []byte("k")))
	assert.Equal(t, []byte("k"), join(nil, []byte("k")))
	assert.Equal(t, []byte("p"), join([]byte("p"), nil))
}
