package snowflake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeB32L(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want string
	}{
		{name: "zero", id: 0, want: "a"},
		{name: "one", id: 1, want: "b"},
		{name: "alphabet boundary", id: 25, want: "z"},
		{name: "first digit char", id: 26, want: "2"},
		{name: "max single digit", id: 31, want: "7"},
		{name: "two digits", id: 32, want: "ba"},
		{name: "negative", id: -1, want: "_b"},
		{name: "negative larger", id: -32, want: "_ba"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeB32L(tt.id))
		})
	}
}

func TestDecodeB32L_RoundTrip(t *testing.T) {
	ids := []int64{
		0, 1, 31, 32, 1023, 1024,
		4398046511103,       // 42 bits
		1<<62 + 12345,       // deep into the timestamp bits
		1<<63 - 1,           // max positive
		-1, -1024, -(1 << 40), // reserved negative space
	}

	for _, id := range ids {
		got, err := DecodeB32L(EncodeB32L(id))
		require.NoError(t, err, "id %d", id)
		assert.Equal(t, id, got)
	}
}

// Decoding accepts either letter case, like the legacy decoder did.
func TestDecodeB32L_CaseInsensitive(t *testing.T) {
	ids := []int64{1, 123456789, 1<<62 + 12345, -1024}

	for _, id := range ids {
		upper := strings.ToUpper(EncodeB32L(id))
		got, err := DecodeB32L(upper)
		require.NoError(t, err, "uppercase form of %d", id)
		assert.Equal(t, id, got)

		mixed := upper[:1] + strings.ToLower(upper[1:])
		got, err = DecodeB32L(mixed)
		require.NoError(t, err, "mixed-case form of %d", id)
		assert.Equal(t, id, got)
	}
}

func TestDecodeB32L_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "bare sign", input: "_"},
		{name: "digit outside alphabet", input: "b1c"},
		{name: "zero digit", input: "b0"},
		{name: "punctuation", input: "b-c"},
		{name: "too long", input: "bbbbbbbbbbbbbbbbb"},
		{name: "overflows 64 bits", input: "7777777777777777"},
		{name: "double sign", input: "__b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeB32L(tt.input)
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
			assert.Zero(t, got, "malformed input must not yield a value")
		})
	}
}

// Encoded pagination cursors compare by length first, then by digit.
// This is the ordering contract feeds rely on.
func TestEncodeB32L_OrderPreserving(t *testing.T) {
	gen, err := NewGenerator(Config{MachineID: 1, ProcessID: 1})
	require.NoError(t, err)

	var prevID int64
	var prev string
	for i := range 3000 {
		id, err := gen.NextID()
		require.NoError(t, err)
		s := EncodeB32L(id)

		if i > 0 {
			require.Greater(t, id, prevID)
			assert.True(t, b32lLess(prev, s),
				"encoding broke creation order: %q !< %q (%d < %d)", prev, s, prevID, id)
		}
		prevID, prev = id, s
	}
}

// b32lLess compares two non-negative encoded identifiers the way the
// numbers compare: shorter strings are smaller, equal-length strings
// compare digit by digit in alphabet order.
func b32lLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range len(a) {
		da, db := digitValue(a[i]), digitValue(b[i])
		if da != db {
			return da < db
		}
	}
	return false
}

func digitValue(c byte) int {
	if c >= 'a' && c <= 'z' {
		return int(c - 'a')
	}
	return int(c-'2') + 26
}
