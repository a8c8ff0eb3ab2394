package snowflake

import (
	"encoding/base32"
	"errors"
	"strings"
)

// b32l is the compact text form identifiers take outside the system:
// the identifier magnitude as 10 big-endian bytes, RFC 4648 base32
// encoded, leading zero digits stripped, lowercased. Negative
// identifiers (reserved ID space) carry a '_' prefix.

const encodedLen = 16 // 10 bytes = 80 bits = 16 base32 digits

// ErrInvalidIdentifier is returned by DecodeB32L for malformed input.
var ErrInvalidIdentifier = errors.New("invalid identifier")

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// EncodeB32L renders an identifier in its b32l text form.
// Encoding is injective and, on non-negative identifiers, preserves
// creation order: a longer string is always a larger identifier, and
// equal-length strings compare digit by digit in alphabet order.
func EncodeB32L(id int64) string {
	neg := id < 0
	mag := uint64(id)
	if neg {
		mag = uint64(-id)
	}

	var buf [10]byte
	for i := 9; i >= 2; i-- {
		buf[i] = byte(mag)
		mag >>= 8
	}

	s := strings.TrimLeft(b32.EncodeToString(buf[:]), "A")
	if s == "" {
		s = "A" // identifier zero
	}
	if neg {
		return "_" + strings.ToLower(s)
	}
	return strings.ToLower(s)
}

// DecodeB32L is the exact inverse of EncodeB32L up to letter case:
// input is case-insensitive, matching the legacy decoder. Malformed
// input fails with ErrInvalidIdentifier; it never yields a fallback
// value.
func DecodeB32L(s string) (int64, error) {
	neg := strings.HasPrefix(s, "_")
	s = strings.TrimPrefix(s, "_")
	s = strings.ToLower(s)

	if len(s) == 0 || len(s) > encodedLen {
		return 0, ErrInvalidIdentifier
	}
	for _, ch := range s {
		if (ch < 'a' || ch > 'z') && (ch < '2' || ch > '7') {
			return 0, ErrInvalidIdentifier
		}
	}

	padded := strings.Repeat("A", encodedLen-len(s)) + strings.ToUpper(s)
	raw, err := b32.DecodeString(padded)
	if err != nil {
		return 0, ErrInvalidIdentifier
	}

	var mag uint64
	for _, b := range raw[:2] {
		if b != 0 {
			return 0, ErrInvalidIdentifier
		}
	}
	for _, b := range raw[2:] {
		mag = mag<<8 | uint64(b)
	}
	if mag > 1<<63-1 && !(neg && mag == 1<<63) {
		return 0, ErrInvalidIdentifier
	}

	if neg {
		return -int64(mag), nil
	}
	return int64(mag), nil
}
