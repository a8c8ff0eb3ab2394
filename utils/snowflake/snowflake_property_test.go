package snowflake

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_B32LRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("decode(encode(x)) == x for all identifiers", prop.ForAll(
		func(id int64) bool {
			got, err := DecodeB32L(EncodeB32L(id))
			return err == nil && got == id
		},
		gen.Int64(),
	))

	properties.Property("encode is injective", prop.ForAll(
		func(a int64, b int64) bool {
			if a == b {
				return true
			}
			return EncodeB32L(a) != EncodeB32L(b)
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_B32LOrderPreserving(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("encoding preserves order on non-negative identifiers", prop.ForAll(
		func(a int64, b int64) bool {
			if a == b {
				return true
			}
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			return b32lLess(EncodeB32L(lo), EncodeB32L(hi))
		},
		gen.Int64Range(0, 1<<63-1),
		gen.Int64Range(0, 1<<63-1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_GeneratedIDsUnique(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all generated IDs are unique", prop.ForAll(
		func(count int) bool {
			g, err := NewGenerator(Config{MachineID: 1, ProcessID: 1})
			if err != nil {
				return false
			}

			ids := make(map[int64]bool)
			for range count {
				id, err := g.NextID()
				if err != nil {
					return false
				}
				if ids[id] {
					return false
				}
				ids[id] = true
			}
			return len(ids) == count
		},
		gen.IntRange(100, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
