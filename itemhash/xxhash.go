package itemhash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// XXHasher hashes values with xxhash64, seeded per call via
// xxhash.NewWithSeed. It is faster and allocation-lighter than Murmur3Hasher
// for string- and byte-heavy workloads, at the cost of producing a different
// digest than the canonical wire format uses.
type XXHasher struct{}

func (XXHasher) HashUint64(v uint64, seed uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return XXHasher{}.HashBytes(buf[:], seed)
}

func (XXHasher) HashInt64(v int64, seed uint64) uint64 {
	return XXHasher{}.HashUint64(uint64(v), seed)
}

func (XXHasher) HashFloat64(v float64, seed uint64) uint64 {
	return XXHasher{}.HashUint64(canonicalizeFloat64(v), seed)
}

func (XXHasher) HashString(v string, seed uint64) uint64 {
	h := xxhash.NewWithSeed(seed)
	_, _ = h.WriteString(v)
	return maskTop63(h.Sum64())
}

func (XXHasher) HashBytes(v []byte, seed uint64) uint64 {
	h := xxhash.NewWithSeed(seed)
	_, _ = h.Write(v)
	return maskTop63(h.Sum64())
}
