package itemhash

import (
	"github.com/cardinalitylab/thetasketch/internal"
)

// Murmur3Hasher hashes values with the 128-bit MurmurHash3 implementation the
// core hash table itself uses to screen raw items, taking the low 64 bits of
// the digest shifted right by one, so the result always has its top bit
// clear. This is the hasher to use when wire compatibility with the
// canonical theta-sketch byte layout matters, since SerVer 3/4 images are
// defined in terms of this hash.
type Murmur3Hasher struct{}

func (Murmur3Hasher) HashUint64(v uint64, seed uint64) uint64 {
	h1, _ := internal.HashInt64SliceMurmur3([]int64{int64(v)}, 0, 1, seed)
	return h1 >> 1
}

func (Murmur3Hasher) HashInt64(v int64, seed uint64) uint64 {
	h1, _ := internal.HashInt64SliceMurmur3([]int64{v}, 0, 1, seed)
	return h1 >> 1
}

func (Murmur3Hasher) HashFloat64(v float64, seed uint64) uint64 {
	h1, _ := internal.HashInt64SliceMurmur3([]int64{int64(canonicalizeFloat64(v))}, 0, 1, seed)
	return h1 >> 1
}

func (Murmur3Hasher) HashString(v string, seed uint64) uint64 {
	h1, _ := internal.HashCharSliceMurmur3([]byte(v), 0, len(v), seed)
	return h1 >> 1
}

func (Murmur3Hasher) HashBytes(v []byte, seed uint64) uint64 {
	h1, _ := internal.HashByteArrMurmur3(v, 0, len(v), seed)
	return h1 >> 1
}
