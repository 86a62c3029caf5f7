package probemap

import (
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Hasher maps a key and a seed to a 64-bit hash. The table treats the hash
// function as a black box: any deterministic, well-distributed function
// works. Every operation on a table must observe the same Hasher and seed
// that its entries were inserted with; snapshots record the seed but not the
// function (see LoadSnapshot).
type Hasher func(key []byte, seed uint64) uint64

// HasherXXH64 hashes keys with xxHash64. This is the default.
func HasherXXH64(key []byte, seed uint64) uint64 {
	if seed == 0 {
		return xxhash.Sum64(key)
	}
	d := xxhash.NewWithSeed(seed)
	_, _ = d.Write(key) // Digest.Write never fails
	return d.Sum64()
}

// HasherXXH3 hashes keys with xxHash3-64.
func HasherXXH3(key []byte, seed uint64) uint64 {
	return xxh3.HashSeed(key, seed)
}

// HasherMurmur3 hashes keys with 64-bit Murmur3. Murmur3 seeds are 32 bits
// wide; the upper half of seed is ignored.
func HasherMurmur3(key []byte, seed uint64) uint64 {
	return murmur3.Sum64WithSeed(key, uint32(seed))
}
