package fixture

import (
	"hash/fnv"
	"math"

	"fakenode/pkg/common"
)

const (
	filterCapacity  = 4096
	filterFalseProb = 0.01
)

// rowFilter is a bloom filter over (region, row) pairs that lets Lookup skip
// the tree walk for rows that were never set. It only grows; Reset replaces it.
type rowFilter struct {
	bitset []bool
	k      uint
	m      uint
	count  uint
}

func newRowFilter(n uint, p float64) *rowFilter {
	// m = - (n * ln(p)) / (ln(2)^2)
	// k = (m / n) * ln(2)
	m := uint(math.Ceil(float64(n) * math.Log(p) / math.Log(1.0/math.Pow(2.0, math.Log(2.0)))))
	k := uint(math.Ceil((float64(m) / float64(n)) * math.Log(2.0)))

	return &rowFilter{
		bitset: make([]bool, m),
		k:      k,
		m:      m,
	}
}

func (f *rowFilter) add(region common.RegionKey, row common.RowKey) {
	h1, h2 := pairHashes(region, row)
	for i := uint(0); i < f.k; i++ {
		f.bitset[(h1+uint32(i)*h2)%uint32(f.m)] = true
	}
	f.count++
}

func (f *rowFilter) mayContain(region common.RegionKey, row common.RowKey) bool {
	h1, h2 := pairHashes(region, row)
	for i := uint(0); i < f.k; i++ {
		if !f.bitset[(h1+uint32(i)*h2)%uint32(f.m)] {
			return false
		}
	}
	return true
}

// pairHashes derives the two base hashes for double hashing. The region
// length is mixed in so ("ab","c") and ("a","bc") differ.
func pairHashes(region common.RegionKey, row common.RowKey) (uint32, uint32) {
	h := fnv.New64a()
	h.Write([]byte{byte(len(region)), byte(len(region) >> 8)})
	h.Write(region)
	h.Write(row)
	sum := h.Sum64()
	// h2 must be odd so successive probes do not collapse onto one slot.
	return uint32(sum), uint32(sum>>32) | 1
}

// FilterStats reports the size and load of the lookup filter.
func (s *Store) FilterStats() map[string]interface{} {
	return map[string]interface{}{
		"bloom_bits_size": s.filter.m,
		"bloom_hashes":    s.filter.k,
		"bloom_count":     s.filter.count,
	}
}
