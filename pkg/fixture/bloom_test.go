package fixture

import (
	"fmt"
	"testing"

	"fakenode/pkg/common"

	"github.com/stretchr/testify/assert"
)

func TestRowFilterNoFalseNegatives(t *testing.T) {
	f := newRowFilter(1000, 0.01)
	for i := 0; i < 1000; i++ {
		f.add(common.RegionKey(fmt.Sprintf("r%d", i%7)), common.RowKey(fmt.Sprintf("row%d", i)))
	}
	for i := 0; i < 1000; i++ {
		assert.True(t, f.mayContain(common.RegionKey(fmt.Sprintf("r%d", i%7)), common.RowKey(fmt.Sprintf("row%d", i))))
	}
}

func TestRowFilterFalsePositiveRate(t *testing.T) {
	f := newRowFilter(1000, 0.01)
	for i := 0; i < 1000; i++ {
		f.add(common.RegionKey("R"), common.RowKey(fmt.Sprintf("in-%d", i)))
	}

	hits := 0
	for i := 0; i < 10000; i++ {
		if f.mayContain(common.RegionKey("R"), common.RowKey(fmt.Sprintf("out-%d", i))) {
			hits++
		}
	}
	// 1% target, leave room for hash variance.
	assert.Less(t, hits, 500)
}

func TestRowFilterSeparatesRegionAndRow(t *testing.T) {
	a1, a2 := pairHashes(common.RegionKey("ab"), common.RowKey("c"))
	b1, b2 := pairHashes(common.RegionKey("a"), common.RowKey("bc"))
	assert.False(t, a1 == b1 && a2 == b2)
}

func TestStoreFilterResetsWithStore(t *testing.T) {
	s := NewStore()
	s.SetLookupResult(common.RegionKey("R"), common.RowKey("row1"), common.Result("V1"))
	assert.Equal(t, uint(1), s.FilterStats()["bloom_count"])

	s.Reset()
	assert.Equal(t, uint(0), s.FilterStats()["bloom_count"])
	_, ok := s.Lookup(common.RegionKey("R"), common.RowKey("row1"))
	assert.False(t, ok)
}
