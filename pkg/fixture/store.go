// Package fixture holds the canned data a fake node serves: point-lookup
// results keyed by (region, row) and scan sequences keyed by region.
//
// A Store is not safe for concurrent use. Tests populate it before the node
// starts taking requests; concurrent writers, or a writer racing a reader, are
// undefined.
package fixture

import (
	"bytes"

	"fakenode/pkg/common"

	"github.com/google/btree"
)

const degree = 8

type rowItem struct {
	row    common.RowKey
	result common.Result
}

type regionRows struct {
	region common.RegionKey
	rows   *btree.BTreeG[rowItem]
}

type regionScan struct {
	region  common.RegionKey
	results []common.Result
}

func lessRow(a, b rowItem) bool {
	return bytes.Compare(a.row, b.row) < 0
}

func lessRegionRows(a, b *regionRows) bool {
	return bytes.Compare(a.region, b.region) < 0
}

func lessRegionScan(a, b regionScan) bool {
	return bytes.Compare(a.region, b.region) < 0
}

type Store struct {
	gets   *btree.BTreeG[*regionRows]
	nexts  *btree.BTreeG[regionScan]
	filter *rowFilter
}

func NewStore() *Store {
	return &Store{
		gets:   btree.NewG(degree, lessRegionRows),
		nexts:  btree.NewG(degree, lessRegionScan),
		filter: newRowFilter(filterCapacity, filterFalseProb),
	}
}

// SetLookupResult makes Lookup(region, row) return result. Last write wins.
func (s *Store) SetLookupResult(region common.RegionKey, row common.RowKey, result common.Result) {
	rr, ok := s.gets.Get(&regionRows{region: region})
	if !ok {
		rr = &regionRows{region: region, rows: btree.NewG(degree, lessRow)}
		s.gets.ReplaceOrInsert(rr)
	}
	rr.rows.ReplaceOrInsert(rowItem{row: row, result: result})
	s.filter.add(region, row)
}

// SetScanResults replaces the sequence scanners on region replay.
func (s *Store) SetScanResults(region common.RegionKey, results []common.Result) {
	s.nexts.ReplaceOrInsert(regionScan{region: region, results: results})
}

// Lookup returns the fixture for (region, row). A missing region or row is
// reported through ok, never as an error.
func (s *Store) Lookup(region common.RegionKey, row common.RowKey) (result common.Result, ok bool) {
	if !s.filter.mayContain(region, row) {
		return nil, false
	}
	rr, found := s.gets.Get(&regionRows{region: region})
	if !found {
		return nil, false
	}
	item, found := rr.rows.Get(rowItem{row: row})
	if !found {
		return nil, false
	}
	return item.result, true
}

// ScanSequence returns the canned scan results of region, empty if none were set.
func (s *Store) ScanSequence(region common.RegionKey) []common.Result {
	item, ok := s.nexts.Get(regionScan{region: region})
	if !ok {
		return nil
	}
	return item.results
}

// Regions lists every region holding lookup or scan fixtures in key order.
func (s *Store) Regions() []common.RegionKey {
	var out []common.RegionKey
	s.gets.Ascend(func(rr *regionRows) bool {
		out = append(out, rr.region)
		return true
	})
	s.nexts.Ascend(func(rs regionScan) bool {
		out = insertSorted(out, rs.region)
		return true
	})
	return out
}

// Walk visits every lookup fixture in (region, row) order until fn returns false.
func (s *Store) Walk(fn func(region common.RegionKey, row common.RowKey, result common.Result) bool) {
	s.gets.Ascend(func(rr *regionRows) bool {
		cont := true
		rr.rows.Ascend(func(item rowItem) bool {
			cont = fn(rr.region, item.row, item.result)
			return cont
		})
		return cont
	})
}

// WalkScans visits every scan fixture in region order until fn returns false.
func (s *Store) WalkScans(fn func(region common.RegionKey, results []common.Result) bool) {
	s.nexts.Ascend(func(rs regionScan) bool {
		return fn(rs.region, rs.results)
	})
}

// Reset drops all fixtures.
func (s *Store) Reset() {
	s.gets.Clear(false)
	s.nexts.Clear(false)
	s.filter = newRowFilter(filterCapacity, filterFalseProb)
}

func insertSorted(keys []common.RegionKey, k common.RegionKey) []common.RegionKey {
	i := 0
	for i < len(keys) && bytes.Compare(keys[i], k) < 0 {
		i++
	}
	if i < len(keys) && bytes.Equal(keys[i], k) {
		return keys
	}
	keys = append(keys, nil)
	copy(keys[i+1:], keys[i:])
	keys[i] = k
	return keys
}
