package monitor

import (
	"sync/atomic"

	"fakenode/pkg/protocol"
)

// CallStats counts protocol calls per op code so a harness can assert that
// production code did, or did not, reach a given path.
type CallStats struct {
	calls      [256]uint64
	lookupHits uint64
	lookupMiss uint64
}

func NewCallStats() *CallStats {
	return &CallStats{}
}

func (cs *CallStats) Record(op byte) {
	atomic.AddUint64(&cs.calls[op], 1)
}

func (cs *CallStats) RecordLookup(hit bool) {
	if hit {
		atomic.AddUint64(&cs.lookupHits, 1)
		return
	}
	atomic.AddUint64(&cs.lookupMiss, 1)
}

func (cs *CallStats) Count(op byte) uint64 {
	return atomic.LoadUint64(&cs.calls[op])
}

// LookupHitRatio is hits/(hits+misses), 0 before any lookup.
func (cs *CallStats) LookupHitRatio() float64 {
	hits := atomic.LoadUint64(&cs.lookupHits)
	miss := atomic.LoadUint64(&cs.lookupMiss)
	if hits+miss == 0 {
		return 0.0
	}
	return float64(hits) / float64(hits+miss)
}

func (cs *CallStats) LookupCounts() (hits, misses uint64) {
	return atomic.LoadUint64(&cs.lookupHits), atomic.LoadUint64(&cs.lookupMiss)
}

// Snapshot maps op names to their non-zero call counts. Codes outside the
// protocol are summed under "unknown".
func (cs *CallStats) Snapshot() map[string]uint64 {
	out := make(map[string]uint64)
	for op := range cs.calls {
		if n := atomic.LoadUint64(&cs.calls[op]); n > 0 {
			out[protocol.OpName(byte(op))] += n
		}
	}
	return out
}
