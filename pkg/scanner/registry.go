// Package scanner tracks open scan cursors over fixture sequences.
//
// A cursor is Open from the moment it is registered until Close removes it.
// There is no terminal Exhausted state: once the cursor walks past the end of
// its sequence every further Next reports "no result" and keeps advancing,
// and callers infer exhaustion from that.
//
// Handles are random 64-bit values. They are not checked for collisions; a
// colliding Open silently replaces the earlier cursor.
//
// A Registry is not safe for concurrent use, and neither is concurrent Next
// on one handle.
package scanner

import (
	"errors"
	"fmt"
	"math/rand"

	"fakenode/pkg/common"
)

// ErrInvalidHandle is returned for a handle that was never opened or has
// already been closed.
var ErrInvalidHandle = errors.New("scanner: invalid handle")

type Handle int64

// Sequences resolves a region to the results its scanners replay.
type Sequences interface {
	ScanSequence(region common.RegionKey) []common.Result
}

type cursor struct {
	region common.RegionKey
	index  int
}

// getThenIncrement returns the current index and advances past it.
func (c *cursor) getThenIncrement() int {
	i := c.index
	c.index++
	return i
}

type Registry struct {
	seqs    Sequences
	cursors map[Handle]*cursor
	next    func() int64
}

type Option func(*Registry)

// WithSource replaces the random handle generator.
func WithSource(src func() int64) Option {
	return func(r *Registry) {
		r.next = src
	}
}

func NewRegistry(seqs Sequences, opts ...Option) *Registry {
	r := &Registry{
		seqs:    seqs,
		cursors: make(map[Handle]*cursor),
		next:    rand.Int63,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open registers a cursor at the start of region's sequence.
func (r *Registry) Open(region common.RegionKey) Handle {
	h := Handle(r.next())
	r.cursors[h] = &cursor{region: region}
	return h
}

// Next returns the result under the cursor and advances it, whether or not a
// result was there. ok is false once the sequence is exhausted.
func (r *Registry) Next(h Handle) (result common.Result, ok bool, err error) {
	c, found := r.cursors[h]
	if !found {
		return nil, false, fmt.Errorf("next on scanner %d: %w", h, ErrInvalidHandle)
	}
	index := c.getThenIncrement()
	results := r.seqs.ScanSequence(c.region)
	if index >= len(results) {
		return nil, false, nil
	}
	return results[index], true, nil
}

// NextBatch ignores count and performs a single Next: the returned slice
// holds at most one result, and is nil once the sequence is exhausted.
func (r *Registry) NextBatch(h Handle, count int) ([]common.Result, error) {
	result, ok, err := r.Next(h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return []common.Result{result}, nil
}

// Close forgets h. Closing an unknown handle is a no-op.
func (r *Registry) Close(h Handle) {
	delete(r.cursors, h)
}

func (r *Registry) Contains(h Handle) bool {
	_, ok := r.cursors[h]
	return ok
}

// Len is the number of open scanners.
func (r *Registry) Len() int {
	return len(r.cursors)
}
