package scanner

import (
	"testing"

	"fakenode/pkg/common"
	"fakenode/pkg/fixture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var region = common.RegionKey("R")

func newRegistry(t *testing.T, results ...string) (*Registry, *fixture.Store) {
	t.Helper()
	store := fixture.NewStore()
	seq := make([]common.Result, 0, len(results))
	for _, r := range results {
		seq = append(seq, common.Result(r))
	}
	store.SetScanResults(region, seq)
	return NewRegistry(store), store
}

func TestNextReplaysSequenceThenAbsent(t *testing.T) {
	reg, _ := newRegistry(t, "V1", "V2", "V3")
	h := reg.Open(region)

	for _, want := range []string{"V1", "V2", "V3"} {
		got, ok, err := reg.Next(h)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, common.Result(want), got)
	}

	got, ok, err := reg.Next(h)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	// still registered until closed
	assert.True(t, reg.Contains(h))
	reg.Close(h)
	assert.False(t, reg.Contains(h))
}

func TestNextPastExhaustionKeepsReturningAbsent(t *testing.T) {
	reg, _ := newRegistry(t, "V1")
	h := reg.Open(region)

	_, ok, err := reg.Next(h)
	require.NoError(t, err)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		_, ok, err := reg.Next(h)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestCursorAdvancesEvenPastEnd(t *testing.T) {
	reg, store := newRegistry(t, "V1")
	h := reg.Open(region)

	// walk to index 2 against a one-element sequence
	_, _, _ = reg.Next(h)
	_, ok, _ := reg.Next(h)
	require.False(t, ok)

	// the sequence grows; the cursor sits at index 2 so V3 is next
	store.SetScanResults(region, []common.Result{
		common.Result("V1"), common.Result("V2"), common.Result("V3"),
	})
	got, ok, err := reg.Next(h)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, common.Result("V3"), got)
}

func TestEmptyAndMissingRegionsAreExhaustedImmediately(t *testing.T) {
	reg, _ := newRegistry(t)

	for _, r := range []common.RegionKey{region, common.RegionKey("unknown")} {
		h := reg.Open(r)
		_, ok, err := reg.Next(h)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestInvalidHandle(t *testing.T) {
	reg, _ := newRegistry(t, "V1")

	_, _, err := reg.Next(Handle(12345))
	assert.ErrorIs(t, err, ErrInvalidHandle)

	h := reg.Open(region)
	reg.Close(h)
	_, _, err = reg.Next(h)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, err = reg.NextBatch(h, 1)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestCloseIsIdempotent(t *testing.T) {
	reg, _ := newRegistry(t, "V1")
	h := reg.Open(region)

	reg.Close(h)
	reg.Close(h)
	reg.Close(Handle(-1))
	assert.Zero(t, reg.Len())
}

func TestNextBatchIgnoresCount(t *testing.T) {
	for _, count := range []int{1, 5, 0} {
		reg, _ := newRegistry(t, "V1", "V2")
		h := reg.Open(region)

		got, err := reg.NextBatch(h, count)
		require.NoError(t, err)
		assert.Equal(t, []common.Result{common.Result("V1")}, got, "count=%d", count)

		got, err = reg.NextBatch(h, count)
		require.NoError(t, err)
		assert.Equal(t, []common.Result{common.Result("V2")}, got, "count=%d", count)

		got, err = reg.NextBatch(h, count)
		require.NoError(t, err)
		assert.Nil(t, got, "count=%d", count)
	}
}

func TestIndependentCursors(t *testing.T) {
	reg, _ := newRegistry(t, "V1", "V2")
	a := reg.Open(region)
	b := reg.Open(region)
	require.NotEqual(t, a, b)
	assert.Equal(t, 2, reg.Len())

	_, _, _ = reg.Next(a)
	got, ok, err := reg.Next(b)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, common.Result("V1"), got)
}

func TestHandleCollisionOverwritesCursor(t *testing.T) {
	store := fixture.NewStore()
	store.SetScanResults(common.RegionKey("A"), []common.Result{common.Result("a1"), common.Result("a2")})
	store.SetScanResults(common.RegionKey("B"), []common.Result{common.Result("b1")})
	reg := NewRegistry(store, WithSource(func() int64 { return 7 }))

	first := reg.Open(common.RegionKey("A"))
	_, _, _ = reg.Next(first)
	second := reg.Open(common.RegionKey("B"))
	require.Equal(t, first, second)
	assert.Equal(t, 1, reg.Len())

	got, ok, err := reg.Next(first)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, common.Result("b1"), got)
}
