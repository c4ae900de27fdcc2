package ais

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestAssembler(cfg AssemblerConfig) (*Assembler, *fakeClock, *[]Eviction) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	var evs []Eviction
	cfg.Now = clk.Now
	cfg.OnEvict = func(ev Eviction) { evs = append(evs, ev) }
	return NewAssembler(cfg), clk, &evs
}

func TestAssembler_SinglePartPassesThrough(t *testing.T) {
	a, _, _ := newTestAssembler(AssemblerConfig{})
	got, done, err := a.Submit(NoSequence, 1, 1, "abc")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "abc", got)
	assert.Equal(t, 0, a.Pending())
}

func TestAssembler_OutOfOrderWithUnrelatedSequence(t *testing.T) {
	a, _, evs := newTestAssembler(AssemblerConfig{})

	_, done, err := a.Submit(5, 2, 2, "SECOND")
	require.NoError(t, err)
	assert.False(t, done)

	_, done, err = a.Submit(7, 2, 1, "other")
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 2, a.Pending())

	got, done, err := a.Submit(5, 2, 1, "FIRST")
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, "FIRSTSECOND", got)
	assert.Equal(t, 1, a.Pending())

	got, done, err = a.Submit(7, 2, 2, "-tail")
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, "other-tail", got)
	assert.Empty(t, *evs)
}

func TestAssembler_MalformedLeavesOthersAlone(t *testing.T) {
	a, _, evs := newTestAssembler(AssemblerConfig{})
	_, _, err := a.Submit(1, 3, 1, "a")
	require.NoError(t, err)

	for _, tc := range []struct {
		total, index int
		payload      string
	}{
		{0, 1, "x"},
		{3, 0, "x"},
		{3, 4, "x"},
		{3, 2, ""},
	} {
		_, done, err := a.Submit(1, tc.total, tc.index, tc.payload)
		assert.ErrorIs(t, err, ErrMalformedFragment)
		assert.False(t, done)
	}
	assert.Equal(t, 1, a.Pending())

	_, _, err = a.Submit(1, 3, 2, "b")
	require.NoError(t, err)
	got, done, err := a.Submit(1, 3, 3, "c")
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, "abc", got)
	assert.Empty(t, *evs)
}

func TestAssembler_SequenceScopedByStream(t *testing.T) {
	a, _, evs := newTestAssembler(AssemblerConfig{})
	_, done, err := a.SubmitFrom("AIVDM", 4, 2, 1, "m1")
	require.NoError(t, err)
	require.False(t, done)
	_, done, err = a.SubmitFrom("AIVDO", 4, 3, 1, "o1")
	require.NoError(t, err)
	require.False(t, done)
	assert.Equal(t, 2, a.Pending())

	got, done, err := a.SubmitFrom("AIVDM", 4, 2, 2, "m2")
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, "m1m2", got)
	assert.Equal(t, 1, a.Pending())
	assert.Empty(t, *evs)
}

func TestAssembler_TotalMismatchSupersedes(t *testing.T) {
	a, _, evs := newTestAssembler(AssemblerConfig{})
	_, _, _ = a.Submit(2, 3, 1, "old")
	_, done, err := a.Submit(2, 2, 1, "new")
	require.NoError(t, err)
	assert.False(t, done)

	require.Len(t, *evs, 1)
	assert.Equal(t, Eviction{Seq: 2, Reason: EvictSuperseded, Have: 1, Total: 3}, (*evs)[0])

	got, done, err := a.Submit(2, 2, 2, "!")
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, "new!", got)
}

func TestAssembler_OverflowEvictsOldest(t *testing.T) {
	a, clk, evs := newTestAssembler(AssemblerConfig{MaxPending: 2})
	_, _, _ = a.Submit(1, 2, 1, "a")
	clk.Advance(time.Second)
	_, _, _ = a.Submit(2, 2, 1, "b")
	clk.Advance(time.Second)
	_, _, _ = a.Submit(3, 2, 1, "c")

	assert.Equal(t, 2, a.Pending())
	require.Len(t, *evs, 1)
	assert.Equal(t, 1, (*evs)[0].Seq)
	assert.Equal(t, EvictOverflow, (*evs)[0].Reason)

	_, done, _ := a.Submit(2, 2, 2, "B")
	assert.True(t, done)
}

func TestAssembler_TTLExpires(t *testing.T) {
	a, clk, evs := newTestAssembler(AssemblerConfig{TTL: 10 * time.Second})
	_, _, _ = a.Submit(NoSequence, 2, 1, "a")

	clk.Advance(11 * time.Second)
	_, done, err := a.Submit(NoSequence, 2, 2, "b")
	require.NoError(t, err)
	assert.False(t, done, "late fragment starts a new entry")

	require.Len(t, *evs, 1)
	assert.Equal(t, EvictExpired, (*evs)[0].Reason)
	assert.Equal(t, 1, a.Pending())

	a.Expire(clk.Now().Add(time.Minute))
	assert.Equal(t, 0, a.Pending())
	assert.Len(t, *evs, 2)

	a.Submit(4, 2, 1, "x")
	a.Reset()
	assert.Equal(t, 0, a.Pending())
	assert.Len(t, *evs, 2)
}
