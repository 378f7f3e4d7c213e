package search

import (
	"container/heap"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomCandidates(r *rand.Rand, n int, scoreRange int) []Candidate[int, int] {
	cs := make([]Candidate[int, int], n)
	for i := range cs {
		cs[i] = Candidate[int, int]{State: i, Score: int64(r.IntN(scoreRange)), seq: uint64(i)}
	}
	return cs
}

func TestSelectTop_MatchesFullSort(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		n := 1 + r.IntN(60)
		k := 1 + r.IntN(n)
		// A narrow score range forces plenty of ties.
		cs := randomCandidates(r, n, 1+r.IntN(8))

		want := slices.Clone(cs)
		sortBest(want)

		got := slices.Clone(cs)
		selectTop(got, k)
		head := slices.Clone(got[:k])
		sortBest(head)

		require.Equal(t, want[:k], head, "n=%d k=%d", n, k)
	}
}

func TestSelectTop_OutOfRangeIsNoop(t *testing.T) {
	cs := randomCandidates(rand.New(rand.NewPCG(3, 4)), 5, 100)
	orig := slices.Clone(cs)

	selectTop(cs, 0)
	assert.Equal(t, orig, cs)
	selectTop(cs, 5)
	assert.Equal(t, orig, cs)
	selectTop(cs, 9)
	assert.Equal(t, orig, cs)
}

func TestPartition(t *testing.T) {
	cs := []Candidate[int, int]{
		{Score: 3, seq: 0},
		{Score: 9, seq: 1},
		{Score: 5, seq: 2},
		{Score: 1, seq: 3},
		{Score: 7, seq: 4},
	}
	p := partition(cs, 0, len(cs)-1)
	// The middle element (score 5) is the pivot.
	assert.Equal(t, int64(5), cs[p].Score)
	for i := 0; i < p; i++ {
		assert.Greater(t, cs[i].Score, cs[p].Score)
	}
	for i := p + 1; i < len(cs); i++ {
		assert.Less(t, cs[i].Score, cs[p].Score)
	}
}

func TestBetter_TieBreaksOnSeq(t *testing.T) {
	a := Candidate[int, int]{Score: 4, seq: 2}
	b := Candidate[int, int]{Score: 4, seq: 7}
	c := Candidate[int, int]{Score: 5, seq: 9}

	assert.True(t, better(a, b))
	assert.False(t, better(b, a))
	assert.True(t, better(c, a))
	assert.Equal(t, -1, compareCandidates(a, b))
	assert.Equal(t, 1, compareCandidates(b, a))
	assert.Equal(t, 0, compareCandidates(a, a))
}

func TestFrontierHeap_PopOrderAndTop(t *testing.T) {
	cs := randomCandidates(rand.New(rand.NewPCG(5, 6)), 40, 10)
	h := &frontierHeap[int, int]{}
	for _, c := range cs {
		heap.Push(h, c)
	}

	want := slices.Clone(cs)
	sortBest(want)

	assert.Equal(t, want[0], h.peek())
	assert.Equal(t, want[:7], h.top(7))
	assert.Equal(t, want, h.top(100))
	assert.Equal(t, 40, h.Len(), "top must not consume the heap")

	for i := range want {
		require.Equal(t, want[i], heap.Pop(h).(Candidate[int, int]))
	}
	assert.Zero(t, h.Len())
}
