package search

import (
	"container/heap"
	"slices"
)

// Candidate is a state on the frontier together with its evaluated score
// and the root action its path began with.
type Candidate[S any, A comparable] struct {
	State S
	Score int64

	// FirstAction is the action applied to the root on this candidate's
	// path. It is set once, when the root is expanded, and only the root
	// itself has Rooted == false.
	FirstAction A
	Rooted      bool

	seq uint64 // generation order within one search
}

// better is the frontier order: higher score first, then earlier generated.
// seq is unique within a search so the order is total.
func better[S any, A comparable](a, b Candidate[S, A]) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.seq < b.seq
}

func compareCandidates[S any, A comparable](a, b Candidate[S, A]) int {
	switch {
	case better(a, b):
		return -1
	case better(b, a):
		return 1
	default:
		return 0
	}
}

// frontierHeap is a max-heap under better.
type frontierHeap[S any, A comparable] []Candidate[S, A]

func (h frontierHeap[S, A]) Len() int           { return len(h) }
func (h frontierHeap[S, A]) Less(i, j int) bool { return better(h[i], h[j]) }
func (h frontierHeap[S, A]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *frontierHeap[S, A]) Push(x any) {
	*h = append(*h, x.(Candidate[S, A]))
}

func (h *frontierHeap[S, A]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	var zero Candidate[S, A]
	old[n-1] = zero // drop the state reference
	*h = old[:n-1]
	return item
}

// peek returns the best candidate without removing it.
func (h frontierHeap[S, A]) peek() Candidate[S, A] {
	return h[0]
}

// top returns up to k best candidates, best first, leaving h unchanged.
func (h frontierHeap[S, A]) top(k int) []Candidate[S, A] {
	view := make(frontierHeap[S, A], len(h))
	copy(view, h)
	out := make([]Candidate[S, A], 0, min(k, len(view)))
	for len(out) < k && view.Len() > 0 {
		out = append(out, heap.Pop(&view).(Candidate[S, A]))
	}
	return out
}

// selectTop reorders cs so that cs[:k] holds its k best candidates in no
// particular order. It is a quickselect under better.
func selectTop[S any, A comparable](cs []Candidate[S, A], k int) {
	if k <= 0 || k >= len(cs) {
		return
	}
	lo, hi := 0, len(cs)-1
	for lo < hi {
		p := partition(cs, lo, hi)
		switch {
		case p == k-1:
			return
		case p < k-1:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

// partition places the middle element of cs[lo:hi+1] at its final index
// and returns that index; everything before it is better.
func partition[S any, A comparable](cs []Candidate[S, A], lo, hi int) int {
	mid := lo + (hi-lo)/2
	cs[mid], cs[hi] = cs[hi], cs[mid]
	pivot := cs[hi]
	store := lo
	for i := lo; i < hi; i++ {
		if better(cs[i], pivot) {
			cs[i], cs[store] = cs[store], cs[i]
			store++
		}
	}
	cs[store], cs[hi] = cs[hi], cs[store]
	return store
}

// sortBest orders cs best first.
func sortBest[S any, A comparable](cs []Candidate[S, A]) {
	slices.SortFunc(cs, compareCandidates[S, A])
}
