package search

import (
	"container/heap"
	"context"
	"time"
)

// searchPriority holds the frontier in a max-heap. Each round pops at most
// Width states, best first, and pushes all their successors into the next
// round's heap; whatever is left in the current heap is dropped. The next
// heap is not trimmed to Width, only its first Width pops are ever expanded.
//
// With timed set the round loop has no depth cap. The deadline is polled
// before every pop and, once it has passed, the best state of the last
// completed round is returned.
func (b *Beam[S, A]) searchPriority(ctx context.Context, root S, deadline time.Time, timed bool) (Result[A], error) {
	width := b.Config.Width
	current := &frontierHeap[S, A]{{State: root, Score: b.Env.Score(root)}}

	var (
		stats Result[A]
		best  *Candidate[S, A]
		seq   uint64
	)

	for t := 0; timed || t < b.Config.MaxDepth; t++ {
		next := &frontierHeap[S, A]{}
		expanded, generated := 0, 0

		for i := 0; i < width; i++ {
			if timed && !b.now().Before(deadline) {
				stats.TimedOut = true
				return result(best, stats), nil
			}
			if err := ctx.Err(); err != nil {
				return result(best, stats), err
			}
			if current.Len() == 0 {
				break
			}

			parent := heap.Pop(current).(Candidate[S, A])
			n, err := b.expand(parent, t, &seq, func(c Candidate[S, A]) {
				heap.Push(next, c)
			})
			if err != nil {
				return result(best, stats), err
			}
			expanded++
			generated += n
		}
		stats.Expanded += expanded

		if next.Len() == 0 {
			// Every expanded state was a dead end.
			break
		}

		current = next
		top := current.peek()
		best = &top
		stats.Rounds++

		if b.OnRound != nil {
			b.observe(t, expanded, generated, current.top(width))
		}
		if b.Env.IsTerminal(best.State) {
			break
		}
	}
	return result(best, stats), nil
}
