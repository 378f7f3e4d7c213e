package search

import "context"

// searchPartialSort expands every frontier member, then keeps exactly the
// Width best successors of the round. The kept successors are sorted so
// frontier[0] is the best one.
func (b *Beam[S, A]) searchPartialSort(ctx context.Context, root S) (Result[A], error) {
	width := b.Config.Width
	frontier := []Candidate[S, A]{{State: root, Score: b.Env.Score(root)}}

	var (
		stats Result[A]
		seq   uint64
	)
	rooted := false

	for t := 0; t < b.Config.MaxDepth; t++ {
		var next []Candidate[S, A]
		generated := 0

		for _, parent := range frontier {
			if err := ctx.Err(); err != nil {
				return partialResult(frontier, rooted, stats), err
			}
			n, err := b.expand(parent, t, &seq, func(c Candidate[S, A]) {
				next = append(next, c)
			})
			if err != nil {
				return partialResult(frontier, rooted, stats), err
			}
			generated += n
		}
		expanded := len(frontier)
		stats.Expanded += expanded

		if len(next) == 0 {
			break
		}

		if len(next) > width {
			selectTop(next, width)
			clear(next[width:])
			next = next[:width]
		}
		sortBest(next)

		frontier = next
		rooted = true
		stats.Rounds++

		b.observe(t, expanded, generated, frontier)
		if b.Env.IsTerminal(frontier[0].State) {
			break
		}
	}
	return partialResult(frontier, rooted, stats), nil
}

func partialResult[S any, A comparable](frontier []Candidate[S, A], rooted bool, stats Result[A]) Result[A] {
	if !rooted {
		return result[S, A](nil, stats)
	}
	return result(&frontier[0], stats)
}
