// Package actor holds the move selection policies an episode can be played
// with.
package actor

import (
	"context"
	"math/rand/v2"

	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/game"
	"github.com/brensch/gridbeam/rules"
)

// Actor picks the next action for state. It returns game.NoAction when no
// action can be chosen.
type Actor func(ctx context.Context, state *game.MazeState) (game.Action, error)

// Random picks uniformly among the legal actions. rng belongs to the caller
// and should not be shared between episodes running concurrently.
func Random(rng *rand.Rand) Actor {
	return func(_ context.Context, state *game.MazeState) (game.Action, error) {
		legal := rules.LegalActions(state)
		if len(legal) == 0 {
			return game.NoAction, nil
		}
		return legal[rng.IntN(len(legal))], nil
	}
}

// Greedy applies every legal action once and keeps the one with the highest
// score. On ties the earliest action in legal order wins.
func Greedy(env rules.Maze) Actor {
	return func(_ context.Context, state *game.MazeState) (game.Action, error) {
		best := game.NoAction
		var bestScore int64
		for _, action := range env.LegalActions(state) {
			next, err := env.Apply(state, action)
			if err != nil {
				return game.NoAction, err
			}
			score := env.Score(next)
			if best == game.NoAction || score > bestScore {
				best, bestScore = action, score
			}
		}
		return best, nil
	}
}

// Beam runs a beam search from every state it is asked about.
func Beam(env rules.Maze, cfg search.Config) Actor {
	return func(ctx context.Context, state *game.MazeState) (game.Action, error) {
		res, err := search.SelectAction[*game.MazeState, game.Action](ctx, env, state, cfg)
		if err != nil {
			return game.NoAction, err
		}
		if !res.Found {
			return game.NoAction, nil
		}
		return res.Action, nil
	}
}

// WithFallback asks fallback whenever primary has no action.
func WithFallback(primary, fallback Actor) Actor {
	return func(ctx context.Context, state *game.MazeState) (game.Action, error) {
		action, err := primary(ctx, state)
		if err != nil || action != game.NoAction {
			return action, err
		}
		return fallback(ctx, state)
	}
}
