package main

import (
	"context"
	"math/rand/v2"

	"github.com/brensch/gridbeam/executor/actor"
	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/game"
)

// newActorFactory resolves name once and returns a factory building a fresh
// actor per episode, together with the search config beam actors run with.
// Random actors get a generator seeded from the episode seed and index.
func newActorFactory(name string, base search.Config, fallbackGreedy bool) (func(int, int64) actor.Actor, search.Config, error) {
	cfg, err := actor.Resolve(name, base)
	if err != nil {
		return nil, search.Config{}, err
	}
	return func(episode int, seed int64) actor.Actor {
		rng := rand.New(rand.NewPCG(uint64(seed), uint64(episode)))
		a, err := actor.New(name, base, rng, fallbackGreedy)
		if err != nil {
			return func(context.Context, *game.MazeState) (game.Action, error) {
				return game.NoAction, err
			}
		}
		return a
	}, cfg, nil
}
