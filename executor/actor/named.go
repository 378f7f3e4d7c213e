package actor

import (
	"fmt"
	"math/rand/v2"

	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/rules"
)

const (
	NameRandom = "random"
	NameGreedy = "greedy"
)

// Names lists every actor New accepts.
func Names() []string {
	names := []string{NameRandom, NameGreedy}
	for _, s := range search.Strategies {
		names = append(names, string(s))
	}
	return names
}

// Resolve checks name and returns the search config a beam actor of that
// name would run with: base with the strategy filled in. Non-search actors
// get the zero config.
func Resolve(name string, base search.Config) (search.Config, error) {
	if name == NameRandom || name == NameGreedy {
		return search.Config{}, nil
	}
	strategy, err := search.ParseStrategy(name)
	if err != nil {
		return search.Config{}, fmt.Errorf("actor %q: %w", name, err)
	}
	cfg := base
	cfg.Strategy = strategy
	if err := cfg.Validate(); err != nil {
		return search.Config{}, fmt.Errorf("actor %q: %w", name, err)
	}
	return cfg, nil
}

// New builds the actor called name on the default environment. rng is only
// used by the random actor. With fallbackGreedy a beam actor plays greedily
// on turns its search finds nothing.
func New(name string, base search.Config, rng *rand.Rand, fallbackGreedy bool) (Actor, error) {
	cfg, err := Resolve(name, base)
	if err != nil {
		return nil, err
	}
	env := rules.Maze{}
	switch name {
	case NameRandom:
		if rng == nil {
			return nil, fmt.Errorf("actor %q: rng is required", name)
		}
		return Random(rng), nil
	case NameGreedy:
		return Greedy(env), nil
	}
	a := Beam(env, cfg)
	if fallbackGreedy {
		a = WithFallback(a, Greedy(env))
	}
	return a, nil
}
