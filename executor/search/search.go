// Package search implements bounded beam search over any environment that
// exposes the Environment capability set.
//
// Three strategies share one contract: given a root state they return the
// first action on the path to the best state found. They differ only in how
// the frontier is held and when the search stops.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownStrategy = errors.New("unknown search strategy")
	ErrInvalidWidth    = errors.New("beam width must be positive")
	ErrInvalidDepth    = errors.New("max depth must be positive")
	ErrInvalidBudget   = errors.New("time budget must not be negative")
	ErrNilEnvironment  = errors.New("environment must not be nil")
)

// Environment is everything the engine needs from a state type. Apply must
// return a new state and leave its input untouched; LegalActions must be
// deterministic in order.
type Environment[S any, A comparable] interface {
	IsTerminal(S) bool
	LegalActions(S) []A
	Apply(S, A) (S, error)
	Score(S) int64
}

// Strategy selects the frontier representation and stopping rule.
type Strategy string

const (
	// StrategyPriority pops at most Width states per round from a max-heap,
	// for MaxDepth rounds.
	StrategyPriority Strategy = "priority"
	// StrategyPriorityTimed is StrategyPriority without a depth cap, stopped
	// by a wall-clock deadline polled before every expansion.
	StrategyPriorityTimed Strategy = "priority_time_bounded"
	// StrategyPartialSort expands the whole frontier and keeps exactly the
	// Width best successors, for MaxDepth rounds.
	StrategyPartialSort Strategy = "partial_sort"
)

// Strategies lists the supported strategies.
var Strategies = []Strategy{StrategyPriority, StrategyPriorityTimed, StrategyPartialSort}

func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// TimeBounded reports whether the strategy stops on a deadline rather than
// a depth.
func (s Strategy) TimeBounded() bool {
	return s == StrategyPriorityTimed
}

// Config holds beam search configuration. MaxDepth is ignored by the
// time-bounded strategy and TimeBudget by the others.
type Config struct {
	Strategy   Strategy
	Width      int
	MaxDepth   int
	TimeBudget time.Duration
}

func (c Config) Validate() error {
	if _, err := ParseStrategy(string(c.Strategy)); err != nil {
		return err
	}
	if c.Width <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWidth, c.Width)
	}
	if c.Strategy.TimeBounded() {
		if c.TimeBudget < 0 {
			return fmt.Errorf("%w: got %s", ErrInvalidBudget, c.TimeBudget)
		}
		return nil
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, c.MaxDepth)
	}
	return nil
}

// Result is the outcome of one search. When Found is false no action could
// be chosen and Action carries no meaning.
type Result[A comparable] struct {
	Action   A
	Found    bool
	Score    int64 // evaluated score of the best state
	Rounds   int   // completed rounds
	Expanded int   // states whose successors were generated
	TimedOut bool
}

// Round describes a completed round to an observer. Frontier is the frontier
// retained for the next round, best first.
type Round[S any, A comparable] struct {
	Index     int
	Expanded  int
	Generated int
	Frontier  []Candidate[S, A]
}

// Beam holds the search context.
type Beam[S any, A comparable] struct {
	Config Config
	Env    Environment[S, A]

	// Now replaces time.Now for the deadline of the time-bounded strategy.
	Now func() time.Time
	// OnRound, when set, is called after every completed round.
	OnRound func(Round[S, A])
}

func New[S any, A comparable](env Environment[S, A], cfg Config) *Beam[S, A] {
	return &Beam[S, A]{Config: cfg, Env: env}
}

// SelectAction runs one search with cfg from root.
func SelectAction[S any, A comparable](ctx context.Context, env Environment[S, A], root S, cfg Config) (Result[A], error) {
	return New(env, cfg).Search(ctx, root)
}

// Search returns the first action on the path to the best state found from
// root. A terminal root, a root without legal actions or a deadline that
// expires before the first round completes all yield Found == false.
func (b *Beam[S, A]) Search(ctx context.Context, root S) (Result[A], error) {
	if err := b.Config.Validate(); err != nil {
		return Result[A]{}, err
	}
	if b.Env == nil {
		return Result[A]{}, ErrNilEnvironment
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if b.Env.IsTerminal(root) {
		return Result[A]{}, nil
	}

	switch b.Config.Strategy {
	case StrategyPriority:
		return b.searchPriority(ctx, root, time.Time{}, false)
	case StrategyPriorityTimed:
		return b.searchPriority(ctx, root, b.now().Add(b.Config.TimeBudget), true)
	default:
		return b.searchPartialSort(ctx, root)
	}
}

func (b *Beam[S, A]) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// expand generates every successor of parent, handing each to emit in
// legal-action order. Successors of the root are stamped with the action
// that produced them; deeper successors inherit their parent's stamp.
func (b *Beam[S, A]) expand(parent Candidate[S, A], round int, seq *uint64, emit func(Candidate[S, A])) (int, error) {
	actions := b.Env.LegalActions(parent.State)
	for _, action := range actions {
		next, err := b.Env.Apply(parent.State, action)
		if err != nil {
			return 0, fmt.Errorf("round %d: apply %v: %w", round, action, err)
		}
		child := Candidate[S, A]{
			State:       next,
			Score:       b.Env.Score(next),
			FirstAction: parent.FirstAction,
			Rooted:      parent.Rooted,
			seq:         *seq,
		}
		*seq++
		if round == 0 {
			child.FirstAction = action
			child.Rooted = true
		}
		emit(child)
	}
	return len(actions), nil
}

func (b *Beam[S, A]) observe(index, expanded, generated int, frontier []Candidate[S, A]) {
	if b.OnRound == nil {
		return
	}
	b.OnRound(Round[S, A]{
		Index:     index,
		Expanded:  expanded,
		Generated: generated,
		Frontier:  frontier,
	})
}

// result builds the Result for best, or the no-action sentinel when no
// round has completed.
func result[S any, A comparable](best *Candidate[S, A], stats Result[A]) Result[A] {
	if best == nil || !best.Rooted {
		var zero A
		stats.Action = zero
		stats.Found = false
		stats.Score = 0
		return stats
	}
	stats.Action = best.FirstAction
	stats.Found = true
	stats.Score = best.Score
	return stats
}
