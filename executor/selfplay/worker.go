package selfplay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brensch/gridbeam/executor/actor"
	"github.com/brensch/gridbeam/game"
	"github.com/brensch/gridbeam/rules"
)

// ErrNoAction is returned when an actor has no action for a state that is
// not done yet.
var ErrNoAction = errors.New("actor returned no action")

// Step is one transition of an episode. State is the state after Action.
type Step struct {
	Turn   int
	Action game.Action
	State  *game.MazeState
}

// EpisodeResult is a finished (or aborted) episode. Scores holds the
// accumulated score after each action.
type EpisodeResult struct {
	EpisodeID  string
	Seed       int64
	FinalScore int
	Turns      int
	Actions    []game.Action
	Scores     []int
	Duration   time.Duration
}

// PlayEpisode generates the start state for seed and plays it to the end with
// act. An empty id is replaced by a random one.
func PlayEpisode(ctx context.Context, id string, seed int64, settings game.Settings, act actor.Actor, onStep func(Step)) (EpisodeResult, error) {
	start, err := game.New(seed, settings)
	if err != nil {
		return EpisodeResult{EpisodeID: id, Seed: seed}, err
	}
	res, err := Play(ctx, id, start, act, onStep)
	res.Seed = seed
	return res, err
}

// Play drives act from start until the state is done. start is not modified.
// When ctx is cancelled the partial result is returned with ctx's error.
func Play(ctx context.Context, id string, start *game.MazeState, act actor.Actor, onStep func(Step)) (EpisodeResult, error) {
	if id == "" {
		id = uuid.NewString()
	}
	begin := time.Now()
	remaining := start.EndTurn - start.Turn
	res := EpisodeResult{
		EpisodeID: id,
		Actions:   make([]game.Action, 0, max(remaining, 0)),
		Scores:    make([]int, 0, max(remaining, 0)),
	}
	finish := func(state *game.MazeState) {
		res.FinalScore = state.GameScore
		res.Turns = len(res.Actions)
		res.Duration = time.Since(begin)
	}

	state := start
	for !rules.IsDone(state) {
		if err := ctx.Err(); err != nil {
			finish(state)
			return res, err
		}

		action, err := act(ctx, state)
		if err != nil {
			finish(state)
			return res, fmt.Errorf("turn %d: %w", state.Turn, err)
		}
		if action == game.NoAction {
			finish(state)
			return res, fmt.Errorf("turn %d: %w", state.Turn, ErrNoAction)
		}

		next, err := rules.NextState(state, action)
		if err != nil {
			finish(state)
			return res, fmt.Errorf("turn %d: %w", state.Turn, err)
		}
		res.Actions = append(res.Actions, action)
		res.Scores = append(res.Scores, next.GameScore)
		if onStep != nil {
			onStep(Step{Turn: state.Turn, Action: action, State: next})
		}
		state = next
	}

	finish(state)
	return res, nil
}
