// Package rules implements the grid-world transition function and the
// capability set the beam search consumes.
package rules

import (
	"errors"
	"fmt"

	"github.com/brensch/gridbeam/game"
)

var ErrIllegalAction = errors.New("illegal action")

// IsDone reports whether the episode has used all its turns.
func IsDone(state *game.MazeState) bool {
	return state.Turn >= state.EndTurn
}

// LegalActions returns, in id order, the actions that keep the agent on the
// board. A finished episode has none.
func LegalActions(state *game.MazeState) []game.Action {
	if IsDone(state) {
		return nil
	}
	actions := make([]game.Action, 0, len(game.Actions))
	for _, a := range game.Actions {
		d := a.Delta()
		if state.InBounds(game.Coord{X: state.Agent.X + d.X, Y: state.Agent.Y + d.Y}) {
			actions = append(actions, a)
		}
	}
	return actions
}

// NextState returns the state after the agent takes action. The input state
// is never modified.
func NextState(state *game.MazeState, action game.Action) (*game.MazeState, error) {
	if IsDone(state) {
		return nil, fmt.Errorf("%w: %s after final turn %d", ErrIllegalAction, action, state.Turn)
	}
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrIllegalAction, int(action))
	}
	d := action.Delta()
	target := game.Coord{X: state.Agent.X + d.X, Y: state.Agent.Y + d.Y}
	if !state.InBounds(target) {
		return nil, fmt.Errorf("%w: %s from (%d,%d) leaves the board", ErrIllegalAction, action, state.Agent.X, state.Agent.Y)
	}

	return state.MovedTo(target), nil
}

// Evaluate is the default heuristic: the score collected so far.
func Evaluate(state *game.MazeState) int64 {
	return int64(state.GameScore)
}

// Maze adapts the rules to the search engine. Heuristic replaces Evaluate
// when set.
type Maze struct {
	Heuristic func(*game.MazeState) int64
}

func (m Maze) IsTerminal(state *game.MazeState) bool {
	return IsDone(state)
}

func (m Maze) LegalActions(state *game.MazeState) []game.Action {
	return LegalActions(state)
}

func (m Maze) Apply(state *game.MazeState, action game.Action) (*game.MazeState, error) {
	return NextState(state, action)
}

func (m Maze) Score(state *game.MazeState) int64 {
	if m.Heuristic != nil {
		return m.Heuristic(state)
	}
	return Evaluate(state)
}
