// Package game defines the grid-world state the beam search operates on.
//
// A MazeState is a snapshot: transitions in the rules package clone it and
// mutate only the clone, so a state handed to a caller never changes.
package game

import (
	"errors"
	"fmt"
)

var ErrInvalidSettings = errors.New("invalid maze settings")

// Coord is a grid cell. (0,0) is the top-left cell; Y grows downwards.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Action moves the agent one cell.
type Action int

const (
	ActionRight Action = iota
	ActionLeft
	ActionDown
	ActionUp

	// NoAction is returned when no move could be chosen.
	NoAction Action = -1
)

// Actions lists every action in id order.
var Actions = [...]Action{ActionRight, ActionLeft, ActionDown, ActionUp}

var actionDeltas = [...]Coord{
	ActionRight: {X: 1, Y: 0},
	ActionLeft:  {X: -1, Y: 0},
	ActionDown:  {X: 0, Y: 1},
	ActionUp:    {X: 0, Y: -1},
}

var actionNames = [...]string{"right", "left", "down", "up"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "none"
	}
	return actionNames[a]
}

// Valid reports whether a is one of the four moves.
func (a Action) Valid() bool {
	return a >= 0 && int(a) < len(actionDeltas)
}

// Delta is the offset a applies to the agent.
func (a Action) Delta() Coord {
	if !a.Valid() {
		return Coord{}
	}
	return actionDeltas[a]
}

// ParseAction is the inverse of Action.String.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	if s == "none" {
		return NoAction, nil
	}
	return NoAction, fmt.Errorf("unknown action %q", s)
}

// Settings fixes the board size and game length.
type Settings struct {
	Width   int
	Height  int
	EndTurn int
}

// DefaultSettings is a 30x30 board played for 10 turns.
var DefaultSettings = Settings{Width: 30, Height: 30, EndTurn: 10}

// Board size limits. Both sides are capped, so Width*Height cannot overflow.
const (
	MaxBoardSide  = 4096
	MaxBoardCells = 1 << 22
)

// Validate rejects non-positive values and boards larger than MaxBoardSide
// on a side or MaxBoardCells in total.
func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: board %dx%d", ErrInvalidSettings, s.Width, s.Height)
	}
	if s.Width > MaxBoardSide || s.Height > MaxBoardSide || s.Width*s.Height > MaxBoardCells {
		return fmt.Errorf("%w: board %dx%d exceeds %d cells or %d per side", ErrInvalidSettings, s.Width, s.Height, MaxBoardCells, MaxBoardSide)
	}
	if s.EndTurn <= 0 {
		return fmt.Errorf("%w: end turn %d", ErrInvalidSettings, s.EndTurn)
	}
	return nil
}

// MazeState is the complete state of one episode.
// Rewards is row-major: the reward at (x, y) is Rewards[y*Width+x].
// A state is never modified once built; MovedTo and rules.NextState return a
// new state, and Rewards must be treated as read-only.
type MazeState struct {
	Width     int
	Height    int
	EndTurn   int
	Turn      int
	Rewards   []int
	Agent     Coord
	GameScore int
}

// Settings returns the board settings the state was built with.
func (s *MazeState) Settings() Settings {
	return Settings{Width: s.Width, Height: s.Height, EndTurn: s.EndTurn}
}

// InBounds reports whether c lies on the board.
func (s *MazeState) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < s.Width && c.Y >= 0 && c.Y < s.Height
}

// RewardAt returns the reward left at c, or 0 off the board.
func (s *MazeState) RewardAt(c Coord) int {
	if !s.InBounds(c) {
		return 0
	}
	return s.Rewards[c.Y*s.Width+c.X]
}

// MovedTo returns a copy of s with the agent on target, the reward there
// collected and the turn advanced. s is left unchanged. Bounds and turn
// limits are the caller's to check.
func (s *MazeState) MovedTo(target Coord) *MazeState {
	next := s.Clone()
	next.Agent = target
	next.GameScore += next.consume(target)
	next.Turn++
	return next
}

func (s *MazeState) consume(c Coord) int {
	if !s.InBounds(c) {
		return 0
	}
	i := c.Y*s.Width + c.X
	r := s.Rewards[i]
	s.Rewards[i] = 0
	return r
}

// Clone performs a deep copy of the state.
func (s *MazeState) Clone() *MazeState {
	if s == nil {
		return nil
	}
	out := *s
	if s.Rewards != nil {
		out.Rewards = make([]int, len(s.Rewards))
		copy(out.Rewards, s.Rewards)
	}
	return &out
}
