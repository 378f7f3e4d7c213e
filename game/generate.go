// generate.go builds start states, either from a seed or from an explicit layout.

package game

import (
	"fmt"

	"github.com/seehuhn/mt19937"
)

// MaxReward is one above the largest reward a generated cell can hold.
const MaxReward = 10

// New generates the start state for seed. The agent position is drawn first
// (row, then column), then every other cell in row-major order.
func New(seed int64, settings Settings) (*MazeState, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	rng := mt19937.New()
	rng.Seed(seed)
	draw := func(n int) int {
		return int(rng.Uint64() % uint64(n))
	}

	s := &MazeState{
		Width:   settings.Width,
		Height:  settings.Height,
		EndTurn: settings.EndTurn,
		Rewards: make([]int, settings.Width*settings.Height),
	}
	s.Agent.Y = draw(settings.Height)
	s.Agent.X = draw(settings.Width)

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if x == s.Agent.X && y == s.Agent.Y {
				continue
			}
			s.Rewards[y*s.Width+x] = draw(MaxReward)
		}
	}
	return s, nil
}

// FromRewards builds a turn-0 state from rows of rewards. Every row must have
// the same length; the agent's cell is cleared.
func FromRewards(rows [][]int, agent Coord, endTurn int) (*MazeState, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidSettings)
	}
	settings := Settings{Width: len(rows[0]), Height: len(rows), EndTurn: endTurn}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	s := &MazeState{
		Width:   settings.Width,
		Height:  settings.Height,
		EndTurn: settings.EndTurn,
		Rewards: make([]int, settings.Width*settings.Height),
		Agent:   agent,
	}
	if !s.InBounds(agent) {
		return nil, fmt.Errorf("%w: agent (%d,%d) off a %dx%d board", ErrInvalidSettings, agent.X, agent.Y, s.Width, s.Height)
	}
	for y, row := range rows {
		if len(row) != s.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSettings, y, len(row), s.Width)
		}
		for x, r := range row {
			if r < 0 {
				return nil, fmt.Errorf("%w: negative reward %d at (%d,%d)", ErrInvalidSettings, r, x, y)
			}
			s.Rewards[y*s.Width+x] = r
		}
	}
	s.Rewards[agent.Y*s.Width+agent.X] = 0
	return s, nil
}

// RewardRows returns the rewards as one slice per row.
func (s *MazeState) RewardRows() [][]int {
	rows := make([][]int, s.Height)
	for y := range rows {
		rows[y] = make([]int, s.Width)
		copy(rows[y], s.Rewards[y*s.Width:(y+1)*s.Width])
	}
	return rows
}
