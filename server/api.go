package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/game"
)

var (
	errNoState  = errors.New("either rewards or seed is required")
	errTooLarge = errors.New("request exceeds server limits")
)

// Request limits. Boards and searches beyond these are rejected with 400.
const (
	maxBoardSide = 256
	maxEndTurn   = 1000
	maxBeamWidth = 10000
	maxMaxDepth  = 1000
	maxBodyBytes = 1 << 20
)

func checkLimits(width, height, endTurn int) error {
	switch {
	case width > maxBoardSide || height > maxBoardSide:
		return fmt.Errorf("%w: board %dx%d, max %d per side", errTooLarge, width, height, maxBoardSide)
	case endTurn > maxEndTurn:
		return fmt.Errorf("%w: end turn %d, max %d", errTooLarge, endTurn, maxEndTurn)
	}
	return nil
}

func checkSearchLimits(beamWidth, maxDepth int) error {
	switch {
	case beamWidth > maxBeamWidth:
		return fmt.Errorf("%w: beam width %d, max %d", errTooLarge, beamWidth, maxBeamWidth)
	case maxDepth > maxMaxDepth:
		return fmt.Errorf("%w: max depth %d, max %d", errTooLarge, maxDepth, maxMaxDepth)
	}
	return nil
}

// MoveRequest describes the state to search from and, optionally, the search
// to run. The state is given either explicitly as rows of rewards plus the
// agent position, or as a seed to generate it from. Zero search fields take
// the server defaults.
type MoveRequest struct {
	Seed    *int64      `json:"seed,omitempty"`
	Width   int         `json:"width,omitempty"`
	Height  int         `json:"height,omitempty"`
	Rewards [][]int     `json:"rewards,omitempty"`
	Agent   *game.Coord `json:"agent,omitempty"`
	EndTurn int         `json:"end_turn,omitempty"`
	Turn    int         `json:"turn,omitempty"`
	Score   int         `json:"score,omitempty"`

	Strategy     string `json:"strategy,omitempty"`
	BeamWidth    int    `json:"beam_width,omitempty"`
	MaxDepth     int    `json:"max_depth,omitempty"`
	TimeBudgetMS int64  `json:"time_budget_ms,omitempty"`
}

type MoveResponse struct {
	Action    string `json:"action"`
	ActionID  int    `json:"action_id"`
	Found     bool   `json:"found"`
	Score     int64  `json:"score"`
	Rounds    int    `json:"rounds"`
	Expanded  int    `json:"expanded"`
	TimedOut  bool   `json:"timed_out"`
	ElapsedUS int64  `json:"elapsed_us"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Frame is one websocket message of an episode stream.
type Frame struct {
	Type   string     `json:"type"` // "state", "done" or "error"
	Turn   int        `json:"turn"`
	Action string     `json:"action,omitempty"`
	Agent  game.Coord `json:"agent"`
	Score  int        `json:"score"`
	Board  []string   `json:"board,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// ActorQuery is the query string accepted by the episode endpoints.
type ActorQuery struct {
	Actor        string `form:"actor"`
	BeamWidth    int    `form:"beam_width"`
	MaxDepth     int    `form:"max_depth"`
	TimeBudgetMS int64  `form:"time_budget_ms"`
	Width        int    `form:"width"`
	Height       int    `form:"height"`
	EndTurn      int    `form:"end_turn"`
}

func (r MoveRequest) state(defaults game.Settings) (*game.MazeState, error) {
	endTurn := r.EndTurn
	if endTurn == 0 {
		endTurn = defaults.EndTurn
	}

	var (
		s   *game.MazeState
		err error
	)
	switch {
	case r.Rewards != nil:
		width := 0
		if len(r.Rewards) > 0 {
			width = len(r.Rewards[0])
		}
		if err := checkLimits(width, len(r.Rewards), endTurn); err != nil {
			return nil, err
		}
		agent := game.Coord{}
		if r.Agent != nil {
			agent = *r.Agent
		}
		s, err = game.FromRewards(r.Rewards, agent, endTurn)
	case r.Seed != nil:
		settings := game.Settings{Width: r.Width, Height: r.Height, EndTurn: endTurn}
		if settings.Width == 0 {
			settings.Width = defaults.Width
		}
		if settings.Height == 0 {
			settings.Height = defaults.Height
		}
		if err := checkLimits(settings.Width, settings.Height, settings.EndTurn); err != nil {
			return nil, err
		}
		s, err = game.New(*r.Seed, settings)
	default:
		return nil, errNoState
	}
	if err != nil {
		return nil, err
	}

	if r.Turn < 0 || r.Turn > s.EndTurn {
		return nil, fmt.Errorf("%w: turn %d outside [0, %d]", game.ErrInvalidSettings, r.Turn, s.EndTurn)
	}
	if r.Score < 0 {
		return nil, fmt.Errorf("%w: negative score %d", game.ErrInvalidSettings, r.Score)
	}
	s.Turn = r.Turn
	s.GameScore = r.Score
	return s, nil
}

// searchConfig overlays the request's search fields on defaults.
func (r MoveRequest) searchConfig(defaults search.Config) (search.Config, error) {
	cfg := defaults
	if r.Strategy != "" {
		st, err := search.ParseStrategy(r.Strategy)
		if err != nil {
			return search.Config{}, err
		}
		cfg.Strategy = st
	}
	if r.BeamWidth != 0 {
		cfg.Width = r.BeamWidth
	}
	if r.MaxDepth != 0 {
		cfg.MaxDepth = r.MaxDepth
	}
	if r.TimeBudgetMS != 0 {
		cfg.TimeBudget = time.Duration(r.TimeBudgetMS) * time.Millisecond
	}
	if err := checkSearchLimits(cfg.Width, cfg.MaxDepth); err != nil {
		return search.Config{}, err
	}
	return cfg, cfg.Validate()
}

func (q ActorQuery) validate() error {
	if err := checkLimits(q.Width, q.Height, q.EndTurn); err != nil {
		return err
	}
	return checkSearchLimits(q.BeamWidth, q.MaxDepth)
}

func (q ActorQuery) settings(defaults game.Settings) game.Settings {
	s := defaults
	if q.Width != 0 {
		s.Width = q.Width
	}
	if q.Height != 0 {
		s.Height = q.Height
	}
	if q.EndTurn != 0 {
		s.EndTurn = q.EndTurn
	}
	return s
}

func (q ActorQuery) searchBase(defaults search.Config) search.Config {
	cfg := defaults
	if q.BeamWidth != 0 {
		cfg.Width = q.BeamWidth
	}
	if q.MaxDepth != 0 {
		cfg.MaxDepth = q.MaxDepth
	}
	if q.TimeBudgetMS != 0 {
		cfg.TimeBudget = time.Duration(q.TimeBudgetMS) * time.Millisecond
	}
	return cfg
}

func boardLines(s *game.MazeState) []string {
	lines := make([]string, s.Height)
	row := make([]byte, s.Width)
	for y := range lines {
		for x := range row {
			row[x] = s.Glyph(game.Coord{X: x, Y: y})
		}
		lines[y] = string(row)
	}
	return lines
}
