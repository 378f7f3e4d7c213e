package selfplay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/game"
	"github.com/brensch/gridbeam/rules"
)

// DebugRound is one completed search round as seen by the observer.
type DebugRound struct {
	Index          int      `json:"index"`
	Expanded       int      `json:"expanded"`
	Generated      int      `json:"generated"`
	FrontierScores []int64  `json:"frontier_scores"`
	FrontierFirst  []string `json:"frontier_first"`
}

// DebugGameState is the board part of a state, for JSON output.
type DebugGameState struct {
	Turn      int        `json:"turn"`
	EndTurn   int        `json:"end_turn"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Agent     game.Coord `json:"agent"`
	GameScore int        `json:"game_score"`
	Rewards   [][]int    `json:"rewards"`
}

// DebugTurnData holds the search trace and the state it started from for one turn.
type DebugTurnData struct {
	EpisodeID string          `json:"episode_id"`
	Turn      int             `json:"turn"`
	Strategy  search.Strategy `json:"strategy"`
	Width     int             `json:"width"`
	MaxDepth  int             `json:"max_depth"`
	State     DebugGameState  `json:"state"`
	Rounds    []DebugRound    `json:"rounds"`
	Action    string          `json:"action"`
	Found     bool            `json:"found"`
	Score     int64           `json:"score"`
	TimedOut  bool            `json:"timed_out"`
	ElapsedUS int64           `json:"elapsed_us"`
}

// DebugEpisodeResult holds a fully traced episode.
type DebugEpisodeResult struct {
	EpisodeID  string
	Turns      []DebugTurnData
	FinalScore int
}

// DebugProgress is passed to the progress callback after each turn.
type DebugProgress struct {
	Turn   int
	Action game.Action
	Rounds int
	Score  int
}

// PlayDebugEpisode plays start to the end with beam search, capturing every
// round of every search. A turn whose search finds nothing ends the episode
// with ErrNoAction.
func PlayDebugEpisode(ctx context.Context, start *game.MazeState, env rules.Maze, cfg search.Config, onProgress func(DebugProgress)) (*DebugEpisodeResult, error) {
	result := &DebugEpisodeResult{
		EpisodeID: uuid.NewString(),
		Turns:     make([]DebugTurnData, 0, max(start.EndTurn-start.Turn, 0)),
	}

	state := start
	for !rules.IsDone(state) {
		turn := DebugTurnData{
			EpisodeID: result.EpisodeID,
			Turn:      state.Turn,
			Strategy:  cfg.Strategy,
			Width:     cfg.Width,
			MaxDepth:  cfg.MaxDepth,
			State:     gameStateToDebug(state),
		}

		b := search.New[*game.MazeState, game.Action](env, cfg)
		b.OnRound = func(r search.Round[*game.MazeState, game.Action]) {
			turn.Rounds = append(turn.Rounds, roundToDebug(r))
		}
		begin := time.Now()
		res, err := b.Search(ctx, state)
		turn.ElapsedUS = time.Since(begin).Microseconds()
		if err != nil {
			return result, fmt.Errorf("turn %d: %w", state.Turn, err)
		}
		turn.Found = res.Found
		turn.Score = res.Score
		turn.TimedOut = res.TimedOut
		if !res.Found {
			turn.Action = game.NoAction.String()
			result.Turns = append(result.Turns, turn)
			return result, fmt.Errorf("turn %d: %w", state.Turn, ErrNoAction)
		}
		turn.Action = res.Action.String()
		result.Turns = append(result.Turns, turn)

		next, err := rules.NextState(state, res.Action)
		if err != nil {
			return result, fmt.Errorf("turn %d: %w", state.Turn, err)
		}
		if onProgress != nil {
			onProgress(DebugProgress{Turn: state.Turn, Action: res.Action, Rounds: res.Rounds, Score: next.GameScore})
		}
		state = next
	}

	result.FinalScore = state.GameScore
	return result, nil
}

func roundToDebug(r search.Round[*game.MazeState, game.Action]) DebugRound {
	d := DebugRound{
		Index:          r.Index,
		Expanded:       r.Expanded,
		Generated:      r.Generated,
		FrontierScores: make([]int64, len(r.Frontier)),
		FrontierFirst:  make([]string, len(r.Frontier)),
	}
	for i, c := range r.Frontier {
		d.FrontierScores[i] = c.Score
		d.FrontierFirst[i] = c.FirstAction.String()
	}
	return d
}

func gameStateToDebug(state *game.MazeState) DebugGameState {
	return DebugGameState{
		Turn:      state.Turn,
		EndTurn:   state.EndTurn,
		Width:     state.Width,
		Height:    state.Height,
		Agent:     state.Agent,
		GameScore: state.GameScore,
		Rewards:   state.RewardRows(),
	}
}

// WriteDebugJSON writes one JSON object per turn.
func WriteDebugJSON(w io.Writer, result *DebugEpisodeResult) error {
	enc := json.NewEncoder(w)
	for _, turn := range result.Turns {
		if err := enc.Encode(turn); err != nil {
			return fmt.Errorf("encode turn %d: %w", turn.Turn, err)
		}
	}
	return nil
}
