package rules

import (
	"errors"
	"slices"
	"testing"

	"github.com/brensch/gridbeam/game"
)

func mustState(t *testing.T, rows [][]int, agent game.Coord, endTurn int) *game.MazeState {
	t.Helper()
	s, err := game.FromRewards(rows, agent, endTurn)
	if err != nil {
		t.Fatalf("FromRewards: %v", err)
	}
	return s
}

func logNextState(t *testing.T, label string, before *game.MazeState, action game.Action, after *game.MazeState) {
	t.Logf("%s\n  BEFORE (action=%s):\n%s  AFTER:\n%s", label, action, before, after)
}

func TestLegalActions_Corners(t *testing.T) {
	rows := [][]int{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 1, 2, 3},
	}
	tests := []struct {
		name  string
		agent game.Coord
		want  []game.Action
	}{
		{"top-left", game.Coord{X: 0, Y: 0}, []game.Action{game.ActionRight, game.ActionDown}},
		{"top-right", game.Coord{X: 3, Y: 0}, []game.Action{game.ActionLeft, game.ActionDown}},
		{"bottom-left", game.Coord{X: 0, Y: 2}, []game.Action{game.ActionRight, game.ActionUp}},
		{"bottom-right", game.Coord{X: 3, Y: 2}, []game.Action{game.ActionLeft, game.ActionUp}},
		{"middle", game.Coord{X: 1, Y: 1}, []game.Action{game.ActionRight, game.ActionLeft, game.ActionDown, game.ActionUp}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LegalActions(mustState(t, rows, tt.agent, 4))
			if !slices.Equal(got, tt.want) {
				t.Fatalf("LegalActions=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestLegalActions_SingleCell(t *testing.T) {
	s := mustState(t, [][]int{{0}}, game.Coord{}, 3)
	if got := LegalActions(s); len(got) != 0 {
		t.Fatalf("LegalActions on a 1x1 board = %v, want none", got)
	}
}

func TestLegalActions_Done(t *testing.T) {
	s := mustState(t, [][]int{{1, 2}, {3, 4}}, game.Coord{}, 2)
	s.Turn = 2
	if got := LegalActions(s); got != nil {
		t.Fatalf("LegalActions on a finished episode = %v, want nil", got)
	}
}

func TestNextState_ConsumesReward(t *testing.T) {
	before := mustState(t, [][]int{
		{0, 7, 0},
		{0, 0, 0},
	}, game.Coord{X: 0, Y: 0}, 4)

	after, err := NextState(before, game.ActionRight)
	if err != nil {
		t.Fatalf("NextState: %v", err)
	}
	logNextState(t, "NextState onto a reward", before, game.ActionRight, after)

	if after.Agent != (game.Coord{X: 1, Y: 0}) {
		t.Fatalf("agent=%+v want (1,0)", after.Agent)
	}
	if after.GameScore != 7 {
		t.Fatalf("score=%d want 7", after.GameScore)
	}
	if after.RewardAt(game.Coord{X: 1, Y: 0}) != 0 {
		t.Fatalf("reward not consumed")
	}
	if after.Turn != 1 {
		t.Fatalf("turn=%d want 1", after.Turn)
	}

	// The input is untouched.
	if before.Agent != (game.Coord{}) || before.GameScore != 0 || before.Turn != 0 {
		t.Fatalf("before mutated: %+v", before)
	}
	if before.RewardAt(game.Coord{X: 1, Y: 0}) != 7 {
		t.Fatalf("before rewards mutated")
	}
}

func TestNextState_RevisitScoresNothing(t *testing.T) {
	s := mustState(t, [][]int{{0, 5}}, game.Coord{}, 4)

	var err error
	for _, a := range []game.Action{game.ActionRight, game.ActionLeft, game.ActionRight} {
		s, err = NextState(s, a)
		if err != nil {
			t.Fatalf("NextState(%s): %v", a, err)
		}
	}
	if s.GameScore != 5 {
		t.Fatalf("score=%d want 5", s.GameScore)
	}
	if s.Turn != 3 {
		t.Fatalf("turn=%d want 3", s.Turn)
	}
}

func TestNextState_Illegal(t *testing.T) {
	s := mustState(t, [][]int{{0, 1}, {2, 3}}, game.Coord{}, 1)

	if _, err := NextState(s, game.ActionLeft); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("off-board move: err=%v", err)
	}
	if _, err := NextState(s, game.NoAction); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("NoAction: err=%v", err)
	}

	done, err := NextState(s, game.ActionDown)
	if err != nil {
		t.Fatalf("NextState: %v", err)
	}
	if !IsDone(done) {
		t.Fatalf("expected done after EndTurn turns")
	}
	if _, err := NextState(done, game.ActionUp); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("move after final turn: err=%v", err)
	}
}

func TestMaze_Heuristic(t *testing.T) {
	s := mustState(t, [][]int{{0, 4}}, game.Coord{}, 2)
	s.GameScore = 3

	if got := (Maze{}).Score(s); got != 3 {
		t.Fatalf("default score=%d want 3", got)
	}
	m := Maze{Heuristic: func(s *game.MazeState) int64 { return int64(s.GameScore * 10) }}
	if got := m.Score(s); got != 30 {
		t.Fatalf("heuristic score=%d want 30", got)
	}
	if m.IsTerminal(s) {
		t.Fatalf("turn 0 of 2 reported terminal")
	}
	next, err := m.Apply(s, game.ActionRight)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.GameScore != 7 {
		t.Fatalf("score after apply=%d want 7", next.GameScore)
	}
	if got := m.LegalActions(s); !slices.Equal(got, []game.Action{game.ActionRight}) {
		t.Fatalf("LegalActions=%v", got)
	}
}
