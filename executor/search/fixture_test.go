package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/game"
	"github.com/brensch/gridbeam/rules"
)

// fixtureState is a 4x3 board with the agent at (1,1) and four turns to go.
//
//	4 6 1 3
//	2 @ 8 0
//	5 7 9 1
func fixtureState(t testing.TB) *game.MazeState {
	t.Helper()
	s, err := game.FromRewards([][]int{
		{4, 6, 1, 3},
		{2, 0, 8, 0},
		{5, 7, 9, 1},
	}, game.Coord{X: 1, Y: 1}, 4)
	require.NoError(t, err)
	return s
}

func TestFixture_BeamPicksRight(t *testing.T) {
	// Width 2 keeps right(8) and down(7), then the two paths through the 9,
	// then both 24s, and finally right,down,left,left for 29.
	for _, strategy := range []search.Strategy{search.StrategyPriority, search.StrategyPartialSort} {
		t.Run(string(strategy), func(t *testing.T) {
			root := fixtureState(t)
			before := root.Clone()

			res, err := search.SelectAction[*game.MazeState, game.Action](context.Background(), rules.Maze{}, root,
				search.Config{Strategy: strategy, Width: 2, MaxDepth: 4})
			require.NoError(t, err)
			require.True(t, res.Found)
			assert.Equal(t, game.ActionRight, res.Action)
			assert.Equal(t, int64(29), res.Score)
			assert.Equal(t, 4, res.Rounds)
			assert.Equal(t, 7, res.Expanded)
			assert.Equal(t, before, root, "search must not mutate the root")
		})
	}
}

func TestFixture_SeededBoard(t *testing.T) {
	// Seed 0 on a 4x3 board:
	//
	//	3 8 6 @
	//	8 3 4 8
	//	3 7 4 2
	root, err := game.New(0, game.Settings{Width: 4, Height: 3, EndTurn: 4})
	require.NoError(t, err)

	res, err := search.SelectAction[*game.MazeState, game.Action](context.Background(), rules.Maze{}, root,
		search.Config{Strategy: search.StrategyPartialSort, Width: 2, MaxDepth: 4})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, game.ActionDown, res.Action)
	assert.Equal(t, int64(26), res.Score)
	assert.Equal(t, 4, res.Rounds)
	assert.Equal(t, 7, res.Expanded)
}

func TestFixture_WidthOneIsGreedyLookahead(t *testing.T) {
	// A single-state beam follows the locally best reward each turn:
	// right(8), down(9), left(7), left(5).
	res, err := search.SelectAction[*game.MazeState, game.Action](context.Background(), rules.Maze{}, fixtureState(t),
		search.Config{Strategy: search.StrategyPartialSort, Width: 1, MaxDepth: 4})
	require.NoError(t, err)
	assert.Equal(t, game.ActionRight, res.Action)
	assert.Equal(t, int64(29), res.Score)
}

func TestFixture_RoundFrontiers(t *testing.T) {
	var scores [][]int64
	b := search.New[*game.MazeState, game.Action](rules.Maze{}, search.Config{Strategy: search.StrategyPartialSort, Width: 2, MaxDepth: 4})
	b.OnRound = func(r search.Round[*game.MazeState, game.Action]) {
		var round []int64
		for _, c := range r.Frontier {
			round = append(round, c.Score)
		}
		scores = append(scores, round)
	}
	_, err := b.Search(context.Background(), fixtureState(t))
	require.NoError(t, err)
	assert.Equal(t, [][]int64{{8, 7}, {17, 16}, {24, 24}, {29, 25}}, scores)
}

func TestFixture_TerminalRoot(t *testing.T) {
	s := fixtureState(t)
	s.Turn = s.EndTurn
	for _, strategy := range search.Strategies {
		res, err := search.SelectAction[*game.MazeState, game.Action](context.Background(), rules.Maze{}, s,
			search.Config{Strategy: strategy, Width: 2, MaxDepth: 4})
		require.NoError(t, err)
		assert.False(t, res.Found, string(strategy))
	}
}

func BenchmarkSearch(b *testing.B) {
	root, err := game.New(42, game.DefaultSettings)
	require.NoError(b, err)

	for _, strategy := range search.Strategies {
		cfg := search.Config{Strategy: strategy, Width: 100, MaxDepth: game.DefaultSettings.EndTurn, TimeBudget: 10 * time.Millisecond}
		b.Run(string(strategy), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := search.SelectAction[*game.MazeState, game.Action](context.Background(), rules.Maze{}, root, cfg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
