package selfplay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/gridbeam/executor/actor"
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

func TestPlay_BeamFixture(t *testing.T) {
	start := fixtureState(t)
	before := start.Clone()
	act := actor.Beam(rules.Maze{}, search.Config{Strategy: search.StrategyPartialSort, Width: 2, MaxDepth: 4})

	var steps []Step
	res, err := Play(context.Background(), "fixture", start, act, func(s Step) { steps = append(steps, s) })
	require.NoError(t, err)

	assert.Equal(t, "fixture", res.EpisodeID)
	assert.Equal(t, []game.Action{game.ActionRight, game.ActionDown, game.ActionLeft, game.ActionLeft}, res.Actions)
	assert.Equal(t, []int{8, 17, 24, 29}, res.Scores)
	assert.Equal(t, 29, res.FinalScore)
	assert.Equal(t, 4, res.Turns)
	assert.Equal(t, before, start)

	require.Len(t, steps, 4)
	for i, s := range steps {
		assert.Equal(t, i, s.Turn)
		assert.Equal(t, i+1, s.State.Turn)
		assert.Equal(t, res.Actions[i], s.Action)
	}
	assert.Equal(t, game.Coord{X: 0, Y: 2}, steps[3].State.Agent)
}

func TestPlay_GreedyFixture(t *testing.T) {
	res, err := Play(context.Background(), "", fixtureState(t), actor.Greedy(rules.Maze{}), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, res.EpisodeID)
	assert.Equal(t, 29, res.FinalScore)
}

func TestPlayEpisode_SeededFixture(t *testing.T) {
	settings := game.Settings{Width: 4, Height: 3, EndTurn: 4}
	beam := actor.Beam(rules.Maze{}, search.Config{Strategy: search.StrategyPartialSort, Width: 2, MaxDepth: 4})

	res, err := PlayEpisode(context.Background(), "seeded", 0, settings, beam, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Seed)
	assert.Equal(t, []game.Action{game.ActionDown, game.ActionLeft, game.ActionUp, game.ActionLeft}, res.Actions)
	assert.Equal(t, []int{8, 12, 18, 26}, res.Scores)
	assert.Equal(t, 26, res.FinalScore)

	greedy, err := PlayEpisode(context.Background(), "", 0, settings, actor.Greedy(rules.Maze{}), nil)
	require.NoError(t, err)
	assert.Equal(t, res.Actions, greedy.Actions)
	assert.Equal(t, 26, greedy.FinalScore)
}

func TestPlay_NoAction(t *testing.T) {
	none := func(context.Context, *game.MazeState) (game.Action, error) { return game.NoAction, nil }
	res, err := Play(context.Background(), "", fixtureState(t), none, nil)
	require.ErrorIs(t, err, ErrNoAction)
	assert.Zero(t, res.Turns)
}

func TestPlay_IllegalAction(t *testing.T) {
	up := func(context.Context, *game.MazeState) (game.Action, error) { return game.ActionUp, nil }
	res, err := Play(context.Background(), "", fixtureState(t), up, nil)
	require.ErrorIs(t, err, rules.ErrIllegalAction)
	// The first Up is legal, the second would leave the board.
	assert.Equal(t, 1, res.Turns)
	assert.Equal(t, 6, res.FinalScore)
}

func TestPlay_ActorError(t *testing.T) {
	boom := errors.New("boom")
	failing := func(context.Context, *game.MazeState) (game.Action, error) { return game.NoAction, boom }
	_, err := Play(context.Background(), "", fixtureState(t), failing, nil)
	assert.ErrorIs(t, err, boom)
}

func TestPlay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	act := func(ctx context.Context, s *game.MazeState) (game.Action, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return actor.Greedy(rules.Maze{})(ctx, s)
	}
	res, err := Play(ctx, "", fixtureState(t), act, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, res.Turns)
}

func TestPlayEpisode_SeedIsReproducible(t *testing.T) {
	settings := game.Settings{Width: 8, Height: 6, EndTurn: 12}
	act := actor.Beam(rules.Maze{}, search.Config{Strategy: search.StrategyPriority, Width: 4, MaxDepth: 6})

	a, err := PlayEpisode(context.Background(), "a", 99, settings, act, nil)
	require.NoError(t, err)
	b, err := PlayEpisode(context.Background(), "b", 99, settings, act, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(99), a.Seed)
	assert.Equal(t, 12, a.Turns)
	assert.Equal(t, a.Actions, b.Actions)
	assert.Equal(t, a.FinalScore, b.FinalScore)
	assert.Equal(t, a.Scores[len(a.Scores)-1], a.FinalScore)
}

func TestPlayEpisode_InvalidSettings(t *testing.T) {
	_, err := PlayEpisode(context.Background(), "", 1, game.Settings{Width: 0, Height: 3, EndTurn: 3}, actor.Greedy(rules.Maze{}), nil)
	assert.ErrorIs(t, err, game.ErrInvalidSettings)
}
