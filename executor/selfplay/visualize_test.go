package selfplay

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/rules"
)

func TestPrintBoard_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintBoard(&buf, fixtureState(t), false))
	want := "=== TRACE Turn 0/4 score 0 ===\n" +
		"4613\n" +
		"2@8.\n" +
		"5791\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintBoard_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintBoard(&buf, fixtureState(t), true))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "@")
}

func TestPlayDebugEpisode(t *testing.T) {
	cfg := search.Config{Strategy: search.StrategyPartialSort, Width: 2, MaxDepth: 4}
	var progress []DebugProgress
	res, err := PlayDebugEpisode(context.Background(), fixtureState(t), rules.Maze{}, cfg, func(p DebugProgress) {
		progress = append(progress, p)
	})
	require.NoError(t, err)
	assert.Equal(t, 29, res.FinalScore)
	require.Len(t, res.Turns, 4)
	require.Len(t, progress, 4)

	first := res.Turns[0]
	assert.Equal(t, "right", first.Action)
	assert.True(t, first.Found)
	require.Len(t, first.Rounds, 4)
	assert.Equal(t, []int64{8, 7}, first.Rounds[0].FrontierScores)
	assert.Equal(t, []string{"right", "down"}, first.Rounds[0].FrontierFirst)
	assert.Equal(t, []int64{29, 25}, first.Rounds[3].FrontierScores)
	assert.Equal(t, []string{"right", "down"}, first.Rounds[3].FrontierFirst)
	assert.Len(t, res.Turns[1].Rounds, 3, "search stops at the end turn")

	var actions []string
	for _, turn := range res.Turns {
		actions = append(actions, turn.Action)
	}
	assert.Equal(t, []string{"right", "down", "left", "left"}, actions)

	var buf bytes.Buffer
	require.NoError(t, WriteDebugJSON(&buf, res))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	var decoded DebugTurnData
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &decoded))
	assert.Equal(t, 2, decoded.Turn)
	assert.Equal(t, "left", decoded.Action)
	assert.Equal(t, 17, decoded.State.GameScore)
}
