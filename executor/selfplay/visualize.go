// visualize.go - Console rendering of episode states for CLI traces.
package selfplay

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/brensch/gridbeam/game"
)

// PrintBoard writes state to w with the agent highlighted. With color false
// the output is the same as state.String() under a trace header.
func PrintBoard(w io.Writer, state *game.MazeState, color bool) error {
	au := aurora.NewAurora(color)

	var sb strings.Builder
	sb.WriteString(au.Bold(fmt.Sprintf("=== TRACE Turn %d/%d score %d ===", state.Turn, state.EndTurn, state.GameScore)).String())
	sb.WriteByte('\n')
	for y := 0; y < state.Height; y++ {
		for x := 0; x < state.Width; x++ {
			c := game.Coord{X: x, Y: y}
			glyph := string(state.Glyph(c))
			switch {
			case c == state.Agent:
				sb.WriteString(au.Bold(au.Yellow(glyph)).String())
			case state.RewardAt(c) >= 7:
				sb.WriteString(au.Green(glyph).String())
			case state.RewardAt(c) > 0:
				sb.WriteString(au.Blue(glyph).String())
			default:
				sb.WriteString(glyph)
			}
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
