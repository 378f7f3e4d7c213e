package game

import (
	"strconv"
	"strings"
)

const (
	AgentGlyph = '@'
	EmptyGlyph = '.'
)

// Glyph returns the character drawn for cell c.
func (s *MazeState) Glyph(c Coord) byte {
	if c == s.Agent {
		return AgentGlyph
	}
	if r := s.RewardAt(c); r > 0 {
		if r > 9 {
			return '+'
		}
		return byte('0' + r)
	}
	return EmptyGlyph
}

// String renders the turn and score headers followed by one line per row.
func (s *MazeState) String() string {
	var sb strings.Builder
	sb.Grow(32 + s.Height*(s.Width+1))
	sb.WriteString("turn:\t")
	sb.WriteString(strconv.Itoa(s.Turn))
	sb.WriteString("\nscore:\t")
	sb.WriteString(strconv.Itoa(s.GameScore))
	sb.WriteByte('\n')
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			sb.WriteByte(s.Glyph(Coord{X: x, Y: y}))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
