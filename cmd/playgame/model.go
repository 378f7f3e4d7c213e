package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/gridbeam/game"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	agentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	autoplayGap = 400 * time.Millisecond
)

type TickMsg time.Time

type model struct {
	actor      string
	seed       int64
	frames     []frame
	finalScore int
	cursor     int
	playing    bool
}

func newModel(actorName string, seed int64, frames []frame, finalScore int) model {
	return model{actor: actorName, seed: seed, frames: frames, finalScore: finalScore}
}

func tickCmd() tea.Cmd {
	return tea.Tick(autoplayGap, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "right", "l", "n":
			m.playing = false
			m.cursor = min(m.cursor+1, len(m.frames)-1)
		case "left", "h", "p":
			m.playing = false
			m.cursor = max(m.cursor-1, 0)
		case "home", "g":
			m.playing = false
			m.cursor = 0
		case "end", "G":
			m.playing = false
			m.cursor = len(m.frames) - 1
		case " ", "space":
			m.playing = !m.playing
			if m.playing {
				if m.cursor == len(m.frames)-1 {
					m.cursor = 0
				}
				return m, tickCmd()
			}
		}
	case TickMsg:
		if !m.playing {
			return m, nil
		}
		if m.cursor >= len(m.frames)-1 {
			m.playing = false
			return m, nil
		}
		m.cursor++
		return m, tickCmd()
	}
	return m, nil
}

func (m model) View() string {
	f := m.frames[m.cursor]
	header := titleStyle.Render(fmt.Sprintf("%s  seed %d", m.actor, m.seed))
	status := fmt.Sprintf("turn %d/%d  score %d  final %d", f.State.Turn, f.State.EndTurn, f.State.GameScore, m.finalScore)
	if f.Action != game.NoAction {
		status += "  last " + f.Action.String()
	}
	help := helpStyle.Render("←/→ step · space play · g/G first/last · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, status, boardStyle.Render(renderBoard(f.State)), help) + "\n"
}

func renderBoard(s *game.MazeState) string {
	var sb strings.Builder
	for y := 0; y < s.Height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.Width; x++ {
			c := game.Coord{X: x, Y: y}
			glyph := string(s.Glyph(c))
			switch r := s.RewardAt(c); {
			case c == s.Agent:
				sb.WriteString(agentStyle.Render(glyph))
			case r >= 7:
				sb.WriteString(highStyle.Render(glyph))
			case r > 0:
				sb.WriteString(lowStyle.Render(glyph))
			default:
				sb.WriteString(emptyStyle.Render(glyph))
			}
		}
	}
	return sb.String()
}
