package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// episodeUpdate is sent to the progress view for every finished episode.
type episodeUpdate struct {
	Actor    string
	Episode  int
	Score    int
	Duration time.Duration
}

type doneMsg struct{ err error }

type TickMsg time.Time

type actorProgress struct {
	name     string
	episodes int
}

type model struct {
	total     int
	played    int
	actors    []*actorProgress
	recent    []string
	startTime time.Time
	now       time.Time
	updates   chan episodeUpdate
	done      bool
	err       error
}

func initialModel(updates chan episodeUpdate, total int) model {
	return model{
		total:     total,
		startTime: time.Now(),
		now:       time.Now(),
		updates:   updates,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func waitForUpdate(updates chan episodeUpdate) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case episodeUpdate:
		m.played++
		m.progressFor(msg.Actor).episodes++
		line := fmt.Sprintf("%-22s episode %4d score %4d in %s", msg.Actor, msg.Episode, msg.Score, msg.Duration.Round(time.Microsecond))
		m.recent = append([]string{line}, m.recent...)
		if len(m.recent) > 10 {
			m.recent = m.recent[:10]
		}
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m *model) progressFor(name string) *actorProgress {
	for _, a := range m.actors {
		if a.name == name {
			return a
		}
	}
	a := &actorProgress{name: name}
	m.actors = append(m.actors, a)
	return a
}

func (m model) View() string {
	duration := m.now.Sub(m.startTime)
	perSec := 0.0
	if duration >= time.Second {
		perSec = float64(m.played) / duration.Seconds()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Episodes:     %d/%d\n", m.played, m.total)
	fmt.Fprintf(&sb, "Duration:     %s\n", duration.Round(time.Second))
	fmt.Fprintf(&sb, "Episodes/Sec: %.2f\n\n", perSec)
	for _, a := range m.actors {
		fmt.Fprintf(&sb, "  %-22s %d\n", a.name, a.episodes)
	}

	sb.WriteString("\nRecent Episodes:\n")
	for _, line := range m.recent {
		sb.WriteString(line + "\n")
	}

	switch {
	case m.err != nil:
		fmt.Fprintf(&sb, "\nFailed: %v\n", m.err)
	case m.done:
		sb.WriteString("\nDone.\n")
	default:
		sb.WriteString("\nPress q to quit.\n")
	}
	return sb.String()
}
