package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/gridbeam/config"
	"github.com/brensch/gridbeam/executor/actor"
	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/executor/selfplay"
	"github.com/brensch/gridbeam/game"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	actorName := flag.String("actor", config.EnvOrDefault(config.EnvStrategy, string(search.StrategyPartialSort)), "Actor: "+strings.Join(actor.Names(), ", "))
	beamWidth := flag.Int("beam-width", config.EnvIntOrDefault(config.EnvBeamWidth, 100), "Beam width")
	maxDepth := flag.Int("max-depth", config.EnvIntOrDefault(config.EnvMaxDepth, game.DefaultSettings.EndTurn), "Beam depth")
	timeBudget := flag.Duration("time-budget", config.EnvDurationOrDefault(config.EnvTimeBudget, 10*time.Millisecond), "Per-move budget for priority_time_bounded")
	seed := flag.Int64("seed", config.EnvInt64OrDefault(config.EnvSeed, 0), "Board seed")
	width := flag.Int("width", game.DefaultSettings.Width, "Board width")
	height := flag.Int("height", game.DefaultSettings.Height, "Board height")
	endTurn := flag.Int("end-turn", game.DefaultSettings.EndTurn, "Turns per episode")
	fallbackGreedy := flag.Bool("fallback-greedy", config.EnvBoolOrDefault(config.EnvFallbackGreedy, true), "Play greedily when a beam search finds no action")
	color := flag.Bool("color", true, "Colour the printed boards")
	useTUI := flag.Bool("tui", false, "Step through the episode in a terminal UI")
	flag.Parse()

	base := search.Config{Width: *beamWidth, MaxDepth: *maxDepth, TimeBudget: *timeBudget}
	act, err := actor.New(*actorName, base, rand.New(rand.NewPCG(uint64(*seed), 0)), *fallbackGreedy)
	if err != nil {
		log.Fatalf("Invalid -actor: %v", err)
	}
	start, err := game.New(*seed, game.Settings{Width: *width, Height: *height, EndTurn: *endTurn})
	if err != nil {
		log.Fatalf("Failed to generate board: %v", err)
	}

	ctx := context.Background()
	if *useTUI {
		frames, res, err := record(ctx, start, act)
		if err != nil {
			log.Fatalf("Episode failed: %v", err)
		}
		p := tea.NewProgram(newModel(*actorName, *seed, frames, res.FinalScore), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := selfplay.PrintBoard(os.Stdout, start, *color); err != nil {
		log.Fatal(err)
	}
	res, err := selfplay.Play(ctx, "", start, act, func(s selfplay.Step) {
		fmt.Printf("action: %s\n", s.Action)
		if err := selfplay.PrintBoard(os.Stdout, s.State, *color); err != nil {
			log.Printf("print board: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Episode failed: %v", err)
	}
	fmt.Printf("final score: %d (%d turns, %s)\n", res.FinalScore, res.Turns, res.Duration.Round(time.Microsecond))
}

// frame is one state of a recorded episode and the action that led to it.
type frame struct {
	State  *game.MazeState
	Action game.Action
}

// record plays start to the end and keeps every state, starting with start
// itself.
func record(ctx context.Context, start *game.MazeState, act actor.Actor) ([]frame, selfplay.EpisodeResult, error) {
	frames := []frame{{State: start, Action: game.NoAction}}
	res, err := selfplay.Play(ctx, "", start, act, func(s selfplay.Step) {
		frames = append(frames, frame{State: s.State, Action: s.Action})
	})
	return frames, res, err
}
