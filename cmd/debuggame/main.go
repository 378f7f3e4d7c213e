package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/brensch/gridbeam/config"
	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/executor/selfplay"
	"github.com/brensch/gridbeam/game"
	"github.com/brensch/gridbeam/rules"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	strategy := flag.String("strategy", config.EnvOrDefault(config.EnvStrategy, string(search.StrategyPartialSort)), "Beam strategy to trace")
	beamWidth := flag.Int("beam-width", config.EnvIntOrDefault(config.EnvBeamWidth, 10), "Beam width")
	maxDepth := flag.Int("max-depth", config.EnvIntOrDefault(config.EnvMaxDepth, game.DefaultSettings.EndTurn), "Beam depth")
	timeBudget := flag.Duration("time-budget", config.EnvDurationOrDefault(config.EnvTimeBudget, 10*time.Millisecond), "Per-move budget for priority_time_bounded")
	seed := flag.Int64("seed", config.EnvInt64OrDefault(config.EnvSeed, 0), "Board seed")
	width := flag.Int("width", 8, "Board width")
	height := flag.Int("height", 8, "Board height")
	endTurn := flag.Int("end-turn", game.DefaultSettings.EndTurn, "Turns per episode")
	outDir := flag.String("out-dir", "debug_games", "Output directory for traces")
	flag.Parse()

	st, err := search.ParseStrategy(*strategy)
	if err != nil {
		log.Fatalf("Invalid -strategy: %v", err)
	}
	cfg := search.Config{Strategy: st, Width: *beamWidth, MaxDepth: *maxDepth, TimeBudget: *timeBudget}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid search config: %v", err)
	}

	start, err := game.New(*seed, game.Settings{Width: *width, Height: *height, EndTurn: *endTurn})
	if err != nil {
		log.Fatalf("Failed to generate board: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Printf("Tracing %s (width=%d depth=%d budget=%s) on seed %d", cfg.Strategy, cfg.Width, cfg.MaxDepth, cfg.TimeBudget, *seed)

	onProgress := func(p selfplay.DebugProgress) {
		fmt.Printf("  Turn %3d | %-5s | %2d rounds | score %d\n", p.Turn, p.Action, p.Rounds, p.Score)
	}
	result, err := selfplay.PlayDebugEpisode(ctx, start, rules.Maze{}, cfg, onProgress)
	if err != nil {
		log.Fatalf("Failed to trace episode: %v", err)
	}
	log.Printf("Episode complete: %d turns, score %d", len(result.Turns), result.FinalScore)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}
	path := filepath.Join(*outDir, result.EpisodeID+".jsonl")
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create trace file: %v", err)
	}
	if err := selfplay.WriteDebugJSON(f, result); err != nil {
		_ = f.Close()
		log.Fatalf("Failed to write trace: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to close trace: %v", err)
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("  Trace written to:\n")
	fmt.Printf("  %s\n", path)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
}
