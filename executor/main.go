package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/brensch/gridbeam/config"
	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/executor/selfplay"
	"github.com/brensch/gridbeam/game"
	"github.com/brensch/gridbeam/logging"
	"github.com/brensch/gridbeam/report"
	"github.com/brensch/gridbeam/store"
)

// A time-bounded search can come back empty after a scheduling pause, which
// would otherwise fail the whole batch with selfplay.ErrNoAction.
const (
	defaultTimeBudget     = 10 * time.Millisecond
	defaultFallbackGreedy = true
)

// runConfig is everything one evaluation run needs. Every actor in
// Actors plays the same seeds.
type runConfig struct {
	RunID          string
	Actors         []string
	Search         search.Config
	Eval           selfplay.EvalConfig
	FallbackGreedy bool
	OutDir         string
	EpisodesFlush  int
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	actors := flag.String("strategies", config.EnvOrDefault(config.EnvStrategy, "random,greedy,priority,priority_time_bounded,partial_sort"), "Comma separated actors to evaluate: random, greedy or a beam strategy")
	beamWidth := flag.Int("beam-width", config.EnvIntOrDefault(config.EnvBeamWidth, 100), "Beam width")
	maxDepth := flag.Int("max-depth", config.EnvIntOrDefault(config.EnvMaxDepth, game.DefaultSettings.EndTurn), "Beam depth for the fixed-depth strategies")
	timeBudget := flag.Duration("time-budget", config.EnvDurationOrDefault(config.EnvTimeBudget, defaultTimeBudget), "Per-move budget for priority_time_bounded")
	episodes := flag.Int("episodes", config.EnvIntOrDefault(config.EnvEpisodes, 100), "Episodes per actor")
	seed := flag.Int64("seed", config.EnvInt64OrDefault(config.EnvSeed, 0), "Seed of the episode seed stream")
	workers := flag.Int("workers", config.EnvIntOrDefault(config.EnvWorkers, 0), "Concurrent episodes (0 = GOMAXPROCS)")
	width := flag.Int("width", game.DefaultSettings.Width, "Board width")
	height := flag.Int("height", game.DefaultSettings.Height, "Board height")
	endTurn := flag.Int("end-turn", game.DefaultSettings.EndTurn, "Turns per episode")
	outDir := flag.String("out-dir", config.EnvOrDefault(config.EnvOutDir, ""), "If set, write evaluated episodes as parquet batches here")
	episodesPerFlush := flag.Int("episodes-per-flush", 500, "Episodes buffered per parquet batch")
	chart := flag.String("chart", "", "If set, write an HTML score chart to this path")
	fallbackGreedy := flag.Bool("fallback-greedy", config.EnvBoolOrDefault(config.EnvFallbackGreedy, defaultFallbackGreedy), "Play greedily when a beam search finds no action")
	logFormat := flag.String("log-format", config.EnvOrDefault(config.EnvLogFormat, logging.FormatText), "Log format: text, json or pretty")
	logLevel := flag.String("log-level", "info", "Log level")
	useTUI := flag.Bool("tui", false, "Show a live progress view instead of logs")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Invalid -log-level: %v", err)
	}
	var logOut io.Writer = os.Stderr
	if *useTUI {
		// The progress view owns the terminal.
		logOut = io.Discard
	}
	logger, err := logging.New(logOut, *logFormat, level)
	if err != nil {
		log.Fatalf("Invalid -log-format: %v", err)
	}

	cfg := runConfig{
		RunID:  uuid.NewString(),
		Actors: splitList(*actors),
		Search: search.Config{
			Width:      *beamWidth,
			MaxDepth:   *maxDepth,
			TimeBudget: *timeBudget,
		},
		Eval: selfplay.EvalConfig{
			Episodes: *episodes,
			Seed:     *seed,
			Workers:  *workers,
			Settings: game.Settings{Width: *width, Height: *height, EndTurn: *endTurn},
		},
		FallbackGreedy: *fallbackGreedy,
		OutDir:         *outDir,
		EpisodesFlush:  *episodesPerFlush,
	}
	if err := cfg.validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var series []report.Series
	if *useTUI {
		series, err = runWithTUI(sigCtx, cfg, logger)
	} else {
		series, err = run(sigCtx, cfg, logger, nil)
	}
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	if *chart != "" {
		title := fmt.Sprintf("%dx%d, %d turns, %d episodes", *width, *height, *endTurn, *episodes)
		if err := report.WriteFile(*chart, title, series); err != nil {
			log.Fatalf("Failed to write chart: %v", err)
		}
		logger.Info("chart written", "path", *chart)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c runConfig) validate() error {
	if len(c.Actors) == 0 {
		return fmt.Errorf("no actors to evaluate")
	}
	for _, name := range c.Actors {
		if _, _, err := newActorFactory(name, c.Search, c.FallbackGreedy); err != nil {
			return err
		}
	}
	if c.Eval.Episodes <= 0 {
		return fmt.Errorf("%w: episodes must be positive, got %d", selfplay.ErrInvalidEvalConfig, c.Eval.Episodes)
	}
	return c.Eval.Settings.Validate()
}

// run evaluates every actor in turn. onEpisode, when set, sees every finished
// episode; it is never called concurrently.
func run(ctx context.Context, cfg runConfig, logger *slog.Logger, onEpisode func(episodeUpdate)) ([]report.Series, error) {
	logger = logger.With("run_id", cfg.RunID)

	var (
		rows       chan store.EpisodeRow
		writerDone chan writerStats
	)
	if cfg.OutDir != "" {
		rows = make(chan store.EpisodeRow, 256)
		writerDone = make(chan writerStats, 1)
		go func() {
			writerDone <- parquetWriterLoop(cfg.OutDir, cfg.EpisodesFlush, rows, logger)
		}()
	}
	var closeOnce sync.Once
	closeWriter := func() writerStats {
		if rows == nil {
			return writerStats{}
		}
		closeOnce.Do(func() { close(rows) })
		return <-writerDone
	}

	series := make([]report.Series, 0, len(cfg.Actors))
	for _, name := range cfg.Actors {
		factory, searchCfg, err := newActorFactory(name, cfg.Search, cfg.FallbackGreedy)
		if err != nil {
			closeWriter()
			return nil, err
		}

		logger.Info("evaluating", "actor", name, "episodes", cfg.Eval.Episodes, "workers", cfg.Eval.Workers)
		summary, err := selfplay.Evaluate(ctx, cfg.Eval, factory, func(i int, res selfplay.EpisodeResult) {
			logger.Debug("episode finished", "actor", name, "episode", i, "seed", res.Seed, "score", res.FinalScore, "duration", res.Duration)
			if rows != nil {
				rows <- rowFromResult(name, searchCfg, cfg.Eval.Settings, res)
			}
			if onEpisode != nil {
				onEpisode(episodeUpdate{Actor: name, Episode: i, Score: res.FinalScore, Duration: res.Duration})
			}
		})
		if err != nil {
			closeWriter()
			return nil, fmt.Errorf("evaluate %s: %w", name, err)
		}

		logger.Info("actor summary",
			"actor", name,
			"episodes", summary.Episodes,
			"mean", summary.MeanScore,
			"stddev", summary.StdDev,
			"min", summary.MinScore,
			"median", summary.MedianScore,
			"max", summary.MaxScore,
			"elapsed", summary.Elapsed,
		)

		scores := make([]float64, len(summary.Results))
		for i, r := range summary.Results {
			scores[i] = float64(r.FinalScore)
		}
		series = append(series, report.Series{Name: name, Scores: scores})
	}

	if st := closeWriter(); st.Files > 0 {
		logger.Info("episodes archived", "dir", cfg.OutDir, "files", st.Files, "rows", st.Rows)
	}
	return series, nil
}

// runWithTUI runs the evaluation in the background while the progress view
// owns the terminal.
func runWithTUI(ctx context.Context, cfg runConfig, logger *slog.Logger) ([]report.Series, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan episodeUpdate, 64)
	total := cfg.Eval.Episodes * len(cfg.Actors)
	p := tea.NewProgram(initialModel(updates, total))

	var (
		series   []report.Series
		runErr   error
		finished = make(chan struct{})
	)
	go func() {
		defer close(finished)
		series, runErr = run(ctx, cfg, logger, func(u episodeUpdate) {
			select {
			case updates <- u:
			case <-ctx.Done():
			}
		})
		p.Send(doneMsg{err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-finished
		return nil, err
	}
	// The view also quits on a key press; stop the run in that case.
	cancel()
	<-finished
	return series, runErr
}
