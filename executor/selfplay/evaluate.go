package selfplay

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/seehuhn/mt19937"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/brensch/gridbeam/executor/actor"
	"github.com/brensch/gridbeam/game"
)

var ErrInvalidEvalConfig = errors.New("invalid evaluation config")

// EvalConfig describes a batch of independent episodes. Workers <= 0 uses
// GOMAXPROCS.
type EvalConfig struct {
	Episodes int
	Seed     int64
	Workers  int
	Settings game.Settings
}

// Summary aggregates the final scores of a batch. Results are ordered by
// episode index.
type Summary struct {
	Episodes    int
	MeanScore   float64
	StdDev      float64
	MinScore    float64
	MaxScore    float64
	MedianScore float64
	Results     []EpisodeResult
	Elapsed     time.Duration
}

// Seeds returns n episode seeds drawn from a Mersenne Twister seeded with base.
func Seeds(base int64, n int) []int64 {
	rng := mt19937.New()
	rng.Seed(base)
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}
	return seeds
}

// Evaluate plays cfg.Episodes episodes on at most cfg.Workers goroutines.
// newActor is called once per episode and the actor it returns is only used
// by that episode. onEpisode, when set, is never called concurrently.
// The first episode error cancels the remaining episodes.
func Evaluate(ctx context.Context, cfg EvalConfig, newActor func(episode int, seed int64) actor.Actor, onEpisode func(int, EpisodeResult)) (Summary, error) {
	if cfg.Episodes <= 0 {
		return Summary{}, fmt.Errorf("%w: episodes must be positive, got %d", ErrInvalidEvalConfig, cfg.Episodes)
	}
	if err := cfg.Settings.Validate(); err != nil {
		return Summary{}, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	begin := time.Now()
	seeds := Seeds(cfg.Seed, cfg.Episodes)
	results := make([]EpisodeResult, cfg.Episodes)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seed := range seeds {
		g.Go(func() error {
			res, err := PlayEpisode(gctx, "", seed, cfg.Settings, newActor(i, seed), nil)
			if err != nil {
				return fmt.Errorf("episode %d (seed %d): %w", i, seed, err)
			}
			results[i] = res
			if onEpisode != nil {
				mu.Lock()
				onEpisode(i, res)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summarize(results)
	sum.Elapsed = time.Since(begin)
	return sum, nil
}

// Summarize computes score statistics over results. StdDev is the sample
// standard deviation and is 0 for a single episode.
func Summarize(results []EpisodeResult) Summary {
	sum := Summary{Episodes: len(results), Results: results}
	if len(results) == 0 {
		return sum
	}

	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = float64(r.FinalScore)
	}
	sum.MeanScore = stat.Mean(scores, nil)
	if len(scores) > 1 {
		sum.StdDev = stat.StdDev(scores, nil)
	}
	sum.MinScore = floats.Min(scores)
	sum.MaxScore = floats.Max(scores)

	sorted := slices.Clone(scores)
	slices.Sort(sorted)
	sum.MedianScore = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return sum
}
