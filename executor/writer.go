package main

import (
	"log/slog"

	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/executor/selfplay"
	"github.com/brensch/gridbeam/game"
	"github.com/brensch/gridbeam/store"
)

type writerStats struct {
	Files int
	Rows  int
}

func rowFromResult(actorName string, cfg search.Config, settings game.Settings, res selfplay.EpisodeResult) store.EpisodeRow {
	actions := make([]int32, len(res.Actions))
	for i, a := range res.Actions {
		actions[i] = int32(a)
	}
	scores := make([]int32, len(res.Scores))
	for i, s := range res.Scores {
		scores[i] = int32(s)
	}
	return store.EpisodeRow{
		EpisodeID:    res.EpisodeID,
		Seed:         res.Seed,
		Strategy:     actorName,
		BeamWidth:    int32(cfg.Width),
		MaxDepth:     int32(cfg.MaxDepth),
		TimeBudgetMS: cfg.TimeBudget.Milliseconds(),
		Width:        int32(settings.Width),
		Height:       int32(settings.Height),
		EndTurn:      int32(settings.EndTurn),
		FinalScore:   int32(res.FinalScore),
		Turns:        int32(res.Turns),
		Actions:      actions,
		Scores:       scores,
		DurationMS:   res.Duration.Milliseconds(),
	}
}

// parquetWriterLoop buffers rows from in and flushes a batch file every
// episodesPerFlush rows, plus a final partial batch once in is closed.
func parquetWriterLoop(outDir string, episodesPerFlush int, in <-chan store.EpisodeRow, logger *slog.Logger) writerStats {
	if episodesPerFlush <= 0 {
		episodesPerFlush = 500
	}

	var st writerStats
	pending := make([]store.EpisodeRow, 0, episodesPerFlush)
	flush := func(final bool) {
		if len(pending) == 0 {
			return
		}
		outPath, err := store.WriteEpisodesParquetAtomic(outDir, pending)
		if err != nil {
			logger.Error("parquet flush failed", "rows", len(pending), "final", final, "err", err)
		} else {
			logger.Info("parquet flush ok", "path", outPath, "rows", len(pending), "final", final)
			st.Files++
			st.Rows += len(pending)
		}
		pending = pending[:0]
	}

	for row := range in {
		pending = append(pending, row)
		if len(pending) >= episodesPerFlush {
			flush(false)
		}
	}
	flush(true)
	return st
}
