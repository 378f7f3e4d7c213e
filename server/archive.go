package main

import (
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gonum.org/v1/gonum/stat"

	"github.com/brensch/gridbeam/store"
)

// BatchSummary describes one archived evaluation batch.
type BatchSummary struct {
	Name       string   `json:"name"`
	Episodes   int      `json:"episodes"`
	Strategies []string `json:"strategies"`
	MeanScore  float64  `json:"mean_score"`
	MaxScore   int32    `json:"max_score"`
}

func summarizeBatch(name string, rows []store.EpisodeRow) BatchSummary {
	sum := BatchSummary{Name: name, Episodes: len(rows), Strategies: []string{}}
	seen := make(map[string]bool)
	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = float64(r.FinalScore)
		if i == 0 || r.FinalScore > sum.MaxScore {
			sum.MaxScore = r.FinalScore
		}
		if !seen[r.Strategy] {
			seen[r.Strategy] = true
			sum.Strategies = append(sum.Strategies, r.Strategy)
		}
	}
	if len(rows) > 0 {
		sum.MeanScore = stat.Mean(scores, nil)
	}
	return sum
}

// handleBatches lists the finished batches in the archive directory.
// Unreadable files are skipped.
func (s *Server) handleBatches(c *gin.Context) {
	out := []BatchSummary{}
	if s.archiveDir == "" {
		c.JSON(http.StatusOK, out)
		return
	}
	paths, err := store.ListBatches(s.archiveDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusOK, out)
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	for _, p := range paths {
		rows, err := store.ReadEpisodesParquet(p)
		if err != nil {
			s.logger.Warn("skipping unreadable batch", "path", p, "err", err)
			continue
		}
		out = append(out, summarizeBatch(filepath.Base(p), rows))
	}
	c.JSON(http.StatusOK, out)
}

// handleBatch returns every episode row of one batch.
func (s *Server) handleBatch(c *gin.Context) {
	name := c.Param("name")
	if s.archiveDir == "" || !strings.HasSuffix(name, ".parquet") || name != filepath.Base(name) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "batch not found"})
		return
	}
	rows, err := store.ReadEpisodesParquet(filepath.Join(s.archiveDir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "batch not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":  summarizeBatch(name, rows),
		"episodes": rows,
	})
}
