// Package store archives evaluated episodes as zstd-compressed Parquet batch
// files.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// SchemaVersion is written into every file's key/value metadata under "schema".
const SchemaVersion = "episode_v1"

// EpisodeRow is one evaluated episode.
//
// Actions holds action ids (0=right, 1=left, 2=down, 3=up) in play order and
// Scores the accumulated score after each of them. Search parameters are zero
// for actors that do not search.
type EpisodeRow struct {
	EpisodeID    string `parquet:"episode_id,dict"`
	Seed         int64  `parquet:"seed"`
	Strategy     string `parquet:"strategy,dict"`
	BeamWidth    int32  `parquet:"beam_width"`
	MaxDepth     int32  `parquet:"max_depth"`
	TimeBudgetMS int64  `parquet:"time_budget_ms"`

	Width   int32 `parquet:"width"`
	Height  int32 `parquet:"height"`
	EndTurn int32 `parquet:"end_turn"`

	FinalScore int32   `parquet:"final_score"`
	Turns      int32   `parquet:"turns"`
	Actions    []int32 `parquet:"actions"`
	Scores     []int32 `parquet:"scores"`
	DurationMS int64   `parquet:"duration_ms"`
}

func writerOptions() []parquet.WriterOption {
	return []parquet.WriterOption{
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", SchemaVersion),
	}
}

func batchName() string {
	return fmt.Sprintf("batch_%d.parquet", time.Now().UnixNano())
}

// WriteEpisodesParquetAtomic writes a Parquet file into outDir/tmp and then
// moves it into outDir, so readers never observe a partial file.
// The returned path is the final parquet file path.
func WriteEpisodesParquetAtomic(outDir string, rows []EpisodeRow) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := batchName()
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows, writerOptions()...); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}

	return finalPath, nil
}

// ReadEpisodesParquet reads every row of one batch file.
func ReadEpisodesParquet(path string) ([]EpisodeRow, error) {
	rows, err := parquet.ReadFile[EpisodeRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows, nil
}

// ListBatches returns the finished batch files in outDir, oldest first.
// Files still in outDir/tmp are not included.
func ListBatches(outDir string) ([]string, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".parquet") {
			continue
		}
		paths = append(paths, filepath.Join(outDir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}
