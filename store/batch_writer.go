package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

var ErrWriterClosed = errors.New("episode writer is closed")

// EpisodeWriter streams rows into one batch file under outDir/tmp and moves
// it into outDir on Finalize. It is not safe for concurrent use.
type EpisodeWriter struct {
	tmpPath string
	outPath string

	file   *os.File
	writer *parquet.GenericWriter[EpisodeRow]

	rows int
}

func NewEpisodeWriter(outDir string) (*EpisodeWriter, error) {
	if outDir == "" {
		return nil, fmt.Errorf("outDir is required")
	}

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		absOut = outDir
	}
	tmpDir := filepath.Join(absOut, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	name := batchName()
	tmpPath := filepath.Join(tmpDir, name)
	outPath := filepath.Join(absOut, name)

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tmp parquet: %w", err)
	}

	w := parquet.NewGenericWriter[EpisodeRow](f, writerOptions()...)

	return &EpisodeWriter{
		tmpPath: tmpPath,
		outPath: outPath,
		file:    f,
		writer:  w,
	}, nil
}

func (e *EpisodeWriter) TmpPath() string { return e.tmpPath }
func (e *EpisodeWriter) OutPath() string { return e.outPath }
func (e *EpisodeWriter) Rows() int       { return e.rows }

func (e *EpisodeWriter) Write(rows ...EpisodeRow) error {
	if e.writer == nil || e.file == nil {
		return ErrWriterClosed
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := e.writer.Write(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	e.rows += len(rows)
	return nil
}

// Finalize closes the parquet writer and moves the file from tmp/ to outDir.
// If no rows were written, the tmp file is removed and outPath is returned empty.
// Calling Finalize again is a no-op.
func (e *EpisodeWriter) Finalize() (outPath string, rows int, err error) {
	if e.writer == nil && e.file == nil {
		return "", 0, nil
	}

	rows = e.rows
	outPath = e.outPath

	var closeErr error
	if e.writer != nil {
		closeErr = e.writer.Close()
		e.writer = nil
	}
	var fileErr error
	if e.file != nil {
		_ = e.file.Sync()
		fileErr = e.file.Close()
		e.file = nil
	}
	if closeErr != nil {
		return "", 0, fmt.Errorf("close parquet writer: %w", closeErr)
	}
	if fileErr != nil {
		return "", 0, fmt.Errorf("close parquet file: %w", fileErr)
	}

	if rows == 0 {
		_ = os.Remove(e.tmpPath)
		return "", 0, nil
	}
	if err := os.Rename(e.tmpPath, e.outPath); err != nil {
		return "", 0, fmt.Errorf("rename parquet: %w", err)
	}
	return outPath, rows, nil
}
