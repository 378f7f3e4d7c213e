package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/gridbeam/store"
)

func archiveRows() []store.EpisodeRow {
	return []store.EpisodeRow{
		{EpisodeID: "a", Seed: 1, Strategy: "partial_sort", FinalScore: 29, Turns: 4},
		{EpisodeID: "b", Seed: 2, Strategy: "greedy", FinalScore: 11, Turns: 4},
		{EpisodeID: "c", Seed: 3, Strategy: "partial_sort", FinalScore: 20, Turns: 4},
	}
}

func TestSummarizeBatch(t *testing.T) {
	sum := summarizeBatch("x.parquet", archiveRows())
	assert.Equal(t, 3, sum.Episodes)
	assert.Equal(t, []string{"partial_sort", "greedy"}, sum.Strategies)
	assert.InDelta(t, 20.0, sum.MeanScore, 1e-9)
	assert.Equal(t, int32(29), sum.MaxScore)

	empty := summarizeBatch("y.parquet", nil)
	assert.Zero(t, empty.Episodes)
	assert.Zero(t, empty.MeanScore)
}

func TestBatches(t *testing.T) {
	dir := t.TempDir()
	path, err := store.WriteEpisodesParquetAtomic(dir, archiveRows())
	require.NoError(t, err)
	name := filepath.Base(path)
	router := newArchiveServer(dir).Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/batches", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list []BatchSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, name, list[0].Name)
	assert.Equal(t, 3, list[0].Episodes)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/batches/"+name, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var batch struct {
		Summary  BatchSummary       `json:"summary"`
		Episodes []store.EpisodeRow `json:"episodes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, 3, batch.Summary.Episodes)
	require.Len(t, batch.Episodes, 3)
	assert.Equal(t, "a", batch.Episodes[0].EpisodeID)
}

func TestBatches_NotFound(t *testing.T) {
	router := newArchiveServer(t.TempDir()).Router()
	for _, target := range []string{
		"/v1/batches/missing.parquet",
		"/v1/batches/notes.txt",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, target)
	}
}

func TestBatches_NoArchive(t *testing.T) {
	for _, dir := range []string{"", filepath.Join(t.TempDir(), "absent")} {
		router := newArchiveServer(dir).Router()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/batches", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	}
}
