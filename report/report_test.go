package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "width sweep", []Series{
		{Name: "greedy", Scores: []float64{11, 14, 9}},
		{Name: "partial_sort", Scores: []float64{29, 31, 27}},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "width sweep")
	assert.Contains(t, html, "partial_sort")
	assert.Contains(t, html, "mean score")
}

func TestRender_NoSeries(t *testing.T) {
	assert.ErrorIs(t, Render(&bytes.Buffer{}, "empty", nil), ErrNoSeries)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "run.html")
	require.NoError(t, WriteFile(path, "run", []Series{{Name: "random", Scores: []float64{1}}}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "random")
}
