package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv(EnvStrategy, "priority")
	t.Setenv(EnvBeamWidth, "12")
	t.Setenv(EnvSeed, "-7")
	t.Setenv(EnvTimeBudget, "250ms")
	t.Setenv(EnvMaxDepth, "deep")
	t.Setenv("GRIDBEAM_COLOR", "yes")

	assert.Equal(t, "priority", EnvOrDefault(EnvStrategy, "partial_sort"))
	assert.Equal(t, "out", EnvOrDefault(EnvOutDir, "out"))
	assert.Equal(t, 12, EnvIntOrDefault(EnvBeamWidth, 1))
	assert.Equal(t, 10, EnvIntOrDefault(EnvMaxDepth, 10), "unparsable values fall back")
	assert.Equal(t, int64(-7), EnvInt64OrDefault(EnvSeed, 0))
	assert.Equal(t, 250*time.Millisecond, EnvDurationOrDefault(EnvTimeBudget, time.Second))
	assert.Equal(t, time.Second, EnvDurationOrDefault(EnvWorkers, time.Second))
	assert.True(t, EnvBoolOrDefault("GRIDBEAM_COLOR", false))
	assert.False(t, EnvBoolOrDefault("GRIDBEAM_UNSET_FLAG", false))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GRIDBEAM_WORKERS=3\nGRIDBEAM_LISTEN=:9000\n"), 0o644))

	// Already-set variables are not overridden.
	t.Setenv(EnvListen, ":8080")
	t.Setenv(EnvWorkers, "")
	require.NoError(t, os.Unsetenv(EnvWorkers))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, 3, EnvIntOrDefault(EnvWorkers, 1))
	assert.Equal(t, ":8080", EnvOrDefault(EnvListen, ""))
}

func TestLoadDotEnv_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(path, []byte("GRIDBEAM_SEED='unterminated\n"), 0o644))
	assert.Error(t, LoadDotEnv(path))
}
