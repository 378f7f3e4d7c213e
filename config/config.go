// Package config reads command defaults from the environment and optional
// .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvStrategy   = "GRIDBEAM_STRATEGY"
	EnvBeamWidth  = "GRIDBEAM_BEAM_WIDTH"
	EnvMaxDepth   = "GRIDBEAM_MAX_DEPTH"
	EnvTimeBudget = "GRIDBEAM_TIME_BUDGET"
	EnvEpisodes   = "GRIDBEAM_EPISODES"
	EnvSeed       = "GRIDBEAM_SEED"
	EnvWorkers    = "GRIDBEAM_WORKERS"
	EnvOutDir     = "GRIDBEAM_OUT_DIR"
	EnvListen     = "GRIDBEAM_LISTEN"
	EnvLogFormat  = "GRIDBEAM_LOG_FORMAT"

	EnvFallbackGreedy = "GRIDBEAM_FALLBACK_GREEDY"
)

// LoadDotEnv loads the given files (".env" when none are given) into the
// process environment. Variables already set win, and missing files are
// skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func EnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func EnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func EnvInt64OrDefault(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func EnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func EnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
