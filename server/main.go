// Package main serves beam search moves and episode views over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brensch/gridbeam/config"
	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/game"
	"github.com/brensch/gridbeam/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	listen := fs.String("listen", config.EnvOrDefault(config.EnvListen, ":8080"), "HTTP listen address")
	strategy := fs.String("strategy", config.EnvOrDefault(config.EnvStrategy, string(search.StrategyPriorityTimed)), "Default beam strategy")
	beamWidth := fs.Int("beam-width", config.EnvIntOrDefault(config.EnvBeamWidth, 10), "Default beam width")
	maxDepth := fs.Int("max-depth", config.EnvIntOrDefault(config.EnvMaxDepth, game.DefaultSettings.EndTurn), "Default beam depth")
	timeBudget := fs.Duration("time-budget", config.EnvDurationOrDefault(config.EnvTimeBudget, 50*time.Millisecond), "Default budget for priority_time_bounded")
	moveTimeout := fs.Duration("move-timeout", 500*time.Millisecond, "Hard limit on a single move request")
	archiveDir := fs.String("archive-dir", config.EnvOrDefault(config.EnvOutDir, ""), "Directory of evaluation parquet batches to serve")
	logFormat := fs.String("log-format", config.EnvOrDefault(config.EnvLogFormat, logging.FormatText), "Log format: text, json or pretty")
	logLevel := fs.String("log-level", "info", "Log level")

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("flag parse: %v", err)
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("invalid -log-level: %v", err)
	}
	logger, err := logging.New(os.Stderr, *logFormat, level)
	if err != nil {
		log.Fatalf("invalid -log-format: %v", err)
	}

	st, err := search.ParseStrategy(*strategy)
	if err != nil {
		log.Fatalf("invalid -strategy: %v", err)
	}
	defaults := search.Config{Strategy: st, Width: *beamWidth, MaxDepth: *maxDepth, TimeBudget: *timeBudget}
	if err := defaults.Validate(); err != nil {
		log.Fatalf("invalid search defaults: %v", err)
	}
	if *moveTimeout <= 0 {
		log.Fatalf("invalid -move-timeout: %s", *moveTimeout)
	}

	gin.SetMode(gin.ReleaseMode)
	server := NewServer(defaults, game.DefaultSettings, *moveTimeout, *archiveDir, logger)

	srv := &http.Server{
		Addr:              *listen,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "addr", *listen, "strategy", defaults.Strategy, "width", defaults.Width)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
