// Command roblox-crawler walks the Roblox explore API, fetches bulk game
// details for every discovered universe, and writes the merged records to a
// CSV file. Crawl failures degrade to partial output; the run fails only
// when the output file cannot be written.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/robcrawl/roblox-games-crawler/pkg/cache"
	"github.com/robcrawl/roblox-games-crawler/pkg/catalog"
	"github.com/robcrawl/roblox-games-crawler/pkg/client"
	"github.com/robcrawl/roblox-games-crawler/pkg/config"
	"github.com/robcrawl/roblox-games-crawler/pkg/export"
	"github.com/robcrawl/roblox-games-crawler/pkg/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		logger := logging.Setup(logging.DefaultConfig())
		logger.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	logger := logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})

	// SIGINT/SIGTERM cancel the crawl; whatever was collected still gets written.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		startMetricsServer(cfg.MetricsAddr, logger)
	}

	sessionID := cfg.API.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var cacheManager *cache.Manager
	if cfg.Cache.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// The cache is an optimization; a dead Redis never blocks a crawl.
			logger.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).
				Msg("Redis unavailable, response cache disabled")
			redisClient.Close()
		} else {
			defer redisClient.Close()
			cacheManager = cache.NewManager(redisClient, cfg.Cache.TTL)
			logger.Info().Str("addr", cfg.Cache.RedisAddr).
				Dur("ttl", cfg.Cache.TTL).Msg("Response cache enabled")
		}
	}

	httpClient, err := client.New(client.Config{
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.API.RequestTimeout,
		Retry: client.RetrySettings{
			MaxAttempts:      cfg.Retry.MaxAttempts,
			RateLimitBackoff: cfg.Retry.RateLimitBackoff,
			NetworkBackoff:   cfg.Retry.NetworkBackoff,
			MaxBackoff:       cfg.Retry.MaxBackoff,
			Multiplier:       cfg.Retry.Multiplier,
		},
		Cache: cacheManager,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create HTTP client")
		return 1
	}

	logger.Info().
		Str("session_id", sessionID).
		Int("max_games", cfg.Crawl.MaxGames).
		Int("batch_size", cfg.Crawl.BatchSize).
		Msg("Starting crawl")
	start := time.Now()

	lister := catalog.NewListFetcher(httpClient, catalog.ListConfig{
		ExploreURL: cfg.API.ExploreURL,
		SessionID:  sessionID,
		PageDelay:  cfg.Crawl.PageDelay,
	})
	games := lister.FetchGames(ctx, cfg.Crawl.MaxGames)
	logger.Info().Int("games", len(games)).Msg("Basic records collected")

	detailer := catalog.NewDetailFetcher(httpClient, catalog.DetailConfig{
		GamesURL: cfg.API.GamesURL,
	})
	merger := catalog.NewMerger(detailer, cfg.Crawl.BatchDelay)
	merged := merger.MergeAndBatch(ctx, games, cfg.Crawl.BatchSize)
	logger.Info().Int("merged", len(merged)).Msg("Detail records merged")

	if err := export.WriteFile(cfg.Output.Path, merged); err != nil {
		logger.Error().Err(err).Str("path", cfg.Output.Path).Msg("Failed to write output")
		return 1
	}

	logger.Info().
		Str("path", cfg.Output.Path).
		Int("rows", len(merged)).
		Dur("duration", time.Since(start)).
		Msg("Crawl complete")
	return 0
}

// startMetricsServer serves /metrics and /health for the duration of the run.
func startMetricsServer(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler)

	go func() {
		logger.Info().Str("addr", addr).Msg("Serving metrics")
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			logger.Warn().Err(err).Msg("Metrics server stopped")
		}
	}()
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}
