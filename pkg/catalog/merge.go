package catalog

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/robcrawl/roblox-games-crawler/pkg/logging"
)

var (
	crawlerBatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crawler_detail_batches_total",
		Help: "Total number of detail batches fetched",
	})

	crawlerGamesMerged = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_games_merged",
		Help: "Number of merged game records accumulated in the current run",
	})
)

// DetailSource provides bulk details for a batch of universe ids.
type DetailSource interface {
	FetchDetails(ctx context.Context, ids []int64) []GameDetails
}

// Merger batches universe ids, fetches their details, and joins the detail
// records back onto the basic records.
type Merger struct {
	details    DetailSource
	batchDelay time.Duration
	logger     zerolog.Logger
}

// NewMerger creates a merger over the given detail source.
func NewMerger(details DetailSource, batchDelay time.Duration) *Merger {
	return &Merger{
		details:    details,
		batchDelay: batchDelay,
		logger:     logging.NewLogger("merger"),
	}
}

// MergeAndBatch partitions the ids of games into consecutive batches of
// batchSize, fetches details per batch, and left-joins each detail record
// with the counters of the matching basic record. A merged record exists
// only for ids present on both sides; everything else is dropped silently.
func (m *Merger) MergeAndBatch(ctx context.Context, games []Game, batchSize int) []MergedGame {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	// Join keyed by universe id; first record wins on duplicates, matching
	// the first-match semantics of a linear scan.
	byID := make(map[int64]Game, len(games))
	for _, g := range games {
		if _, ok := byID[g.UniverseID]; !ok {
			byID[g.UniverseID] = g
		}
	}

	merged := make([]MergedGame, 0, len(games))
	for start := 0; start < len(games); start += batchSize {
		end := min(start+batchSize, len(games))

		ids := make([]int64, 0, end-start)
		for _, g := range games[start:end] {
			ids = append(ids, g.UniverseID)
		}

		m.logger.Info().
			Int("batch_size", len(ids)).
			Int("merged", len(merged)).
			Int("total", len(games)).
			Msg("Fetching details batch")

		for _, d := range m.details.FetchDetails(ctx, ids) {
			basic, ok := byID[d.UniverseID]
			if !ok {
				continue
			}
			merged = append(merged, MergedGame{
				GameDetails: d,
				PlayerCount: basic.PlayerCount,
				Upvotes:     basic.Upvotes,
				Downvotes:   basic.Downvotes,
			})
		}

		crawlerBatchesTotal.Inc()
		crawlerGamesMerged.Set(float64(len(merged)))

		if end < len(games) {
			if !sleepCtx(ctx, m.batchDelay) {
				m.logger.Warn().
					Int("merged", len(merged)).
					Msg("Merging cancelled")
				break
			}
		}
	}

	return merged
}
