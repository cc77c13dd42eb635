package catalog

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/robcrawl/roblox-games-crawler/pkg/client"
	"github.com/robcrawl/roblox-games-crawler/pkg/logging"
)

// ListConfig holds the explore endpoint settings.
type ListConfig struct {
	// ExploreURL is the explore API base URL (no query string).
	ExploreURL string

	// SessionID is sent with every explore request.
	SessionID string

	// PageDelay is the pause between page fetches.
	PageDelay time.Duration
}

// ListFetcher walks the cursor-paginated explore endpoint and accumulates
// lightweight game records.
type ListFetcher struct {
	client *client.Client
	cfg    ListConfig
	logger zerolog.Logger
}

// NewListFetcher creates a list fetcher.
func NewListFetcher(c *client.Client, cfg ListConfig) *ListFetcher {
	return &ListFetcher{
		client: c,
		cfg:    cfg,
		logger: logging.NewLogger("list-fetcher"),
	}
}

// FetchGames fetches games until maxGames are collected, the endpoint stops
// returning a next-page cursor, or a page fails. Failures end pagination and
// are never surfaced: the accumulated records are returned as-is, truncated
// to maxGames. Items without a universe id are skipped.
func (f *ListFetcher) FetchGames(ctx context.Context, maxGames int) []Game {
	var games []Game
	pageToken := ""

	for len(games) < maxGames {
		params := url.Values{
			"sessionId":     {f.cfg.SessionID},
			"device":        {"computer"},
			"country":       {"all"},
			"cpuCores":      {"24"},
			"maxResolution": {"1707x1067"},
			"maxMemory":     {"8192"},
			"networkType":   {"4g"},
		}
		if pageToken != "" {
			params.Set("sortsPageToken", pageToken)
		}

		var page exploreResponse
		if err := f.client.GetJSON(ctx, f.cfg.ExploreURL+"?"+params.Encode(), &page); err != nil {
			f.logger.Error().
				Err(err).
				Int("collected", len(games)).
				Msg("Explore page fetch failed, stopping pagination")
			break
		}

		for _, sort := range page.Sorts {
			for _, g := range sort.Games {
				if g.UniverseID == nil {
					continue
				}
				games = append(games, g.toGame())
			}
		}

		if page.NextSortsPageToken == "" {
			f.logger.Info().
				Int("collected", len(games)).
				Msg("No more pages available")
			break
		}
		pageToken = page.NextSortsPageToken

		if len(games) >= maxGames {
			break
		}

		f.logger.Info().
			Int("collected", len(games)).
			Int("target", maxGames).
			Msg("Explore page fetched")

		if !sleepCtx(ctx, f.cfg.PageDelay) {
			f.logger.Warn().
				Int("collected", len(games)).
				Msg("Pagination cancelled")
			break
		}
	}

	if len(games) > maxGames {
		games = games[:maxGames]
	}
	return games
}

// sleepCtx pauses for d unless the context is cancelled first. It reports
// whether the full pause elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
