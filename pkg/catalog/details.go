package catalog

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robcrawl/roblox-games-crawler/pkg/client"
	"github.com/robcrawl/roblox-games-crawler/pkg/logging"
)

// DetailConfig holds the games (detail) endpoint settings.
type DetailConfig struct {
	// GamesURL is the games API base URL (no query string).
	GamesURL string
}

// DetailFetcher looks up bulk details for batches of universe ids.
type DetailFetcher struct {
	client *client.Client
	cfg    DetailConfig
	logger zerolog.Logger
}

// NewDetailFetcher creates a detail fetcher.
func NewDetailFetcher(c *client.Client, cfg DetailConfig) *DetailFetcher {
	return &DetailFetcher{
		client: c,
		cfg:    cfg,
		logger: logging.NewLogger("detail-fetcher"),
	}
}

// FetchDetails fetches details for one batch of ids in a single request.
// Rate-limit responses are retried by the client with backoff; any failure
// that survives retries logs and yields an empty batch, never an error.
// Entries without an id are skipped.
func (f *DetailFetcher) FetchDetails(ctx context.Context, ids []int64) []GameDetails {
	if len(ids) == 0 {
		return nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.FormatInt(id, 10)
	}
	params := url.Values{"universeIds": {strings.Join(strIDs, ",")}}

	var resp gamesResponse
	if err := f.client.GetJSON(ctx, f.cfg.GamesURL+"?"+params.Encode(), &resp); err != nil {
		f.logger.Error().
			Err(err).
			Int("batch_size", len(ids)).
			Msg("Detail fetch failed, skipping batch")
		return nil
	}

	details := make([]GameDetails, 0, len(resp.Data))
	for _, p := range resp.Data {
		if p.ID == nil {
			continue
		}
		details = append(details, p.toDetails())
	}
	return details
}
