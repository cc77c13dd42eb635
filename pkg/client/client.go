// Package client provides the HTTP client used against the Roblox endpoints,
// with error classification, capped retry, and an optional response cache.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robcrawl/roblox-games-crawler/pkg/cache"
)

// Prometheus metrics for upstream requests.
var (
	crawlerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_requests_total",
		Help: "Total upstream requests by endpoint and status",
	}, []string{"endpoint", "status"})

	crawlerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crawler_request_duration_seconds",
		Help:    "Upstream request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	crawlerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors other than 429.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents transport errors and timeouts.
	ErrorClassNetwork ErrorClass = "network"
)

// Config holds the client configuration.
type Config struct {
	// User-Agent header sent with every request
	UserAgent string

	// Timeout per request; a timeout classifies as a network error
	Timeout time.Duration

	// Retry policy for rate-limit and network failures
	Retry RetrySettings

	// Cache is the optional response cache (nil disables caching)
	Cache *cache.Manager
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
		Retry:     DefaultRetrySettings(),
	}
}

// Client issues GET requests against the Roblox endpoints.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetrySettings()
	}

	logger := log.With().Str("component", "http-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cfg.Cache,
		config: cfg,
		logger: logger,
	}, nil
}

// GetJSON performs a GET against rawURL and decodes the JSON response body
// into out. Rate-limit (429) responses and network failures are retried with
// capped exponential backoff; any other non-success status is returned as an
// *APIError without retry. When a cache is configured, a fresh cached body
// short-circuits the request entirely.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	endpoint := u.Path

	startTime := time.Now()
	defer func() {
		crawlerRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	var cacheKey cache.Key
	if c.cache != nil {
		cacheKey = cache.Key{Endpoint: endpoint, Query: u.Query()}

		entry, cerr := c.cache.Get(ctx, cacheKey)
		switch {
		case cerr == nil:
			if uerr := json.Unmarshal(entry.Body, out); uerr == nil {
				c.logger.Debug().
					Str("endpoint", endpoint).
					Dur("age", entry.Age()).
					Msg("Serving response from cache")
				return nil
			}
			// Corrupt cached body: drop it and fall through to a live request
			c.logger.Warn().Str("endpoint", endpoint).Msg("Invalid cached body, refetching")
			_ = c.cache.Delete(ctx, cacheKey)
		case cerr != cache.ErrCacheMiss:
			c.logger.Warn().Err(cerr).Str("endpoint", endpoint).Msg("Cache get error")
		}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Msg("Executing upstream request")

	var body []byte
	retryErr := retryWithBackoff(ctx, c.config.Retry, c.logger, func() (ErrorClass, error) {
		req, rerr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if rerr != nil {
			return ErrorClassClient, fmt.Errorf("create request: %w", rerr)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		req.Header.Set("Accept", "application/json")

		resp, derr := c.httpClient.Do(req)
		if derr != nil {
			crawlerErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			crawlerRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			c.logger.Warn().Err(derr).Str("endpoint", endpoint).Msg("HTTP request failed")
			return ErrorClassNetwork, fmt.Errorf("execute request: %w", derr)
		}
		defer resp.Body.Close()

		crawlerRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode != http.StatusOK {
			errClass := classifyStatus(resp.StatusCode)
			crawlerErrorsTotal.WithLabelValues(string(errClass)).Inc()
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Msg("Upstream request error")
			return errClass, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: errClass,
				Message:    resp.Status,
			}
		}

		data, rderr := io.ReadAll(resp.Body)
		if rderr != nil {
			crawlerErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return ErrorClassNetwork, fmt.Errorf("read response body: %w", rderr)
		}
		body = data
		return "", nil
	})
	if retryErr != nil {
		return retryErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if c.cache != nil {
		if cerr := c.cache.Set(ctx, cacheKey, cache.NewEntry(body, http.StatusOK)); cerr != nil {
			c.logger.Warn().Err(cerr).Str("endpoint", endpoint).Msg("Failed to cache response")
		}
	}

	return nil
}

// classifyStatus categorizes a non-success HTTP status for retry and
// observability decisions.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
