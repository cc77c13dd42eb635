package client

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for retry operations.
var (
	crawlerRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	crawlerRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crawler_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"error_class"})

	crawlerRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// RetrySettings holds the configuration for retry logic.
type RetrySettings struct {
	// MaxAttempts is the maximum number of attempts (including the initial request).
	MaxAttempts int

	// RateLimitBackoff is the initial backoff after a 429 response.
	RateLimitBackoff time.Duration

	// NetworkBackoff is the initial backoff after a transport error or timeout.
	NetworkBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// Multiplier is the multiplier for exponential backoff.
	Multiplier float64
}

// DefaultRetrySettings returns the default retry configuration.
func DefaultRetrySettings() RetrySettings {
	return RetrySettings{
		MaxAttempts:      5,
		RateLimitBackoff: 5 * time.Second,
		NetworkBackoff:   2 * time.Second,
		MaxBackoff:       60 * time.Second,
		Multiplier:       2.0,
	}
}

// initialBackoff returns the first-retry backoff for an error class.
func (s RetrySettings) initialBackoff(errorClass ErrorClass) time.Duration {
	if errorClass == ErrorClassRateLimit {
		return s.RateLimitBackoff
	}
	return s.NetworkBackoff
}

// retryWithBackoff executes a function with capped exponential backoff.
// fn reports the class of each failure so that rate-limit responses get
// their longer initial backoff. Non-retriable failures return immediately.
// The loop respects context cancellation and adds jitter to the waits.
func retryWithBackoff(ctx context.Context, settings RetrySettings, logger zerolog.Logger, fn func() (ErrorClass, error)) error {
	var lastErr error

	for attempt := 1; attempt <= settings.MaxAttempts; attempt++ {
		errorClass, err := fn()
		if err == nil {
			if attempt > 1 {
				logger.Info().
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		lastErr = err

		if !shouldRetry(errorClass) {
			return lastErr
		}

		// If this was the last attempt, don't wait
		if attempt >= settings.MaxAttempts {
			crawlerRetryExhaustedTotal.WithLabelValues(string(errorClass)).Inc()
			logger.Warn().
				Str("error_class", string(errorClass)).
				Int("max_attempts", settings.MaxAttempts).
				Msg("Retry attempts exhausted")
			return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, settings.MaxAttempts, lastErr)
		}

		crawlerRetriesTotal.WithLabelValues(string(errorClass)).Inc()

		backoff := settings.initialBackoff(errorClass)
		for i := 1; i < attempt; i++ {
			backoff = time.Duration(float64(backoff) * settings.Multiplier)
		}
		if backoff > settings.MaxBackoff {
			backoff = settings.MaxBackoff
		}

		// Add jitter (±20% randomness)
		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		crawlerRetryBackoffSeconds.WithLabelValues(string(errorClass)).Observe(jitter.Seconds())

		logger.Debug().
			Str("error_class", string(errorClass)).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying request after backoff")

		select {
		case <-ctx.Done():
			logger.Warn().
				Str("error_class", string(errorClass)).
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(jitter):
		}
	}

	return lastErr
}
