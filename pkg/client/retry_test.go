package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fastRetrySettings keeps test runtime low while exercising the backoff path.
func fastRetrySettings() RetrySettings {
	return RetrySettings{
		MaxAttempts:      3,
		RateLimitBackoff: 10 * time.Millisecond,
		NetworkBackoff:   5 * time.Millisecond,
		MaxBackoff:       50 * time.Millisecond,
		Multiplier:       2.0,
	}
}

func TestDefaultRetrySettings(t *testing.T) {
	settings := DefaultRetrySettings()

	if settings.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", settings.MaxAttempts)
	}
	if settings.RateLimitBackoff != 5*time.Second {
		t.Errorf("RateLimitBackoff = %v, want 5s", settings.RateLimitBackoff)
	}
	if settings.NetworkBackoff != 2*time.Second {
		t.Errorf("NetworkBackoff = %v, want 2s", settings.NetworkBackoff)
	}
	if settings.MaxBackoff != 60*time.Second {
		t.Errorf("MaxBackoff = %v, want 60s", settings.MaxBackoff)
	}
	if settings.Multiplier != 2.0 {
		t.Errorf("Multiplier = %v, want 2.0", settings.Multiplier)
	}
}

func TestInitialBackoff(t *testing.T) {
	settings := DefaultRetrySettings()

	tests := []struct {
		name       string
		errorClass ErrorClass
		expected   time.Duration
	}{
		{
			name:       "rate limit uses longer backoff",
			errorClass: ErrorClassRateLimit,
			expected:   5 * time.Second,
		},
		{
			name:       "network uses shorter backoff",
			errorClass: ErrorClassNetwork,
			expected:   2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := settings.initialBackoff(tt.errorClass)
			if got != tt.expected {
				t.Errorf("initialBackoff(%q) = %v, want %v", tt.errorClass, got, tt.expected)
			}
		})
	}
}

func TestRetryWithBackoff_Success(t *testing.T) {
	ctx := context.Background()

	// Function succeeds immediately
	callCount := 0
	fn := func() (ErrorClass, error) {
		callCount++
		return "", nil
	}

	err := retryWithBackoff(ctx, fastRetrySettings(), zerolog.Nop(), fn)

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestRetryWithBackoff_SuccessAfterRetry(t *testing.T) {
	ctx := context.Background()

	// Function fails twice with 429, then succeeds
	callCount := 0
	fn := func() (ErrorClass, error) {
		callCount++
		if callCount < 3 {
			return ErrorClassRateLimit, errors.New("too many requests")
		}
		return "", nil
	}

	err := retryWithBackoff(ctx, fastRetrySettings(), zerolog.Nop(), fn)

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestRetryWithBackoff_MaxAttemptsExhausted(t *testing.T) {
	ctx := context.Background()

	// Function always fails
	callCount := 0
	testErr := errors.New("persistent error")
	fn := func() (ErrorClass, error) {
		callCount++
		return ErrorClassNetwork, testErr
	}

	err := retryWithBackoff(ctx, fastRetrySettings(), zerolog.Nop(), fn)

	if err == nil {
		t.Error("Expected error, got nil")
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Expected ErrRetryExhausted, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls (MaxAttempts), got %d", callCount)
	}
}

func TestRetryWithBackoff_ClientErrorNoRetry(t *testing.T) {
	ctx := context.Background()

	callCount := 0
	testErr := errors.New("client error")
	fn := func() (ErrorClass, error) {
		callCount++
		return ErrorClassClient, testErr
	}

	err := retryWithBackoff(ctx, fastRetrySettings(), zerolog.Nop(), fn)

	if err == nil {
		t.Error("Expected error, got nil")
	}
	// Should only be called once (no retries for client errors)
	if callCount != 1 {
		t.Errorf("Expected 1 call (no retry for client errors), got %d", callCount)
	}
	// Should return the original error, not ErrRetryExhausted
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("Should not return ErrRetryExhausted for client errors (no retry attempted)")
	}
	if !errors.Is(err, testErr) {
		t.Errorf("Expected original error, got %v", err)
	}
}

func TestRetryWithBackoff_ServerErrorNoRetry(t *testing.T) {
	ctx := context.Background()

	callCount := 0
	testErr := errors.New("internal server error")
	fn := func() (ErrorClass, error) {
		callCount++
		return ErrorClassServer, testErr
	}

	err := retryWithBackoff(ctx, fastRetrySettings(), zerolog.Nop(), fn)

	if !errors.Is(err, testErr) {
		t.Errorf("Expected original error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call (no retry for server errors), got %d", callCount)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// Cancel context after first failure
	callCount := 0
	fn := func() (ErrorClass, error) {
		callCount++
		if callCount == 1 {
			cancel()
		}
		return ErrorClassRateLimit, errors.New("error")
	}

	err := retryWithBackoff(ctx, fastRetrySettings(), zerolog.Nop(), fn)

	if err == nil {
		t.Error("Expected error, got nil")
	}
	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("Expected ErrContextCancelled, got %v", err)
	}
	if callCount >= 3 {
		t.Errorf("Expected fewer than 3 calls due to cancellation, got %d", callCount)
	}
}

func TestRetryWithBackoff_BackoffGrows(t *testing.T) {
	ctx := context.Background()

	// Track timing of retries
	timestamps := []time.Time{}
	fn := func() (ErrorClass, error) {
		timestamps = append(timestamps, time.Now())
		return ErrorClassRateLimit, errors.New("error")
	}

	settings := RetrySettings{
		MaxAttempts:      3,
		RateLimitBackoff: 20 * time.Millisecond,
		NetworkBackoff:   20 * time.Millisecond,
		MaxBackoff:       time.Second,
		Multiplier:       2.0,
	}

	_ = retryWithBackoff(ctx, settings, zerolog.Nop(), fn)

	if len(timestamps) != 3 {
		t.Fatalf("Expected 3 attempts, got %d", len(timestamps))
	}

	firstGap := timestamps[1].Sub(timestamps[0])
	secondGap := timestamps[2].Sub(timestamps[1])

	// With jitter the gaps are fuzzy; the second wait should still be
	// clearly longer than the minimum jittered first wait.
	if firstGap < 16*time.Millisecond {
		t.Errorf("First gap = %v, want >= 16ms", firstGap)
	}
	if secondGap < 32*time.Millisecond {
		t.Errorf("Second gap = %v, want >= 32ms", secondGap)
	}
}
