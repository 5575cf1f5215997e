package main

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

const (
	defaultMaxAttempts  = 5
	defaultBaseDelay    = 100 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	errDatabaseUnreachable = errors.New("database is unreachable")
	errInvalidMaxAttempts  = errors.New("max attempts must be positive")
	errNegativeBaseDelay   = errors.New("base delay must not be negative")
	errInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

type retryConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	onRetry      func(attempt int, delay time.Duration, err error)
}

type retryOption func(*retryConfig) error

func withMaxAttempts(attempts int) retryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return errInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

func withBaseDelay(delay time.Duration) retryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return errNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

func withJitterFactor(factor float64) retryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return errInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

func withRetryHook(hook func(attempt int, delay time.Duration, err error)) retryOption {
	return func(config *retryConfig) error {
		config.onRetry = hook
		return nil
	}
}

// retryWithExponentialBackoff runs fn until it succeeds, fails permanently, or maxAttempts is reached.
// Only errDatabaseUnreachable is retried, delays are baseDelay * 2^(attempt-1) plus jitter.
func retryWithExponentialBackoff(ctx context.Context, fn func(ctx context.Context) error, options ...retryOption) error {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return err
		}
	}

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec //math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)

			if config.onRetry != nil {
				config.onRetry(attempt, backoffDelay, lastErr)
			}

			select {
			case <-time.After(backoffDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !errors.Is(lastErr, errDatabaseUnreachable) {
			return lastErr
		}
	}

	return lastErr
}
