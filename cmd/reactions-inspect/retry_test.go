package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	callCount := 0

	err := retryWithExponentialBackoff(context.Background(), func(context.Context) error {
		callCount++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
}

func Test_RetryWithExponentialBackoff_RetriesUnreachableDatabase(t *testing.T) {
	callCount := 0
	var delays []time.Duration

	err := retryWithExponentialBackoff(
		context.Background(),
		func(context.Context) error {
			callCount++
			if callCount < 3 {
				return fmt.Errorf("%w: connection refused", errDatabaseUnreachable)
			}
			return nil
		},
		withBaseDelay(time.Millisecond),
		withJitterFactor(0),
		withRetryHook(func(_ int, delay time.Duration, _ error) {
			delays = append(delays, delay)
		}),
	)

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, delays)
}

func Test_RetryWithExponentialBackoff_When_ErrorIsPermanent_FailsFast(t *testing.T) {
	callCount := 0

	err := retryWithExponentialBackoff(context.Background(), func(context.Context) error {
		callCount++
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, callCount)
}

func Test_RetryWithExponentialBackoff_When_MaxAttemptsReached_ReturnsLastError(t *testing.T) {
	callCount := 0

	err := retryWithExponentialBackoff(
		context.Background(),
		func(context.Context) error {
			callCount++
			return errDatabaseUnreachable
		},
		withMaxAttempts(3),
		withBaseDelay(0),
	)

	assert.ErrorIs(t, err, errDatabaseUnreachable)
	assert.Equal(t, 3, callCount)
}

func Test_RetryWithExponentialBackoff_When_ContextIsCanceled_StopsWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryWithExponentialBackoff(
		ctx,
		func(context.Context) error { return errDatabaseUnreachable },
		withBaseDelay(time.Hour),
	)

	assert.ErrorIs(t, err, context.Canceled)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	noop := func(context.Context) error { return nil }

	assert.ErrorIs(t, retryWithExponentialBackoff(context.Background(), noop, withMaxAttempts(0)), errInvalidMaxAttempts)
	assert.ErrorIs(t, retryWithExponentialBackoff(context.Background(), noop, withBaseDelay(-time.Second)), errNegativeBaseDelay)
	assert.ErrorIs(t, retryWithExponentialBackoff(context.Background(), noop, withJitterFactor(1.5)), errInvalidJitterFactor)
}
