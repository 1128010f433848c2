package httputil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("bad request")

	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls, "permanent errors must not be retried")
}

func TestRetryRetriesTransientErrors(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("timeout")}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryReturnsLastErrorWhenExhausted(t *testing.T) {
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		return &RetryableError{Err: errors.New("still down")}
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "still down")
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 5, 10*time.Second, func() error {
		return &RetryableError{Err: errors.New("timeout")}
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientDefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewClient(0).Timeout)
	assert.Equal(t, time.Second, NewClient(time.Second).Timeout)
}
