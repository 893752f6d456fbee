package probe

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/probatch/core"
)

func remoteErr(msg string) error {
	return &core.RemoteCallError{Service: "test-service", Err: errors.New(msg)}
}

func TestRetryWithBackoff_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return nil
	}, 3, time.Millisecond, 10*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_EventualSuccess(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return remoteErr("transient")
		}
		return nil
	}, 5, time.Millisecond, 10*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_AllAttemptsFail(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return remoteErr("persistent")
	}, 3, time.Millisecond, 10*time.Millisecond)

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, core.IsRemoteCall(err))
	assert.Contains(t, err.Error(), "persistent")
}

func TestRetryWithBackoff_ElapsedCoversBackoffSequence(t *testing.T) {
	base := 10 * time.Millisecond

	start := time.Now()
	err := RetryWithBackoff(context.Background(), func() error {
		return remoteErr("persistent")
	}, 3, base, time.Second)
	elapsed := time.Since(start)

	require.Error(t, err)
	// Sleeps before attempts 2 and 3: base + 2*base.
	assert.GreaterOrEqual(t, elapsed, 3*base)
}

func TestRetryWithBackoff_NonRetryableReturnsImmediately(t *testing.T) {
	fatal := core.NewConfigurationError("bad setup")
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return fatal
	}, 5, time.Millisecond, 10*time.Millisecond)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, core.IsConfiguration(err))
}

func TestRetryWithBackoff_InvalidMaxAttempts(t *testing.T) {
	err := RetryWithBackoff(context.Background(), func() error {
		return nil
	}, 0, time.Millisecond, time.Millisecond)

	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return remoteErr("never reached")
	}, 3, time.Millisecond, time.Millisecond)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestRetryWithBackoff_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- RetryWithBackoff(ctx, func() error {
			calls++
			return remoteErr("transient")
		}, 3, time.Hour, time.Hour)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("retry did not return after cancellation")
	}
}

func TestBackoffDelay(t *testing.T) {
	base := 4 * time.Second
	max := 60 * time.Second

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 4 * time.Second},
		{2, 8 * time.Second},
		{3, 16 * time.Second},
		{4, 32 * time.Second},
		{5, 60 * time.Second}, // would be 64s, capped
		{6, 60 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, backoffDelay(base, max, tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestBackoffDelay_Uncapped(t *testing.T) {
	assert.Equal(t, 32*time.Second, backoffDelay(4*time.Second, 0, 4))
}

func TestBackoffDelay_UncappedSaturatesInsteadOfOverflowing(t *testing.T) {
	delay := backoffDelay(time.Hour, 0, 100)
	assert.Equal(t, time.Duration(math.MaxInt64), delay)
	assert.Positive(t, delay)
}
