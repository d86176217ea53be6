package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "tweetpeek/pkg/errors"
	"tweetpeek/pkg/logger"
)

func fastConfig(maxAttempts int) *Config {
	return NewConfig(context.Background(), maxAttempts,
		time.Millisecond, 5*time.Millisecond, 2.0, logger.NewTestLogger())
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, fastConfig(3))

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientError(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errs.New(errs.KindServerError, "oops")
		}
		return nil
	}, fastConfig(5))

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errs.New(errs.KindAuth, "bad token")
	}, fastConfig(5))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errs.IsKind(err, errs.KindAuth))
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errs.New(errs.KindRateLimit, "slow down")
	}, fastConfig(3))

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "max retry attempts")
	assert.True(t, errs.IsKind(err, errs.KindRateLimit))
}

func TestDoPlainErrorsAreNotRetried(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return fmt.Errorf("some plain error")
	}, fastConfig(5))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	result, err := DoWithResult(func() (string, error) {
		calls++
		if calls < 2 {
			return "", errs.New(errs.KindNetwork, "flaky")
		}
		return "done", nil
	}, fastConfig(3))

	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, 2, calls)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := NewConfig(ctx, 10, time.Second, time.Minute, 2.0, logger.NewTestLogger())

	cancel()
	err := Do(func() error {
		return errs.New(errs.KindServerError, "oops")
	}, cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry cancelled")
}

func TestDefaultRetryIf(t *testing.T) {
	assert.True(t, DefaultRetryIf(errs.New(errs.KindNetwork, "x")))
	assert.True(t, DefaultRetryIf(errs.New(errs.KindRateLimit, "x")))
	assert.True(t, DefaultRetryIf(errs.New(errs.KindServerError, "x")))

	assert.False(t, DefaultRetryIf(nil))
	assert.False(t, DefaultRetryIf(errs.New(errs.KindAuth, "x")))
	assert.False(t, DefaultRetryIf(errs.New(errs.KindEmptyResult, "x")))
	assert.False(t, DefaultRetryIf(context.Canceled))
	assert.False(t, DefaultRetryIf(fmt.Errorf("plain")))
}

func TestExponentialBackoffGrowsAndCaps(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:  time.Second,
		MaxDelay:   5 * time.Second,
		Multiplier: 2.0,
		// no jitter so delays are exact
	}

	assert.Equal(t, time.Second, eb.NextDelay(1))
	assert.Equal(t, 2*time.Second, eb.NextDelay(2))
	assert.Equal(t, 4*time.Second, eb.NextDelay(3))
	assert.Equal(t, 5*time.Second, eb.NextDelay(4))
	assert.Equal(t, 5*time.Second, eb.NextDelay(10))
}

func TestExponentialBackoffJitterStaysInRange(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:    time.Second,
		MaxDelay:     time.Minute,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}

	for i := 0; i < 50; i++ {
		delay := eb.NextDelay(2)
		assert.GreaterOrEqual(t, delay, 1800*time.Millisecond)
		assert.LessOrEqual(t, delay, 2200*time.Millisecond)
	}
}

func TestConstantBackoff(t *testing.T) {
	cb := &ConstantBackoff{Delay: 3 * time.Second}
	assert.Equal(t, 3*time.Second, cb.NextDelay(1))
	assert.Equal(t, 3*time.Second, cb.NextDelay(7))
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Wait(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
