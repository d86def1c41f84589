package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, h *Handle) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := h.Wait(ctx)
	require.NoError(t, err, "poll did not finish")
	return res
}

func TestPollCompletes(t *testing.T) {
	var finished Result
	h := Start(context.Background(), Options{
		Interval:    time.Millisecond,
		MaxAttempts: 10,
		OnFinish:    func(r Result) { finished = r },
	}, func(ctx context.Context, attempt int) (bool, error) {
		return attempt == 3, nil
	})

	res := waitDone(t, h)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, res, finished, "OnFinish runs before Done closes")
}

func TestPollExhaustsExactly(t *testing.T) {
	var calls int32
	h := Start(context.Background(), Options{Interval: time.Millisecond, MaxAttempts: 60},
		func(ctx context.Context, attempt int) (bool, error) {
			atomic.AddInt32(&calls, 1)
			return false, nil
		})

	res := waitDone(t, h)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrAttemptsExhausted)
	assert.Equal(t, int32(60), atomic.LoadInt32(&calls))
}

func TestPollCompletionOnLastAttemptIsNotExhaustion(t *testing.T) {
	h := Start(context.Background(), Options{Interval: time.Millisecond, MaxAttempts: 2},
		func(ctx context.Context, attempt int) (bool, error) {
			return attempt == 2, nil
		})

	assert.Equal(t, OutcomeCompleted, waitDone(t, h).Outcome)
}

func TestPollStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	h := Start(context.Background(), Options{Interval: time.Millisecond, MaxAttempts: 10},
		func(ctx context.Context, attempt int) (bool, error) {
			if attempt == 2 {
				return false, boom
			}
			return false, nil
		})

	res := waitDone(t, h)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, boom)
	assert.Equal(t, 2, res.Attempts)
}

func TestPollContinueOnError(t *testing.T) {
	var observed int32
	h := Start(context.Background(), Options{
		Interval:        time.Millisecond,
		MaxAttempts:     4,
		ContinueOnError: true,
		OnError:         func(int, error) { atomic.AddInt32(&observed, 1) },
	}, func(ctx context.Context, attempt int) (bool, error) {
		return false, errors.New("ignored")
	})

	res := waitDone(t, h)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Equal(t, int32(4), atomic.LoadInt32(&observed))
}

func TestPollImmediate(t *testing.T) {
	first := make(chan time.Duration, 1)
	start := time.Now()
	h := Start(context.Background(), Options{Interval: time.Hour, Immediate: true},
		func(ctx context.Context, attempt int) (bool, error) {
			first <- time.Since(start)
			return true, nil
		})

	waitDone(t, h)
	assert.Less(t, <-first, time.Second)
}

func TestPollFirstAttemptWaitsOneInterval(t *testing.T) {
	var calls int32
	h := Start(context.Background(), Options{Interval: time.Hour},
		func(ctx context.Context, attempt int) (bool, error) {
			atomic.AddInt32(&calls, 1)
			return true, nil
		})

	time.Sleep(20 * time.Millisecond)
	h.Cancel()
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.Equal(t, OutcomeCancelled, h.Result().Outcome)
}

func TestCancelWaitsAndStopsAttempts(t *testing.T) {
	var calls int32
	h := Start(context.Background(), Options{Interval: time.Millisecond},
		func(ctx context.Context, attempt int) (bool, error) {
			atomic.AddInt32(&calls, 1)
			return false, nil
		})

	time.Sleep(10 * time.Millisecond)
	h.Cancel()
	after := atomic.LoadInt32(&calls)

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&calls), "no attempt after Cancel returns")

	select {
	case <-h.Done():
	default:
		t.Fatal("Done not closed after Cancel")
	}
	h.Cancel()
}

func TestCancelAbortsInFlightAttempt(t *testing.T) {
	h := Start(context.Background(), Options{Interval: time.Millisecond},
		func(ctx context.Context, attempt int) (bool, error) {
			<-ctx.Done()
			return false, ctx.Err()
		})

	time.Sleep(5 * time.Millisecond)
	h.Cancel()
	assert.Equal(t, OutcomeCancelled, h.Result().Outcome)
}

func TestParentContextStopsPoll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := Start(ctx, Options{Interval: time.Millisecond}, func(ctx context.Context, attempt int) (bool, error) {
		return false, nil
	})
	cancel()

	res := waitDone(t, h)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
}
