// Package poll runs a function on a fixed interval until it reports completion,
// fails, runs out of attempts or is cancelled.
package poll

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAttemptsExhausted is reported when MaxAttempts ran without completion
var ErrAttemptsExhausted = errors.New("poll attempts exhausted")

// Outcome describes why a poll stopped
type Outcome string

const (
	OutcomeRunning   Outcome = "running"
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeCancelled Outcome = "cancelled"
)

// Func is one attempt. Returning done ends the poll; a non-nil error ends it
// as failed unless Options.ContinueOnError is set.
type Func func(ctx context.Context, attempt int) (done bool, err error)

// Options configures a poll
type Options struct {
	Interval time.Duration
	// MaxAttempts caps the number of attempts; 0 means no cap
	MaxAttempts int
	// Immediate fires the first attempt at start instead of one interval later
	Immediate bool
	// ContinueOnError keeps polling after an attempt error
	ContinueOnError bool
	// OnError observes attempt errors when ContinueOnError is set
	OnError func(attempt int, err error)
	// OnFinish runs on the poll goroutine once the poll stops, before Done closes
	OnFinish func(Result)
}

// Result is the final state of a poll
type Result struct {
	Attempts int
	Outcome  Outcome
	Err      error
}

// Handle controls a running poll
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	attempts int
	result   Result
}

// Start launches fn in a new goroutine. The poll stops when parent is done.
func Start(parent context.Context, opts Options, fn Func) *Handle {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}

	ctx, cancel := context.WithCancel(parent)
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
		result: Result{Outcome: OutcomeRunning},
	}

	go h.loop(ctx, opts, fn)
	return h
}

func (h *Handle) loop(ctx context.Context, opts Options, fn Func) {
	defer close(h.done)
	defer h.cancel()

	finish := func(outcome Outcome, err error) {
		h.mu.Lock()
		h.result = Result{Attempts: h.attempts, Outcome: outcome, Err: err}
		res := h.result
		h.mu.Unlock()

		if opts.OnFinish != nil {
			opts.OnFinish(res)
		}
	}

	// attempt returns true when the poll should stop
	attempt := func() bool {
		h.mu.Lock()
		h.attempts++
		n := h.attempts
		h.mu.Unlock()

		done, err := fn(ctx, n)
		if ctx.Err() != nil {
			finish(OutcomeCancelled, ctx.Err())
			return true
		}
		if err != nil && !opts.ContinueOnError {
			finish(OutcomeFailed, err)
			return true
		}
		if err != nil && opts.OnError != nil {
			opts.OnError(n, err)
		}
		if done {
			finish(OutcomeCompleted, nil)
			return true
		}
		if opts.MaxAttempts > 0 && n >= opts.MaxAttempts {
			finish(OutcomeExhausted, ErrAttemptsExhausted)
			return true
		}
		return false
	}

	if opts.Immediate {
		if ctx.Err() != nil {
			finish(OutcomeCancelled, ctx.Err())
			return
		}
		if attempt() {
			return
		}
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			finish(OutcomeCancelled, ctx.Err())
			return
		case <-ticker.C:
			if attempt() {
				return
			}
		}
	}
}

// Cancel stops the poll and waits for its goroutine to exit.
// No attempt starts after Cancel returns. Safe to call more than once.
func (h *Handle) Cancel() {
	h.cancel()
	<-h.done
}

// Done is closed once the poll has stopped
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Attempts returns the number of attempts started so far
func (h *Handle) Attempts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attempts
}

// Result returns the final result, or OutcomeRunning while the poll is live
func (h *Handle) Result() Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Wait blocks until the poll stops or ctx ends
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		return h.Result(), nil
	case <-ctx.Done():
		return h.Result(), ctx.Err()
	}
}
