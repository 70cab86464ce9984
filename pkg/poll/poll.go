// Package poll implements the condition poller that the browser helpers are
// built on: repeatedly evaluate an asynchronous predicate at a fixed interval
// until it reports ready, a deadline elapses, or it fails unrecoverably.
//
// Polling is cooperative (sleep-then-retry) and single-threaded; the only
// cancellation signal is the deadline computed when Until is entered. A
// predicate call that is already in flight when the deadline passes is not
// interrupted, so the worst-case overrun is one call's own latency.
package poll

import (
	"fmt"
	"time"
)

// Outcome is the result of a single polling attempt.
type Outcome int

const (
	// NotReady means the condition does not hold yet; the poller retries
	// after the interval. A predicate may pair NotReady with an error to
	// record a recoverable failure (a missing element, a transient remote
	// error); the most recent one is carried into the timeout error.
	NotReady Outcome = iota

	// Ready means the condition holds and polling stops successfully.
	Ready

	// Failed means the predicate hit an unrecoverable condition; polling
	// stops immediately and the predicate's error is returned as-is.
	Failed
)

// Predicate is one polling attempt. It may probe remote state, and it may
// act on it: helpers like click-when-ready perform their side effect inside
// the predicate, so idempotence across retries is the predicate's problem,
// not the poller's.
type Predicate func() (Outcome, error)

// Options configures a call to Until.
type Options struct {
	// Timeout is the total time budget. Zero means DefaultTimeout.
	Timeout time.Duration

	// Interval is the sleep between attempts. Zero means DefaultInterval.
	Interval time.Duration

	// Description names the condition in the timeout error,
	// e.g. "element css=#submit visible".
	Description string
}

// Default polling parameters.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultInterval = 250 * time.Millisecond
)

// TimeoutError reports that a condition never became ready within its
// time budget.
type TimeoutError struct {
	// Description is the human-readable condition description.
	Description string

	// Timeout is the configured budget.
	Timeout time.Duration

	// Elapsed is the wall time actually spent polling.
	Elapsed time.Duration

	// LastErr is the most recent recoverable error a predicate attempt
	// reported, if any. It is diagnostic only; it did not stop polling.
	LastErr error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %v waiting for %s", e.Elapsed.Round(time.Millisecond), e.Description)
	if e.LastErr != nil {
		msg += fmt.Sprintf(" (last attempt: %v)", e.LastErr)
	}
	return msg
}

// Unwrap exposes the last recoverable error for errors.Is/As.
func (e *TimeoutError) Unwrap() error {
	return e.LastErr
}

// Until evaluates pred at a fixed interval until it returns Ready, the
// timeout elapses, or it returns Failed.
//
// The deadline is computed once on entry. At least one attempt is always
// made, even with a zero or negative remaining budget. After an attempt
// that is not Ready, the deadline is checked before sleeping, so the poller
// returns a *TimeoutError no later than one interval plus one attempt's
// latency past the budget.
func Until(pred Predicate, opts Options) error {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Interval == 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Description == "" {
		opts.Description = "condition"
	}

	start := time.Now()
	deadline := start.Add(opts.Timeout)

	var lastErr error
	for {
		outcome, err := pred()
		switch outcome {
		case Ready:
			return nil
		case Failed:
			if err == nil {
				err = fmt.Errorf("predicate failed for %s", opts.Description)
			}
			return err
		default:
			if err != nil {
				lastErr = err
			}
		}

		if !time.Now().Before(deadline) {
			return &TimeoutError{
				Description: opts.Description,
				Timeout:     opts.Timeout,
				Elapsed:     time.Since(start),
				LastErr:     lastErr,
			}
		}
		time.Sleep(opts.Interval)
	}
}
