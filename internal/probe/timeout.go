package probe

import (
	"errors"
	"time"
)

// ErrTimeout is returned by Await when the configured budget expires before
// the wrapped operation completes.
var ErrTimeout = errors.New("probe: timed out")

// TimeoutGate is a single deadline-bearing wrapper around every adapter call
// that may suspend execution of the debuggee (§4.5).
type TimeoutGate struct {
	budget    time.Duration
	start     time.Time
	hasBudget bool
}

// NewTimeoutGate builds a gate with the given total wall-clock budget. A
// zero or negative budget means "no budget" — every Await delegates directly
// to its operation.
func NewTimeoutGate(budget time.Duration) *TimeoutGate {
	if budget <= 0 {
		return &TimeoutGate{}
	}
	return &TimeoutGate{budget: budget, start: time.Now(), hasBudget: true}
}

// Await races op against the gate's remaining budget. If there is no budget
// it delegates directly. If the budget has already elapsed it returns
// ErrTimeout without starting op. Otherwise it races op (run in its own
// goroutine) against a timer for the remaining duration; on timer win it
// returns ErrTimeout immediately and leaves op running to completion on its
// own — no best-effort cancellation is attempted, since the adapter process
// is about to be torn down regardless (§4.5).
func Await[T any](g *TimeoutGate, op func() (T, error)) (T, error) {
	if !g.hasBudget {
		return op()
	}
	var zero T
	remaining := g.budget - time.Since(g.start)
	if remaining <= 0 {
		return zero, ErrTimeout
	}

	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := op()
		ch <- result{value: v, err: err}
	}()

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.value, r.err
	case <-timer.C:
		return zero, ErrTimeout
	}
}
