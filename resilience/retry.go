package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/pawelhaladyj/opti-agents/telemetry"
)

// RetryPolicy configures the Retry Engine (spec.md §4.5). Grounded on the
// teacher's config-object-with-defaults shape (resilience/retry.go in
// itsneelabh-gomind), adapted to the status/error-type retry classification
// spec.md actually specifies.
type RetryPolicy struct {
	MaxAttempts         int
	BackoffSeconds       float64
	RetryableStatuses    map[string]bool
	RetryableErrorTypes  map[string]bool
}

// DefaultRetryPolicy matches spec.md §4.5's defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   3,
		BackoffSeconds: 0,
		RetryableStatuses: toSet("429", "500", "502", "503", "504"),
		RetryableErrorTypes: toSet(core.ToolErrException, core.ToolErrTimeout, core.ToolErrHTTP),
	}
}

func toSet(vals ...string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

// ShouldRetry implements spec.md §4.5's decision function: attemptNo is
// 1-based (the attempt that just failed).
func (p RetryPolicy) ShouldRetry(err core.ToolError, attemptNo int) bool {
	if attemptNo >= p.MaxAttempts {
		return false
	}
	if p.RetryableStatuses[err.Code] {
		return true
	}
	if p.RetryableErrorTypes[err.Type] {
		return true
	}
	return false
}

// RetryExceededError is the controlled error raised when the Retry Engine
// exhausts all attempts without success (spec.md §4.5, §7 RETRY_EXHAUSTED).
type RetryExceededError struct {
	ToolName  string
	Attempts  int
	LastError core.ToolError
}

func (e *RetryExceededError) Error() string {
	return fmt.Sprintf("retry exceeded for tool %q after %d attempts: %s", e.ToolName, e.Attempts, e.LastError.Message)
}

// Unwrap exposes the RETRY_EXHAUSTED sentinel for errors.Is.
func (e *RetryExceededError) Unwrap() error { return core.ErrRetryExceeded }

// SleepFunc is the injectable sleep hook used by tests to avoid real
// backoff delays, mirroring the Python original's sleep_fn parameter.
type SleepFunc func(ctx context.Context, d time.Duration)

// DefaultSleep sleeps for d or until ctx is canceled.
func DefaultSleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// CallToolWithRetry applies policy on top of CallToolWithTrace (spec.md
// §4.5). It returns the successful result and every trace produced along
// the way; every attempt yields exactly one trace (spec.md §8 retry
// trace-count law), and on exhaustion it returns *RetryExceededError. tp is
// optional (nil disables tracing) — each attempt gets its own span.
func CallToolWithRetry(
	ctx context.Context,
	tool core.Tool,
	params map[string]any,
	actor, correlationID string,
	policy RetryPolicy,
	sleep SleepFunc,
	tp *telemetry.Provider,
) (any, []core.TraceEvent, error) {
	if sleep == nil {
		sleep = DefaultSleep
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}

	traces := make([]core.TraceEvent, 0, policy.MaxAttempts)
	var lastErr *core.ToolError

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		attemptCtx, span := tp.StartRetryAttempt(ctx, tool.Name(), attempt)
		result, trace := CallToolWithTrace(attemptCtx, tool, params, actor, correlationID)
		span.End()
		traces = append(traces, trace)

		if trace.Outcome == "success" {
			return result, traces, nil
		}

		lastErr = trace.Error
		if policy.ShouldRetry(*lastErr, attempt) {
			if policy.BackoffSeconds > 0 {
				sleep(ctx, time.Duration(policy.BackoffSeconds*float64(time.Second)))
			}
			continue
		}
		break
	}

	return nil, traces, &RetryExceededError{
		ToolName:  tool.Name(),
		Attempts:  len(traces),
		LastError: *lastErr,
	}
}
