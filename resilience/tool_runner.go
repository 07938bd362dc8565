// Package resilience implements the Tool Runner and Retry Engine
// (spec.md §4.4, §4.5): the layer that turns arbitrary tool failures into a
// standardized ToolError and, on top of that, applies a RetryPolicy.
package resilience

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"

	"github.com/pawelhaladyj/opti-agents/core"
)

func stackTraceID(trace string) string {
	sum := sha256.Sum256([]byte(trace))
	return hex.EncodeToString(sum[:])[:12]
}

func makeToolError(provider string, params map[string]any, cause error, stack string) core.ToolError {
	id := stackTraceID(stack)
	msg := cause.Error()
	if msg == "" {
		msg = fmt.Sprintf("%T", cause)
	}
	p := map[string]any{}
	maps.Copy(p, params)
	return core.ToolError{
		Code:         "EXCEPTION",
		Type:         core.ToolErrException,
		Message:      msg,
		Provider:     provider,
		RequestParams: p,
		StackTraceID: id,
		StackTrace:   stack,
	}
}

// CallToolWithTrace invokes a tool and ALWAYS produces exactly one
// TraceEvent (spec.md §4.4). It never re-raises: a panic inside the tool is
// recovered and folded into the same ToolError path as a returned error, so
// callers only ever see the trace's outcome.
func CallToolWithTrace(ctx context.Context, tool core.Tool, params map[string]any, actor, correlationID string) (result any, trace core.TraceEvent) {
	if actor == "" {
		actor = "tool_runner"
	}

	p := map[string]any{}
	maps.Copy(p, params)

	defer func() {
		if r := recover(); r != nil {
			cause := fmt.Errorf("panic: %v", r)
			terr := makeToolError(tool.Name(), p, cause, cause.Error())
			trace = core.NewTraceEvent(actor, "tool_call", tool.Name(), p, "error", &terr, correlationID)
			result = nil
		}
	}()

	out, err := tool.Call(ctx, p)
	if err != nil {
		terr := makeToolError(tool.Name(), p, err, err.Error())
		return nil, core.NewTraceEvent(actor, "tool_call", tool.Name(), p, "error", &terr, correlationID)
	}

	return out, core.NewTraceEvent(actor, "tool_call", tool.Name(), p, "success", nil, correlationID)
}
