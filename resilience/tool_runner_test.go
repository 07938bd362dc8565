package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallToolWithTraceSuccess(t *testing.T) {
	tool := core.ToolFunc{ToolName: "fake_weather", Fn: func(ctx context.Context, params map[string]any) (any, error) {
		return map[string]any{"ok": true}, nil
	}}

	result, trace := CallToolWithTrace(context.Background(), tool, map[string]any{"city": "Kraków"}, "weather", "CID-1")
	require.Equal(t, "success", trace.Outcome)
	require.Nil(t, trace.Error)
	assert.Equal(t, "tool_call", trace.Action)
	assert.Equal(t, "fake_weather", trace.Target)
	assert.Equal(t, map[string]any{"ok": true}, result)
}

func TestCallToolWithTraceWrapsError(t *testing.T) {
	tool := core.ToolFunc{ToolName: "flaky", Fn: func(ctx context.Context, params map[string]any) (any, error) {
		return nil, errors.New("boom")
	}}

	result, trace := CallToolWithTrace(context.Background(), tool, nil, "weather", "CID-1")
	require.Nil(t, result)
	require.Equal(t, "error", trace.Outcome)
	require.NotNil(t, trace.Error)
	assert.Equal(t, "EXCEPTION", trace.Error.Code)
	assert.Equal(t, core.ToolErrException, trace.Error.Type)
	assert.Equal(t, "boom", trace.Error.Message)
	assert.Equal(t, "flaky", trace.Error.Provider)
	assert.Len(t, trace.Error.StackTraceID, 12)
}

func TestCallToolWithTraceRecoversPanic(t *testing.T) {
	tool := core.ToolFunc{ToolName: "panicky", Fn: func(ctx context.Context, params map[string]any) (any, error) {
		panic("kaboom")
	}}

	assert.NotPanics(t, func() {
		_, trace := CallToolWithTrace(context.Background(), tool, nil, "weather", "CID-1")
		assert.Equal(t, "error", trace.Outcome)
		assert.Contains(t, trace.Error.Message, "kaboom")
	})
}

func TestStackTraceIDIsStableForSameTrace(t *testing.T) {
	assert.Equal(t, stackTraceID("same"), stackTraceID("same"))
	assert.NotEqual(t, stackTraceID("a"), stackTraceID("b"))
}
