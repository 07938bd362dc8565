package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderStartTurnAndToolCallSpansDoNotPanic(t *testing.T) {
	p := NewProvider()
	defer func() { require.NoError(t, p.Shutdown(context.Background())) }()

	ctx, turnSpan := p.StartTurn(context.Background(), "CID-1")
	assert.NotNil(t, turnSpan)
	turnSpan.End()

	_, toolSpan := p.StartToolCall(ctx, "weather_tool", "weather")
	assert.NotNil(t, toolSpan)
	toolSpan.End()

	_, retrySpan := p.StartRetryAttempt(ctx, "weather_tool", 2)
	retrySpan.End()

	_, recoverySpan := p.StartRecovery(ctx, "weather_tool")
	RecordFixPlan(recoverySpan, "retry_with_params", "broaden search")
	recoverySpan.End()
}

func TestNilProviderIsANoOp(t *testing.T) {
	var p *Provider

	ctx, turnSpan := p.StartTurn(context.Background(), "CID-1")
	turnSpan.End()

	_, toolSpan := p.StartToolCall(ctx, "weather_tool", "weather")
	toolSpan.End()

	_, retrySpan := p.StartRetryAttempt(ctx, "weather_tool", 1)
	retrySpan.End()

	_, recoverySpan := p.StartRecovery(ctx, "weather_tool")
	recoverySpan.End()

	assert.NoError(t, p.Shutdown(context.Background()))
}
