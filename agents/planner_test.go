package agents

import (
	"context"
	"testing"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventList(events ...map[string]any) []any {
	out := make([]any, len(events))
	for i, e := range events {
		out[i] = e
	}
	return out
}

func TestPlannerAgentBuildsNonOverlappingTimeline(t *testing.T) {
	weather := core.ToolFunc{ToolName: "weather_tool", Fn: func(ctx context.Context, p map[string]any) (any, error) {
		return map[string]any{"summary": "slonecznie", "temp_c": 20, "precip_prob": 10}, nil
	}}
	events := core.ToolFunc{ToolName: "events_tool", Fn: func(ctx context.Context, p map[string]any) (any, error) {
		return map[string]any{"events": eventList(
			map[string]any{"start": "10:00", "title": "Muzeum", "indoor": true, "price_pln": 30},
			map[string]any{"start": "11:00", "title": "Spacer", "indoor": false, "price_pln": 0},
			map[string]any{"start": "14:00", "title": "Koncert", "indoor": true, "price_pln": 80},
		)}, nil
	}}

	agent := NewPlannerAgent(weather, events)
	result, err := agent.Handle(context.Background(), core.NewMessage("user", "zaplanuj dzień w Krakowie"))
	require.NoError(t, err)
	assert.Contains(t, result.Message.Content(), "Kraków")
	assert.Contains(t, result.Message.Content(), "Muzeum")
	assert.Contains(t, result.Message.Content(), "Koncert")
	assert.NotContains(t, result.Message.Content(), "Uwzględniłem tylko")
}

func TestPlannerAgentFiltersIndoorWhenRainy(t *testing.T) {
	weather := core.ToolFunc{ToolName: "weather_tool", Fn: func(ctx context.Context, p map[string]any) (any, error) {
		return map[string]any{"summary": "deszczowo", "temp_c": 8, "precip_prob": 90}, nil
	}}
	events := core.ToolFunc{ToolName: "events_tool", Fn: func(ctx context.Context, p map[string]any) (any, error) {
		return map[string]any{"events": eventList(
			map[string]any{"start": "10:00", "title": "Muzeum", "indoor": true, "price_pln": 30},
			map[string]any{"start": "11:00", "title": "Spacer", "indoor": false, "price_pln": 0},
		)}, nil
	}}

	agent := NewPlannerAgent(weather, events)
	result, err := agent.Handle(context.Background(), core.NewMessage("user", "zaplanuj dzień w Krakowie"))
	require.NoError(t, err)
	assert.Contains(t, result.Message.Content(), "Muzeum")
	assert.NotContains(t, result.Message.Content(), "Spacer")
	assert.Contains(t, result.Message.Content(), "Uwzględniłem tylko")
}

func TestPlannerAgentNoEventsReturnsFallbackMessage(t *testing.T) {
	weather := core.ToolFunc{ToolName: "weather_tool", Fn: func(ctx context.Context, p map[string]any) (any, error) {
		return map[string]any{"summary": "pochmurno", "temp_c": 12, "precip_prob": 20}, nil
	}}
	events := core.ToolFunc{ToolName: "events_tool", Fn: func(ctx context.Context, p map[string]any) (any, error) {
		return map[string]any{"events": eventList()}, nil
	}}

	agent := NewPlannerAgent(weather, events)
	result, err := agent.Handle(context.Background(), core.NewMessage("user", "zaplanuj dzień w Poznaniu"))
	require.NoError(t, err)
	assert.Contains(t, result.Message.Content(), "Nie znalazłem sensownego planu")
}
