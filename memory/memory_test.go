package memory

import (
	"context"
	"testing"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(typ core.EventType, actor, target string) core.Event {
	return core.NewEvent(typ, actor, target, map[string]any{"k": "v"}, "CID-1")
}

// spec.md §8 law 5 — condensation happens exactly every SummarizeEvery
// events, and condensed events are removed from consideration (the rolling
// count only grows by whole chunks).
func TestTeamMemoryCondensesEveryNEvents(t *testing.T) {
	m := New(Config{SummarizeEvery: 3, KeepRecent: 10, KeepScratchpad: 10})

	for i := 0; i < 2; i++ {
		m.AddEvent(newTestEvent(core.EventToolCall, "weather", "weather_api"))
	}
	assert.Equal(t, "", m.Context().RollingSummary, "no condensation before threshold")

	m.AddEvent(newTestEvent(core.EventToolCall, "weather", "weather_api"))
	summary := m.Context().RollingSummary
	assert.Contains(t, summary, "+3 events")

	for i := 0; i < 2; i++ {
		m.AddEvent(newTestEvent(core.EventDecision, "coordinator", "weather"))
	}
	assert.Equal(t, summary, m.Context().RollingSummary, "still below next threshold")

	m.AddEvent(newTestEvent(core.EventDecision, "coordinator", "weather"))
	assert.NotEqual(t, summary, m.Context().RollingSummary)
	assert.Contains(t, m.Context().RollingSummary, "highlights:")
}

// spec.md §8 law 6 — facts are deduplicated and order-preserving.
func TestTeamMemoryAddFactsDedupes(t *testing.T) {
	m := New(DefaultConfig())

	m.AddFacts("likes warm weather", "prefers budget stays", "likes warm weather", "  ")

	assert.Equal(t, []string{"likes warm weather", "prefers budget stays"}, m.Context().Facts)
}

func TestTeamMemoryContextBoundsRecentAndScratchpad(t *testing.T) {
	m := New(Config{SummarizeEvery: 1000, KeepRecent: 2, KeepScratchpad: 2})

	for i := 0; i < 5; i++ {
		m.AddEvent(newTestEvent(core.EventToolCall, "weather", "weather_api"))
	}

	ctx := m.Context()
	assert.Len(t, ctx.RecentEvents, 2)
	assert.Len(t, ctx.Scratchpad, 2)
}

func TestTeamMemoryResetClearsEverything(t *testing.T) {
	m := New(DefaultConfig())
	m.AddEvent(newTestEvent(core.EventToolCall, "weather", "weather_api"))
	m.AddFacts("some fact")

	m.Reset()

	ctx := m.Context()
	assert.Empty(t, ctx.RollingSummary)
	assert.Empty(t, ctx.Facts)
	assert.Empty(t, ctx.Scratchpad)
	assert.Empty(t, ctx.RecentEvents)
}

func TestInMemoryCheckpointerSaveLoadRoundTrip(t *testing.T) {
	cp := NewInMemoryCheckpointer()
	snap := core.TeamMemoryContext{
		RollingSummary: "summary text",
		Facts:          []string{"fact one"},
		Scratchpad:     []string{"tool_call :: a -> b"},
		RecentEvents:   []core.Event{newTestEvent(core.EventRespond, "planner", "user")},
	}

	require.NoError(t, cp.Save(context.Background(), "session-1", snap))

	loaded, ok, err := cp.Load(context.Background(), "session-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, loaded)
}

func TestInMemoryCheckpointerLoadMissingReturnsFalse(t *testing.T) {
	cp := NewInMemoryCheckpointer()
	_, ok, err := cp.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}
