package orchestration

import (
	"context"
	"testing"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWeatherAgent() core.Agent {
	return core.AgentFunc{AgentName: "weather", Fn: func(ctx context.Context, msg core.Message) (core.AgentResult, error) {
		ev := core.NewEvent(core.EventToolCall, "weather", "weather_tool", map[string]any{"city": "Kraków"}, "")
		return core.NewAgentResult(
			core.NewMessage("weather", "Słonecznie, 22°C."),
			map[string]any{"city": "Kraków"},
			[]core.Event{ev},
		), nil
	}}
}

func buildRegistry(t *testing.T) *core.AgentRegistry {
	t.Helper()
	reg := core.NewAgentRegistry()
	require.NoError(t, reg.Register(newWeatherAgent()))
	return reg
}

// S1 — happy path routes to weather via legacy rule-based DefaultCoordinator.
func TestOrchestratorRoutesToWeatherHappyPath(t *testing.T) {
	reg := buildRegistry(t)
	orch := New(reg, []core.RoutingRule{{Keyword: "pogoda", AgentName: "weather"}}, DefaultConfig())

	reply, err := orch.HandleText(context.Background(), "jaka jest pogoda w Krakowie?")
	require.NoError(t, err)
	assert.Equal(t, "weather", reply.Sender())
	assert.Equal(t, "Słonecznie, 22°C.", reply.Content())
	assert.NotEmpty(t, reply.CorrelationID())
}

// S2 — stop intent. DefaultCoordinator relies purely on rules and never
// returns stop, so the stop path is driven here by a registered
// coordinator that always decides to stop.
func TestOrchestratorStopsConversation(t *testing.T) {
	reg := core.NewAgentRegistry()
	require.NoError(t, reg.Register(stopCoordinator{}))

	orch := New(reg, nil, DefaultConfig())
	reply, err := orch.HandleText(context.Background(), "exit")
	require.NoError(t, err)
	assert.Equal(t, "coordinator", reply.Sender())
	assert.Equal(t, "OK, kończę.", reply.Content())
}

type stopCoordinator struct{}

func (stopCoordinator) Name() string { return "coordinator" }
func (stopCoordinator) Handle(ctx context.Context, msg core.Message) (core.AgentResult, error) {
	return core.LiftMessage(core.NewMessage("coordinator", "n/a")), nil
}
func (stopCoordinator) Decide(ctx context.Context, userGoal string, teamCtx core.TeamMemoryContext, agents []core.AgentCapability) (core.CoordinatorDecision, error) {
	return core.NewCoordinatorDecision("coordinator", "Stop conversation", "No further action", true, nil), nil
}

// Correlation-closure law (spec.md §8 law 1): every event recorded in a
// single turn shares one correlation id.
func TestOrchestratorEventsShareOneCorrelationID(t *testing.T) {
	reg := buildRegistry(t)
	orch := New(reg, []core.RoutingRule{{Keyword: "pogoda", AgentName: "weather"}}, DefaultConfig())

	reply, err := orch.HandleText(context.Background(), "pogoda jutro?")
	require.NoError(t, err)

	events := orch.TeamEvents()
	require.NotEmpty(t, events)
	for _, ev := range events {
		assert.Equal(t, reply.CorrelationID(), ev.CorrelationID)
	}
}

// Turn-order law (spec.md §8 law 2): decision -> route -> (agent events) -> respond.
func TestOrchestratorEventOrderDecisionRouteRespond(t *testing.T) {
	reg := buildRegistry(t)
	orch := New(reg, []core.RoutingRule{{Keyword: "pogoda", AgentName: "weather"}}, DefaultConfig())

	_, err := orch.HandleText(context.Background(), "pogoda jutro?")
	require.NoError(t, err)

	events := orch.TeamEvents()
	require.Len(t, events, 4)
	assert.Equal(t, core.EventDecision, events[0].Type)
	assert.Equal(t, core.EventRoute, events[1].Type)
	assert.Equal(t, core.EventToolCall, events[2].Type)
	assert.Equal(t, core.EventRespond, events[3].Type)
}

// S8 — duplicate agent registration rejected, reachable through the
// orchestrator's own registry wiring.
func TestOrchestratorRegistryRejectsDuplicateAgent(t *testing.T) {
	reg := core.NewAgentRegistry()
	require.NoError(t, reg.Register(newWeatherAgent()))
	err := reg.Register(newWeatherAgent())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAgentAlreadyExists)
}

func TestOrchestratorUnknownRouteSurfacesError(t *testing.T) {
	reg := core.NewAgentRegistry()
	orch := New(reg, []core.RoutingRule{{Keyword: "pogoda", AgentName: "weather"}}, DefaultConfig())

	_, err := orch.HandleText(context.Background(), "pogoda?")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAgentNotFound)
}

func TestOrchestratorResetClearsHistoryAndMemory(t *testing.T) {
	reg := buildRegistry(t)
	orch := New(reg, []core.RoutingRule{{Keyword: "pogoda", AgentName: "weather"}}, DefaultConfig())

	_, err := orch.HandleText(context.Background(), "pogoda?")
	require.NoError(t, err)
	require.NotEmpty(t, orch.History())

	orch.Reset()
	assert.Empty(t, orch.History())
	assert.Empty(t, orch.TeamEvents())
	assert.Empty(t, orch.TeamContext().Facts)
}
