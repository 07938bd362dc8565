package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caps(names ...string) []core.AgentCapability {
	out := make([]core.AgentCapability, len(names))
	for i, n := range names {
		out[i] = core.AgentCapability{Name: n}
	}
	return out
}

func TestHeuristicCoordinatorStopsOnExit(t *testing.T) {
	c := NewHeuristicCoordinator("")
	decision, err := c.Decide(context.Background(), "quit", core.TeamMemoryContext{}, caps("weather"))
	require.NoError(t, err)
	assert.True(t, decision.Stop)
}

func TestHeuristicCoordinatorStopsOnKoniecPrefix(t *testing.T) {
	c := NewHeuristicCoordinator("")
	decision, err := c.Decide(context.Background(), "koniec rozmowy", core.TeamMemoryContext{}, caps("weather"))
	require.NoError(t, err)
	assert.True(t, decision.Stop)
}

func TestHeuristicCoordinatorDoesNotStopOnExitSubstring(t *testing.T) {
	c := NewHeuristicCoordinator("coordinator")
	decision, err := c.Decide(context.Background(), "quitting my job, need lodging advice", core.TeamMemoryContext{}, caps("stays"))
	require.NoError(t, err)
	assert.False(t, decision.Stop)
}

func TestHeuristicCoordinatorRoutesToWeather(t *testing.T) {
	c := NewHeuristicCoordinator("coordinator")
	decision, err := c.Decide(context.Background(), "jaka będzie pogoda w Krakowie?", core.TeamMemoryContext{}, caps("weather", "planner"))
	require.NoError(t, err)
	assert.Equal(t, "weather", decision.NextAgent)
	assert.Contains(t, decision.NeededTools, "weather_tool")
}

func TestHeuristicCoordinatorRoutesToStays(t *testing.T) {
	c := NewHeuristicCoordinator("coordinator")
	decision, err := c.Decide(context.Background(), "szukam hotelu w Gdańsku", core.TeamMemoryContext{}, caps("stays", "planner"))
	require.NoError(t, err)
	assert.Equal(t, "stays", decision.NextAgent)
}

func TestHeuristicCoordinatorFallsBackToPlanner(t *testing.T) {
	c := NewHeuristicCoordinator("coordinator")
	decision, err := c.Decide(context.Background(), "cześć, co słychać?", core.TeamMemoryContext{}, caps("planner"))
	require.NoError(t, err)
	assert.Equal(t, "planner", decision.NextAgent)
}

func TestHeuristicCoordinatorFallsBackToFirstAgentWithNoPlanner(t *testing.T) {
	c := NewHeuristicCoordinator("coordinator")
	decision, err := c.Decide(context.Background(), "cześć", core.TeamMemoryContext{}, caps("weather"))
	require.NoError(t, err)
	assert.Equal(t, "weather", decision.NextAgent)
}

func TestDefaultCoordinatorMatchesFirstRule(t *testing.T) {
	c := NewDefaultCoordinator([]core.RoutingRule{
		{Keyword: "weather", AgentName: "weather"},
		{Keyword: "stay", AgentName: "stays"},
	})
	decision, err := c.Decide(context.Background(), "tell me about the weather", core.TeamMemoryContext{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "weather", decision.NextAgent)
}

func TestDefaultCoordinatorNoMatchReturnsNoRoute(t *testing.T) {
	c := NewDefaultCoordinator([]core.RoutingRule{{Keyword: "weather", AgentName: "weather"}})
	_, err := c.Decide(context.Background(), "sing me a song", core.TeamMemoryContext{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoRouteMatched))

	var oe *core.OrchestratorError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, core.KindNoRoute, oe.Kind)
}
