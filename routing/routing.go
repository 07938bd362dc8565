// Package routing implements the two Coordinator strategies spec.md §4.2
// names: a deterministic keyword intent classifier grounded on
// original_source/src/organizer/agents/coordinator.py, and the legacy
// rule-based fallback grounded on original_source/src/organizer/core/orchestrator.py's
// DefaultCoordinator.
package routing

import (
	"context"
	"fmt"
	"strings"

	"github.com/pawelhaladyj/opti-agents/core"
)

// HeuristicCoordinator is the non-LLM intent classifier: it recognizes
// weather/stay/plan keywords and an exit phrase, falling back to the
// planner (or the first registered agent) for anything else.
type HeuristicCoordinator struct {
	AgentName string
}

// NewHeuristicCoordinator builds the coordinator under the given registry
// name (defaults to "coordinator" if empty).
func NewHeuristicCoordinator(name string) *HeuristicCoordinator {
	if name == "" {
		name = "coordinator"
	}
	return &HeuristicCoordinator{AgentName: name}
}

func (c *HeuristicCoordinator) Name() string { return c.AgentName }

// Handle implements core.Agent; the coordinator never responds directly.
func (c *HeuristicCoordinator) Handle(ctx context.Context, msg core.Message) (core.AgentResult, error) {
	return core.LiftMessage(core.NewMessage(c.AgentName, "CoordinatorAgent does not respond directly.")), nil
}

var (
	exitWords    = []string{"exit", "quit"}
	exitPrefixes = []string{"koniec"}

	weatherKeywords = []string{"pogoda", "prognoza", "temperatura", "pada", "wiatr", "wiało", "pochmurnie", "weather"}
	staysKeywords   = []string{"nocleg", "hotel", "apartament", "mieszkanie", "zostań", "stay"}
	planKeywords    = []string{"zaplanuj", "plan", "itinerarz", "zorganizuj", "dzień", "czas"}
)

func anyContains(low string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}

// Decide implements core.Coordinator.
func (c *HeuristicCoordinator) Decide(ctx context.Context, userGoal string, teamCtx core.TeamMemoryContext, agents []core.AgentCapability) (core.CoordinatorDecision, error) {
	text := strings.TrimSpace(userGoal)
	low := strings.ToLower(text)

	for _, w := range exitWords {
		if low == w {
			return core.NewCoordinatorDecision(c.AgentName, "Stop conversation", "No further action", true, nil), nil
		}
	}
	for _, p := range exitPrefixes {
		if strings.HasPrefix(low, p) {
			return core.NewCoordinatorDecision(c.AgentName, "Stop conversation", "No further action", true, nil), nil
		}
	}

	available := map[string]bool{}
	for _, a := range agents {
		available[a.Name] = true
	}

	if anyContains(low, weatherKeywords) && available["weather"] {
		return core.NewCoordinatorDecision("weather",
			fmt.Sprintf("Answer the weather question: %s", text),
			"A short forecast with reasoning (city/day/conditions).",
			false, []string{"weather_tool"}), nil
	}

	if anyContains(low, staysKeywords) && available["stays"] {
		return core.NewCoordinatorDecision("stays",
			fmt.Sprintf("Help find lodging/accommodation options: %s", text),
			"A list of options with a short rationale for the choice.",
			false, []string{"housing_tool"}), nil
	}

	if anyContains(low, planKeywords) && available["planner"] {
		return core.NewCoordinatorDecision("planner",
			fmt.Sprintf("Plan activities: %s", text),
			"A proposed day plan with points and weather conditions if relevant.",
			false, []string{"events_tool", "weather_tool"}), nil
	}

	if available["planner"] {
		return core.NewCoordinatorDecision("planner",
			fmt.Sprintf("Try to interpret the intent and help: %s", text),
			"A concise answer, with a clarifying question if needed.",
			false, nil), nil
	}

	first := c.AgentName
	if len(agents) > 0 {
		first = agents[0].Name
	}
	return core.NewCoordinatorDecision(first,
		fmt.Sprintf("Answer as best you can: %s", text),
		"A response matching the agent's capabilities.",
		false, nil), nil
}

// DefaultCoordinator is the legacy keyword-rule fallback used when no
// "coordinator" agent is registered (spec.md §4.2). It exists so
// registrations made purely of RoutingRule values keep working.
type DefaultCoordinator struct {
	rules []core.RoutingRule
}

// NewDefaultCoordinator builds a DefaultCoordinator from rules, evaluated
// in order; the first keyword match wins.
func NewDefaultCoordinator(rules []core.RoutingRule) *DefaultCoordinator {
	return &DefaultCoordinator{rules: append([]core.RoutingRule{}, rules...)}
}

func (c *DefaultCoordinator) Name() string { return "coordinator" }

// Decide implements core.Coordinator. It returns core.ErrNoRouteMatched
// wrapped in an *core.OrchestratorError when no rule's keyword occurs in
// userGoal (spec.md §7 NO_ROUTE).
func (c *DefaultCoordinator) Decide(ctx context.Context, userGoal string, teamCtx core.TeamMemoryContext, agents []core.AgentCapability) (core.CoordinatorDecision, error) {
	low := strings.ToLower(userGoal)

	for _, rule := range c.rules {
		if strings.Contains(low, strings.ToLower(rule.Keyword)) {
			return core.NewCoordinatorDecision(rule.AgentName,
				fmt.Sprintf("Handle user request: %s", userGoal),
				"A helpful response.", false, nil), nil
		}
	}

	return core.CoordinatorDecision{}, core.NewOrchestratorError("DefaultCoordinator.Decide", core.KindNoRoute, "", nil)
}
