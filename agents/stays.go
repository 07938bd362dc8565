package agents

import (
	"context"
	"fmt"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/pawelhaladyj/opti-agents/resilience"
	"github.com/pawelhaladyj/opti-agents/telemetry"
)

// StayAgent answers lodging questions using a housing-lookup Tool.
// Grounded on original_source/src/organizer/agents/stays.py.
type StayAgent struct {
	AgentName   string
	Tool        core.Tool
	RetryPolicy resilience.RetryPolicy
	Telemetry   *telemetry.Provider // optional; nil disables tracing
}

func NewStayAgent(tool core.Tool) *StayAgent {
	return &StayAgent{AgentName: "stays", Tool: tool, RetryPolicy: resilience.DefaultRetryPolicy()}
}

func (a *StayAgent) Name() string { return a.AgentName }

func (a *StayAgent) Description() string {
	return "Finds lodging options for a city and date range using a housing lookup tool."
}

func (a *StayAgent) Handle(ctx context.Context, msg core.Message) (core.AgentResult, error) {
	cid := msg.CorrelationID()

	city := ExtractLocation(msg.Content())
	if city == "" {
		city = "Kraków"
	}

	params := map[string]any{
		"city":                 city,
		"checkin":              "2026-01-10",
		"checkout":             "2026-01-12",
		"budget_pln_per_night": 300,
	}

	raw, traces, err := resilience.CallToolWithRetry(ctx, a.Tool, params, a.AgentName, cid, a.RetryPolicy, resilience.DefaultSleep, a.Telemetry)
	events := tracesToEvents(traces)
	if err != nil {
		return core.AgentResult{}, fmt.Errorf("agents: stays: %w", err)
	}

	data, ok := raw.(map[string]any)
	if !ok {
		return core.AgentResult{}, fmt.Errorf("agents: stays: unexpected tool result type %T", raw)
	}

	stays, _ := data["stays"].([]map[string]any)
	if len(stays) == 0 {
		content := fmt.Sprintf("Nie znalazłem noclegów w %v.", data["city"])
		return core.NewAgentResult(core.NewMessage(a.AgentName, content), data, events), nil
	}

	top := stays[0]
	content := fmt.Sprintf("Znalazłem %d propozycje noclegu w %v (%v–%v). Najtańsza przykładowa: %v za %v PLN/noc (ocena %v).",
		len(stays), data["city"], data["checkin"], data["checkout"], top["name"], top["price_pln_per_night"], top["rating"])

	return core.NewAgentResult(core.NewMessage(a.AgentName, content), data, events), nil
}
