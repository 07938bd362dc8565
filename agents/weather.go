package agents

import (
	"context"
	"fmt"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/pawelhaladyj/opti-agents/recovery"
	"github.com/pawelhaladyj/opti-agents/resilience"
	"github.com/pawelhaladyj/opti-agents/telemetry"
)

// WeatherAgent answers weather questions using a Tool, an optional city
// normalizer Tool, and the Retry Engine/Recovery Agent for resilience.
// Grounded on original_source/src/organizer/agents/weather.py.
type WeatherAgent struct {
	AgentName      string
	Tool           core.Tool
	CityNormalizer core.Tool // optional; nil disables normalization
	RetryPolicy    resilience.RetryPolicy
	Recovery       *recovery.Agent     // optional; nil disables post-retry recovery
	Telemetry      *telemetry.Provider // optional; nil disables tracing
}

// NewWeatherAgent builds a WeatherAgent named "weather" with the default
// retry policy and no recovery escalation.
func NewWeatherAgent(tool core.Tool) *WeatherAgent {
	return &WeatherAgent{AgentName: "weather", Tool: tool, RetryPolicy: resilience.DefaultRetryPolicy()}
}

func (a *WeatherAgent) Name() string { return a.AgentName }

func (a *WeatherAgent) Description() string {
	return "Answers weather questions for a named city using a weather lookup tool."
}

func (a *WeatherAgent) Handle(ctx context.Context, msg core.Message) (core.AgentResult, error) {
	cid := msg.CorrelationID()

	rawLocation := ExtractLocation(msg.Content())
	if rawLocation == "" {
		rawLocation = "Warszawa"
	}

	location := rawLocation
	if a.CityNormalizer != nil {
		if norm, err := a.CityNormalizer.Call(ctx, map[string]any{"text": rawLocation}); err == nil {
			if m, ok := norm.(map[string]any); ok {
				if nominative, ok := m["nominative"].(string); ok && nominative != "" {
					location = nominative
				}
			}
		}
	}

	params := map[string]any{"location": location, "date": "tomorrow"}

	data, events, err := a.callWithRecovery(ctx, params, cid)
	if err != nil {
		return core.AgentResult{}, fmt.Errorf("agents: weather: %w", err)
	}

	result, ok := data.(map[string]any)
	if !ok {
		return core.AgentResult{}, fmt.Errorf("agents: weather: unexpected tool result type %T", data)
	}

	content := fmt.Sprintf("Pogoda dla %v (%v): %v, %v°C, opady: %v%%.",
		result["location"], result["date"], result["summary"], result["temp_c"], result["precip_prob"])

	return core.NewAgentResult(core.NewMessage(a.AgentName, content), result, events), nil
}

// callWithRecovery calls the weather tool with retry, and — when retries
// are exhausted and a RecoveryAgent is wired — proposes one fix and, if it
// is retry_same or retry_with_params, retries once more with it before
// giving up for good. fallback_tool and fail plans are not applied.
func (a *WeatherAgent) callWithRecovery(ctx context.Context, params map[string]any, cid string) (any, []core.Event, error) {
	result, traces, err := resilience.CallToolWithRetry(ctx, a.Tool, params, a.AgentName, cid, a.RetryPolicy, resilience.DefaultSleep, a.Telemetry)
	events := tracesToEvents(traces)

	if err == nil {
		return result, events, nil
	}
	if a.Recovery == nil {
		return nil, events, err
	}

	exceeded, ok := asRetryExceeded(err)
	if !ok {
		return nil, events, err
	}

	plan := a.Recovery.ProposeFix(ctx, exceeded.LastError, core.NewTask("answer weather question", a.Tool.Name(), params), params)
	retryParams, shouldRetry := applyFixPlan(plan, params)
	if !shouldRetry {
		return nil, events, err
	}

	result, moreTraces, retryErr := resilience.CallToolWithRetry(ctx, a.Tool, retryParams, a.AgentName, cid, a.RetryPolicy, resilience.DefaultSleep, a.Telemetry)
	events = append(events, tracesToEvents(moreTraces)...)
	if retryErr != nil {
		return nil, events, retryErr
	}
	return result, events, nil
}

func tracesToEvents(traces []core.TraceEvent) []core.Event {
	out := make([]core.Event, 0, len(traces))
	for _, t := range traces {
		out = append(out, t.ToEvent())
	}
	return out
}

func asRetryExceeded(err error) (*resilience.RetryExceededError, bool) {
	var exceeded *resilience.RetryExceededError
	if e, ok := err.(*resilience.RetryExceededError); ok {
		exceeded = e
		return exceeded, true
	}
	return nil, false
}

// applyFixPlan merges a FixPlan's params patch onto the original params,
// reporting whether the caller should retry at all.
func applyFixPlan(plan core.FixPlan, original map[string]any) (map[string]any, bool) {
	switch plan.Action {
	case core.FixRetrySame:
		return original, true
	case core.FixRetryWithParams:
		merged := map[string]any{}
		for k, v := range original {
			merged[k] = v
		}
		for k, v := range plan.ParamsPatch {
			merged[k] = v
		}
		return merged, true
	default:
		return nil, false
	}
}
