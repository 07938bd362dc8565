package agents

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/pawelhaladyj/opti-agents/resilience"
	"github.com/pawelhaladyj/opti-agents/telemetry"
)

// PlannerAgent composes a day plan from weather and local events, filtering
// to indoor activities when it's likely to rain and greedily picking a
// non-overlapping subset, up to Preferences.MaxItems. Grounded on
// original_source/src/organizer/agents/planner.py.
type PlannerAgent struct {
	AgentName   string
	WeatherTool core.Tool
	EventsTool  core.Tool
	Preferences Preferences
	RetryPolicy resilience.RetryPolicy
	Telemetry   *telemetry.Provider // optional; nil disables tracing
}

func NewPlannerAgent(weatherTool, eventsTool core.Tool) *PlannerAgent {
	return &PlannerAgent{
		AgentName:   "planner",
		WeatherTool: weatherTool,
		EventsTool:  eventsTool,
		Preferences: DefaultPreferences(),
		RetryPolicy: resilience.DefaultRetryPolicy(),
	}
}

func (a *PlannerAgent) Name() string { return a.AgentName }

func (a *PlannerAgent) Description() string {
	return "Builds a day plan (up to 4 non-overlapping activities by default) from weather and local event data."
}

func (a *PlannerAgent) Handle(ctx context.Context, msg core.Message) (core.AgentResult, error) {
	cid := msg.CorrelationID()

	city := ExtractLocation(msg.Content())
	if city == "" {
		city = "Warszawa"
	}
	date := "tomorrow"

	var events []core.Event

	weatherRaw, weatherTraces, err := resilience.CallToolWithRetry(ctx, a.WeatherTool,
		map[string]any{"location": city, "date": date}, a.AgentName, cid, a.RetryPolicy, resilience.DefaultSleep, a.Telemetry)
	events = append(events, tracesToEvents(weatherTraces)...)
	if err != nil {
		return core.AgentResult{}, fmt.Errorf("agents: planner: weather: %w", err)
	}
	weather, _ := weatherRaw.(map[string]any)

	eventsRaw, eventsTraces, err := resilience.CallToolWithRetry(ctx, a.EventsTool,
		map[string]any{"city": city, "date": date, "category": a.Preferences.Category}, a.AgentName, cid, a.RetryPolicy, resilience.DefaultSleep, a.Telemetry)
	events = append(events, tracesToEvents(eventsTraces)...)
	if err != nil {
		return core.AgentResult{}, fmt.Errorf("agents: planner: events: %w", err)
	}
	eventsPayload, _ := eventsRaw.(map[string]any)

	candidates := asEventList(eventsPayload["events"])

	rainy := asInt(weather["precip_prob"]) > 60
	if rainy {
		candidates = filterIndoor(candidates)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return parseHour(asString(candidates[i]["start"])) < parseHour(asString(candidates[j]["start"]))
	})

	chosen := chooseNonOverlapping(candidates, a.Preferences.MaxItems, a.Preferences.EventDurationHours)

	content := formatPlan(city, date, weather, chosen, rainy)

	payload := map[string]any{"city": city, "date": date, "chosen": chosen}
	return core.NewAgentResult(core.NewMessage(a.AgentName, content), payload, events), nil
}

func filterIndoor(events []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, e := range events {
		if indoor, _ := e["indoor"].(bool); indoor {
			out = append(out, e)
		}
	}
	return out
}

func chooseNonOverlapping(events []map[string]any, maxItems, durationHours int) []map[string]any {
	var chosen []map[string]any
	lastEndHour := -1

	for _, e := range events {
		start := parseHour(asString(e["start"]))
		end := start + durationHours

		if lastEndHour == -1 || start >= lastEndHour {
			chosen = append(chosen, e)
			lastEndHour = end
		}
		if len(chosen) >= maxItems {
			break
		}
	}
	return chosen
}

func formatPlan(city, date string, weather map[string]any, chosen []map[string]any, rainy bool) string {
	if len(chosen) == 0 {
		return fmt.Sprintf("Nie znalazłem sensownego planu dla %s (%s). Pogoda: %v.",
			city, date, valueOr(weather["summary"], "?"))
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Plan dla %s (%s)", city, date))
	lines = append(lines, fmt.Sprintf("Pogoda: %v, %v°C, opady %v%%",
		valueOr(weather["summary"], "?"), valueOr(weather["temp_c"], "?"), valueOr(weather["precip_prob"], "?")))
	lines = append(lines, "Oś czasu:")

	for _, e := range chosen {
		kind := "outdoor"
		if indoor, _ := e["indoor"].(bool); indoor {
			kind = "indoor"
		}
		lines = append(lines, fmt.Sprintf("- %v — %v (%s, %v PLN)", e["start"], e["title"], kind, valueOr(e["price_pln"], "?")))
	}

	if rainy {
		lines = append(lines, "Uwzględniłem tylko wydarzenia indoor, bo wygląda na deszcz.")
	}

	return strings.Join(lines, "\n")
}

func parseHour(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) == 0 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	return h
}

func asEventList(v any) []map[string]any {
	raw, ok := v.([]any)
	if !ok {
		if direct, ok := v.([]map[string]any); ok {
			return direct
		}
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	default:
		return 0
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func valueOr(v any, fallback string) any {
	if v == nil {
		return fallback
	}
	return v
}
