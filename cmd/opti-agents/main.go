// Command opti-agents wires the turn engine end to end and runs a couple of
// canned turns against it, printing the resulting replies and writing the
// trace to ./var/trace.jsonl. This is
// a demonstration of the wiring, not a CLI framework — there is no flag
// parsing, no interactive shell, no subcommands. Grounded on the teacher's
// core/cmd/example/main.go wiring style.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/pawelhaladyj/opti-agents/agents"
	"github.com/pawelhaladyj/opti-agents/config"
	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/pawelhaladyj/opti-agents/logging"
	"github.com/pawelhaladyj/opti-agents/orchestration"
	"github.com/pawelhaladyj/opti-agents/routing"
	"github.com/pawelhaladyj/opti-agents/sinks"
)

func main() {
	logger := logging.NewSimpleLogger()
	logger.SetLevel("info")

	cfg := config.Default()

	registry := core.NewAgentRegistry()
	mustRegister(registry, routing.NewHeuristicCoordinator("coordinator"))
	mustRegister(registry, agents.NewWeatherAgent(weatherTool()))
	mustRegister(registry, agents.NewStayAgent(housingTool()))
	mustRegister(registry, agents.NewPlannerAgent(weatherTool(), eventsTool()))

	orch := orchestration.New(registry, nil, cfg.OrchestrationConfig())

	history := sinks.NewHistoryLogger("./var/history")

	turns := []string{
		"Jaka będzie pogoda w Krakowie?",
		"Szukam noclegu w Gdańsku na weekend.",
		"Zaplanuj mi dzień w Warszawie.",
		"koniec",
	}

	for _, turn := range turns {
		reply, err := orch.HandleText(context.Background(), turn)
		if err != nil {
			logger.Error("turn failed", map[string]any{"input": turn, "error": err.Error()})
			continue
		}

		fmt.Printf("user> %s\n%s> %s\n\n", turn, reply.Sender(), reply.Content())

		if err := history.Append(core.NewMessage("user", turn)); err != nil {
			logger.Warn("history append failed", map[string]any{"error": err.Error()})
		}
		if err := history.Append(reply); err != nil {
			logger.Warn("history append failed", map[string]any{"error": err.Error()})
		}
	}

	if err := sinks.WriteTraceJSONL(orch.TeamConversation(), "./var/trace.jsonl"); err != nil {
		logger.Error("trace write failed", map[string]any{"error": err.Error()})
	}
}

func mustRegister(registry *core.AgentRegistry, agent core.Agent) {
	if err := registry.Register(agent); err != nil {
		log.Fatalf("opti-agents: register %s: %v", agent.Name(), err)
	}
}

// weatherTool is a stand-in weather lookup: deterministic canned data keyed
// by location, no network calls. A real deployment would swap this for an
// HTTP-backed core.Tool.
func weatherTool() core.Tool {
	return core.ToolFunc{
		ToolName: "weather_tool",
		Fn: func(_ context.Context, params map[string]any) (any, error) {
			location, _ := params["location"].(string)
			date, _ := params["date"].(string)
			return map[string]any{
				"location":        location,
				"date":            date,
				"summary":         "częściowo pochmurno",
				"temp_c":          18,
				"condition":       "częściowo pochmurno",
				"precip_prob":     30,
				"precip_prob_pct": 30,
			}, nil
		},
	}
}

// housingTool is a stand-in lodging search over a tiny fixed catalog.
func housingTool() core.Tool {
	return core.ToolFunc{
		ToolName: "housing_tool",
		Fn: func(_ context.Context, params map[string]any) (any, error) {
			city, _ := params["city"].(string)
			checkin, _ := params["checkin"].(string)
			checkout, _ := params["checkout"].(string)
			return map[string]any{
				"city":     city,
				"checkin":  checkin,
				"checkout": checkout,
				"stays": []map[string]any{
					{"name": "Stare Miasto Apartament", "price_pln_per_night": 280, "rating": 4.6},
					{"name": "Hotel Centrum", "price_pln_per_night": 340, "rating": 4.4},
				},
			}, nil
		},
	}
}

// eventsTool is a stand-in local-events lookup over a tiny fixed catalog.
func eventsTool() core.Tool {
	return core.ToolFunc{
		ToolName: "events_tool",
		Fn: func(_ context.Context, params map[string]any) (any, error) {
			city, _ := params["city"].(string)
			return map[string]any{
				"city": city,
				"events": []any{
					map[string]any{"title": "Spacer po Starym Mieście", "start": "10:00", "indoor": false},
					map[string]any{"title": "Muzeum Narodowe", "start": "13:00", "indoor": true},
					map[string]any{"title": "Targ Śniadaniowy", "start": "09:00", "indoor": false},
				},
			}, nil
		},
	}
}

func init() {
	if err := os.MkdirAll("./var", 0o755); err != nil {
		log.Fatalf("opti-agents: prepare var dir: %v", err)
	}
}
