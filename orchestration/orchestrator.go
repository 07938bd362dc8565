// Package orchestration implements the turn-execution engine (spec.md §4.1):
// the single entry point that takes a user Message, gets a routing decision,
// dispatches to a worker agent, and folds the resulting events into team
// memory, returning the reply Message. Grounded on
// original_source/src/organizer/core/orchestrator.py's Orchestrator.handle.
package orchestration

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/pawelhaladyj/opti-agents/memory"
	"github.com/pawelhaladyj/opti-agents/routing"
	"github.com/pawelhaladyj/opti-agents/schema"
)

// decisionSchema validates every CoordinatorDecision before the turn engine
// trusts it, regardless of which Coordinator produced it (spec.md §6).
var decisionSchema = schema.MustNewValidator()

// Config tunes the turn engine's team-memory cadence and coordinator name.
type Config struct {
	CoordinatorName string
	Memory          memory.Config
}

// DefaultConfig matches the original's defaults.
func DefaultConfig() Config {
	return Config{CoordinatorName: "coordinator", Memory: memory.DefaultConfig()}
}

// Orchestrator is the turn engine: one handle(Message) call executes exactly
// one turn (spec.md §4.1). Turns are serialized with a mutex — the original
// Python implementation relies on single-threaded execution; Go callers may
// share one Orchestrator across goroutines, so we make that guarantee
// explicit rather than silently relying on caller discipline.
type Orchestrator struct {
	mu sync.Mutex

	registry        *core.AgentRegistry
	rules           []core.RoutingRule
	coordinatorName string

	userHistory      []core.Message
	teamConversation []core.TraceEvent
	teamEvents       []core.Event

	teamMemory *memory.TeamMemory
}

// New builds an Orchestrator over registry, with rules feeding the legacy
// DefaultCoordinator fallback when no "coordinator" agent is registered.
func New(registry *core.AgentRegistry, rules []core.RoutingRule, cfg Config) *Orchestrator {
	if cfg.CoordinatorName == "" {
		cfg.CoordinatorName = "coordinator"
	}
	return &Orchestrator{
		registry:        registry,
		rules:           append([]core.RoutingRule{}, rules...),
		coordinatorName: cfg.CoordinatorName,
		teamMemory:      memory.New(cfg.Memory),
	}
}

// History returns the full message history (user input and agent replies).
func (o *Orchestrator) History() []core.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]core.Message{}, o.userHistory...)
}

// UserHistory is an alias for History, matching the original's naming.
func (o *Orchestrator) UserHistory() []core.Message { return o.History() }

// TeamConversation returns the legacy TraceEvent log.
func (o *Orchestrator) TeamConversation() []core.TraceEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]core.TraceEvent{}, o.teamConversation...)
}

// TeamEvents returns the unified Event stream.
func (o *Orchestrator) TeamEvents() []core.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]core.Event{}, o.teamEvents...)
}

// TeamContext returns the current bounded team-memory snapshot.
func (o *Orchestrator) TeamContext() core.TeamMemoryContext {
	return o.teamMemory.Context()
}

// AddTeamFacts records durable facts into team memory, deduplicated.
func (o *Orchestrator) AddTeamFacts(facts ...string) {
	o.teamMemory.AddFacts(facts...)
}

// Reset clears all turn history and team memory.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.userHistory = nil
	o.teamConversation = nil
	o.teamEvents = nil
	o.teamMemory.Reset()
}

// HandleText wraps Handle for a plain user string.
func (o *Orchestrator) HandleText(ctx context.Context, userText string) (core.Message, error) {
	return o.Handle(ctx, core.NewMessage("user", userText))
}

// Handle executes one turn (spec.md §4.1 steps 1-12): stamp correlation,
// get a routing decision, log it, stop or route, dispatch, fold events into
// memory, and reply.
func (o *Orchestrator) Handle(ctx context.Context, message core.Message) (core.Message, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	cid := message.CorrelationID()
	if cid == "" {
		cid = core.NewCorrelationID()
	}
	userMsg := message.WithCorrelation(cid)
	o.userHistory = append(o.userHistory, userMsg)

	teamCtx := o.teamMemory.Context()
	caps := o.registry.ListCapabilities()

	coordinator, coordinatorFromRegistry, coordinatorName, err := o.resolveCoordinator()
	if err != nil {
		return core.Message{}, err
	}

	decision, err := coordinator.Decide(ctx, userMsg.Content(), teamCtx, caps)
	if err != nil {
		return core.Message{}, fmt.Errorf("orchestration: coordinator decide: %w", err)
	}
	if err := validateDecisionShape(decision); err != nil {
		return core.Message{}, err
	}
	if err := decision.Validate(); err != nil {
		return core.Message{}, err
	}

	decisionEvent := core.NewEvent(core.EventDecision, coordinatorName, decision.NextAgent, decision.ToDict(), cid)
	o.recordEvent(decisionEvent)

	if coordinatorFromRegistry {
		o.teamConversation = append(o.teamConversation, core.NewTraceEvent(
			coordinatorName, "decision", decision.NextAgent, decision.ToDict(), "ok", nil, cid))
	}

	if decision.Stop {
		reply := core.NewMessage(coordinatorName, "OK, kończę.", core.WithCorrelationID(cid))
		o.userHistory = append(o.userHistory, reply)
		o.recordRespond(reply, cid)
		return reply, nil
	}

	agent, err := o.registry.Get(decision.NextAgent)
	if err != nil {
		return core.Message{}, err
	}

	routeEvent := core.NewEvent(core.EventRoute, "orchestrator", agent.Name(),
		map[string]any{"text": userMsg.Content(), "task": decision.Task}, cid)
	o.recordEvent(routeEvent)
	o.teamConversation = append(o.teamConversation, core.NewTraceEvent(
		"orchestrator", "route", agent.Name(),
		map[string]any{"text": userMsg.Content(), "task": decision.Task}, "ok", nil, cid))

	result, err := agent.Handle(ctx, userMsg)
	if err != nil {
		return core.Message{}, fmt.Errorf("orchestration: agent %q: %w", agent.Name(), err)
	}
	result = normalizeAgentResult(result, cid)

	for _, ev := range result.Events {
		o.recordEvent(ev.WithCorrelation(cid))
	}

	o.userHistory = append(o.userHistory, result.Message)
	o.recordRespond(result.Message, cid)

	return result.Message, nil
}

// validateDecisionShape checks a CoordinatorDecision's wire form against the
// spec.md §6 JSON schema before the orchestrator acts on it — a Coordinator
// is a pluggable seam (spec.md §4.2) and its output is untrusted input until
// it passes this gate.
func validateDecisionShape(d core.CoordinatorDecision) error {
	raw, err := json.Marshal(d.ToDict())
	if err != nil {
		return core.NewOrchestratorError("Orchestrator.Handle", core.KindInvalidDecision, "", err)
	}
	if err := decisionSchema.ValidateCoordinatorDecision(raw); err != nil {
		return core.NewOrchestratorError("Orchestrator.Handle", core.KindInvalidDecision, "", err)
	}
	return nil
}

// resolveCoordinator returns the registered "coordinator" agent if present
// (must implement core.Coordinator), else the legacy DefaultCoordinator
// fallback built from rules (spec.md §4.2).
func (o *Orchestrator) resolveCoordinator() (core.Coordinator, bool, string, error) {
	agent, err := o.registry.Get(o.coordinatorName)
	if err != nil {
		return routing.NewDefaultCoordinator(o.rules), false, o.coordinatorName, nil
	}
	coordinator, ok := agent.(core.Coordinator)
	if !ok {
		return nil, false, "", core.NewOrchestratorError("Orchestrator.Handle", core.KindInvalidCoordinator, o.coordinatorName, nil)
	}
	return coordinator, true, agent.Name(), nil
}

// recordRespond folds a "respond" Event/TraceEvent pair into the team
// event stream for the final reply message of a turn.
func (o *Orchestrator) recordRespond(reply core.Message, cid string) {
	respondEvent := core.NewEvent(core.EventRespond, reply.Sender(), "user",
		map[string]any{"content": reply.Content()}, cid)
	o.recordEvent(respondEvent)
	o.teamConversation = append(o.teamConversation, core.NewTraceEvent(
		reply.Sender(), "respond", "user", map[string]any{"content": reply.Content()}, "ok", nil, cid))
}

func (o *Orchestrator) recordEvent(ev core.Event) {
	o.teamEvents = append(o.teamEvents, ev)
	o.teamMemory.AddEvent(ev)
}

// normalizeAgentResult stamps cid onto the reply message when the agent
// didn't set one, matching _normalize_agent_output's behavior.
func normalizeAgentResult(result core.AgentResult, cid string) core.AgentResult {
	result.Message = result.Message.WithCorrelation(cid)
	return result
}
