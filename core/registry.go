package core

import "sync"

// AgentRegistry maps agent name to Agent and exposes capability descriptors
// to the coordinator (spec.md §4.3). Owned exclusively by one Orchestrator;
// external code registers once at build time (spec.md §3 Ownership).
type AgentRegistry struct {
	mu      sync.RWMutex
	agents  map[string]Agent
	order   []string
}

// NewAgentRegistry builds an empty registry.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{agents: make(map[string]Agent)}
}

// Register adds an agent, rejecting duplicate names with DUPLICATE_AGENT.
func (r *AgentRegistry) Register(agent Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := agent.Name()
	if _, exists := r.agents[name]; exists {
		return NewOrchestratorError("AgentRegistry.Register", KindDuplicateAgent, name, nil)
	}
	r.agents[name] = agent
	r.order = append(r.order, name)
	return nil
}

// Get returns the agent or fails with UNKNOWN_AGENT.
func (r *AgentRegistry) Get(name string) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[name]
	if !ok {
		return nil, NewOrchestratorError("AgentRegistry.Get", KindUnknownAgent, name, nil)
	}
	return agent, nil
}

// ListNames returns agent names in insertion order.
func (r *AgentRegistry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DescribableAgent lets an agent self-declare a capability description
// (otherwise ListCapabilities falls back to an empty description — there is
// no reflection-based doc-comment extraction in Go, unlike the Python
// original's docstring fallback).
type DescribableAgent interface {
	Description() string
}

// ListCapabilities returns one AgentCapability per registered agent, in
// insertion order (spec.md §4.3).
func (r *AgentRegistry) ListCapabilities() []AgentCapability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]AgentCapability, 0, len(r.order))
	for _, name := range r.order {
		agent := r.agents[name]
		desc := ""
		if d, ok := agent.(DescribableAgent); ok {
			desc = d.Description()
		}
		out = append(out, AgentCapability{Name: name, Description: desc})
	}
	return out
}
