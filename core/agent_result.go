package core

// AgentCapability is the immutable descriptor a Coordinator sees for each
// registered agent (spec.md §3, §4.3).
type AgentCapability struct {
	Name        string
	Description string
}

// AgentResult is what an Agent.Handle call produces: the reply Message, an
// optional structured payload, and any Events it wants folded into the team
// event stream (spec.md §3). Legacy agents may return a bare Message; the
// orchestrator lifts it into an AgentResult with no events.
type AgentResult struct {
	Message Message
	Payload map[string]any
	Events  []Event
}

// NewAgentResult builds an AgentResult, copying the event slice defensively.
func NewAgentResult(msg Message, payload map[string]any, events []Event) AgentResult {
	evs := make([]Event, len(events))
	copy(evs, events)
	return AgentResult{Message: msg, Payload: payload, Events: evs}
}

// LiftMessage wraps a bare Message as an AgentResult with no events, per
// spec.md §3's "legacy agents may return a bare Message" rule.
func LiftMessage(msg Message) AgentResult {
	return AgentResult{Message: msg}
}
