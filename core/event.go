package core

import "maps"

// EventType enumerates the event kinds that make up the team event stream.
type EventType string

const (
	EventRoute       EventType = "route"
	EventDecision    EventType = "decision"
	EventToolCall    EventType = "tool_call"
	EventObservation EventType = "observation"
	EventRespond     EventType = "respond"
	EventCritique    EventType = "critique"
	EventError       EventType = "error"
)

var knownEventTypes = map[EventType]bool{
	EventRoute: true, EventDecision: true, EventToolCall: true,
	EventObservation: true, EventRespond: true, EventCritique: true, EventError: true,
}

// Event is an immutable value type: one entry in the structured, replayable
// team event stream (spec.md §3). Events within a single turn are totally
// ordered by append order.
type Event struct {
	Type          EventType
	Actor         string
	Target        string
	Data          map[string]any
	Timestamp     string
	CorrelationID string
}

// NewEvent builds an Event, copying data and stamping the current time.
func NewEvent(typ EventType, actor, target string, data map[string]any, correlationID string) Event {
	d := map[string]any{}
	maps.Copy(d, data)
	return Event{
		Type:          typ,
		Actor:         actor,
		Target:        target,
		Data:          d,
		Timestamp:     nowISO(),
		CorrelationID: correlationID,
	}
}

// WithCorrelation returns a copy of ev carrying cid, only if ev has none yet.
// The orchestrator uses this to inherit the turn's correlation id onto
// agent-supplied events that arrive without one (spec.md §4.1 step 9).
func (ev Event) WithCorrelation(cid string) Event {
	if ev.CorrelationID != "" {
		return ev
	}
	out := ev
	out.Data = map[string]any{}
	maps.Copy(out.Data, ev.Data)
	out.CorrelationID = cid
	return out
}

// ToDict renders the Event for serialization / the round-trip law.
func (ev Event) ToDict() map[string]any {
	data := map[string]any{}
	maps.Copy(data, ev.Data)
	return map[string]any{
		"type":           string(ev.Type),
		"actor":          ev.Actor,
		"target":         ev.Target,
		"data":           data,
		"timestamp":      ev.Timestamp,
		"correlation_id": ev.CorrelationID,
	}
}

// EventFromDict reconstructs an Event from ToDict's output.
func EventFromDict(d map[string]any) Event {
	typ, _ := d["type"].(string)
	actor, _ := d["actor"].(string)
	target, _ := d["target"].(string)
	data, _ := d["data"].(map[string]any)
	ts, _ := d["timestamp"].(string)
	cid, _ := d["correlation_id"].(string)

	out := map[string]any{}
	maps.Copy(out, data)

	return Event{
		Type:          EventType(typ),
		Actor:         actor,
		Target:        target,
		Data:          out,
		Timestamp:     ts,
		CorrelationID: cid,
	}
}

// TraceEvent is the legacy trace model (team_conversation), kept alongside
// the unified Event stream for backwards compatibility with older tooling
// (spec.md §3, §4.1). Every TraceEvent can be adapted into an Event.
type TraceEvent struct {
	Actor         string
	Action        string
	Target        string
	Params        map[string]any
	Outcome       string
	Error         *ToolError
	Timestamp     string
	CorrelationID string
}

// NewTraceEvent builds a TraceEvent, stamping the current time.
func NewTraceEvent(actor, action, target string, params map[string]any, outcome string, err *ToolError, correlationID string) TraceEvent {
	p := map[string]any{}
	maps.Copy(p, params)
	return TraceEvent{
		Actor:         actor,
		Action:        action,
		Target:        target,
		Params:        p,
		Outcome:       outcome,
		Error:         err,
		Timestamp:     nowISO(),
		CorrelationID: correlationID,
	}
}

// ToEvent adapts a TraceEvent into the unified Event model. Unknown actions
// map to "error", matching the Python original's safe-mapping behavior.
func (t TraceEvent) ToEvent() Event {
	typ := EventType(t.Action)
	if !knownEventTypes[typ] {
		typ = EventError
	}
	data := map[string]any{}
	maps.Copy(data, t.Params)
	return Event{
		Type:          typ,
		Actor:         t.Actor,
		Target:        t.Target,
		Data:          data,
		Timestamp:     t.Timestamp,
		CorrelationID: t.CorrelationID,
	}
}
