package core

import (
	"fmt"
	"strings"
)

// CoordinatorDecision is the JSON-shaped routing directive a Coordinator
// returns for one turn (spec.md §3, wire shape in §6).
type CoordinatorDecision struct {
	NextAgent      string
	Task           string
	ExpectedOutput string
	Stop           bool
	NeededTools    []string
}

// NewCoordinatorDecision builds a decision with Stop defaulting to false and
// NeededTools defaulting to an empty (non-nil) slice.
func NewCoordinatorDecision(nextAgent, task, expectedOutput string, stop bool, neededTools []string) CoordinatorDecision {
	tools := make([]string, len(neededTools))
	copy(tools, neededTools)
	return CoordinatorDecision{
		NextAgent:      nextAgent,
		Task:           task,
		ExpectedOutput: expectedOutput,
		Stop:           stop,
		NeededTools:    tools,
	}
}

// ToDict renders the decision per the wire shape in spec.md §6.
func (d CoordinatorDecision) ToDict() map[string]any {
	tools := make([]any, len(d.NeededTools))
	for i, t := range d.NeededTools {
		tools[i] = t
	}
	return map[string]any{
		"next_agent":      d.NextAgent,
		"task":            d.Task,
		"expected_output": d.ExpectedOutput,
		"stop":            d.Stop,
		"needed_tools":    tools,
	}
}

// CoordinatorDecisionFromDict parses the wire shape in spec.md §6, applying
// the same defaults as the Python original (stop defaults false,
// needed_tools defaults to an empty list).
func CoordinatorDecisionFromDict(d map[string]any) CoordinatorDecision {
	get := func(k string) string {
		if v, ok := d[k].(string); ok {
			return v
		}
		return ""
	}
	stop, _ := d["stop"].(bool)

	var tools []string
	if raw, ok := d["needed_tools"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				tools = append(tools, s)
			}
		}
	} else if raw, ok := d["needed_tools"].([]string); ok {
		tools = append(tools, raw...)
	}

	return NewCoordinatorDecision(get("next_agent"), get("task"), get("expected_output"), stop, tools)
}

// Validate fails with ErrInvalidDecision when a required non-empty field is
// empty (spec.md §3).
func (d CoordinatorDecision) Validate() error {
	var missing []string
	if strings.TrimSpace(d.NextAgent) == "" {
		missing = append(missing, "next_agent")
	}
	if strings.TrimSpace(d.Task) == "" {
		missing = append(missing, "task")
	}
	if strings.TrimSpace(d.ExpectedOutput) == "" {
		missing = append(missing, "expected_output")
	}
	if len(missing) == 0 {
		return nil
	}
	return NewOrchestratorError("CoordinatorDecision.Validate", KindInvalidDecision, "",
		fmt.Errorf("%w: missing required field(s): %s", ErrInvalidDecision, strings.Join(missing, ", ")))
}
