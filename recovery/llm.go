package recovery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/pawelhaladyj/opti-agents/schema"
)

// fixResponseSchema validates a raw LLM reply against the recovery-fix wire
// shape before it is ever unmarshaled into LLMFixResponse (spec.md §6) — an
// LLM is an untrusted boundary, same as a Coordinator.
var fixResponseSchema = schema.MustNewValidator()

// LLMFixRequest is the wire shape sent to an LLMHelper (spec.md §6): the
// same inputs the heuristic stage had (tool error, last task, last inputs).
// The heuristic stage's own plan is not included.
type LLMFixRequest struct {
	ToolError      core.ToolError `json:"tool_error"`
	LastTaskName   string         `json:"last_task_name"`
	LastTaskTarget string         `json:"last_task_target"`
	LastInputs     map[string]any `json:"last_inputs"`
}

// LLMFixResponse is the wire shape an LLMHelper returns (spec.md §6): one
// of retry_tool / fallback_tool / fail. A caller proposing "retry_tool"
// with a ToolName different from the one that failed is downgraded to
// fallback_tool by DowngradeRetryToFallback, matching the original's
// "LLM may not silently swap tools under a retry label" rule.
type LLMFixResponse struct {
	Action      string         `json:"action"`
	Reason      string         `json:"reason"`
	ParamsPatch map[string]any `json:"params_patch"`
	ToolName    string         `json:"tool_name"`
}

// DowngradeRetryToFallback applies the spec.md §6 rule: an LLM response
// that asks to "retry" with a different tool name than the one that
// failed is really asking for a fallback tool, not a same-tool retry.
func DowngradeRetryToFallback(resp LLMFixResponse, failedToolName string) LLMFixResponse {
	if resp.Action == "retry_tool" && resp.ToolName != "" && resp.ToolName != failedToolName {
		resp.Action = "fallback_tool"
	}
	return resp
}

// ToFixPlan converts the wire response into a core.FixPlan, applying the
// retry-tool-rename downgrade first.
func (r LLMFixResponse) ToFixPlan(failedToolName string) core.FixPlan {
	r = DowngradeRetryToFallback(r, failedToolName)

	switch r.Action {
	case "retry_tool":
		if len(r.ParamsPatch) == 0 {
			return core.NewFixPlan(core.FixRetrySame, r.Reason, nil, "")
		}
		return core.NewFixPlan(core.FixRetryWithParams, r.Reason, r.ParamsPatch, "")
	case "fallback_tool":
		return core.NewFixPlan(core.FixFallbackTool, r.Reason, r.ParamsPatch, r.ToolName)
	default:
		return core.NewFixPlan(core.FixFail, r.Reason, nil, "")
	}
}

// ParseLLMFixResponse validates raw against the recovery-fix wire schema and
// only then unmarshals it, so a malformed LLM reply never reaches ToFixPlan.
func ParseLLMFixResponse(raw []byte) (LLMFixResponse, error) {
	if err := fixResponseSchema.ValidateRecoveryFixResponse(raw); err != nil {
		return LLMFixResponse{}, fmt.Errorf("recovery: invalid LLM fix response: %w", err)
	}
	var resp LLMFixResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return LLMFixResponse{}, fmt.Errorf("recovery: decode LLM fix response: %w", err)
	}
	return resp, nil
}

// JSONLLMHelper adapts any LLM call that returns raw JSON text into an
// LLMHelper: it builds the wire request, invokes Complete, validates the raw
// reply against the recovery-fix schema, and converts it to a core.FixPlan.
// Complete is the only thing a concrete LLM client needs to supply.
type JSONLLMHelper struct {
	Complete func(ctx context.Context, req LLMFixRequest) ([]byte, error)
}

// ProposeFix implements LLMHelper.
func (h JSONLLMHelper) ProposeFix(ctx context.Context, toolErr core.ToolError, lastTask core.Task, lastInputs map[string]any) (core.FixPlan, error) {
	req := LLMFixRequest{
		ToolError:      toolErr,
		LastTaskName:   lastTask.Name,
		LastTaskTarget: lastTask.Target,
		LastInputs:     lastInputs,
	}

	raw, err := h.Complete(ctx, req)
	if err != nil {
		return core.FixPlan{}, fmt.Errorf("recovery: LLM call: %w", err)
	}

	resp, err := ParseLLMFixResponse(raw)
	if err != nil {
		return core.FixPlan{}, err
	}

	return resp.ToFixPlan(lastTask.Target), nil
}
