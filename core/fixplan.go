package core

// FixAction enumerates the recovery directives a RecoveryAgent can produce.
type FixAction string

const (
	FixRetrySame        FixAction = "retry_same"
	FixRetryWithParams  FixAction = "retry_with_params"
	FixFallbackTool     FixAction = "fallback_tool"
	FixFail             FixAction = "fail"
)

// FixPlan is an immutable recovery directive (spec.md §3). ParamsPatch is
// always a diff against the last inputs, never a full replacement.
type FixPlan struct {
	Action           FixAction
	Reason           string
	ParamsPatch      map[string]any
	FallbackToolName string
}

// NewFixPlan builds a FixPlan, copying the patch defensively.
func NewFixPlan(action FixAction, reason string, paramsPatch map[string]any, fallbackTool string) FixPlan {
	var patch map[string]any
	if paramsPatch != nil {
		patch = map[string]any{}
		for k, v := range paramsPatch {
			patch[k] = v
		}
	}
	return FixPlan{Action: action, Reason: reason, ParamsPatch: patch, FallbackToolName: fallbackTool}
}
