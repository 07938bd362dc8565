package core

// ToolError is an immutable, provider-independent description of a failed
// tool call (spec.md §3). The Tool Runner is the only place that constructs
// these from raw panics/errors; everything downstream (retry, recovery)
// operates on ToolError alone.
type ToolError struct {
	Code           string
	Type           string
	Message        string
	Provider       string
	RequestParams  map[string]any
	RawResponse    *string
	StackTraceID   string
	StackTrace     string
}

// Tool error type constants (spec.md §3).
const (
	ToolErrHTTP      = "HTTP_ERROR"
	ToolErrTimeout   = "TIMEOUT"
	ToolErrNoResults = "NO_RESULTS"
	ToolErrException = "EXCEPTION"
	ToolErrOther     = "OTHER"
)

// ToDict renders the ToolError for embedding in Event.Data / TraceEvent.Params.
func (e ToolError) ToDict() map[string]any {
	params := map[string]any{}
	for k, v := range e.RequestParams {
		params[k] = v
	}
	d := map[string]any{
		"code":           e.Code,
		"type":           e.Type,
		"message":        e.Message,
		"provider":       e.Provider,
		"request_params": params,
		"stack_trace_id": e.StackTraceID,
	}
	if e.RawResponse != nil {
		d["raw_response"] = *e.RawResponse
	}
	if e.StackTrace != "" {
		d["stack_trace"] = e.StackTrace
	}
	return d
}
