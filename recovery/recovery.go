// Package recovery implements the Recovery Agent (spec.md §4.6): the
// two-stage heuristic/LLM algorithm that turns a ToolError + last Task +
// last inputs into a FixPlan. Grounded on
// original_source/src/organizer/agents/recovery.py, ported control-flow for
// control-flow into Go.
package recovery

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/pawelhaladyj/opti-agents/telemetry"
)

// LLMHelper is the optional stage-2 escalation seam (spec.md §4.6, §6). A
// concrete LLM client is explicitly out of scope (spec.md §1); callers
// supply their own implementation.
type LLMHelper interface {
	ProposeFix(ctx context.Context, err core.ToolError, lastTask core.Task, lastInputs map[string]any) (core.FixPlan, error)
}

// Agent implements core.Coordinator-adjacent recovery logic: propose a fix
// for a tool failure. Not itself a core.Agent — RecoveryAgent is consulted
// by a worker agent after RetryExceededError, it does not sit in the
// registry or receive turns.
type Agent struct {
	Name      string
	LLM       LLMHelper
	Telemetry *telemetry.Provider // optional; nil disables tracing
}

// NewAgent builds a RecoveryAgent; llm may be nil to disable stage 2.
func NewAgent(llm LLMHelper) *Agent {
	return &Agent{Name: "recovery", LLM: llm}
}

var (
	noResultsRe  = regexp.MustCompile(`no results|no result|not found`)
	invalidDateRe = regexp.MustCompile(`invalid date|date format|fromisoformat`)
	transientRe  = regexp.MustCompile(`temporar|timeout|try again|rate limit|too many requests`)

	slashDateRe = regexp.MustCompile(`^(\d{4})[/.](\d{2})[/.](\d{2})$`)
	dashDateRe  = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ProposeFix runs the two-stage algorithm from spec.md §4.6, wrapped in one
// span per call covering both stages.
func (a *Agent) ProposeFix(ctx context.Context, toolErr core.ToolError, lastTask core.Task, lastInputs map[string]any) core.FixPlan {
	ctx, span := a.Telemetry.StartRecovery(ctx, lastTask.Target)
	defer span.End()

	plan := a.heuristicFix(toolErr, lastInputs)
	plan = a.maybeEscalate(ctx, plan, toolErr, lastTask, lastInputs)
	telemetry.RecordFixPlan(span, string(plan.Action), plan.Reason)
	return plan
}

func (a *Agent) heuristicFix(toolErr core.ToolError, lastInputs map[string]any) core.FixPlan {
	msg := strings.ToLower(toolErr.Message)

	if noResultsRe.MatchString(msg) {
		return a.noResultsFix(lastInputs)
	}

	if toolErr.Code == "400" || invalidDateRe.MatchString(msg) {
		if patch := fixDateFormatPatch(lastInputs); patch != nil {
			return core.NewFixPlan(core.FixRetryWithParams,
				"Bad request likely due to invalid date format; normalize to YYYY-MM-DD.",
				patch, "")
		}
		// falls through to the transient/default checks below, matching
		// the Python original's control flow.
	}

	if toolErr.Type == core.ToolErrTimeout || transientRe.MatchString(msg) {
		return core.NewFixPlan(core.FixRetrySame, "Transient error; safe to retry.", nil, "")
	}

	return core.NewFixPlan(core.FixFail, "No heuristic fix available for this tool error.", nil, "")
}

func (a *Agent) noResultsFix(lastInputs map[string]any) core.FixPlan {
	patch := map[string]any{}

	if lang, ok := lastInputs["language"]; ok {
		if s, _ := lang.(string); s != "pl" {
			patch["language"] = "pl"
		}
	}

	if count, ok := lastInputs["count"]; ok {
		patch["count"] = maxCount(count, 5)
	}

	if len(patch) > 0 {
		return core.NewFixPlan(core.FixRetryWithParams,
			"Tool returned no results; try broader query (language/count).", patch, "")
	}

	return core.NewFixPlan(core.FixFallbackTool,
		"Tool returned no results; try fallback geocoder provider.",
		lastInputs, "fallback_geocoder")
}

func maxCount(v any, floor int) int {
	n := floor
	switch t := v.(type) {
	case int:
		n = t
	case float64:
		n = int(t)
	case string:
		if parsed, err := strconv.Atoi(t); err == nil {
			n = parsed
		} else {
			n = 1
		}
	}
	if n < floor {
		return floor
	}
	return n
}

// fixDateFormatPatch normalizes a date field to YYYY-MM-DD, returning nil
// when there's nothing to patch (missing/empty field, already normalized,
// or unrecognized format) — spec.md §8 law 7 (date normalization
// idempotence).
func fixDateFormatPatch(inputs map[string]any) map[string]any {
	raw, ok := inputs["date"]
	if !ok {
		return nil
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", raw))
	if s == "" {
		return nil
	}
	if isoDateRe.MatchString(s) {
		return nil
	}
	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		return map[string]any{"date": fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])}
	}
	if m := dashDateRe.FindStringSubmatch(s); m != nil {
		return map[string]any{"date": fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])}
	}
	return nil
}

// maybeEscalate runs stage 2 (spec.md §4.6): only when stage 1 produced
// fail/fallback_tool, only when an LLMHelper is configured, and only
// adopting a non-fail plan. Any LLM error is swallowed — recovery must
// never blow up the main flow.
func (a *Agent) maybeEscalate(ctx context.Context, plan core.FixPlan, toolErr core.ToolError, lastTask core.Task, lastInputs map[string]any) core.FixPlan {
	if plan.Action != core.FixFail && plan.Action != core.FixFallbackTool {
		return plan
	}
	if a.LLM == nil {
		return plan
	}

	llmPlan, err := a.LLM.ProposeFix(ctx, toolErr, lastTask, lastInputs)
	if err != nil {
		return plan
	}
	if llmPlan.Action == "" || llmPlan.Action == core.FixFail {
		return plan
	}

	return llmPlan
}
