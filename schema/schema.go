// Package schema validates the two JSON wire shapes spec.md §6 defines —
// CoordinatorDecision and the recovery-LLM response (the request is not
// validated) — using
// github.com/santhosh-tekuri/jsonschema/v6, grounded on
// goadesign-goa-ai/registry/service.go's validatePayloadJSONAgainstSchema.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const coordinatorDecisionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["next_agent", "task", "expected_output"],
  "properties": {
    "next_agent": {"type": "string", "minLength": 1},
    "task": {"type": "string", "minLength": 1},
    "expected_output": {"type": "string", "minLength": 1},
    "stop": {"type": "boolean"},
    "needed_tools": {"type": "array", "items": {"type": "string"}}
  }
}`

const recoveryFixResponseSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["action", "reason"],
  "properties": {
    "action": {"type": "string", "enum": ["retry_tool", "fallback_tool", "fail"]},
    "reason": {"type": "string"},
    "params_patch": {"type": "object"},
    "tool_name": {"type": "string"}
  }
}`

// Validator compiles and holds the wire-shape schemas this module validates
// against.
type Validator struct {
	coordinatorDecision *jsonschema.Schema
	recoveryFixResponse *jsonschema.Schema
}

// NewValidator compiles both schemas once; compile errors here indicate a
// bug in the embedded schema text, not bad input, so they are not expected
// in production use.
func NewValidator() (*Validator, error) {
	decision, err := compile("coordinator_decision.json", coordinatorDecisionSchema)
	if err != nil {
		return nil, fmt.Errorf("schema: compile coordinator decision: %w", err)
	}
	recoveryFix, err := compile("recovery_fix_response.json", recoveryFixResponseSchema)
	if err != nil {
		return nil, fmt.Errorf("schema: compile recovery fix response: %w", err)
	}
	return &Validator{coordinatorDecision: decision, recoveryFixResponse: recoveryFix}, nil
}

// MustNewValidator is NewValidator for package-level var initialization,
// mirroring regexp.MustCompile — a compile failure here is a bug in the
// embedded schema text, not a runtime condition callers should handle.
func MustNewValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func compile(resourceName, schemaText string) (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal([]byte(schemaText), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceName, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(resourceName)
}

// ValidateCoordinatorDecision checks raw JSON against the wire shape in
// spec.md §6.
func (v *Validator) ValidateCoordinatorDecision(raw []byte) error {
	return validateAgainst(v.coordinatorDecision, raw)
}

// ValidateRecoveryFixResponse checks raw JSON against the recovery-LLM
// response shape in spec.md §6.
func (v *Validator) ValidateRecoveryFixResponse(raw []byte) error {
	return validateAgainst(v.recoveryFixResponse, raw)
}

func validateAgainst(s *jsonschema.Schema, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("schema: unmarshal payload: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("schema: validate: %w", err)
	}
	return nil
}
