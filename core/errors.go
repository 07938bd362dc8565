package core

import (
	"errors"
	"fmt"
)

// Error kind constants — spec.md §7's failure taxonomy, as comparable
// strings rather than distinct Go error types. Use errors.As to recover an
// *OrchestratorError and inspect Kind.
const (
	KindInvalidDecision  = "INVALID_DECISION"
	KindUnknownAgent     = "UNKNOWN_AGENT"
	KindNoRoute          = "NO_ROUTE"
	KindDuplicateAgent   = "DUPLICATE_AGENT"
	KindInvalidCoordinator = "INVALID_COORDINATOR"
	KindToolException    = "TOOL_EXCEPTION"
	KindRetryExhausted   = "RETRY_EXHAUSTED"
	KindAgentFailure     = "AGENT_FAILURE"
)

// Sentinel errors for errors.Is comparisons, mirroring the teacher's
// core/errors.go convention of pairing sentinels with a wrapping struct.
var (
	ErrAgentNotFound      = errors.New("agent not found")
	ErrAgentAlreadyExists = errors.New("agent already registered")
	ErrNoRouteMatched     = errors.New("no routing rule matched")
	ErrInvalidDecision    = errors.New("coordinator returned an invalid decision")
	ErrInvalidCoordinator = errors.New("coordinator does not implement Decide")
	ErrRetryExceeded      = errors.New("retry attempts exhausted")
)

// OrchestratorError is a structured error carrying the operation, taxonomy
// kind, optional entity id, and the underlying sentinel — grounded on
// teacher's FrameworkError (core/errors.go).
type OrchestratorError struct {
	Op      string
	Kind    string
	ID      string
	Message string
	Err     error
}

func (e *OrchestratorError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.ID, e.Err)
	}
	if e.Op != "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Kind
}

func (e *OrchestratorError) Unwrap() error { return e.Err }

// NewOrchestratorError builds an OrchestratorError, picking the matching
// sentinel for err when it is nil.
func NewOrchestratorError(op, kind, id string, err error) *OrchestratorError {
	if err == nil {
		err = sentinelFor(kind)
	}
	return &OrchestratorError{Op: op, Kind: kind, ID: id, Err: err}
}

func sentinelFor(kind string) error {
	switch kind {
	case KindInvalidDecision:
		return ErrInvalidDecision
	case KindUnknownAgent:
		return ErrAgentNotFound
	case KindNoRoute:
		return ErrNoRouteMatched
	case KindDuplicateAgent:
		return ErrAgentAlreadyExists
	case KindInvalidCoordinator:
		return ErrInvalidCoordinator
	case KindRetryExhausted:
		return ErrRetryExceeded
	default:
		return errors.New(kind)
	}
}
