package models

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError means the case-set input is malformed. It is fatal to the
// whole batch: nothing can be scored against an invalid rubric.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	msg := "invalid case set"
	if e.Path != "" {
		msg = fmt.Sprintf("invalid case set %s", e.Path)
	}
	if len(e.Issues) > 0 {
		msg += ": " + strings.Join(e.Issues, "; ")
	}
	return msg
}

// NotFoundError means a requested case id does not exist in the loaded set.
// Fatal to the whole batch.
type NotFoundError struct {
	CaseID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("case not found: %s", e.CaseID)
}

// AgentInvocationError means the research-agent process failed to spawn or
// its workspace could not be prepared. Fatal to that case-run only.
type AgentInvocationError struct {
	CaseID string
	Err    error
}

func (e *AgentInvocationError) Error() string {
	return fmt.Sprintf("agent invocation failed for %s: %v", e.CaseID, e.Err)
}

func (e *AgentInvocationError) Unwrap() error { return e.Err }

// AgentTimeoutError means a case-run exceeded its time budget and the agent
// process was force-terminated. Fatal to that case-run only.
type AgentTimeoutError struct {
	CaseID  string
	Timeout time.Duration
}

func (e *AgentTimeoutError) Error() string {
	return fmt.Sprintf("agent timed out for %s after %v", e.CaseID, e.Timeout)
}

// JudgeProtocolError means the judge reply was missing JSON, was not a text
// response, or failed schema validation. Fatal to that case-run's scoring
// only; there is no automatic fallback to the quick scorer.
type JudgeProtocolError struct {
	Reason string
	Err    error
}

func (e *JudgeProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("judge protocol: %s: %v", e.Reason, e.Err)
	}
	return "judge protocol: " + e.Reason
}

func (e *JudgeProtocolError) Unwrap() error { return e.Err }
