package contract

import (
	"context"
	"errors"
	"time"
)

type AgentType string

const (
	AgentTypeSupport   AgentType = "support"
	AgentTypeDashboard AgentType = "dashboard"
)

// Error kinds carried in the failure envelope. The front door maps these to
// a response classification: client-caused kinds to 4xx-equivalents,
// HandlerError and Timeout to 5xx-equivalents.
const (
	KindMalformedInput = "MalformedInput"
	KindMissingAction  = "MissingAction"
	KindUnknownAction  = "UnknownAction"
	KindUnknownAgent   = "UnknownAgent"
	KindValidation     = "ValidationError"
	KindHandler        = "HandlerError"
	KindTimeout        = "Timeout"
)

// Envelope is the uniform result wrapper returned by dispatch. Data is
// omitted on failure; Error is omitted on success.
type Envelope struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func Success(data any) Envelope {
	return Envelope{OK: true, Data: data}
}

func Failure(kind, message string) Envelope {
	return Envelope{OK: false, Error: &ErrorInfo{Kind: kind, Message: message}}
}

// KindForError maps a handler error onto an envelope kind via the sentinel
// taxonomy. Anything unclassified is a HandlerError.
func KindForError(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrUnknownAction):
		return KindUnknownAction
	case errors.Is(err, ErrMissingAction):
		return KindMissingAction
	case errors.Is(err, ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, ErrUnknownAgent):
		return KindUnknownAgent
	default:
		return KindHandler
	}
}

// NotFound is the sentinel payload for a valid lookup with zero matches.
// It travels in a successful envelope; "not found" is never an error kind.
type NotFound struct {
	Found  bool   `json:"found"`
	Entity string `json:"entity"`
}

func NotFoundPayload(entity string) NotFound {
	return NotFound{Found: false, Entity: entity}
}

// MutationResult is the success payload of a write action: a generated
// identifier plus an echo of the submitted (default-substituted) data.
type MutationResult struct {
	ID        string         `json:"id"`
	Resource  string         `json:"resource"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}

// TaskContext frames how action results should be summarized for a given
// agent. It is opaque to the dispatch core and passed through to the
// reasoning step.
type TaskContext struct {
	Agent     AgentType `json:"agent"`
	Role      string    `json:"role"`
	Goal      string    `json:"goal"`
	Backstory string    `json:"backstory"`
	Query     string    `json:"query"`
}
