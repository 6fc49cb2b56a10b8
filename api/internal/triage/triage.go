// Package triage asks a structured-generation service to assign a priority,
// a handling department and a justification to a classified civic issue.
package triage

import (
	"context"
	"errors"
)

var (
	ErrUnavailable = errors.New("triage unavailable")
	ErrMalformed   = errors.New("triage malformed")
)

type Input struct {
	IssueType   string
	Confidence  float64
	Description string
	// Location is the caller-assembled composite "<location>, <zone>, <pincode>".
	Location string
}

type Report struct {
	Priority      int
	Department    string
	Justification string
}

// Engine is the capability interface over the reasoning backend; tests and
// rule engines substitute their own implementation.
type Engine interface {
	Triage(ctx context.Context, in Input) (Report, error)
}
