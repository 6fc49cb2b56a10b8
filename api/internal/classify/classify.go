// Package classify calls the external civic-issue image classifier.
package classify

import (
	"context"
	"errors"

	"civic-agent/api/internal/imgcodec"
)

// Unknown is the sentinel label for an inconclusive classification. The rest
// of the pipeline must tolerate it.
const Unknown = "Unknown"

var (
	ErrUnavailable = errors.New("classifier unavailable")
	ErrTimeout     = errors.New("classifier timeout")
)

type Result struct {
	IssueType  string
	Confidence float64
}

// Classifier is the capability interface; tests substitute a stub.
type Classifier interface {
	Classify(ctx context.Context, img *imgcodec.Image) (Result, error)
}
