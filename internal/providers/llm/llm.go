package llm

import (
	"context"
	"errors"
)

// Request is a single-turn completion.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
	// JSON asks the provider to constrain output to a JSON object.
	JSON bool
}

type Provider interface {
	// Complete returns the full text of the first candidate.
	Complete(ctx context.Context, req Request) (string, error)
	Close() error
}

var ErrEmptyCompletion = errors.New("llm: empty completion")
