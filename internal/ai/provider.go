package ai

import "context"

// GenerationOptions are the caller-configurable knobs for one completion.
type GenerationOptions struct {
	Temperature float64
	MaxTokens   int
}

// CompletionProvider is the external model collaborator. It takes a fully
// constructed prompt and returns the raw text output; all prompt building
// and response parsing stays on this side of the interface.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}
