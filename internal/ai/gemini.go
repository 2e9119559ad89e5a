package ai

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	genai "google.golang.org/genai"
)

// GeminiProvider is a thin wrapper around the official genai client.
type GeminiProvider struct {
	cli   *genai.Client
	model string
}

// Ensure GeminiProvider implements CompletionProvider
var _ CompletionProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini-backed completion provider. The API
// key is read by the genai client from the environment.
func NewGeminiProvider(ctx context.Context, model string) (*GeminiProvider, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiProvider{cli: cli, model: model}, nil
}

// Complete sends one prompt and returns the model's raw text output.
func (g *GeminiProvider) Complete(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}

	logrus.Debugf("Gemini request (%s): %d bytes", g.model, len(prompt))

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
