package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSuggestFixes_EmptyFlagsSkipsProvider(t *testing.T) {
	provider := &MockProvider{}

	gen := NewGenerator(provider, 0.8, 2048)
	suggestions, err := gen.SuggestFixes(context.Background(), "totally clean script", nil)

	assert.NoError(t, err)
	assert.Nil(t, suggestions)
	provider.AssertNotCalled(t, "Complete")
}

func TestSuggestFixes_ParsesSuggestions(t *testing.T) {
	response := `Sure, here are my suggestions:
[
  {"original_text": "guaranteed results", "suggested_text": "results I noticed", "reason": "removes the guarantee claim", "confidence": 0.9},
  {"original_text": "buy now", "suggested_text": "check it out", "confidence": 1.7}
]`
	provider := &MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(response, nil)

	gen := NewGenerator(provider, 0.8, 2048)
	flags := []models.ComplianceFlag{{Severity: models.SeverityHigh, Message: "Guarantee language"}}
	suggestions, err := gen.SuggestFixes(context.Background(), "guaranteed results, buy now", flags)

	assert.NoError(t, err)
	assert.Len(t, suggestions, 2)
	assert.Equal(t, "results I noticed", suggestions[0].SuggestedText)
	assert.InDelta(t, 0.9, suggestions[0].Confidence, 1e-9)

	// Missing reason gets a default, out-of-range confidence gets clamped.
	assert.Equal(t, "Resolves a compliance flag", suggestions[1].Reason)
	assert.Equal(t, 1.0, suggestions[1].Confidence)
}

func TestSuggestFixes_MalformedOutputYieldsEmpty(t *testing.T) {
	provider := &MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("no array here", nil)

	gen := NewGenerator(provider, 0.8, 2048)
	flags := []models.ComplianceFlag{{Severity: models.SeverityMedium, Message: "Urgency pressure"}}
	suggestions, err := gen.SuggestFixes(context.Background(), "buy now", flags)

	assert.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggestFixes_ProviderErrorPropagates(t *testing.T) {
	provider := &MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("rate limited"))

	gen := NewGenerator(provider, 0.8, 2048)
	flags := []models.ComplianceFlag{{Severity: models.SeverityHigh, Message: "Medical claim"}}
	_, err := gen.SuggestFixes(context.Background(), "cures everything", flags)

	assert.Error(t, err)
}

func TestBuildSuggestionPrompt_IncludesFlaggedExcerpt(t *testing.T) {
	content := "this product is guaranteed to work"
	flags := []models.ComplianceFlag{
		{
			Message:    "Absolute guarantee language",
			Suggestion: "Hedge the claim",
			Position:   &models.Span{Start: 16, End: 26},
		},
		{
			Message:  "Span out of range",
			Position: &models.Span{Start: 100, End: 200},
		},
	}

	prompt := buildSuggestionPrompt(content, flags)

	assert.Contains(t, prompt, `"guaranteed"`)
	assert.Contains(t, prompt, "Absolute guarantee language")
	assert.Contains(t, prompt, "Hedge the claim")
	// The stale span is silently dropped rather than panicking.
	assert.Contains(t, prompt, "Span out of range")
}
