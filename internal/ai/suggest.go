package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/sirupsen/logrus"
)

// SuggestFixes asks the model for concrete rewrites of flagged script
// spans. An empty flag list short-circuits to an empty result without
// touching the provider at all. Malformed model output also yields an
// empty result, never an error.
func (g *Generator) SuggestFixes(ctx context.Context, content string, flags []models.ComplianceFlag) ([]models.ScriptSuggestion, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	prompt := buildSuggestionPrompt(content, flags)

	raw, err := g.provider.Complete(ctx, prompt, g.options())
	if err != nil {
		return nil, fmt.Errorf("suggestion call failed: %w", err)
	}

	suggestions := parseSuggestions(raw)
	if suggestions == nil {
		logrus.Warnf("Suggestion output was unparseable, returning no suggestions")
	}
	return suggestions, nil
}

func buildSuggestionPrompt(content string, flags []models.ComplianceFlag) string {
	var b strings.Builder
	b.WriteString("You are a compliance editor for short-form video scripts. The script below was flagged by a rule engine. ")
	b.WriteString("Propose 3 to 4 concrete replacement suggestions that resolve the flags while keeping the script's voice.\n\n")
	b.WriteString("Respond STRICTLY with a JSON array of objects shaped like:\n")
	b.WriteString(`[{"original_text": "...", "suggested_text": "...", "reason": "...", "confidence": 0.9}]`)
	b.WriteString("\n\n[SCRIPT]\n")
	b.WriteString(content)
	b.WriteString("\n\n[FLAGS]\n")

	for i, flag := range flags {
		b.WriteString(fmt.Sprintf("%d. ", i+1))
		if excerpt := flaggedExcerpt(content, flag); excerpt != "" {
			b.WriteString(fmt.Sprintf("flagged text: %q — ", excerpt))
		}
		b.WriteString(flag.Message)
		if flag.Suggestion != "" {
			b.WriteString(" (rule hint: ")
			b.WriteString(flag.Suggestion)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// flaggedExcerpt pulls the offending substring out of the content, guarding
// against stale or out-of-range spans.
func flaggedExcerpt(content string, flag models.ComplianceFlag) string {
	if flag.Position == nil {
		return ""
	}
	start, end := flag.Position.Start, flag.Position.End
	if start < 0 || end > len(content) || start >= end {
		return ""
	}
	return content[start:end]
}

func parseSuggestions(raw string) []models.ScriptSuggestion {
	arr, ok := extractArray(raw)
	if !ok {
		return nil
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal([]byte(arr), &rawItems); err != nil {
		return nil
	}

	var out []models.ScriptSuggestion
	for _, item := range rawItems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}
		out = append(out, models.ScriptSuggestion{
			OriginalText:  coerceString(fields["original_text"], ""),
			SuggestedText: coerceString(fields["suggested_text"], ""),
			Reason:        coerceString(fields["reason"], "Resolves a compliance flag"),
			Confidence:    clamp(coerceFloat(fields["confidence"], 0.5), 0, 1),
		})
	}
	return out
}
