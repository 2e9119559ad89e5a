package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	minPacks = 3
	maxPacks = 5

	// How much of the aggregated insight data goes into the prompt.
	promptTopThemes = 5
	promptMaxQuotes = 2
)

// ProductContext is the product metadata embedded in generation prompts.
type ProductContext struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Platform    models.Platform `json:"platform"`
}

// Generator builds prompts for the completion provider and parses its
// structured output into validated angle packs and script suggestions.
type Generator struct {
	provider    CompletionProvider
	temperature float64
	maxTokens   int
}

// NewGenerator creates a generator with caller-configurable defaults.
func NewGenerator(provider CompletionProvider, temperature float64, maxTokens int) *Generator {
	if temperature <= 0 {
		temperature = 0.8
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Generator{provider: provider, temperature: temperature, maxTokens: maxTokens}
}

func (g *Generator) options() GenerationOptions {
	return GenerationOptions{Temperature: g.temperature, MaxTokens: g.maxTokens}
}

// GenerateAngles runs one angle-generation pass over aggregated insights.
// Provider transport errors propagate; malformed model output never does —
// it is absorbed into the hardcoded fallback result. When the first pass
// yields fewer than three packs, a best-effort second call tops the set up,
// steered away from the angle names already produced.
func (g *Generator) GenerateAngles(ctx context.Context, insights models.AggregatedInsights, product ProductContext) (*models.AngleResult, error) {
	prompt, err := buildAnglePrompt(insights, product)
	if err != nil {
		return nil, fmt.Errorf("failed to build angle prompt: %w", err)
	}

	raw, err := g.provider.Complete(ctx, prompt, g.options())
	if err != nil {
		return nil, fmt.Errorf("angle generation call failed: %w", err)
	}

	result := parseAngleResult(raw)
	if result.FallbackUsed {
		logrus.Warnf("Angle generation produced unparseable output, using fallback result")
	}

	if len(result.Packs) < minPacks {
		extra := g.requestAdditionalPacks(ctx, insights, product, result.Packs)
		result.Packs = append(result.Packs, extra...)
	}
	if len(result.Packs) > maxPacks {
		result.Packs = result.Packs[:maxPacks]
	}

	return result, nil
}

// requestAdditionalPacks is best-effort: any failure contributes zero packs.
func (g *Generator) requestAdditionalPacks(ctx context.Context, insights models.AggregatedInsights, product ProductContext, existing []models.ViralityPack) []models.ViralityPack {
	taken := make(map[string]bool, len(existing))
	var names []string
	for _, pack := range existing {
		taken[strings.ToLower(pack.AngleName)] = true
		names = append(names, pack.AngleName)
	}

	prompt, err := buildTopUpPrompt(insights, product, names)
	if err != nil {
		logrus.Errorf("Failed to build top-up prompt: %v", err)
		return nil
	}

	raw, err := g.provider.Complete(ctx, prompt, g.options())
	if err != nil {
		logrus.Errorf("Top-up angle call failed: %v", err)
		return nil
	}

	var extra []models.ViralityPack
	for _, pack := range parsePackList(raw) {
		if taken[strings.ToLower(pack.AngleName)] {
			continue
		}
		taken[strings.ToLower(pack.AngleName)] = true
		extra = append(extra, pack)
		if len(existing)+len(extra) >= maxPacks {
			break
		}
	}

	return extra
}

func buildAnglePrompt(insights models.AggregatedInsights, product ProductContext) (string, error) {
	payload := struct {
		Product        ProductContext        `json:"product"`
		PainPoints     []models.ThemeInsight `json:"pain_points"`
		DelightFactors []models.ThemeInsight `json:"delight_factors"`
	}{
		Product:        product,
		PainPoints:     trimInsights(insights.PainPoints),
		DelightFactors: trimInsights(insights.DelightFactors),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are a short-form video marketing strategist. Using the customer insight data below, ")
	b.WriteString("produce 3 to 5 distinct marketing angles (\"virality packs\") for this product.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Every pack needs a unique angle_name, a core_angle rationale, exactly 3 hook_options, and a full_script.\n")
	b.WriteString("- sentiment_score is in [-1, 1]; virality_score is in [0, 1].\n")
	b.WriteString("- Ground every angle in the pain points or delight factors provided, never in invented claims.\n\n")
	b.WriteString("Respond STRICTLY with valid JSON matching this schema:\n")
	b.WriteString(angleSchemaExample)
	b.WriteString("\n\n[INSIGHT DATA]\n")
	b.Write(data)

	return b.String(), nil
}

func buildTopUpPrompt(insights models.AggregatedInsights, product ProductContext, existingNames []string) (string, error) {
	base, err := buildAnglePrompt(insights, product)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\nProduce 2 to 3 ADDITIONAL virality packs. Do not reuse or rephrase any of these existing angle names:\n")
	for _, name := range existingNames {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("Respond with the same JSON schema.")

	return b.String(), nil
}

// One worked example keeps smaller models honest about the output shape.
const angleSchemaExample = `{
  "overall_sentiment": 0.4,
  "overall_virality": 0.7,
  "key_insights": ["Buyers love the taste but doubt the price"],
  "virality_packs": [
    {
      "angle_name": "Price skeptic converted",
      "core_angle": "Lean into the price objection and flip it with the delight data",
      "hook_options": ["I almost didn't buy this because of the price", "Everyone says it's overpriced. They're wrong.", "POV: you finally caved"],
      "full_script": "I almost didn't buy this because of the price...",
      "sentiment_score": 0.5,
      "virality_score": 0.8
    }
  ],
  "recommendations": ["Address the shipping complaints up front"]
}`

func trimInsights(in []models.ThemeInsight) []models.ThemeInsight {
	if len(in) > promptTopThemes {
		in = in[:promptTopThemes]
	}
	out := make([]models.ThemeInsight, len(in))
	for i, insight := range in {
		out[i] = insight
		if len(insight.ExampleQuotes) > promptMaxQuotes {
			out[i].ExampleQuotes = insight.ExampleQuotes[:promptMaxQuotes]
		}
	}
	return out
}

// parseAngleResult never fails: unusable model output yields the hardcoded
// fallback result with FallbackUsed set.
func parseAngleResult(raw string) *models.AngleResult {
	obj, ok := extractObject(raw)
	if !ok {
		return fallbackResult()
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return fallbackResult()
	}

	var rawPacks []json.RawMessage
	if err := json.Unmarshal(fields["virality_packs"], &rawPacks); err != nil || len(rawPacks) == 0 {
		return fallbackResult()
	}

	packs := make([]models.ViralityPack, 0, len(rawPacks))
	for _, rp := range rawPacks {
		if pack, ok := validatePack(rp); ok {
			packs = append(packs, pack)
		}
	}
	if len(packs) == 0 {
		return fallbackResult()
	}

	return &models.AngleResult{
		OverallSentiment: clamp(coerceFloat(fields["overall_sentiment"], 0), -1, 1),
		OverallVirality:  clamp(coerceFloat(fields["overall_virality"], 0.5), 0, 1),
		KeyInsights:      coerceStringList(fields["key_insights"]),
		Packs:            packs,
		Recommendations:  coerceStringList(fields["recommendations"]),
	}
}

// parsePackList accepts either a full result object or a bare JSON array of
// packs, as the top-up call sometimes returns one or the other.
func parsePackList(raw string) []models.ViralityPack {
	var rawPacks []json.RawMessage

	if obj, ok := extractObject(raw); ok {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(obj), &fields); err == nil {
			_ = json.Unmarshal(fields["virality_packs"], &rawPacks)
		}
	}
	if len(rawPacks) == 0 {
		if arr, ok := extractArray(raw); ok {
			_ = json.Unmarshal([]byte(arr), &rawPacks)
		}
	}

	var packs []models.ViralityPack
	for _, rp := range rawPacks {
		if pack, ok := validatePack(rp); ok {
			packs = append(packs, pack)
		}
	}
	return packs
}

// validatePack fills type-appropriate defaults for missing fields and
// clamps every score to its documented range. Only a pack that is not a
// JSON object at all is rejected.
func validatePack(raw json.RawMessage) (models.ViralityPack, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.ViralityPack{}, false
	}

	return models.ViralityPack{
		AngleName:      coerceString(fields["angle_name"], "Untitled angle"),
		CoreAngle:      coerceString(fields["core_angle"], "A straightforward look at what this product does well"),
		HookOptions:    normalizeHooks(coerceStringList(fields["hook_options"])),
		FullScript:     coerceString(fields["full_script"], "Show the product in use and share an honest first impression."),
		SentimentScore: clamp(coerceFloat(fields["sentiment_score"], 0), -1, 1),
		ViralityScore:  clamp(coerceFloat(fields["virality_score"], 0.5), 0, 1),
	}, true
}

var defaultHooks = []string{
	"You need to see this",
	"I wasn't expecting this",
	"Here's the honest truth",
}

// normalizeHooks pads or truncates to exactly three hook options.
func normalizeHooks(hooks []string) []string {
	out := make([]string, 0, 3)
	for _, hook := range hooks {
		if hook = strings.TrimSpace(hook); hook != "" {
			out = append(out, hook)
		}
		if len(out) == 3 {
			return out
		}
	}
	for _, def := range defaultHooks {
		if len(out) == 3 {
			break
		}
		out = append(out, def)
	}
	return out
}

func fallbackResult() *models.AngleResult {
	return &models.AngleResult{
		OverallSentiment: 0.2,
		OverallVirality:  0.6,
		KeyInsights:      []string{"Customer reviews show mixed but workable sentiment"},
		Packs: []models.ViralityPack{
			{
				AngleName:      "Honest first impression",
				CoreAngle:      "A genuine unboxing reaction builds trust when review data is thin",
				HookOptions:    append([]string(nil), defaultHooks...),
				FullScript:     "Open with the package in hand, react honestly to the first use, and close with who this product is actually for.",
				SentimentScore: 0.2,
				ViralityScore:  0.6,
			},
		},
		Recommendations: []string{
			"Lead with a genuine reaction in the first two seconds",
			"Re-run analysis once more reviews are available",
		},
		FallbackUsed: true,
	}
}
