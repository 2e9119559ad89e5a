package compliance

import (
	"testing"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAnalyze_BundlesFlagsScoreAndRisk(t *testing.T) {
	analysis := Analyze("guaranteed results or your money back", nil)

	assert.NotEmpty(t, analysis.Flags)
	assert.Less(t, analysis.Score, 1.0)
	assert.Equal(t, models.RiskHigh, analysis.Risk)
}

func TestSnapshot_ReplacesFlagsWholesale(t *testing.T) {
	script := &models.Script{
		ID:      "script-1",
		Content: "a perfectly ordinary honest review",
		ComplianceFlags: []models.ComplianceFlag{
			{Type: models.FlagPlatformViolation, Severity: models.SeverityHigh, Message: "stale flag from an old draft"},
		},
		ComplianceScore: 0.1,
		RiskLevel:       models.RiskHigh,
	}

	Snapshot(script, nil)

	// The stale flag from the previous draft is gone, not merged.
	assert.Empty(t, script.ComplianceFlags)
	assert.Equal(t, models.RiskLow, script.RiskLevel)
	assert.Greater(t, script.ComplianceScore, 0.9)
	assert.False(t, script.UpdatedAt.IsZero())
}

func TestSnapshot_AppliesBrandRules(t *testing.T) {
	script := &models.Script{
		ID:      "script-2",
		Content: "GlowSerum really does the job",
	}
	rules := &models.BrandRuleSet{ForbiddenKeywords: []string{"glowserum"}}

	Snapshot(script, rules)

	assert.Len(t, script.ComplianceFlags, 1)
	assert.Equal(t, models.FlagBrandRule, script.ComplianceFlags[0].Type)
	assert.Equal(t, models.RiskHigh, script.RiskLevel)
}
