package compliance

import (
	"time"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/sirupsen/logrus"
)

// Analysis is one full compliance pass over a script's content.
type Analysis struct {
	Flags []models.ComplianceFlag `json:"flags"`
	Score float64                 `json:"score"`
	Risk  models.RiskLevel        `json:"risk"`
}

// Analyze runs the rule engine and scorer over a piece of script content.
func Analyze(content string, rules *models.BrandRuleSet) Analysis {
	flags := Scan(content, rules)
	score, risk := Score(flags, len(content))
	return Analysis{Flags: flags, Score: score, Risk: risk}
}

// Snapshot recomputes a script's compliance state in place. The previous
// flag set is replaced wholesale, never merged.
func Snapshot(script *models.Script, rules *models.BrandRuleSet) {
	analysis := Analyze(script.Content, rules)
	script.ComplianceFlags = analysis.Flags
	script.ComplianceScore = analysis.Score
	script.RiskLevel = analysis.Risk
	script.UpdatedAt = time.Now().UTC()

	logrus.Debugf("Compliance snapshot for script %s: %d flags, score %.2f, risk %s",
		script.ID, len(analysis.Flags), analysis.Score, analysis.Risk)
}
