package compliance

import "github.com/creatorscook/insight-core/internal/models"

// Severity weights subtracted from a perfect 1.0 score.
const (
	highPenalty   = 0.30
	mediumPenalty = 0.15
	lowPenalty    = 0.05
)

// Score converts a flag set plus the scanned content length into a [0, 1]
// compliance score and a discrete risk level. The two outputs are computed
// independently: risk is a classifier over flag counts, not a threshold on
// the numeric score, so a long clean-ish script with one high flag still
// reads as high risk.
func Score(flags []models.ComplianceFlag, contentLength int) (float64, models.RiskLevel) {
	score := 1.0
	highs, mediums := 0, 0

	for _, flag := range flags {
		switch flag.Severity {
		case models.SeverityHigh:
			score -= highPenalty
			highs++
		case models.SeverityMedium:
			score -= mediumPenalty
			mediums++
		default:
			score -= lowPenalty
		}
	}

	// Longer scripts earn back a small bonus, capped at 0.10.
	bonus := float64(contentLength) / 1000
	if bonus > 0.10 {
		bonus = 0.10
	}
	score += bonus

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return score, classifyRisk(highs, mediums, len(flags))
}

func classifyRisk(highs, mediums, total int) models.RiskLevel {
	switch {
	case highs > 0 || mediums > 2:
		return models.RiskHigh
	case mediums > 0 || total > 3:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
