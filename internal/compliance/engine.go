package compliance

import (
	"fmt"
	"strings"

	"github.com/creatorscook/insight-core/internal/models"
)

// Scan checks a candidate script against the fixed platform-policy rules
// and, when provided, a brand rule set. A nil rule set simply skips the
// brand phase. The two phases deliberately count occurrences differently:
// platform rules flag every match, forbidden keywords flag only the first
// occurrence per keyword.
func Scan(content string, rules *models.BrandRuleSet) []models.ComplianceFlag {
	flags := scanPlatformRules(content)
	if rules != nil {
		flags = append(flags, scanBrandRules(content, rules)...)
	}
	return flags
}

func scanPlatformRules(content string) []models.ComplianceFlag {
	var flags []models.ComplianceFlag

	for _, rule := range platformRules {
		for _, loc := range rule.pattern.FindAllStringIndex(content, -1) {
			flags = append(flags, models.ComplianceFlag{
				Type:       models.FlagPlatformViolation,
				Severity:   rule.severity,
				Message:    rule.message,
				Suggestion: rule.suggestion,
				Position:   &models.Span{Start: loc[0], End: loc[1]},
			})
		}
	}

	return flags
}

func scanBrandRules(content string, rules *models.BrandRuleSet) []models.ComplianceFlag {
	var flags []models.ComplianceFlag
	lower := strings.ToLower(content)

	for _, keyword := range rules.ForbiddenKeywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		// First occurrence only, unlike the platform phase.
		idx := strings.Index(lower, strings.ToLower(keyword))
		if idx < 0 {
			continue
		}
		flags = append(flags, models.ComplianceFlag{
			Type:       models.FlagBrandRule,
			Severity:   models.SeverityHigh,
			Message:    fmt.Sprintf("Forbidden brand keyword %q found in script", keyword),
			Suggestion: fmt.Sprintf("Remove or replace %q per the brand guidelines", keyword),
			Position:   &models.Span{Start: idx, End: idx + len(keyword)},
		})
	}

	if missing := missingRequiredKeywords(lower, rules.RequiredKeywords); missing != nil {
		// A single positionless advisory regardless of how many are missing.
		flags = append(flags, models.ComplianceFlag{
			Type:       models.FlagSuggestion,
			Severity:   models.SeverityLow,
			Message:    "None of the brand's required keywords appear in the script",
			Suggestion: fmt.Sprintf("Consider mentioning: %s", strings.Join(missing, ", ")),
		})
	}

	return flags
}

// missingRequiredKeywords returns the full required set when none of its
// entries appear in the content, nil otherwise.
func missingRequiredKeywords(lowerContent string, required []string) []string {
	var all []string
	for _, keyword := range required {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		if strings.Contains(lowerContent, strings.ToLower(keyword)) {
			return nil
		}
		all = append(all, keyword)
	}
	return all
}
