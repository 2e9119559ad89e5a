package compliance

import (
	"regexp"

	"github.com/creatorscook/insight-core/internal/models"
)

// platformRule is one fixed platform-policy pattern. Every match of every
// rule is flagged individually, including overlapping matches from
// different rules at the same span.
type platformRule struct {
	name       string
	pattern    *regexp.Regexp
	severity   models.Severity
	message    string
	suggestion string
}

var platformRules = []platformRule{
	{
		name:       "absolute_guarantee",
		pattern:    regexp.MustCompile(`(?i)\b(?:100% guaranteed?|guaranteed? (?:results?|to work)|i (?:promise|guarantee) (?:you|this))\b`),
		severity:   models.SeverityHigh,
		message:    "Absolute guarantee language violates platform advertising policy",
		suggestion: "Soften to \"designed to\" or \"many users report\"",
	},
	{
		name:       "weight_loss_claim",
		pattern:    regexp.MustCompile(`(?i)\b(?:lose \d+ (?:pounds|lbs|kilos|kg)|melts? (?:away )?fat|burns? fat fast|rapid weight loss)\b`),
		severity:   models.SeverityHigh,
		message:    "Specific weight-loss claims are restricted content",
		suggestion: "Describe the product without promising weight outcomes",
	},
	{
		name:       "medical_claim",
		pattern:    regexp.MustCompile(`(?i)\b(?:cures?|heals?|treats?|prevents?) (?:your |my )?\w+`),
		severity:   models.SeverityHigh,
		message:    "Medical treatment claims require substantiation and are not allowed",
		suggestion: "Remove the medical claim or cite only approved product labeling",
	},
	{
		name:       "link_redirect",
		pattern:    regexp.MustCompile(`(?i)\b(?:link in (?:my )?bio|click the link|tap the link|check the link below)\b`),
		severity:   models.SeverityMedium,
		message:    "Off-platform link redirection phrasing may reduce distribution",
		suggestion: "Point viewers to the in-app product card instead",
	},
	{
		name:       "sales_pressure",
		pattern:    regexp.MustCompile(`(?i)\b(?:buy (?:it )?now|order today|don'?t wait|act fast|while supplies last|selling out fast)\b`),
		severity:   models.SeverityMedium,
		message:    "Direct sales pressure language can trigger ad review",
		suggestion: "Let the product benefit carry the call to action",
	},
	{
		name:       "income_claim",
		pattern:    regexp.MustCompile(`(?i)\b(?:make \$?\d+|earn (?:easy )?money|passive income|get rich|financial freedom)\b`),
		severity:   models.SeverityHigh,
		message:    "Unearned income claims violate platform monetization policy",
		suggestion: "Remove earnings promises entirely",
	},
}
