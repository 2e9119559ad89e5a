package insights

import (
	"strings"

	"github.com/creatorscook/insight-core/internal/models"
)

// themeRule pairs a taxonomy tag with the keywords that trigger it.
// Rules are tested in declared order and are non-exclusive: a review can
// land in several themes at once.
type themeRule struct {
	theme    models.Theme
	keywords []string
}

var themeRules = []themeRule{
	{models.ThemeTasteQuality, []string{
		"taste", "tastes", "tasty", "flavor", "flavour", "delicious", "bland", "bitter", "sweet", "aftertaste",
	}},
	{models.ThemePriceValue, []string{
		"price", "expensive", "cheap", "value", "worth", "money", "overpriced", "affordable", "cost",
	}},
	{models.ThemeEffectiveness, []string{
		"works", "worked", "working", "effective", "results", "energy", "difference", "useless", "did nothing",
	}},
	{models.ThemeBuildQuality, []string{
		"quality", "sturdy", "flimsy", "broke", "broken", "durable", "cheap plastic", "well made", "fell apart",
	}},
	{models.ThemeCustomerService, []string{
		"customer service", "support", "refund", "return", "seller", "response", "contacted",
	}},
	{models.ThemeShippingDelivery, []string{
		"shipping", "delivery", "arrived", "package", "packaging", "late", "damaged in transit", "fast delivery",
	}},
	{models.ThemeEaseOfUse, []string{
		"easy to use", "simple", "intuitive", "complicated", "confusing", "instructions", "setup", "user friendly",
	}},
	{models.ThemeSizeFit, []string{
		"size", "fits", "fit", "too small", "too big", "too large", "tight", "loose", "runs small",
	}},
	{models.ThemeBatteryLife, []string{
		"battery", "charge", "charging", "lasts", "died", "power",
	}},
	{models.ThemeAppearance, []string{
		"looks", "color", "colour", "design", "beautiful", "ugly", "stylish", "appearance",
	}},
	{models.ThemeSmellAroma, []string{
		"smell", "smells", "scent", "fragrance", "aroma", "odor", "stink",
	}},
}

// ClassifyThemes maps free review text onto the fixed theme taxonomy.
// The result is never empty: when no rule fires, the general_experience
// sentinel is returned.
func ClassifyThemes(text string) []models.Theme {
	content := strings.ToLower(text)

	var matched []models.Theme
	for _, rule := range themeRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(content, keyword) {
				matched = append(matched, rule.theme)
				break
			}
		}
	}

	if len(matched) == 0 {
		return []models.Theme{models.ThemeGeneralExperience}
	}
	return matched
}
