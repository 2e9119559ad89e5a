package models

import "time"

// Theme is a fixed taxonomy tag assigned to review text by keyword matching.
type Theme string

const (
	ThemeTasteQuality      Theme = "taste_quality"
	ThemePriceValue        Theme = "price_value"
	ThemeEffectiveness     Theme = "effectiveness"
	ThemeBuildQuality      Theme = "build_quality"
	ThemeCustomerService   Theme = "customer_service"
	ThemeShippingDelivery  Theme = "shipping_delivery"
	ThemeEaseOfUse         Theme = "ease_of_use"
	ThemeSizeFit           Theme = "size_fit"
	ThemeBatteryLife       Theme = "battery_life"
	ThemeAppearance        Theme = "appearance"
	ThemeSmellAroma        Theme = "smell_aroma"
	ThemeGeneralExperience Theme = "general_experience" // sentinel when nothing else matches
)

// Review is a single raw customer review pulled from a product page.
// Reviews are consumed once per ingestion run and never persisted raw;
// only derived insights are stored.
type Review struct {
	Rating   int    `json:"rating"` // 1..5
	Content  string `json:"content"`
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Verified bool   `json:"verified"`
}

// ThemeInsight is an aggregated per-theme bucket: a pain point when the
// net sentiment is negative, a delight factor when it is positive.
type ThemeInsight struct {
	Theme         Theme    `json:"theme"`
	Sentiment     float64  `json:"sentiment"` // [-1, 1]
	Mentions      int      `json:"mentions"`
	ExampleQuotes []string `json:"example_quotes"` // at most 3, display-safe
}

// AggregatedInsights is the output of one ingestion run over a review batch.
type AggregatedInsights struct {
	PainPoints     []ThemeInsight `json:"pain_points"`
	DelightFactors []ThemeInsight `json:"delight_factors"`
}

// Empty reports whether the run produced no usable themes at all.
func (a AggregatedInsights) Empty() bool {
	return len(a.PainPoints) == 0 && len(a.DelightFactors) == 0
}

// FlagType identifies which rule family produced a compliance flag.
type FlagType string

const (
	FlagPlatformViolation FlagType = "platform_violation"
	FlagBrandRule         FlagType = "brand_rule"
	FlagSuggestion        FlagType = "suggestion"
)

// Severity of a compliance flag.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskLevel is the discrete risk classification of a scanned script.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Span is a character offset range into the scanned text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ComplianceFlag is one detected policy or brand-rule concern.
// Position is nil only for the required-keyword advisory flag.
type ComplianceFlag struct {
	Type       FlagType `json:"type"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Position   *Span    `json:"position,omitempty"`
}

// BrandRuleSet holds the brand-specific rules a user attaches to a product.
type BrandRuleSet struct {
	ForbiddenKeywords []string `json:"forbidden_keywords"`
	RequiredKeywords  []string `json:"required_keywords"`
	CustomRules       []string `json:"custom_rules"`
}

// ScriptStatus tracks a script through the review workflow.
type ScriptStatus string

const (
	ScriptDraft     ScriptStatus = "draft"
	ScriptReviewing ScriptStatus = "reviewing"
	ScriptApproved  ScriptStatus = "approved"
	ScriptRejected  ScriptStatus = "rejected"
)

// Script is a user-authored video script with its latest compliance snapshot.
// Flags are fully replaced on every analysis, never merged.
type Script struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	UserID          string           `json:"user_id"`
	Content         string           `json:"content"`
	ComplianceFlags []ComplianceFlag `json:"compliance_flags"`
	ComplianceScore float64          `json:"compliance_score"` // [0, 1]
	RiskLevel       RiskLevel        `json:"risk_level"`
	Status          ScriptStatus     `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ViralityPack is one generated creative-angle bundle for short-form video.
type ViralityPack struct {
	ID             string   `json:"id"`
	ProductID      string   `json:"product_id"`
	AngleName      string   `json:"angle_name"`
	CoreAngle      string   `json:"core_angle"`
	HookOptions    []string `json:"hook_options"` // always exactly 3
	FullScript     string   `json:"full_script"`
	SentimentScore float64  `json:"sentiment_score"` // [-1, 1]
	ViralityScore  float64  `json:"virality_score"`  // [0, 1]
}

// AngleResult is the full output of one angle-generation run.
// FallbackUsed records whether the model output was unusable and the
// hardcoded fallback was substituted; it never surfaces as an error.
type AngleResult struct {
	OverallSentiment float64        `json:"overall_sentiment"` // [-1, 1]
	OverallVirality  float64        `json:"overall_virality"`  // [0, 1]
	KeyInsights      []string       `json:"key_insights"`
	Packs            []ViralityPack `json:"virality_packs"`
	Recommendations  []string       `json:"recommendations"`
	FallbackUsed     bool           `json:"-"`
}

// ScriptSuggestion is one AI-proposed rewrite for a flagged script span.
type ScriptSuggestion struct {
	OriginalText  string  `json:"original_text"`
	SuggestedText string  `json:"suggested_text"`
	Reason        string  `json:"reason"`
	Confidence    float64 `json:"confidence"` // [0, 1]
}

// Platform identifies the source marketplace of a product URL.
type Platform string

const (
	PlatformTikTokShop Platform = "tiktok_shop"
	PlatformAmazon     Platform = "amazon"
	PlatformAliExpress Platform = "aliexpress"
	PlatformGeneric    Platform = "generic"
)

// ProductStatus is the ingestion pipeline state of a product container.
type ProductStatus string

const (
	StatusPending   ProductStatus = "pending"
	StatusScraping  ProductStatus = "scraping"
	StatusAnalyzing ProductStatus = "analyzing"
	StatusCompleted ProductStatus = "completed"
	StatusFailed    ProductStatus = "failed"
)

// Product is the container row every insight, pack and script hangs off.
type Product struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	URL          string        `json:"url"`
	Platform     Platform      `json:"platform"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Status       ProductStatus `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	BrandRules   *BrandRuleSet `json:"brand_rules,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ProductData is the scraped metadata for a product page.
type ProductData struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Price       *float64 `json:"price,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
}

// ScrapeResult is what a platform handler returns for one URL.
type ScrapeResult struct {
	Success bool         `json:"success"`
	Product *ProductData `json:"product_data,omitempty"`
	Reviews []Review     `json:"reviews,omitempty"`
	Error   string       `json:"error,omitempty"`
	Warning string       `json:"warning,omitempty"`
}
