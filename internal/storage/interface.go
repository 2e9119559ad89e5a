package storage

import (
	"context"
	"errors"

	"github.com/creatorscook/insight-core/internal/models"
)

// ErrNotFound is returned when a row does not exist for the given user.
// A row owned by a different user is indistinguishable from a missing one.
var ErrNotFound = errors.New("storage: not found")

// Insight kinds as persisted.
const (
	KindPainPoint     = "pain_point"
	KindDelightFactor = "delight_factor"
)

// Store is the persistence collaborator. Every read and write is scoped to
// the opaque user identifier supplied by the identity provider; the store
// never interprets it beyond using it as an equality filter.
type Store interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, userID, productID string) (*models.Product, error)
	ListProductsByStatus(ctx context.Context, status models.ProductStatus) ([]models.Product, error)
	UpdateProductStatus(ctx context.Context, userID, productID string, status models.ProductStatus, errorMessage string) error
	UpdateProductData(ctx context.Context, userID, productID, name, description string) error
	UpdateBrandRules(ctx context.Context, userID, productID string, rules *models.BrandRuleSet) error

	// ReplaceInsights supersedes the previous run's insights wholesale.
	ReplaceInsights(ctx context.Context, userID, productID string, insights models.AggregatedInsights) error
	GetInsightsByKind(ctx context.Context, userID, productID, kind string) ([]models.ThemeInsight, error)

	// ReplacePacks deletes all prior packs for the product before inserting
	// the new set, making regeneration idempotent at the pack level.
	ReplacePacks(ctx context.Context, userID, productID string, packs []models.ViralityPack) error
	ListPacks(ctx context.Context, userID, productID string) ([]models.ViralityPack, error)

	SaveScript(ctx context.Context, script *models.Script) error
	GetScript(ctx context.Context, userID, scriptID string) (*models.Script, error)

	// Angle credit ledger. ConsumeCredit is atomic: it reports false when
	// the balance is already exhausted.
	HasCredits(ctx context.Context, userID string) (bool, error)
	ConsumeCredit(ctx context.Context, userID string) (bool, error)
}
