package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/creatorscook/insight-core/internal/ai"
	"github.com/creatorscook/insight-core/internal/config"
	"github.com/creatorscook/insight-core/internal/insights"
	"github.com/creatorscook/insight-core/internal/models"
	"github.com/creatorscook/insight-core/internal/storage"
	"github.com/sirupsen/logrus"
)

// ErrNoCredits is returned when a generic-platform product is created by a
// user whose angle credit balance is exhausted.
var ErrNoCredits = errors.New("pipeline: no angle credits remaining")

// ErrInsufficientData marks an ingestion run that produced no usable
// insights. It is a hard failure, not a degenerate success.
var ErrInsufficientData = errors.New("pipeline: insufficient review data")

// Scraper is the external data source collaborator.
type Scraper interface {
	Detect(rawURL string) (models.Platform, error)
	Scrape(ctx context.Context, rawURL string) (*models.ScrapeResult, error)
}

// AngleGenerator is the AI collaborator consumed by the pipeline.
type AngleGenerator interface {
	GenerateAngles(ctx context.Context, insights models.AggregatedInsights, product ai.ProductContext) (*models.AngleResult, error)
}

// Service sequences ingestion for one product container:
// pending → scraping → analyzing → completed, with failed reachable from
// the two middle states. A failed run is retried from pending, never
// resumed mid-pipeline, and partial data is not rolled back.
type Service struct {
	config    *config.Config
	store     storage.Store
	scraper   Scraper
	generator AngleGenerator

	metrics *Metrics
	mu      sync.RWMutex
}

// NewService creates a new pipeline service
func NewService(cfg *config.Config, store storage.Store, scraper Scraper, generator AngleGenerator) *Service {
	return &Service{
		config:    cfg,
		store:     store,
		scraper:   scraper,
		generator: generator,
		metrics:   &Metrics{},
	}
}

// CreateProduct validates the URL, applies credit gating for generic
// platforms, and inserts the container in the pending state. No pipeline
// work starts here.
func (s *Service) CreateProduct(ctx context.Context, userID, rawURL string) (*models.Product, error) {
	platform, err := s.scraper.Detect(rawURL)
	if err != nil {
		return nil, err
	}

	if platform == models.PlatformGeneric {
		ok, err := s.store.HasCredits(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("credit check failed: %w", err)
		}
		if !ok {
			return nil, ErrNoCredits
		}
		consumed, err := s.store.ConsumeCredit(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("credit consumption failed: %w", err)
		}
		if !consumed {
			return nil, ErrNoCredits
		}
	}

	product := &models.Product{
		UserID:   userID,
		URL:      rawURL,
		Platform: platform,
		Status:   models.StatusPending,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	logrus.Infof("Created product %s (%s) for analysis", product.ID, platform)
	return product, nil
}

// Analyze runs the full ingestion pipeline for one product.
func (s *Service) Analyze(ctx context.Context, userID, productID string) error {
	start := time.Now()
	logrus.Infof("Starting analysis run for product %s", productID)

	product, err := s.store.GetProduct(ctx, userID, productID)
	if err != nil {
		return err
	}

	if err := s.store.UpdateProductStatus(ctx, userID, productID, models.StatusScraping, ""); err != nil {
		return err
	}

	scrapeCtx, cancel := context.WithTimeout(ctx, s.config.ScrapeTimeout)
	result, err := s.scraper.Scrape(scrapeCtx, product.URL)
	cancel()
	if err != nil {
		return s.fail(ctx, userID, productID, start, fmt.Errorf("scrape failed: %w", err))
	}
	if !result.Success {
		return s.fail(ctx, userID, productID, start, fmt.Errorf("scrape failed: %s", result.Error))
	}
	if result.Warning != "" {
		logrus.Warnf("Scrape warning for product %s: %s", productID, result.Warning)
	}

	if result.Product != nil {
		if err := s.store.UpdateProductData(ctx, userID, productID, result.Product.Name, result.Product.Description); err != nil {
			return s.fail(ctx, userID, productID, start, err)
		}
		product.Name = result.Product.Name
		product.Description = result.Product.Description
	}

	if err := s.store.UpdateProductStatus(ctx, userID, productID, models.StatusAnalyzing, ""); err != nil {
		return s.fail(ctx, userID, productID, start, err)
	}

	logrus.Infof("Aggregating insights from %d reviews for product %s", len(result.Reviews), productID)
	aggregated := insights.Aggregate(result.Reviews)
	if aggregated.Empty() {
		return s.fail(ctx, userID, productID, start, ErrInsufficientData)
	}

	if err := s.store.ReplaceInsights(ctx, userID, productID, aggregated); err != nil {
		return s.fail(ctx, userID, productID, start, err)
	}

	if err := s.generatePacks(ctx, userID, product, aggregated); err != nil {
		return s.fail(ctx, userID, productID, start, err)
	}

	if err := s.store.UpdateProductStatus(ctx, userID, productID, models.StatusCompleted, ""); err != nil {
		return s.fail(ctx, userID, productID, start, err)
	}

	s.recordRun(time.Since(start), false)
	logrus.Infof("Analysis run for product %s completed in %v", productID, time.Since(start))
	return nil
}

// Regenerate re-derives angle packs from the insights already on file,
// optionally filtered to a theme subset. It never re-scrapes or
// re-aggregates; the prior pack set is replaced wholesale.
func (s *Service) Regenerate(ctx context.Context, userID, productID string, themes []models.Theme) error {
	product, err := s.store.GetProduct(ctx, userID, productID)
	if err != nil {
		return err
	}

	// The two insight reads are independent; fetch them side by side.
	var pain, delight []models.ThemeInsight
	var painErr, delightErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pain, painErr = s.store.GetInsightsByKind(ctx, userID, productID, storage.KindPainPoint)
	}()
	go func() {
		defer wg.Done()
		delight, delightErr = s.store.GetInsightsByKind(ctx, userID, productID, storage.KindDelightFactor)
	}()
	wg.Wait()

	if painErr != nil {
		return painErr
	}
	if delightErr != nil {
		return delightErr
	}

	aggregated := models.AggregatedInsights{
		PainPoints:     filterThemes(pain, themes),
		DelightFactors: filterThemes(delight, themes),
	}
	if aggregated.Empty() {
		return ErrInsufficientData
	}

	logrus.Infof("Regenerating packs for product %s from %d pain points and %d delight factors",
		productID, len(aggregated.PainPoints), len(aggregated.DelightFactors))
	return s.generatePacks(ctx, userID, product, aggregated)
}

// Cancel forces a product into the failed state. It does not abort an
// in-flight external call.
func (s *Service) Cancel(ctx context.Context, userID, productID string) error {
	return s.store.UpdateProductStatus(ctx, userID, productID, models.StatusFailed, "cancelled by user")
}

func (s *Service) generatePacks(ctx context.Context, userID string, product *models.Product, aggregated models.AggregatedInsights) error {
	genCtx, cancel := context.WithTimeout(ctx, s.config.GenerateTimeout)
	defer cancel()

	result, err := s.generator.GenerateAngles(genCtx, aggregated, ai.ProductContext{
		Name:        product.Name,
		Description: product.Description,
		Platform:    product.Platform,
	})
	if err != nil {
		return fmt.Errorf("angle generation failed: %w", err)
	}

	for i := range result.Packs {
		result.Packs[i].ProductID = product.ID
	}
	if err := s.store.ReplacePacks(ctx, userID, product.ID, result.Packs); err != nil {
		return fmt.Errorf("failed to store packs: %w", err)
	}

	s.recordPacks(len(result.Packs), result.FallbackUsed)
	return nil
}

// fail records the terminal failure on the product row and returns the
// original error. Partial insight or pack data is left in place.
func (s *Service) fail(ctx context.Context, userID, productID string, start time.Time, cause error) error {
	logrus.Errorf("Analysis run for product %s failed: %v", productID, cause)
	if err := s.store.UpdateProductStatus(ctx, userID, productID, models.StatusFailed, cause.Error()); err != nil {
		logrus.Errorf("Failed to record failure for product %s: %v", productID, err)
	}
	s.recordRun(time.Since(start), true)
	return cause
}

func filterThemes(list []models.ThemeInsight, themes []models.Theme) []models.ThemeInsight {
	if len(themes) == 0 {
		return list
	}
	wanted := make(map[models.Theme]bool, len(themes))
	for _, t := range themes {
		wanted[t] = true
	}
	var out []models.ThemeInsight
	for _, in := range list {
		if wanted[in.Theme] {
			out = append(out, in)
		}
	}
	return out
}
