package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/creatorscook/insight-core/internal/ai"
	"github.com/creatorscook/insight-core/internal/config"
	"github.com/creatorscook/insight-core/internal/models"
	"github.com/creatorscook/insight-core/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of the storage interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateProduct(ctx context.Context, p *models.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockStore) GetProduct(ctx context.Context, userID, productID string) (*models.Product, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStore) ListProductsByStatus(ctx context.Context, status models.ProductStatus) ([]models.Product, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockStore) UpdateProductStatus(ctx context.Context, userID, productID string, status models.ProductStatus, errorMessage string) error {
	return m.Called(ctx, userID, productID, status, errorMessage).Error(0)
}

func (m *MockStore) UpdateProductData(ctx context.Context, userID, productID, name, description string) error {
	return m.Called(ctx, userID, productID, name, description).Error(0)
}

func (m *MockStore) UpdateBrandRules(ctx context.Context, userID, productID string, rules *models.BrandRuleSet) error {
	return m.Called(ctx, userID, productID, rules).Error(0)
}

func (m *MockStore) ReplaceInsights(ctx context.Context, userID, productID string, insights models.AggregatedInsights) error {
	return m.Called(ctx, userID, productID, insights).Error(0)
}

func (m *MockStore) GetInsightsByKind(ctx context.Context, userID, productID, kind string) ([]models.ThemeInsight, error) {
	args := m.Called(ctx, userID, productID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ThemeInsight), args.Error(1)
}

func (m *MockStore) ReplacePacks(ctx context.Context, userID, productID string, packs []models.ViralityPack) error {
	return m.Called(ctx, userID, productID, packs).Error(0)
}

func (m *MockStore) ListPacks(ctx context.Context, userID, productID string) ([]models.ViralityPack, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ViralityPack), args.Error(1)
}

func (m *MockStore) SaveScript(ctx context.Context, script *models.Script) error {
	return m.Called(ctx, script).Error(0)
}

func (m *MockStore) GetScript(ctx context.Context, userID, scriptID string) (*models.Script, error) {
	args := m.Called(ctx, userID, scriptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Script), args.Error(1)
}

func (m *MockStore) HasCredits(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ConsumeCredit(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

var _ storage.Store = (*MockStore)(nil)

// stubScraper returns canned detection and scrape results.
type stubScraper struct {
	platform    models.Platform
	detectErr   error
	result      *models.ScrapeResult
	scrapeErr   error
	scrapeCalls int
}

func (s *stubScraper) Detect(rawURL string) (models.Platform, error) {
	return s.platform, s.detectErr
}

func (s *stubScraper) Scrape(ctx context.Context, rawURL string) (*models.ScrapeResult, error) {
	s.scrapeCalls++
	return s.result, s.scrapeErr
}

// MockGenerator is a mock implementation of the angle generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateAngles(ctx context.Context, insights models.AggregatedInsights, product ai.ProductContext) (*models.AngleResult, error) {
	args := m.Called(ctx, insights, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AngleResult), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		ScrapeTimeout:   10 * time.Second,
		GenerateTimeout: 10 * time.Second,
	}
}

func pendingProduct() *models.Product {
	return &models.Product{
		ID:       "prod-1",
		UserID:   "user-1",
		URL:      "https://www.amazon.com/dp/B0TEST",
		Platform: models.PlatformAmazon,
		Status:   models.StatusPending,
	}
}

func angleResult(packs int) *models.AngleResult {
	result := &models.AngleResult{OverallSentiment: 0.3, OverallVirality: 0.7}
	for i := 0; i < packs; i++ {
		result.Packs = append(result.Packs, models.ViralityPack{
			AngleName:   string(rune('A' + i)),
			HookOptions: []string{"h1", "h2", "h3"},
		})
	}
	return result
}

func TestCreateProduct_NamedPlatformSkipsCredits(t *testing.T) {
	store := &MockStore{}
	store.On("CreateProduct", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(testConfig(), store, &stubScraper{platform: models.PlatformAmazon}, &MockGenerator{})
	product, err := svc.CreateProduct(context.Background(), "user-1", "https://www.amazon.com/dp/B0TEST")

	assert.NoError(t, err)
	assert.Equal(t, models.PlatformAmazon, product.Platform)
	assert.Equal(t, models.StatusPending, product.Status)
	store.AssertNotCalled(t, "HasCredits")
	store.AssertNotCalled(t, "ConsumeCredit")
}

func TestCreateProduct_GenericConsumesCredit(t *testing.T) {
	store := &MockStore{}
	store.On("HasCredits", mock.Anything, "user-1").Return(true, nil)
	store.On("ConsumeCredit", mock.Anything, "user-1").Return(true, nil)
	store.On("CreateProduct", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(testConfig(), store, &stubScraper{platform: models.PlatformGeneric}, &MockGenerator{})
	product, err := svc.CreateProduct(context.Background(), "user-1", "https://someshop.example/p/1")

	assert.NoError(t, err)
	assert.Equal(t, models.PlatformGeneric, product.Platform)
	store.AssertCalled(t, "ConsumeCredit", mock.Anything, "user-1")
}

func TestCreateProduct_GenericWithoutCredits(t *testing.T) {
	store := &MockStore{}
	store.On("HasCredits", mock.Anything, "user-1").Return(false, nil)

	svc := NewService(testConfig(), store, &stubScraper{platform: models.PlatformGeneric}, &MockGenerator{})
	product, err := svc.CreateProduct(context.Background(), "user-1", "https://someshop.example/p/1")

	assert.ErrorIs(t, err, ErrNoCredits)
	assert.Nil(t, product)
	store.AssertNotCalled(t, "CreateProduct")
}

func TestCreateProduct_LostCreditRace(t *testing.T) {
	// HasCredits said yes but the atomic decrement lost the race.
	store := &MockStore{}
	store.On("HasCredits", mock.Anything, "user-1").Return(true, nil)
	store.On("ConsumeCredit", mock.Anything, "user-1").Return(false, nil)

	svc := NewService(testConfig(), store, &stubScraper{platform: models.PlatformGeneric}, &MockGenerator{})
	_, err := svc.CreateProduct(context.Background(), "user-1", "https://someshop.example/p/1")

	assert.ErrorIs(t, err, ErrNoCredits)
	store.AssertNotCalled(t, "CreateProduct")
}

func TestCreateProduct_InvalidURL(t *testing.T) {
	store := &MockStore{}
	scraper := &stubScraper{detectErr: errors.New("unsupported product URL")}

	svc := NewService(testConfig(), store, scraper, &MockGenerator{})
	_, err := svc.CreateProduct(context.Background(), "user-1", "nonsense")

	assert.Error(t, err)
	store.AssertNotCalled(t, "CreateProduct")
}

func TestAnalyze_HappyPath(t *testing.T) {
	scrape := &models.ScrapeResult{
		Success: true,
		Product: &models.ProductData{Name: "Test Blender", Description: "Blends things"},
		Reviews: []models.Review{
			{Rating: 5, Content: "amazing taste"},
			{Rating: 1, Content: "broke in a week"},
		},
	}

	var statuses []models.ProductStatus
	store := &MockStore{}
	store.On("GetProduct", mock.Anything, "user-1", "prod-1").Return(pendingProduct(), nil)
	store.On("UpdateProductStatus", mock.Anything, "user-1", "prod-1", mock.Anything, "").
		Run(func(args mock.Arguments) {
			statuses = append(statuses, args.Get(3).(models.ProductStatus))
		}).Return(nil)
	store.On("UpdateProductData", mock.Anything, "user-1", "prod-1", "Test Blender", "Blends things").Return(nil)
	store.On("ReplaceInsights", mock.Anything, "user-1", "prod-1", mock.Anything).Return(nil)
	store.On("ReplacePacks", mock.Anything, "user-1", "prod-1", mock.Anything).Return(nil)

	generator := &MockGenerator{}
	generator.On("GenerateAngles", mock.Anything, mock.Anything, mock.Anything).Return(angleResult(3), nil)

	svc := NewService(testConfig(), store, &stubScraper{result: scrape}, generator)
	err := svc.Analyze(context.Background(), "user-1", "prod-1")

	assert.NoError(t, err)
	assert.Equal(t, []models.ProductStatus{models.StatusScraping, models.StatusAnalyzing, models.StatusCompleted}, statuses)

	// Stored packs are stamped with the owning product.
	replaced := false
	for _, call := range store.Calls {
		if call.Method != "ReplacePacks" {
			continue
		}
		replaced = true
		for _, pack := range call.Arguments.Get(3).([]models.ViralityPack) {
			assert.Equal(t, "prod-1", pack.ProductID)
		}
	}
	assert.True(t, replaced)

	// Scraped metadata is passed along to the generator prompt context.
	genCall := generator.Calls[0]
	assert.Equal(t, "Test Blender", genCall.Arguments.Get(2).(ai.ProductContext).Name)
}

func TestAnalyze_ScrapeFailureMarksFailed(t *testing.T) {
	scrape := &models.ScrapeResult{Success: false, Error: "page returned 404"}

	store := &MockStore{}
	store.On("GetProduct", mock.Anything, "user-1", "prod-1").Return(pendingProduct(), nil)
	store.On("UpdateProductStatus", mock.Anything, "user-1", "prod-1", models.StatusScraping, "").Return(nil)
	store.On("UpdateProductStatus", mock.Anything, "user-1", "prod-1", models.StatusFailed, mock.MatchedBy(func(msg string) bool {
		return msg != ""
	})).Return(nil)

	generator := &MockGenerator{}

	svc := NewService(testConfig(), store, &stubScraper{result: scrape}, generator)
	err := svc.Analyze(context.Background(), "user-1", "prod-1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "page returned 404")
	generator.AssertNotCalled(t, "GenerateAngles")
	store.AssertExpectations(t)
}

func TestAnalyze_NeutralReviewsAreInsufficient(t *testing.T) {
	// 3-star reviews map to zero sentiment and aggregate to nothing.
	scrape := &models.ScrapeResult{
		Success: true,
		Reviews: []models.Review{{Rating: 3, Content: "it exists"}},
	}

	store := &MockStore{}
	store.On("GetProduct", mock.Anything, "user-1", "prod-1").Return(pendingProduct(), nil)
	store.On("UpdateProductStatus", mock.Anything, "user-1", "prod-1", models.StatusScraping, "").Return(nil)
	store.On("UpdateProductStatus", mock.Anything, "user-1", "prod-1", models.StatusAnalyzing, "").Return(nil)
	store.On("UpdateProductStatus", mock.Anything, "user-1", "prod-1", models.StatusFailed, mock.Anything).Return(nil)

	generator := &MockGenerator{}

	svc := NewService(testConfig(), store, &stubScraper{result: scrape}, generator)
	err := svc.Analyze(context.Background(), "user-1", "prod-1")

	assert.ErrorIs(t, err, ErrInsufficientData)
	generator.AssertNotCalled(t, "GenerateAngles")
	store.AssertNotCalled(t, "ReplaceInsights")
}

func TestAnalyze_GeneratorErrorMarksFailed(t *testing.T) {
	scrape := &models.ScrapeResult{
		Success: true,
		Reviews: []models.Review{{Rating: 1, Content: "terrible taste"}},
	}

	store := &MockStore{}
	store.On("GetProduct", mock.Anything, "user-1", "prod-1").Return(pendingProduct(), nil)
	store.On("UpdateProductStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("ReplaceInsights", mock.Anything, "user-1", "prod-1", mock.Anything).Return(nil)

	generator := &MockGenerator{}
	generator.On("GenerateAngles", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("model unavailable"))

	svc := NewService(testConfig(), store, &stubScraper{result: scrape}, generator)
	err := svc.Analyze(context.Background(), "user-1", "prod-1")

	assert.Error(t, err)
	store.AssertCalled(t, "UpdateProductStatus", mock.Anything, "user-1", "prod-1", models.StatusFailed, mock.Anything)
	// Insights persisted before the failure are not rolled back.
	store.AssertCalled(t, "ReplaceInsights", mock.Anything, "user-1", "prod-1", mock.Anything)
	store.AssertNotCalled(t, "ReplacePacks")
}

func TestRegenerate_UsesStoredInsights(t *testing.T) {
	pain := []models.ThemeInsight{{Theme: models.ThemeTasteQuality, Sentiment: -0.5, Mentions: 2}}
	delight := []models.ThemeInsight{{Theme: models.ThemeEffectiveness, Sentiment: 0.8, Mentions: 3}}

	store := &MockStore{}
	store.On("GetProduct", mock.Anything, "user-1", "prod-1").Return(pendingProduct(), nil)
	store.On("GetInsightsByKind", mock.Anything, "user-1", "prod-1", storage.KindPainPoint).Return(pain, nil)
	store.On("GetInsightsByKind", mock.Anything, "user-1", "prod-1", storage.KindDelightFactor).Return(delight, nil)
	store.On("ReplacePacks", mock.Anything, "user-1", "prod-1", mock.Anything).Return(nil)

	generator := &MockGenerator{}
	generator.On("GenerateAngles", mock.Anything, mock.Anything, mock.Anything).Return(angleResult(3), nil)

	scraper := &stubScraper{}
	svc := NewService(testConfig(), store, scraper, generator)
	err := svc.Regenerate(context.Background(), "user-1", "prod-1", nil)

	assert.NoError(t, err)
	// Regeneration never goes back to the product page.
	assert.Equal(t, 0, scraper.scrapeCalls)

	passed := generator.Calls[0].Arguments.Get(1).(models.AggregatedInsights)
	assert.Equal(t, pain, passed.PainPoints)
	assert.Equal(t, delight, passed.DelightFactors)
}

func TestRegenerate_ThemeFilter(t *testing.T) {
	pain := []models.ThemeInsight{
		{Theme: models.ThemeTasteQuality, Sentiment: -0.5, Mentions: 2},
		{Theme: models.ThemePriceValue, Sentiment: -0.2, Mentions: 1},
	}

	store := &MockStore{}
	store.On("GetProduct", mock.Anything, "user-1", "prod-1").Return(pendingProduct(), nil)
	store.On("GetInsightsByKind", mock.Anything, "user-1", "prod-1", storage.KindPainPoint).Return(pain, nil)
	store.On("GetInsightsByKind", mock.Anything, "user-1", "prod-1", storage.KindDelightFactor).Return([]models.ThemeInsight{}, nil)
	store.On("ReplacePacks", mock.Anything, "user-1", "prod-1", mock.Anything).Return(nil)

	generator := &MockGenerator{}
	generator.On("GenerateAngles", mock.Anything, mock.Anything, mock.Anything).Return(angleResult(3), nil)

	svc := NewService(testConfig(), store, &stubScraper{}, generator)
	err := svc.Regenerate(context.Background(), "user-1", "prod-1", []models.Theme{models.ThemePriceValue})

	assert.NoError(t, err)
	passed := generator.Calls[0].Arguments.Get(1).(models.AggregatedInsights)
	assert.Len(t, passed.PainPoints, 1)
	assert.Equal(t, models.ThemePriceValue, passed.PainPoints[0].Theme)
}

func TestRegenerate_FilterToNothingIsInsufficient(t *testing.T) {
	store := &MockStore{}
	store.On("GetProduct", mock.Anything, "user-1", "prod-1").Return(pendingProduct(), nil)
	store.On("GetInsightsByKind", mock.Anything, "user-1", "prod-1", storage.KindPainPoint).
		Return([]models.ThemeInsight{{Theme: models.ThemeTasteQuality, Mentions: 1}}, nil)
	store.On("GetInsightsByKind", mock.Anything, "user-1", "prod-1", storage.KindDelightFactor).
		Return([]models.ThemeInsight{}, nil)

	generator := &MockGenerator{}

	svc := NewService(testConfig(), store, &stubScraper{}, generator)
	err := svc.Regenerate(context.Background(), "user-1", "prod-1", []models.Theme{models.ThemeBatteryLife})

	assert.ErrorIs(t, err, ErrInsufficientData)
	generator.AssertNotCalled(t, "GenerateAngles")
}

func TestRegenerate_MissingProduct(t *testing.T) {
	store := &MockStore{}
	store.On("GetProduct", mock.Anything, "user-1", "missing").Return(nil, storage.ErrNotFound)

	svc := NewService(testConfig(), store, &stubScraper{}, &MockGenerator{})
	err := svc.Regenerate(context.Background(), "user-1", "missing", nil)

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCancel(t *testing.T) {
	store := &MockStore{}
	store.On("UpdateProductStatus", mock.Anything, "user-1", "prod-1", models.StatusFailed, "cancelled by user").Return(nil)

	svc := NewService(testConfig(), store, &stubScraper{}, &MockGenerator{})
	err := svc.Cancel(context.Background(), "user-1", "prod-1")

	assert.NoError(t, err)
	store.AssertExpectations(t)
}
