package scraping

import (
	"context"
	"net/url"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// GenericHandler is the mandatory always-true fallback. Products routed
// here are the ones that cost an angle credit to analyze.
type GenericHandler struct {
	client *resty.Client
}

var _ Handler = (*GenericHandler)(nil)

func NewGenericHandler() *GenericHandler {
	return &GenericHandler{client: newPageClient()}
}

func (h *GenericHandler) Platform() models.Platform {
	return models.PlatformGeneric
}

func (h *GenericHandler) Matches(u *url.URL) bool {
	return true
}

func (h *GenericHandler) Fetch(ctx context.Context, rawURL string) (*models.ScrapeResult, error) {
	data, err := fetchProductData(ctx, h.client, rawURL)
	if err != nil {
		logrus.Errorf("Generic fetch failed for %s: %v", rawURL, err)
		return &models.ScrapeResult{Success: false, Error: err.Error()}, nil
	}

	return &models.ScrapeResult{
		Success: true,
		Product: data,
		Reviews: sampleReviews(),
		Warning: sampleReviewWarning,
	}, nil
}
