package scraping

import (
	"context"
	"net/url"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// AliExpressHandler matches AliExpress hostnames.
type AliExpressHandler struct {
	client *resty.Client
}

var _ Handler = (*AliExpressHandler)(nil)

var aliexpressHosts = []string{"aliexpress.com", "aliexpress.us"}

func NewAliExpressHandler() *AliExpressHandler {
	return &AliExpressHandler{client: newPageClient()}
}

func (h *AliExpressHandler) Platform() models.Platform {
	return models.PlatformAliExpress
}

func (h *AliExpressHandler) Matches(u *url.URL) bool {
	for _, host := range aliexpressHosts {
		if hostMatches(u.Host, host) {
			return true
		}
	}
	return false
}

func (h *AliExpressHandler) Fetch(ctx context.Context, rawURL string) (*models.ScrapeResult, error) {
	data, err := fetchProductData(ctx, h.client, rawURL)
	if err != nil {
		logrus.Errorf("AliExpress fetch failed for %s: %v", rawURL, err)
		return &models.ScrapeResult{Success: false, Error: err.Error()}, nil
	}

	return &models.ScrapeResult{
		Success: true,
		Product: data,
		Reviews: sampleReviews(),
		Warning: sampleReviewWarning,
	}, nil
}
