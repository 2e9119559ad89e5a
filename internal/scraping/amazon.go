package scraping

import (
	"context"
	"net/url"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// AmazonHandler matches Amazon storefront hostnames plus the short-link
// domains Amazon hands out in share sheets.
type AmazonHandler struct {
	client *resty.Client
}

var _ Handler = (*AmazonHandler)(nil)

var amazonHosts = []string{
	"amazon.com", "amazon.co.uk", "amazon.de", "amazon.ca", "amazon.com.au",
	"amzn.to", "a.co",
}

func NewAmazonHandler() *AmazonHandler {
	return &AmazonHandler{client: newPageClient()}
}

func (h *AmazonHandler) Platform() models.Platform {
	return models.PlatformAmazon
}

func (h *AmazonHandler) Matches(u *url.URL) bool {
	for _, host := range amazonHosts {
		if hostMatches(u.Host, host) {
			return true
		}
	}
	return false
}

func (h *AmazonHandler) Fetch(ctx context.Context, rawURL string) (*models.ScrapeResult, error) {
	data, err := fetchProductData(ctx, h.client, rawURL)
	if err != nil {
		logrus.Errorf("Amazon fetch failed for %s: %v", rawURL, err)
		return &models.ScrapeResult{Success: false, Error: err.Error()}, nil
	}

	return &models.ScrapeResult{
		Success: true,
		Product: data,
		Reviews: sampleReviews(),
		Warning: sampleReviewWarning,
	}, nil
}
