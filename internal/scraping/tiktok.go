package scraping

import (
	"context"
	"net/url"
	"strings"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// TikTokShopHandler matches TikTok Shop product URLs by path pattern.
type TikTokShopHandler struct {
	client *resty.Client
}

var _ Handler = (*TikTokShopHandler)(nil)

func NewTikTokShopHandler() *TikTokShopHandler {
	return &TikTokShopHandler{client: newPageClient()}
}

func (h *TikTokShopHandler) Platform() models.Platform {
	return models.PlatformTikTokShop
}

func (h *TikTokShopHandler) Matches(u *url.URL) bool {
	if hostMatches(u.Host, "shop.tiktok.com") {
		return true
	}
	return hostMatches(u.Host, "tiktok.com") && strings.Contains(u.Path, "/shop")
}

func (h *TikTokShopHandler) Fetch(ctx context.Context, rawURL string) (*models.ScrapeResult, error) {
	data, err := fetchProductData(ctx, h.client, rawURL)
	if err != nil {
		logrus.Errorf("TikTok Shop fetch failed for %s: %v", rawURL, err)
		return &models.ScrapeResult{Success: false, Error: err.Error()}, nil
	}

	return &models.ScrapeResult{
		Success: true,
		Product: data,
		Reviews: sampleReviews(),
		Warning: sampleReviewWarning,
	}, nil
}
