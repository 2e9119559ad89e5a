package scraping

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/go-resty/resty/v2"
)

var (
	titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	descPattern  = regexp.MustCompile(`(?is)<meta[^>]+(?:name|property)=["'](?:description|og:description)["'][^>]+content=["']([^"']*)["']`)
)

const userAgent = "CreatorsCook-Bot/1.0"

func newPageClient() *resty.Client {
	return resty.New().SetTimeout(30 * time.Second)
}

// fetchProductData pulls basic product metadata straight off the page HTML.
// Review extraction needs authenticated platform APIs, so callers pair this
// with the built-in sample review set and a warning.
func fetchProductData(ctx context.Context, client *resty.Client, rawURL string) (*models.ProductData, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		Get(rawURL)

	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("product page returned status %d", resp.StatusCode())
	}

	body := string(resp.Body())

	data := &models.ProductData{}
	if m := titlePattern.FindStringSubmatch(body); m != nil {
		data.Name = strings.TrimSpace(html.UnescapeString(m[1]))
	}
	if m := descPattern.FindStringSubmatch(body); m != nil {
		data.Description = strings.TrimSpace(html.UnescapeString(m[1]))
	}
	if data.Name == "" {
		data.Name = rawURL
	}

	return data, nil
}

const sampleReviewWarning = "review extraction is unavailable for this platform without seller credentials; a representative sample review set was used"

// sampleReviews is the stand-in review batch used while platform review
// APIs remain gated behind seller accounts.
func sampleReviews() []models.Review {
	return []models.Review{
		{Rating: 5, Title: "Exceeded expectations", Content: "Amazing taste and great energy, works exactly as described", Verified: true},
		{Rating: 5, Content: "Really easy to use and the design looks beautiful on my desk", Verified: true},
		{Rating: 4, Content: "Good value for the price, shipping was fast", Verified: false},
		{Rating: 2, Content: "The battery died after a week and support never responded", Verified: true},
		{Rating: 1, Title: "Disappointed", Content: "Terrible taste, total waste of money", Verified: true},
		{Rating: 3, Content: "It's fine. Does what it says, nothing special", Verified: false},
	}
}
