package scraping

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/sirupsen/logrus"
)

// Handler is one platform-specific scraper.
type Handler interface {
	Platform() models.Platform
	Matches(u *url.URL) bool
	Fetch(ctx context.Context, rawURL string) (*models.ScrapeResult, error)
}

// Manager dispatches a product URL to the first handler that accepts it.
// Handlers are tested in declared order and the generic handler, which
// accepts everything, is always last; the ordering decides platform
// classification for ambiguous URLs and must not be reshuffled.
type Manager struct {
	handlers []Handler
}

// NewManager builds the manager with the standard handler ordering.
func NewManager() *Manager {
	return &Manager{
		handlers: []Handler{
			NewTikTokShopHandler(),
			NewAmazonHandler(),
			NewAliExpressHandler(),
			NewGenericHandler(),
		},
	}
}

func (m *Manager) route(rawURL string) (Handler, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("unsupported product URL: %q", rawURL)
	}

	for _, h := range m.handlers {
		if h.Matches(u) {
			return h, nil
		}
	}
	// Unreachable while the generic handler stays last.
	return nil, fmt.Errorf("no handler accepted URL %q", rawURL)
}

// Detect classifies a URL's platform without fetching anything.
func (m *Manager) Detect(rawURL string) (models.Platform, error) {
	h, err := m.route(rawURL)
	if err != nil {
		return "", err
	}
	return h.Platform(), nil
}

// Scrape fetches product data and reviews for the URL.
func (m *Manager) Scrape(ctx context.Context, rawURL string) (*models.ScrapeResult, error) {
	h, err := m.route(rawURL)
	if err != nil {
		return nil, err
	}

	logrus.Infof("Scraping %s via %s handler", rawURL, h.Platform())
	return h.Fetch(ctx, rawURL)
}

// hostMatches reports whether host equals domain or is a subdomain of it.
func hostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
