package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "Mozilla/5.0 (Windows NT 6.1; Win64; x64; rv:47.0) Gecko/20100101 Firefox/47.0"

// Client fetches catalog pages and hands back parsed documents together with
// the final URL after redirects. The final URL is how the cascade detects
// search-to-detail redirects, so it must survive every hop.
type Client struct {
	httpClient *http.Client
	throttle   time.Duration
	logger     *slog.Logger
}

func NewClient(timeout time.Duration, throttle time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		throttle:   throttle,
		logger:     logger,
	}
}

// NewClientWithHTTP wires an externally built http.Client, used by tests.
func NewClientWithHTTP(client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{httpClient: client, logger: logger}
}

// FetchDocument retrieves one page. The politeness throttle runs before the
// request, not after a failure; it spaces requests out and is not a retry
// mechanism.
func (c *Client) FetchDocument(ctx context.Context, rawURL string) (*goquery.Document, string, error) {
	if c.throttle > 0 {
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(c.throttle):
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "cs-CZ,cs;q=0.9,en;q=0.5")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, "", fmt.Errorf("unexpected status %d for %s", res.StatusCode, rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, "", fmt.Errorf("parse page: %w", err)
	}

	finalURL := rawURL
	if res.Request != nil && res.Request.URL != nil {
		finalURL = res.Request.URL.String()
	}

	// Site-specific not-found banners; the caller still gets the document,
	// the extractors simply find no result rows on it.
	body := doc.Find("body").Text()
	if strings.Contains(body, "nebyla v databázi nalezena") {
		c.logger.Debug("item with requested id not found", "url", rawURL)
	}
	if strings.Contains(body, "Nevyhledán žádný výsledek pro řetězec") {
		c.logger.Debug("search returned no results", "url", rawURL)
	}

	return doc, finalURL, nil
}
