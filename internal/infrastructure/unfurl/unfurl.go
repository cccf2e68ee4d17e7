// Package unfurl fetches lightweight OpenGraph metadata for pasted URLs so
// embed widgets can show a preview without a heavyweight oEmbed dependency.
package unfurl

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsdesk/internal/ports"
)

// Client scrapes og:title / og:image (falling back to <title>) from a page.
type Client struct {
	http *http.Client
}

var _ ports.Unfurler = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets a sane default timeout.
func NewClient(client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{http: client}
}

// Unfurl fetches the page and extracts its title and preview image. Any
// failure is returned to the caller, who treats it as missing metadata.
func (c *Client) Unfurl(ctx context.Context, pageURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "newsdesk/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("parse page: %w", err)
	}

	title := metaContent(doc, "og:title")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	image := metaContent(doc, "og:image")

	return title, image, nil
}

func metaContent(doc *goquery.Document, property string) string {
	value, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	return strings.TrimSpace(value)
}
