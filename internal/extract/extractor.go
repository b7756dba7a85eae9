package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// videoHrefPattern matches anchors whose target ends in a known video extension
var videoHrefPattern = regexp.MustCompile(`(?i)\.(mp4|webm|mkv)$`)

// Extractor fetches pages and discovers video links in them
type Extractor struct {
	client    *http.Client
	userAgent string
}

// NewExtractor creates an extractor using the given HTTP client and User-Agent
func NewExtractor(client *http.Client, userAgent string) *Extractor {
	return &Extractor{client: client, userAgent: userAgent}
}

// FetchPage downloads the page at url and returns its body. Non-2xx statuses
// are errors.
func (e *Extractor) FetchPage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status fetching page: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read page body: %w", err)
	}
	return body, nil
}

// SavePage writes a fetched page body to disk for later inspection
func SavePage(body []byte, path string) error {
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("failed to save page source: %w", err)
	}
	return nil
}

// VideoLinks parses HTML and returns the href targets of anchors pointing at
// video files. Protocol-relative links get an http scheme and root-relative
// links are joined onto baseURL. max caps the number of links returned;
// 0 means unlimited.
func VideoLinks(html []byte, baseURL string, max int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if max > 0 && len(links) >= max {
			return false
		}

		href, ok := sel.Attr("href")
		if !ok || !videoHrefPattern.MatchString(href) {
			return true
		}

		switch {
		case strings.HasPrefix(href, "//"):
			href = "http:" + href
		case strings.HasPrefix(href, "/"):
			href = strings.TrimRight(baseURL, "/") + href
		}
		links = append(links, href)
		return true
	})

	return links, nil
}
