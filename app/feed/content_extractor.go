package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-shiori/go-readability"
	"golang.org/x/text/unicode/norm"
)

const maxHTMLBodyBytes = 5 << 20 // 5 MiB

// ContentExtractor downloads an entry's page and keeps its readable text.
// Failures are recorded on the returned Article instead of being returned.
type ContentExtractor struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewContentExtractor(httpClient *http.Client, userAgent string, timeout time.Duration) *ContentExtractor {
	return &ContentExtractor{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (e *ContentExtractor) Run(ctx context.Context, entry Entry) Article {
	article := Article{
		FeedURL:     entry.FeedURL,
		Title:       entry.Title,
		Link:        entry.Link,
		Published:   entry.Published,
		PublishedAt: entry.PublishedAt,
	}

	text, err := e.extract(ctx, entry.Link)
	if err != nil {
		slog.Error("Failed to extract content for article", "feed", entry.FeedURL, "url", entry.Link, "error", err)
		article.Failed = true
		article.Err = err
		return article
	}

	article.Text = text
	slog.Info("Fetched article", "feed", entry.FeedURL, "title", entry.Title, "url", entry.Link, "content_length", len(text))

	return article
}

func (e *ContentExtractor) extract(ctx context.Context, link string) (string, error) {
	if link == "" {
		return "", fmt.Errorf("entry has no link")
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid article URL: %w", err)
	}

	data, err := e.fetchArticleContent(ctx, link)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article content: %w", err)
	}

	text, err := extractText(data, pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	return text, nil
}

func extractText(data []byte, pageURL *url.URL) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err == nil {
		if text := cleanText(article.TextContent); text != "" {
			return text, nil
		}
	}

	slog.Debug("Readability produced no text, falling back to paragraph scan", "url", pageURL.String(), "error", err)

	text, fallbackErr := fallbackText(data)
	if fallbackErr != nil {
		return "", fallbackErr
	}
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	return text, nil
}

// fallbackText collects paragraph text after dropping page chrome. Paragraphs
// inside <article> win over the rest of the page.
func fallbackText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, nav, header, footer, aside, form").Remove()

	paragraphs := doc.Find("article p")
	if paragraphs.Length() == 0 {
		paragraphs = doc.Find("p")
	}

	var parts []string
	paragraphs.Each(func(_ int, s *goquery.Selection) {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			parts = append(parts, text)
		}
	})

	return cleanText(strings.Join(parts, "\n")), nil
}

// cleanText normalizes to NFC, collapses whitespace inside each line and
// drops blank lines.
func cleanText(raw string) string {
	raw = norm.NFC.String(raw)

	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

func (e *ContentExtractor) fetchArticleContent(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !isHTMLMediaType(contentType) {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxHTMLBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Servers that omit the header get their body sniffed instead
	if contentType == "" {
		if detected := mimetype.Detect(data); !isHTMLMediaType(detected.String()) {
			return nil, fmt.Errorf("content is not HTML: detected %s", detected.String())
		}
	}

	return data, nil
}

func isHTMLMediaType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "text/html", "application/xhtml+xml":
		return true
	default:
		return false
	}
}
