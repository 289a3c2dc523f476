package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Reader fetches a feed and returns its newest entries in document order.
// A feed that cannot be fetched or parsed yields no entries.
type Reader struct {
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
	userAgent    string
	timeout      time.Duration
}

func NewReader(httpClient *http.Client, userAgent string, timeout time.Duration) *Reader {
	return &Reader{
		httpClient:   httpClient,
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
		timeout:      timeout,
	}
}

func (r *Reader) Run(ctx context.Context, feedURL string, limit int) []Entry {
	if limit <= 0 {
		return nil
	}

	data, err := r.fetchFeed(ctx, feedURL)
	if err != nil {
		slog.Error("Failed to fetch feed", "feed", feedURL, "error", err)
		return nil
	}

	entries, err := r.parse(feedURL, data, limit)
	if err != nil {
		slog.Error("Failed to parse feed", "feed", feedURL, "error", err)
		return nil
	}

	slog.Debug("Feed fetched", "feed", feedURL, "entries", len(entries))

	return entries
}

func (r *Reader) parse(feedURL string, data []byte, limit int) ([]Entry, error) {
	feed, err := r.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := feed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, normalizeItem(feedURL, item))
	}

	return entries, nil
}

func normalizeItem(feedURL string, item *gofeed.Item) Entry {
	entry := Entry{
		FeedURL:   feedURL,
		Title:     strings.TrimSpace(item.Title),
		Link:      strings.TrimSpace(item.Link),
		Published: strings.TrimSpace(cmp.Or(item.Published, item.Updated)),
	}

	if item.PublishedParsed != nil {
		entry.PublishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		entry.PublishedAt = item.UpdatedParsed
	}

	return entry
}

func (r *Reader) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
