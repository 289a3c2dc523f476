package digest

import (
	"context"
	"time"

	"github.com/lysyi3m/news-digest/app/feed"
	"github.com/lysyi3m/news-digest/app/summary"
)

type FeedReaderInterface interface {
	Run(ctx context.Context, feedURL string, limit int) []feed.Entry
}

type ArticleExtractorInterface interface {
	Run(ctx context.Context, entry feed.Entry) feed.Article
}

type SummarizerInterface interface {
	Run(ctx context.Context, text string) summary.Result
}

var (
	_ FeedReaderInterface       = (*feed.Reader)(nil)
	_ ArticleExtractorInterface = (*feed.ContentExtractor)(nil)
	_ SummarizerInterface       = (*summary.Summarizer)(nil)
)

type Record struct {
	Article feed.Article
	Summary summary.Result
}

// Document is one rendered run of the pipeline.
type Document struct {
	Title       string
	Records     []Record
	GeneratedAt time.Time
	RunID       string
}
