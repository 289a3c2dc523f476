package digest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/news-digest/app/feed"
)

// Builder runs feed reading, extraction and summarization strictly in
// sequence. A failing feed or article only degrades its own records.
type Builder struct {
	title      string
	sources    []feed.Source
	reader     FeedReaderInterface
	extractor  ArticleExtractorInterface
	summarizer SummarizerInterface
	now        func() time.Time
	loc        *time.Location
}

func NewBuilder(title string, sources []feed.Source, reader FeedReaderInterface,
	extractor ArticleExtractorInterface, summarizer SummarizerInterface) *Builder {
	return &Builder{
		title:      title,
		sources:    sources,
		reader:     reader,
		extractor:  extractor,
		summarizer: summarizer,
		now:        time.Now,
		loc:        time.Local,
	}
}

func (b *Builder) Run(ctx context.Context) Document {
	started := time.Now()
	doc := Document{
		Title: b.title,
		RunID: uuid.NewString(),
	}

	slog.Info("Fetching articles from RSS feeds", "run_id", doc.RunID, "feeds", len(b.sources))

	articles := b.collectArticles(ctx, doc.RunID)

	failedCount := 0
	placeholderCount := 0
	doc.Records = make([]Record, 0, len(articles))
	for _, article := range articles {
		if ctx.Err() != nil {
			slog.Warn("Digest run cancelled", "run_id", doc.RunID, "error", ctx.Err())
			break
		}

		result := b.summarizer.Run(ctx, article.Text)
		if article.Failed {
			failedCount++
			slog.Debug("Keeping article without text", "run_id", doc.RunID, "feed", article.FeedURL, "url", article.Link, "error", article.Err)
		}
		if !result.OK() {
			placeholderCount++
		}

		doc.Records = append(doc.Records, Record{Article: article, Summary: result})
	}

	doc.GeneratedAt = b.now().In(b.loc)

	slog.Info("Digest built",
		"run_id", doc.RunID,
		"duration", time.Since(started),
		"articles", len(doc.Records),
		"failed_downloads", failedCount,
		"placeholders", placeholderCount)

	return doc
}

func (b *Builder) collectArticles(ctx context.Context, runID string) []feed.Article {
	var articles []feed.Article

	for _, source := range b.sources {
		if ctx.Err() != nil {
			return articles
		}

		limit := max(source.MaxItems, 0)
		entries := b.reader.Run(ctx, source.URL, limit)
		if len(entries) > limit {
			entries = entries[:limit]
		}

		slog.Debug("Feed entries selected", "run_id", runID, "feed", source.URL, "entries", len(entries))

		for _, entry := range entries {
			if ctx.Err() != nil {
				return articles
			}
			articles = append(articles, b.extractor.Run(ctx, entry))
		}
	}

	return articles
}

// MaxRunDuration is the longest a run can take when every feed fetch, article
// download and model call uses its full timeout.
func (b *Builder) MaxRunDuration(fetchTimeout, summaryTimeout time.Duration) time.Duration {
	total := time.Duration(len(b.sources)) * fetchTimeout
	for _, source := range b.sources {
		total += time.Duration(max(source.MaxItems, 0)) * (fetchTimeout + summaryTimeout)
	}
	return total
}
