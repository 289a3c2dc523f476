package digest

import (
	"bytes"
	"cmp"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/lysyi3m/news-digest/app/feed"
)

const TimestampLayout = "2006-01-02 15:04:05 MST"

//go:embed templates/digest.html
var templateFS embed.FS

// Renderer turns a Document into a complete HTML page. Output depends only
// on the Document.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/digest.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse digest template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

type page struct {
	Title       string
	Cards       []card
	LastUpdated string
}

type card struct {
	Title        string
	Link         string
	Published    string
	Summary      string
	SummaryClass string
	Failed       bool
}

func (r *Renderer) Run(doc Document) (string, error) {
	p := page{
		Title:       doc.Title,
		Cards:       make([]card, 0, len(doc.Records)),
		LastUpdated: doc.GeneratedAt.Format(TimestampLayout),
	}

	loc := doc.GeneratedAt.Location()
	for _, record := range doc.Records {
		c := card{
			Title:        cmp.Or(record.Article.Title, record.Article.Link, "Untitled article"),
			Link:         record.Article.Link,
			Published:    publishedLabel(record.Article, loc),
			Summary:      record.Summary.Text(),
			SummaryClass: "summary",
			Failed:       record.Article.Failed,
		}
		if !record.Summary.OK() {
			c.SummaryClass = "summary error"
		}
		p.Cards = append(p.Cards, c)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("failed to render digest: %w", err)
	}

	return buf.String(), nil
}

// publishedLabel prefers the parsed feed date in the digest's timezone and
// falls back to the raw feed value.
func publishedLabel(article feed.Article, loc *time.Location) string {
	if article.PublishedAt != nil {
		return article.PublishedAt.In(loc).Format(TimestampLayout)
	}
	return article.Published
}
