package feed

import (
	"time"
)

// Feed processing types

type Entry struct {
	FeedURL     string
	Title       string
	Link        string
	Published   string     // Raw published/updated value as found in the feed
	PublishedAt *time.Time // Parsed form of Published when the feed date is readable
}

// Article is an Entry after its page has been downloaded. Failed articles
// keep the entry's title and link with an empty Text.
type Article struct {
	FeedURL     string
	Title       string
	Link        string
	Published   string
	PublishedAt *time.Time
	Text        string
	Failed      bool
	Err         error
}

// Configuration types

type Sources struct {
	MaxItems int      `yaml:"max_items"`
	Feeds    []Source `yaml:"feeds"`
}

type Source struct {
	URL      string `yaml:"url"`
	Name     string `yaml:"name"`
	MaxItems int    `yaml:"max_items"`
}
