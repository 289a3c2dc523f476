package feed

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

const DefaultMaxItems = 3

// DefaultSources is used when no feeds file exists.
func DefaultSources() *Sources {
	return &Sources{
		MaxItems: DefaultMaxItems,
		Feeds: []Source{
			{URL: "http://www.kdnuggets.com/feed", Name: "KDnuggets", MaxItems: DefaultMaxItems},
			{URL: "https://towardsdatascience.com/feed", Name: "Towards Data Science", MaxItems: DefaultMaxItems},
			{URL: "https://www.analyticsvidhya.com/feed/", Name: "Analytics Vidhya", MaxItems: DefaultMaxItems},
			{URL: "https://ai.googleblog.com/feeds/posts/default", Name: "Google AI Blog", MaxItems: DefaultMaxItems},
		},
	}
}

func LoadSources(path string) (*Sources, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Feeds file not found, using built-in feeds", "path", path)
		return DefaultSources(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	sources, err := parseSources(data)
	if err != nil {
		return nil, fmt.Errorf("invalid feeds file %s: %w", path, err)
	}

	return sources, nil
}

func parseSources(data []byte) (*Sources, error) {
	var sources Sources
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if sources.MaxItems == 0 {
		sources.MaxItems = DefaultMaxItems
	}
	for i := range sources.Feeds {
		if sources.Feeds[i].MaxItems == 0 {
			sources.Feeds[i].MaxItems = sources.MaxItems
		}
	}

	if err := validateSources(&sources); err != nil {
		return nil, err
	}

	return &sources, nil
}

func validateSources(sources *Sources) error {
	if sources.MaxItems < 0 {
		return fmt.Errorf("max items must be positive")
	}

	for i, source := range sources.Feeds {
		if source.URL == "" {
			return fmt.Errorf("feed URL is required at index %d", i)
		}

		u, err := url.Parse(source.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid feed URL at index %d: %s", i, source.URL)
		}

		if source.MaxItems < 0 {
			return fmt.Errorf("max items must be positive at index %d", i)
		}
	}

	return nil
}
