package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	MinTextLength   = 200
	MaxSummaryLen   = 150
	MinSummaryLen   = 50
	DefaultMaxInput = 4000
)

var ErrEmptyResult = errors.New("model returned no summary")

// Summarizer applies the summary policy around a loaded Model. It holds no
// mutable state and is safe for concurrent use when the Model is.
type Summarizer struct {
	model    Model
	maxInput int
}

func NewSummarizer(model Model, maxInput int) *Summarizer {
	if maxInput <= 0 {
		maxInput = DefaultMaxInput
	}
	return &Summarizer{
		model:    model,
		maxInput: maxInput,
	}
}

// Load warms the model up once and returns a Summarizer around it. An error
// here means no summaries can be produced for the lifetime of the process.
func Load(ctx context.Context, model Model, maxInput int) (*Summarizer, error) {
	if model == nil {
		return nil, fmt.Errorf("summarization model is nil")
	}
	if err := model.Warmup(ctx); err != nil {
		return nil, fmt.Errorf("failed to load summarization model: %w", err)
	}
	return NewSummarizer(model, maxInput), nil
}

func (s *Summarizer) Run(ctx context.Context, text string) Result {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinTextLength {
		return Fail(ReasonTooShort, nil)
	}

	slog.Debug("Summarizing text", "length", len(text))

	params := Params{
		MaxLength: MaxSummaryLen,
		MinLength: MinSummaryLen,
		DoSample:  false,
	}

	candidates, err := s.model.Summarize(ctx, truncateText(text, s.maxInput), params)
	if err != nil {
		slog.Error("Could not summarize text", "error", err)
		return Fail(ReasonModelError, err)
	}

	for _, candidate := range candidates {
		if summary := strings.TrimSpace(candidate); summary != "" {
			return Ok(summary)
		}
	}

	return Fail(ReasonEmptyResult, ErrEmptyResult)
}

// truncateText drops invalid bytes and cuts value to at most max bytes on a
// rune boundary.
func truncateText(value string, max int) string {
	value = strings.ToValidUTF8(value, "")
	if len(value) <= max {
		return value
	}
	for max > 0 && !utf8.RuneStart(value[max]) {
		max--
	}
	return value[:max]
}
