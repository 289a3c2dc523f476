package summary

import (
	"context"
	"fmt"
)

// Reason tells why no summary was produced.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonTooShort
	ReasonEmptyResult
	ReasonModelError
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonTooShort:
		return "too_short"
	case ReasonEmptyResult:
		return "empty_result"
	case ReasonModelError:
		return "model_error"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Result is either a model summary (Reason == ReasonNone) or the reason the
// article could not be summarized.
type Result struct {
	Summary string
	Reason  Reason
	Err     error
}

func Ok(summary string) Result {
	return Result{Summary: summary}
}

func Fail(reason Reason, err error) Result {
	return Result{Reason: reason, Err: err}
}

func (r Result) OK() bool {
	return r.Reason == ReasonNone
}

// Text is what a reader sees: the summary, or a placeholder for the reason.
func (r Result) Text() string {
	switch r.Reason {
	case ReasonNone:
		return r.Summary
	case ReasonTooShort:
		return "Article text was too short to summarize."
	case ReasonEmptyResult:
		return "The summarization model returned no summary for this article."
	case ReasonModelError:
		if r.Err != nil {
			return fmt.Sprintf("Summary could not be generated: %v", r.Err)
		}
		return "Summary could not be generated for this article."
	default:
		return "Summary unavailable."
	}
}

// Params are the decoding bounds passed to the model.
type Params struct {
	MaxLength int
	MinLength int
	DoSample  bool
}

// Model is a loaded summarization model.
type Model interface {
	Summarize(ctx context.Context, text string, params Params) ([]string, error)
	Warmup(ctx context.Context) error
}
