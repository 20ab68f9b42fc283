package llm

import (
	"context"
	"errors"
	"time"

	"docintake/internal/shared/failure"
)

// Client abstracts text-generation providers.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("text generation provider not configured")

// PlaceholderClient is used when no API key is configured. Every call fails,
// so uploads still succeed with the failure placeholder summary.
type PlaceholderClient struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderClient) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", failure.New(failure.DependencyUnavailable, ErrNotConfigured)
}

// Summary is the outcome of one summarization call. Exactly one of Text or
// Failure is meaningful.
type Summary struct {
	Text     string
	Failure  *failure.Failure
	Duration time.Duration
}

// OK reports whether the summary was generated.
func (s Summary) OK() bool {
	return s.Failure == nil
}

// Stored returns the text persisted for the document: the generated summary,
// or SummaryFailedText when generation failed.
func (s Summary) Stored() string {
	if !s.OK() {
		return SummaryFailedText
	}
	return s.Text
}

// Summarize asks the client for a summary of content. It never returns an
// error; failures are carried in the result.
func Summarize(ctx context.Context, client Client, content []byte) Summary {
	start := time.Now()
	if client == nil {
		client = PlaceholderClient{}
	}
	text, err := client.Generate(ctx, SummaryPrompt(content))
	elapsed := time.Since(start)
	if err != nil {
		return Summary{Failure: failure.From(err), Duration: elapsed}
	}
	if text == "" {
		return Summary{Failure: failure.New(failure.Unknown, errors.New("empty summary")), Duration: elapsed}
	}
	return Summary{Text: text, Duration: elapsed}
}
