// Package generation talks to the text-generation service that supplies
// chapter text and word analyses.
package generation

import (
	"context"
	"errors"

	"github.com/mrlokans/interlinear/internal/entities"
)

var (
	ErrFetchFailed       = errors.New("failed to fetch chapter")
	ErrAnalysisFailed    = errors.New("failed to analyze word")
	ErrMalformedResponse = errors.New("malformed response from generation service")
	ErrNotConfigured     = errors.New("generation service not configured")
)

// Client defines the interface for text-generation providers.
// Calls are not retried; any error means the request failed.
type Client interface {
	FetchChapter(ctx context.Context, book string, chapter int) (*entities.ChapterData, error)
	AnalyzeWord(ctx context.Context, word, verseContext string) (*entities.WordAnalysis, error)
}

// Unconfigured is the client used when no API key is set. Every call fails
// so the reader lands in a retryable failed state instead of refusing to start.
type Unconfigured struct{}

func (Unconfigured) FetchChapter(context.Context, string, int) (*entities.ChapterData, error) {
	return nil, errors.Join(ErrFetchFailed, ErrNotConfigured)
}

func (Unconfigured) AnalyzeWord(context.Context, string, string) (*entities.WordAnalysis, error) {
	return nil, errors.Join(ErrAnalysisFailed, ErrNotConfigured)
}
