// Package extractor gets article text for a URL by trying extraction
// strategies in order until one yields enough words.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dtnitsch/news-enricher/models"
	"github.com/dtnitsch/news-enricher/pkg/analytics"
	"github.com/dtnitsch/news-enricher/pkg/fetcher"
	"github.com/dtnitsch/news-enricher/pkg/parser"
)

// ErrTooFewWords is returned when a strategy extracted a body below its
// minimum word count. The result's Title is still set.
var ErrTooFewWords = errors.New("too few words")

// Strategy extracts a title and body from one URL.
// A nil error means Result.Body is usable.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, url string) (models.ExtractionResult, error)
}

// ReadabilityStrategy runs the readability boilerplate remover over the page.
type ReadabilityStrategy struct {
	Fetcher  *fetcher.Fetcher
	Timeout  time.Duration
	MinWords int
}

// Name implements Strategy.
func (s *ReadabilityStrategy) Name() string { return "readability" }

// Extract fetches url and returns the readability article text, whitespace
// normalised.
func (s *ReadabilityStrategy) Extract(ctx context.Context, url string) (models.ExtractionResult, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	html, err := s.Fetcher.GetHtmlBytes(ctx, url)
	if err != nil {
		return models.ExtractionResult{}, err
	}

	article, err := parser.ParseArticle(url, html)
	if err != nil {
		return models.ExtractionResult{}, err
	}

	text := analytics.CleanText(article.Text)
	result := models.ExtractionResult{
		Title:       article.Title,
		PublishDate: article.Published,
		Strategy:    s.Name(),
	}
	if n := analytics.WordCount(text); n < s.MinWords {
		return result, fmt.Errorf("%w: %d < %d", ErrTooFewWords, n, s.MinWords)
	}
	result.Body = text
	return result, nil
}

// ParagraphStrategy joins every <p> of the page. It is the fallback when
// readability finds no article.
type ParagraphStrategy struct {
	Fetcher  *fetcher.Fetcher
	Timeout  time.Duration
	MinWords int
}

// Name implements Strategy.
func (s *ParagraphStrategy) Name() string { return "paragraphs" }

// Extract fetches url and returns the joined paragraph text.
func (s *ParagraphStrategy) Extract(ctx context.Context, url string) (models.ExtractionResult, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	doc, err := s.Fetcher.GetHtml(ctx, url)
	if err != nil {
		return models.ExtractionResult{}, err
	}

	title, text := parser.ParseParagraphs(doc)
	text = analytics.CleanText(text)

	result := models.ExtractionResult{Title: title, Strategy: s.Name()}
	if n := analytics.WordCount(text); n < s.MinWords {
		return result, fmt.Errorf("%w: %d < %d", ErrTooFewWords, n, s.MinWords)
	}
	result.Body = text
	return result, nil
}

// ParseStrategies builds the named strategies in order. Both share f.
func ParseStrategies(names []string, f *fetcher.Fetcher, cfg models.FetchConfig) ([]Strategy, error) {
	if len(names) == 0 {
		return nil, errors.New("no extraction strategies configured")
	}

	strategies := make([]Strategy, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "readability":
			strategies = append(strategies, &ReadabilityStrategy{Fetcher: f, Timeout: cfg.PrimaryTimeout, MinWords: cfg.MinWords})
		case "paragraphs", "p":
			strategies = append(strategies, &ParagraphStrategy{Fetcher: f, Timeout: cfg.FallbackTimeout, MinWords: cfg.MinWords})
		default:
			return nil, fmt.Errorf("unknown extraction strategy: %s", name)
		}
	}
	return strategies, nil
}

// Extractor tries its strategies in order. It keeps no state between calls.
type Extractor struct {
	strategies []Strategy
	logger     *slog.Logger
}

// New returns an Extractor over strategies. A nil logger uses slog.Default.
func New(logger *slog.Logger, strategies ...Strategy) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{strategies: strategies, logger: logger}
}

// FromConfig wires the configured strategies over one shared fetcher.
func FromConfig(cfg models.FetchConfig, logger *slog.Logger) (*Extractor, error) {
	f := fetcher.NewFetcher(
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
	)
	strategies, err := ParseStrategies(cfg.Strategies, f, cfg)
	if err != nil {
		return nil, err
	}
	return New(logger, strategies...), nil
}

// Extract returns the first successful strategy's result. When every
// strategy fails the body is empty, and the title is kept only if the last
// strategy got a page that was too short.
func (e *Extractor) Extract(ctx context.Context, url string) models.ExtractionResult {
	var failed models.ExtractionResult

	for i, s := range e.strategies {
		result, err := s.Extract(ctx, url)
		if err == nil && result.HasBody() {
			return result
		}
		if err == nil {
			err = errors.New("empty body")
		}

		last := i == len(e.strategies)-1
		if last {
			e.logger.Warn("extraction failed", "url", url, "strategy", s.Name(), "error", err)
			if errors.Is(err, ErrTooFewWords) {
				failed.Title = result.Title
			}
		} else {
			e.logger.Debug("extraction strategy failed, trying next", "url", url, "strategy", s.Name(), "error", err)
		}
	}

	return failed
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
