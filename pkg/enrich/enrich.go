// Package enrich turns extracted article text into a fully enriched record.
package enrich

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dtnitsch/news-enricher/models"
	"github.com/dtnitsch/news-enricher/pkg/analytics"
	"github.com/dtnitsch/news-enricher/pkg/detector"
	"github.com/dtnitsch/news-enricher/pkg/sentiment"
)

// EntityDetector is the subset of entities.Detector the builder needs.
type EntityDetector interface {
	DetectDiseases(text string) []string
	DetectAnimals(text string) []string
	DetectLocations(text string) []string
	DetectOrganisations(text string) []string
	DetectDates(text string) []string
}

// LanguageDetector returns an ISO-639-1 code or "unknown".
type LanguageDetector interface {
	Detect(text string) string
}

// SummaryLengths are the word limits of the three summaries.
var SummaryLengths = [3]int{50, 100, 150}

// Builder runs every enrichment step over one text. Steps are isolated: a
// panicking step logs a warning and contributes its zero value.
type Builder struct {
	entities  EntityDetector
	language  LanguageDetector
	sentiment sentiment.Scorer
	logger    *slog.Logger
}

// NewBuilder returns a Builder over the given detectors. A nil logger uses slog.Default.
func NewBuilder(entities EntityDetector, language LanguageDetector, scorer sentiment.Scorer, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		entities:  entities,
		language:  language,
		sentiment: scorer,
		logger:    logger,
	}
}

// BuildRecord enriches text and returns an ok record.
func (b *Builder) BuildRecord(url, title, text string, published *time.Time) models.Record {
	text = analytics.CleanText(text)

	wordCount := analytics.WordCount(text)
	charCount := analytics.CharCount(text)

	record := models.Record{
		URL:       url,
		Title:     models.OptionalString(title),
		Text:      &text,
		CharCount: &charCount,
		WordCount: &wordCount,
		Status:    models.StatusOK,
	}

	language := b.str(url, "language", detector.Unknown, func() string { return b.language.Detect(text) })
	record.Language = &language

	if published != nil {
		date := published.Format(models.DateLayout)
		record.PublicationDate = &date
	}

	record.Diseases = b.list(url, "diseases", func() []string { return b.entities.DetectDiseases(text) })
	record.Locations = b.list(url, "locations", func() []string { return b.entities.DetectLocations(text) })
	record.Organisations = b.list(url, "organisations", func() []string { return b.entities.DetectOrganisations(text) })
	record.Animals = b.list(url, "animals", func() []string { return b.entities.DetectAnimals(text) })
	record.DatesMentioned = b.list(url, "dates", func() []string { return b.entities.DetectDates(text) })

	source := b.str(url, "source", detector.SourceUnknown, func() string { return detector.SourceType(text) })
	record.SourceNLP = &source

	score := sentiment.Score(b.sentiment, text)
	record.Sentiment = &score

	summaries := make([]string, len(SummaryLengths))
	for i, n := range SummaryLengths {
		summaries[i] = analytics.Summarize(text, n)
	}
	record.Summary50 = &summaries[0]
	record.Summary100 = &summaries[1]
	record.Summary150 = &summaries[2]

	return record
}

func (b *Builder) list(url, step string, fn func() []string) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("enrichment step failed", "url", url, "step", step, "error", fmt.Sprint(r))
			out = []string{}
		}
	}()
	out = fn()
	if out == nil {
		out = []string{}
	}
	return out
}

func (b *Builder) str(url, step, fallback string, fn func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("enrichment step failed", "url", url, "step", step, "error", fmt.Sprint(r))
			out = fallback
		}
	}()
	return fn()
}
