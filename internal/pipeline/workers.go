package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dtnitsch/news-enricher/models"
	"github.com/dtnitsch/news-enricher/pkg/analytics"
	"github.com/dtnitsch/news-enricher/pkg/mapreduce"
)

// ErrNoInput is returned when the URL list has no rows.
var ErrNoInput = errors.New("no input URLs")

// TextExtractor fetches a URL and returns its title, body and publication
// date. An empty body means every strategy failed.
type TextExtractor interface {
	Extract(ctx context.Context, url string) models.ExtractionResult
}

// RecordBuilder enriches an article that passed the length check.
type RecordBuilder interface {
	BuildRecord(url, title, text string, published *time.Time) models.Record
}

// Runner processes a URL list with a bounded pool of workers. URLs are
// independent of each other; only the final dedup looks across rows.
type Runner struct {
	extractor TextExtractor
	builder   RecordBuilder
	minWords  int
	workers   int
	logger    *slog.Logger
}

// NewRunner returns a Runner with at least one worker. A nil logger uses slog.Default.
func NewRunner(extractor TextExtractor, builder RecordBuilder, minWords, workers int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		extractor: extractor,
		builder:   builder,
		minWords:  minWords,
		workers:   workers,
		logger:    logger,
	}
}

// Run processes every source and returns the deduplicated records. A
// cancelled ctx does not abort the run: URLs not yet started are recorded
// as scrape_failed.
func (r *Runner) Run(ctx context.Context, sources []models.SourceURL) (*Outcome, error) {
	if len(sources) == 0 {
		return nil, ErrNoInput
	}

	workerCount := r.workers
	if workerCount > len(sources) {
		workerCount = len(sources)
	}

	r.logger.Info("Starting concurrent scrape phase", "url_count", len(sources), "workers", workerCount, "min_words", r.minWords)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(sources))
	results := make(chan Result, len(sources))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go r.worker(ctx, w, &wg, jobs, results)
	}

	for i, src := range sources {
		jobs <- Job{Index: i, Source: src}
	}
	close(jobs)

	wg.Wait()
	close(results)
	r.logger.Info("All scrape workers finished")

	ordered := make([]Result, len(sources))
	for result := range results {
		ordered[result.Index] = result
	}

	records := deduplicate(ordered)

	var intermediate []map[string]int
	for _, result := range ordered {
		if result.WordCounts != nil && !result.Duplicate {
			intermediate = append(intermediate, result.WordCounts)
		}
	}
	wordCounts := mapreduce.Reduce(intermediate)

	stats := computeStats(ordered, wordCounts)
	stats.Records = len(records)
	r.logSummary(stats)

	return &Outcome{
		Results:    ordered,
		Records:    records,
		Stats:      stats,
		WordCounts: wordCounts,
		Cancelled:  ctx.Err() != nil,
	}, nil
}

func (r *Runner) worker(ctx context.Context, id int, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		results <- r.process(ctx, id, job)
	}
}

// process never panics: a panic anywhere in extraction or enrichment turns
// the row into a scrape_failed stub so the other URLs keep going.
func (r *Runner) process(ctx context.Context, id int, job Job) (result Result) {
	result = Result{Index: job.Index, Source: job.Source}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Worker recovered from panic", "worker_id", id, "url", job.Source.URL, "error", fmt.Sprint(p))
			result.Record = failedRecord(job.Source, "")
			result.WordCounts = nil
		}
	}()

	if err := ctx.Err(); err != nil {
		r.logger.Warn("Run cancelled before job started", "worker_id", id, "url", job.Source.URL, "error", err)
		result.Record = failedRecord(job.Source, "")
		return result
	}

	r.logger.Info("Worker started job", "worker_id", id, "url", job.Source.URL)
	extraction := r.extractor.Extract(ctx, job.Source.URL)
	result.Strategy = extraction.Strategy
	result.Record = r.classify(job.Source, extraction)

	if result.Record.Status == models.StatusOK && result.Record.Text != nil {
		result.WordCounts = mapreduce.Map(*result.Record.Text)
	}
	r.logger.Info("Worker finished job", "worker_id", id, "url", job.Source.URL, "status", result.Record.Status)
	return result
}

// classify applies the status transition: no body is scrape_failed, a body
// under minWords is too_short, anything else is enriched as ok.
func (r *Runner) classify(src models.SourceURL, extraction models.ExtractionResult) models.Record {
	text := analytics.CleanText(extraction.Body)
	if text == "" {
		r.logger.Warn("Extraction yielded no text", "url", src.URL)
		return failedRecord(src, extraction.Title)
	}

	words := analytics.WordCount(text)
	if words < r.minWords {
		r.logger.Info("Article too short", "url", src.URL, "word_count", words, "min_words", r.minWords)
		return tooShortRecord(src, extraction.Title, text, words)
	}

	record := r.builder.BuildRecord(src.URL, extraction.Title, text, extraction.PublishDate)
	record.URL = src.URL
	record.Code = src.Code
	record.Status = models.StatusOK
	return record
}

// failedRecord is the scrape_failed stub. Only the title survives, when a
// strategy found one.
func failedRecord(src models.SourceURL, title string) models.Record {
	r := emptyRecord(src)
	r.Title = models.OptionalString(title)
	r.Status = models.StatusScrapeFailed
	return r
}

func tooShortRecord(src models.SourceURL, title, text string, words int) models.Record {
	chars := analytics.CharCount(text)
	r := emptyRecord(src)
	r.Title = models.OptionalString(title)
	r.Text = &text
	r.WordCount = &words
	r.CharCount = &chars
	r.Status = models.StatusTooShort
	return r
}

func emptyRecord(src models.SourceURL) models.Record {
	return models.Record{
		URL:            src.URL,
		Code:           src.Code,
		DatesMentioned: []string{},
		Locations:      []string{},
		Organisations:  []string{},
		Animals:        []string{},
		Diseases:       []string{},
	}
}

// deduplicate keeps the first record per URL in input order and flags the
// rest as duplicates.
func deduplicate(results []Result) []models.Record {
	seen := make(map[string]struct{}, len(results))
	records := make([]models.Record, 0, len(results))
	for i := range results {
		url := results[i].Record.URL
		if _, ok := seen[url]; ok {
			results[i].Duplicate = true
			continue
		}
		seen[url] = struct{}{}
		records = append(records, results[i].Record)
	}
	return records
}
