package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dtnitsch/news-enricher/internal/common"
	"github.com/dtnitsch/news-enricher/models"
	"github.com/dtnitsch/news-enricher/pkg/dataset"
	"github.com/dtnitsch/news-enricher/pkg/db"
	"github.com/dtnitsch/news-enricher/pkg/detector"
	"github.com/dtnitsch/news-enricher/pkg/enrich"
	"github.com/dtnitsch/news-enricher/pkg/entities"
	"github.com/dtnitsch/news-enricher/pkg/extractor"
	"github.com/dtnitsch/news-enricher/pkg/manifest"
	"github.com/dtnitsch/news-enricher/pkg/nlp"
	"github.com/dtnitsch/news-enricher/pkg/sentiment"
	"github.com/dtnitsch/news-enricher/pkg/storage"
	"github.com/dtnitsch/news-enricher/pkg/terms"
	"github.com/urfave/cli/v2"
)

// Exit codes of the run command.
const (
	ExitFatal   = 2
	ExitPartial = 1
)

// RunAction executes the full pipeline: read the URL list, extract and
// enrich every URL, then write the dataset, its manifest and, when a
// database is configured, the run store.
func RunAction(c *cli.Context) error {
	cfg, err := ConfigFromContext(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitFatal)
	}
	logger := common.NewLogger(cfg.LogLevel, c.Bool("quiet"), c.Bool("verbose"))
	startTime := time.Now()

	sources, err := dataset.ReadSources(cfg.Input)
	if err != nil {
		logger.Error("failed to read input", "input", cfg.Input, "error", err)
		return cli.Exit(fmt.Sprintf("failed to read input %s: %v", cfg.Input, err), ExitFatal)
	}
	sources = sanitizeSources(sources, logger)

	runner, err := NewRunnerFromConfig(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize pipeline", "error", err)
		return cli.Exit(err.Error(), ExitFatal)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcome, err := runner.Run(ctx, sources)
	if errors.Is(err, ErrNoInput) {
		logger.Error("Input has no URL rows, no dataset written", "input", cfg.Input)
		return cli.Exit(fmt.Sprintf("no URLs found in %s", cfg.Input), ExitFatal)
	}
	if err != nil {
		return cli.Exit(err.Error(), ExitFatal)
	}

	if err := dataset.WriteFile(cfg.Output, cfg.Format, outcome.Records); err != nil {
		logger.Error("failed to write dataset", "output", cfg.Output, "error", err)
		return cli.Exit(err.Error(), ExitFatal)
	}
	logger.Info("Dataset written", "output", cfg.Output, "format", cfg.Format, "records", len(outcome.Records))

	var runID int64
	if cfg.DB.Path != "" {
		runID, err = storeRun(cfg, startTime, outcome)
		if err != nil {
			logger.Error("failed to store run in database", "db", cfg.DB.Path, "error", err)
			return cli.Exit(err.Error(), ExitFatal)
		}
		logger.Info("Run stored", "run_id", runID, "db", cfg.DB.Path)
	}

	manifestPath, err := writeManifest(cfg, runID, outcome)
	if err != nil {
		logger.Warn("Failed to write run manifest", "error", err)
		manifestPath = ""
	}

	fmt.Printf("Dataset: %s (%d records, %d/%d URLs succeeded, %d too short, %d failed) in %.1fs\n",
		cfg.Output, len(outcome.Records), outcome.Stats.Succeeded, outcome.Stats.Total,
		outcome.Stats.TooShort, outcome.Stats.Failed, time.Since(startTime).Seconds())
	if manifestPath != "" {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}
	if runID > 0 {
		fmt.Printf("Run ID: %d (news-enricher db records %d)\n", runID, runID)
	}

	if outcome.Cancelled {
		return cli.Exit("run interrupted, unfinished URLs recorded as scrape_failed", ExitPartial)
	}
	return nil
}

// NewRunnerFromConfig loads the NLP resources and wires the extractor and
// record builder. Any resource that fails to load is fatal.
func NewRunnerFromConfig(cfg *models.Config, logger *slog.Logger) (*Runner, error) {
	model, err := nlp.Load(cfg.NLP.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load nlp model: %w", err)
	}
	dicts, err := terms.LoadFile(cfg.NLP.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionaries: %w", err)
	}
	entityDetector, err := entities.New(model, dicts)
	if err != nil {
		return nil, fmt.Errorf("failed to build entity detector: %w", err)
	}
	language, err := detector.NewLanguageDetector(cfg.NLP.Languages)
	if err != nil {
		return nil, fmt.Errorf("failed to build language detector: %w", err)
	}
	lexicon, err := sentiment.Load(cfg.NLP.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentiment lexicon: %w", err)
	}

	ext, err := extractor.FromConfig(cfg.Fetch, logger.With("component", "extractor"))
	if err != nil {
		return nil, fmt.Errorf("failed to build extractor: %w", err)
	}
	builder := enrich.NewBuilder(entityDetector, language, lexicon, logger.With("component", "enrich"))

	return NewRunner(ext, builder, cfg.MinWords, cfg.WorkerCount, logger.With("component", "pipeline")), nil
}

// sanitizeSources cleans copy-paste damage from each URL. Malformed URLs are
// kept: they fail at fetch time and are recorded as scrape_failed.
func sanitizeSources(sources []models.SourceURL, logger *slog.Logger) []models.SourceURL {
	urls := make([]string, len(sources))
	for i := range sources {
		sources[i].URL = common.SanitizeURL(sources[i].URL)
		urls[i] = sources[i].URL
	}
	if _, invalid := common.SanitizeAndValidateURLs(urls); len(invalid) > 0 {
		logger.Warn("Malformed URLs in input, they will be recorded as scrape_failed", "count", len(invalid), "urls", invalid)
	}
	return sources
}

func writeManifest(cfg *models.Config, runID int64, outcome *Outcome) (string, error) {
	results := make([]manifest.URLResult, len(outcome.Results))
	for i, r := range outcome.Results {
		results[i] = manifest.URLResult{
			Record:     r.Record,
			Strategy:   r.Strategy,
			WordCounts: r.WordCounts,
			Duplicate:  r.Duplicate,
		}
	}
	info := manifest.Info{RunID: runID, Input: cfg.Input, Output: cfg.Output, Format: cfg.Format}
	return manifest.GenerateSummary(info, results, outcome.WordCounts, &storage.Storage{}, cfg.ManifestPath)
}

// storeRun records the run and its deduplicated records in the sqlite store.
func storeRun(cfg *models.Config, startedAt time.Time, outcome *Outcome) (int64, error) {
	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := database.CreateRun(cfg.Input, cfg.Output, startedAt)
	if err != nil {
		return 0, err
	}
	if err := database.SaveRecords(runID, outcome.Records); err != nil {
		return runID, err
	}
	stats := db.RunStats{
		URLCount:       outcome.Stats.Total,
		OKCount:        outcome.Stats.OK,
		TooShortCount:  outcome.Stats.TooShort,
		FailedCount:    outcome.Stats.Failed,
		DuplicateCount: outcome.Stats.Duplicates,
		TopKeywords:    outcome.Stats.TopKeywords,
	}
	return runID, database.FinishRun(runID, stats, time.Now())
}
