package pipeline

import (
	"fmt"

	"github.com/dtnitsch/news-enricher/models"
	"github.com/dtnitsch/news-enricher/pkg/dataset"
	"github.com/urfave/cli/v2"
)

// ConfigFromContext loads the --config file (if any) and applies every flag
// the user set, on the command line or through its environment variable.
func ConfigFromContext(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("input") {
		cfg.Input = c.String("input")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
		if !c.IsSet("format") {
			cfg.Format = dataset.FormatFromPath(cfg.Output)
		}
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("manifest") {
		cfg.ManifestPath = c.String("manifest")
	}
	if c.IsSet("min-words") {
		cfg.MinWords = c.Int("min-words")
	}
	if c.IsSet("workers") {
		cfg.WorkerCount = c.Int("workers")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("db") {
		cfg.DB.Path = c.String("db")
	}

	if c.IsSet("primary-timeout") {
		cfg.Fetch.PrimaryTimeout = c.Duration("primary-timeout")
	}
	if c.IsSet("fallback-timeout") {
		cfg.Fetch.FallbackTimeout = c.Duration("fallback-timeout")
	}
	if c.IsSet("user-agent") {
		cfg.Fetch.UserAgent = c.String("user-agent")
	}
	if c.IsSet("strategies") {
		cfg.Fetch.Strategies = c.StringSlice("strategies")
	}

	if c.IsSet("model") {
		cfg.NLP.ModelPath = c.String("model")
	}
	if c.IsSet("dictionaries") {
		cfg.NLP.DictionaryPath = c.String("dictionaries")
	}
	if c.IsSet("lexicon") {
		cfg.NLP.LexiconPath = c.String("lexicon")
	}
	if c.IsSet("languages") {
		cfg.NLP.Languages = c.StringSlice("languages")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
