// Package models defines data structures for configuration and pipeline records.
package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for a pipeline run.
// Values come from an optional YAML file and are overridden by CLI flags.
type Config struct {
	Input        string      `yaml:"input"`
	Output       string      `yaml:"output"`
	Format       string      `yaml:"format"` // csv, ndjson, yaml
	ManifestPath string      `yaml:"manifest_path"`
	MinWords     int         `yaml:"min_words"`
	WorkerCount  int         `yaml:"workers"`
	LogLevel     string      `yaml:"log_level"`
	Fetch        FetchConfig `yaml:"fetch"`
	NLP          NLPConfig   `yaml:"nlp"`
	DB           DBConfig    `yaml:"db"`
}

// FetchConfig controls the two extraction strategies.
type FetchConfig struct {
	PrimaryTimeout  time.Duration `yaml:"primary_timeout"`
	FallbackTimeout time.Duration `yaml:"fallback_timeout"`
	UserAgent       string        `yaml:"user_agent"`
	MaxBodySize     int64         `yaml:"max_body_size"`
	MinWords        int           `yaml:"min_words"` // per-strategy sanity floor
	Strategies      []string      `yaml:"strategies"` // tried in order
}

// NLPConfig points at the enrichment resources.
type NLPConfig struct {
	ModelPath      string   `yaml:"model_path"`      // empty = embedded gazetteer
	DictionaryPath string   `yaml:"dictionary_path"` // empty = embedded dictionaries
	LexiconPath    string   `yaml:"lexicon_path"`    // empty = embedded lexicon
	Languages      []string `yaml:"languages"`       // ISO-639-1 codes, or [all]
}

// DBConfig enables the sqlite run store when Path is set.
type DBConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns a Config with the reference defaults.
func DefaultConfig() *Config {
	return &Config{
		Input:        "urls.csv",
		Output:       "dataset_scraping_nlp.csv",
		Format:       "csv",
		ManifestPath: "",
		MinWords:     30,
		WorkerCount:  4,
		LogLevel:     "info",
		Fetch: FetchConfig{
			PrimaryTimeout:  20 * time.Second,
			FallbackTimeout: 15 * time.Second,
			UserAgent:       "Mozilla/5.0",
			MaxBodySize:     10 * 1024 * 1024,
			MinWords:        10,
			Strategies:      []string{"readability", "paragraphs"},
		},
		NLP: NLPConfig{
			Languages: []string{"en", "fr", "ar", "es", "pt", "de", "it", "nl"},
		},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// A missing file is not an error when the path is the default one.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks the values a run cannot proceed without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return errors.New("input path is required")
	}
	if c.MinWords < 0 {
		return fmt.Errorf("min_words must be >= 0, got %d", c.MinWords)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.WorkerCount)
	}
	switch strings.ToLower(c.Format) {
	case "csv", "ndjson", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (use csv, ndjson or yaml)", c.Format)
	}
	if c.Fetch.PrimaryTimeout <= 0 || c.Fetch.FallbackTimeout <= 0 {
		return errors.New("fetch timeouts must be positive")
	}
	if len(c.Fetch.Strategies) == 0 {
		return errors.New("fetch.strategies must name at least one strategy")
	}
	if len(c.NLP.Languages) < 2 && !(len(c.NLP.Languages) == 1 && strings.EqualFold(strings.TrimSpace(c.NLP.Languages[0]), "all")) {
		return fmt.Errorf("nlp.languages needs at least 2 languages, got %d", len(c.NLP.Languages))
	}
	return nil
}
