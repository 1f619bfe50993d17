// Package manifest writes the per-run YAML summary.
package manifest

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dtnitsch/news-enricher/models"
	"github.com/dtnitsch/news-enricher/pkg/mapreduce"
	"github.com/dtnitsch/news-enricher/pkg/storage"
	"gopkg.in/yaml.v3"
)

// TopKeywordCount bounds both the aggregate and the per-URL keyword lists.
const TopKeywordCount = 25

// Info describes the run as a whole.
type Info struct {
	RunID  int64
	Input  string
	Output string
	Format string
}

// URLResult is the outcome of one input row, in input order.
type URLResult struct {
	Record     models.Record
	Strategy   string
	WordCounts map[string]int
	Duplicate  bool
}

// DefaultPath derives the manifest path from the dataset path:
// out/data.csv becomes out/data.manifest.yaml.
func DefaultPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".manifest.yaml"
}

// Build assembles the manifest from the run's results.
func Build(info Info, results []URLResult, aggregateKeywords map[string]int, generatedAt time.Time) RunManifest {
	m := RunManifest{
		GeneratedAt:       generatedAt.Format(time.RFC3339),
		RunID:             info.RunID,
		Input:             info.Input,
		Output:            info.Output,
		Format:            info.Format,
		TotalURLs:         len(results),
		Languages:         map[string]int{},
		AggregateKeywords: mapreduce.TopKeywords(aggregateKeywords, TopKeywordCount),
		Results:           make([]URLSummary, 0, len(results)),
	}

	for _, result := range results {
		r := result.Record
		summary := URLSummary{
			URL:       r.URL,
			Code:      r.Code,
			Status:    string(r.Status),
			Strategy:  result.Strategy,
			Duplicate: result.Duplicate,
		}

		switch r.Status {
		case models.StatusOK:
			m.OK++
		case models.StatusTooShort:
			m.TooShort++
		default:
			m.Failed++
		}
		if result.Duplicate {
			m.Duplicates++
		}

		if r.WordCount != nil {
			summary.WordCount = *r.WordCount
		}
		if r.Language != nil {
			summary.Language = *r.Language
			if !result.Duplicate {
				m.Languages[*r.Language]++
			}
		}
		if result.WordCounts != nil {
			summary.TopKeywords = mapreduce.TopKeywords(result.WordCounts, TopKeywordCount)
		}

		m.Results = append(m.Results, summary)
	}
	m.Succeeded = m.TotalURLs - m.Failed

	return m
}

// GenerateSummary builds the manifest, stats the dataset file and saves the
// manifest as YAML at path. It returns the path written.
func GenerateSummary(info Info, results []URLResult, aggregateKeywords map[string]int, s *storage.Storage, path string) (string, error) {
	m := Build(info, results, aggregateKeywords, time.Now())

	if info.Output != "" {
		if stats, err := s.GetFileStats(info.Output); err == nil {
			m.OutputSizeBytes = stats.SizeBytes
		}
	}

	if path == "" {
		path = DefaultPath(info.Output)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := s.SaveFile(path, data); err != nil {
		return "", fmt.Errorf("failed to save manifest: %w", err)
	}

	return path, nil
}
