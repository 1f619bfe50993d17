package pipeline

import (
	"github.com/dtnitsch/news-enricher/models"
	"github.com/dtnitsch/news-enricher/pkg/mapreduce"
)

// topKeywordCount matches the manifest's aggregate keyword list.
const topKeywordCount = 25

// computeStats counts every input row, duplicates included.
func computeStats(results []Result, wordCounts map[string]int) Stats {
	stats := Stats{
		Total:       len(results),
		TopKeywords: mapreduce.TopKeywords(wordCounts, topKeywordCount),
	}
	for _, r := range results {
		switch r.Record.Status {
		case models.StatusOK:
			stats.OK++
		case models.StatusTooShort:
			stats.TooShort++
		default:
			stats.Failed++
		}
		if r.Duplicate {
			stats.Duplicates++
		}
	}
	stats.Succeeded = stats.Total - stats.Failed
	return stats
}

func (r *Runner) logSummary(stats Stats) {
	r.logger.Info("Scrape summary",
		"total", stats.Total,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"too_short", stats.TooShort,
		"ok", stats.OK,
		"duplicates", stats.Duplicates,
		"records", stats.Records,
	)
}
