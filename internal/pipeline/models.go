package pipeline

import (
	"github.com/dtnitsch/news-enricher/models"
)

// Job is one input row handed to a worker.
type Job struct {
	Index  int
	Source models.SourceURL
}

// Result holds the outcome of a processed job.
type Result struct {
	Index      int
	Source     models.SourceURL
	Record     models.Record
	Strategy   string
	WordCounts map[string]int
	Duplicate  bool // a previous row had the same URL
}

// Stats provides summary statistics for the run.
// Succeeded is Total minus Failed, so too-short articles count as succeeded.
type Stats struct {
	Total       int      `json:"total_urls"`
	Succeeded   int      `json:"succeeded"`
	OK          int      `json:"ok"`
	TooShort    int      `json:"too_short"`
	Failed      int      `json:"failed"`
	Duplicates  int      `json:"duplicates"`
	Records     int      `json:"records"`
	TopKeywords []string `json:"top_keywords,omitempty"`
}

// Outcome is everything a run produced.
type Outcome struct {
	Results    []Result        // every input row, in input order
	Records    []models.Record // deduplicated dataset rows
	Stats      Stats
	WordCounts map[string]int // aggregated over ok records
	Cancelled  bool
}
