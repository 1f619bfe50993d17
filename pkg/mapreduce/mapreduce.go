// Package mapreduce aggregates per-article keyword frequencies across a run.
package mapreduce

import "github.com/dtnitsch/news-enricher/pkg/analytics"

// Map generates a word frequency map for a single article's text.
func Map(text string) map[string]int {
	return analytics.WordFrequency(text)
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}
