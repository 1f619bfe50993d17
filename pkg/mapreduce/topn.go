package mapreduce

import (
	"fmt"
	"sort"
)

// KeyCount is one entry of a frequency map.
type KeyCount struct {
	Key   string
	Value int
}

// TopCounts orders counts by value descending, then key ascending so equal
// counts always come out in the same order, and keeps the first n.
func TopCounts(counts map[string]int, n int) []KeyCount {
	ss := make([]KeyCount, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, KeyCount{k, v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	if n < 0 {
		n = 0
	}
	if len(ss) > n {
		ss = ss[:n]
	}
	return ss
}

// TopKeywords returns the top N keywords formatted as "word:count".
func TopKeywords(wordCounts map[string]int, n int) []string {
	top := TopCounts(wordCounts, n)

	keywords := make([]string, len(top))
	for i, kc := range top {
		keywords[i] = fmt.Sprintf("%s:%d", kc.Key, kc.Value)
	}

	return keywords
}
