// Package terms canonicalises multilingual surface forms to domain terms.
// term.go builds one Aho-Corasick automaton per table so a text is scanned
// once no matter how many variants the table holds.
package terms

import (
	"sort"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
)

// Entry maps one canonical term to its surface variants.
type Entry struct {
	Canonical string   `yaml:"term"`
	Variants  []string `yaml:"variants"`
}

// Table is an immutable canonicalisation table. Safe for concurrent use.
type Table struct {
	matcher  *ahocorasick.Matcher
	variants []string // distinct folded variants, matcher dictionary order
	owners   [][]int  // variant index -> canonical indices
	terms    []string // canonical terms, entry order
}

// NewTable builds the automaton over every distinct variant. A variant listed
// under several canonical terms resolves to all of them.
func NewTable(entries []Entry) *Table {
	t := &Table{}
	index := make(map[string]int)

	for ci, entry := range entries {
		t.terms = append(t.terms, entry.Canonical)
		for _, v := range entry.Variants {
			folded := fold(strings.TrimSpace(v))
			if folded == "" {
				continue
			}
			vi, seen := index[folded]
			if !seen {
				vi = len(t.variants)
				index[folded] = vi
				t.variants = append(t.variants, folded)
				t.owners = append(t.owners, nil)
			}
			t.owners[vi] = appendUnique(t.owners[vi], ci)
		}
	}

	if len(t.variants) > 0 {
		t.matcher = ahocorasick.NewStringMatcher(t.variants)
	}
	return t
}

// Canonicalize returns the sorted set of canonical terms that have at least
// one variant occurring as a substring of text.
func (t *Table) Canonicalize(text string) []string {
	if t.matcher == nil || text == "" {
		return []string{}
	}

	hits := t.matcher.MatchThreadSafe([]byte(fold(text)))

	found := make(map[string]struct{}, len(hits))
	for _, vi := range hits {
		if vi < 0 || vi >= len(t.owners) {
			continue
		}
		for _, ci := range t.owners[vi] {
			found[t.terms[ci]] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for term := range found {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// Terms returns the canonical terms in table order.
func (t *Table) Terms() []string {
	out := make([]string, len(t.terms))
	copy(out, t.terms)
	return out
}

// fold case-folds Latin script; Arabic has no case and passes through.
// A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func appendUnique(xs []int, x int) []int {
	for _, v := range xs {
		if v == x {
			return xs
		}
	}
	return append(xs, x)
}
