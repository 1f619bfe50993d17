package nlp

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed model.yaml
var defaultModel []byte

// ModelSpec is the on-disk form of a gazetteer model.
type ModelSpec struct {
	GPE             []string            `yaml:"gpe"`
	LOC             []string            `yaml:"loc"`
	ORG             []string            `yaml:"org"`
	OrgHeads        []string            `yaml:"org_heads"`
	OrgConnectors   []string            `yaml:"org_connectors"`
	OrgStopwords    []string            `yaml:"org_stopwords"`
	Months          map[string][]string `yaml:"months"`
	Lemmas          map[string]string   `yaml:"lemmas"`
	InvariantLemmas []string            `yaml:"invariant_lemmas"`
}

// Gazetteer is a dictionary-driven Model. Names are matched case-sensitively
// on token boundaries, longest first. Capitalised runs around an organisation
// head word ("Ministry of Health") are labelled ORG, and date expressions in
// English and French are labelled DATE.
type Gazetteer struct {
	names        map[string]string // token key -> label
	maxTokens    int
	heads        map[string]struct{}
	connectors   map[string]struct{}
	orgStops     map[string]struct{}
	lemmas       map[string]string
	invariant    map[string]struct{}
	months       map[string]string // lowercased alias -> English month
	datePatterns []*regexp.Regexp
	monthYear    *regexp.Regexp
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}]+(?:[-'’.][\p{L}\p{M}\p{N}]+)*\.?`)

// Default returns the embedded gazetteer.
func Default() (*Gazetteer, error) {
	return Parse(defaultModel)
}

// Load reads a gazetteer model from path. An empty path loads the embedded
// model. Missing, empty or corrupt models are errors.
func Load(path string) (*Gazetteer, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read nlp model: %w", err)
	}
	return Parse(data)
}

// Parse builds a Gazetteer from YAML model data.
func Parse(data []byte) (*Gazetteer, error) {
	var spec ModelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse nlp model: %w", err)
	}
	return New(spec)
}

// New builds a Gazetteer from an in-memory spec.
func New(spec ModelSpec) (*Gazetteer, error) {
	if len(spec.GPE)+len(spec.LOC)+len(spec.ORG) == 0 {
		return nil, errors.New("nlp model has no names")
	}
	if len(spec.Months) == 0 {
		return nil, errors.New("nlp model has no months")
	}

	g := &Gazetteer{
		names:      make(map[string]string),
		heads:      toSet(spec.OrgHeads),
		connectors: toSet(spec.OrgConnectors),
		orgStops:   toSet(spec.OrgStopwords),
		lemmas:     make(map[string]string, len(spec.Lemmas)),
		invariant:  make(map[string]struct{}, len(spec.InvariantLemmas)),
		months:     make(map[string]string),
	}

	add := func(names []string, label string) {
		for _, name := range names {
			words := splitWords(name)
			if len(words) == 0 {
				continue
			}
			key := strings.Join(words, " ")
			if _, exists := g.names[key]; exists {
				continue
			}
			g.names[key] = label
			if len(words) > g.maxTokens {
				g.maxTokens = len(words)
			}
		}
	}
	// ORG first so an acronym listed as both keeps the organisation label.
	add(spec.ORG, LabelORG)
	add(spec.GPE, LabelGPE)
	add(spec.LOC, LabelLOC)

	for k, v := range spec.Lemmas {
		g.lemmas[strings.ToLower(k)] = strings.ToLower(v)
	}
	for _, w := range spec.InvariantLemmas {
		g.invariant[strings.ToLower(w)] = struct{}{}
	}

	var aliases []string
	for month, forms := range spec.Months {
		g.months[strings.ToLower(month)] = month
		aliases = append(aliases, month)
		for _, f := range forms {
			g.months[strings.ToLower(f)] = month
			aliases = append(aliases, f)
		}
	}
	if err := g.compileDates(aliases); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Gazetteer) compileDates(aliases []string) error {
	// Longest alias first so "September" wins over "Sep".
	sort.Slice(aliases, func(i, j int) bool {
		return utf8.RuneCountInString(aliases[i]) > utf8.RuneCountInString(aliases[j])
	})
	quoted := make([]string, 0, len(aliases))
	seen := make(map[string]struct{})
	for _, a := range aliases {
		lower := strings.ToLower(a)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		quoted = append(quoted, regexp.QuoteMeta(lower))
	}
	month := `(?:` + strings.Join(quoted, "|") + `)\.?`

	sources := []string{
		`\b\d{4}-\d{1,2}-\d{1,2}\b`,
		`\b\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}\b`,
		`(?i)\b\d{1,2}(?:st|nd|rd|th|er)?\s+` + month + `\s+\d{4}\b`,
		`(?i)\b` + month + `\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`,
	}
	for _, src := range sources {
		re, err := regexp.Compile(src)
		if err != nil {
			return fmt.Errorf("failed to compile date pattern: %w", err)
		}
		g.datePatterns = append(g.datePatterns, re)
	}
	re, err := regexp.Compile(`(?i)\b` + month + `\s+\d{4}\b`)
	if err != nil {
		return fmt.Errorf("failed to compile date pattern: %w", err)
	}
	g.monthYear = re
	return nil
}

// MonthName maps an English or French month form to its English name.
func (g *Gazetteer) MonthName(form string) (string, bool) {
	m, ok := g.months[strings.ToLower(strings.TrimSuffix(form, "."))]
	return m, ok
}

// Analyze implements Model.
func (g *Gazetteer) Analyze(text string) (Doc, error) {
	if text == "" {
		return Doc{}, nil
	}

	spans := tokenPattern.FindAllStringIndex(text, -1)
	words := make([]string, len(spans))
	for i, s := range spans {
		words[i] = strings.TrimSuffix(text[s[0]:s[1]], ".")
	}

	var doc Doc
	doc.Tokens = make([]Token, len(words))
	for i, w := range words {
		doc.Tokens[i] = Token{Text: w, Lemma: g.lemma(w)}
	}

	consumed := make([]bool, len(words))
	doc.Entities = append(doc.Entities, g.matchNames(text, spans, words, consumed)...)
	doc.Entities = append(doc.Entities, g.matchOrgHeads(text, spans, words, consumed)...)
	doc.Entities = append(doc.Entities, g.matchDates(text)...)

	sort.SliceStable(doc.Entities, func(i, j int) bool {
		return doc.Entities[i].Start < doc.Entities[j].Start
	})
	return doc, nil
}

func (g *Gazetteer) matchNames(text string, spans [][]int, words []string, consumed []bool) []Entity {
	var out []Entity
	for i := 0; i < len(words); {
		matched := 0
		for n := min(g.maxTokens, len(words)-i); n >= 1; n-- {
			label, ok := g.names[strings.Join(words[i:i+n], " ")]
			if !ok {
				continue
			}
			out = append(out, Entity{
				Text:  spanText(text, spans, words, i, i+n-1),
				Label: label,
				Start: spans[i][0],
				End:   spans[i+n-1][1],
			})
			for k := i; k < i+n; k++ {
				consumed[k] = true
			}
			matched = n
			break
		}
		if matched == 0 {
			i++
			continue
		}
		i += matched
	}
	return out
}

func (g *Gazetteer) matchOrgHeads(text string, spans [][]int, words []string, consumed []bool) []Entity {
	var out []Entity
	for i := 0; i < len(words); i++ {
		if consumed[i] {
			continue
		}
		if _, ok := g.heads[words[i]]; !ok {
			continue
		}

		start := i
		for start > 0 && !consumed[start-1] && isCapitalized(words[start-1]) {
			if _, stop := g.orgStops[words[start-1]]; stop {
				break
			}
			if sentenceBreak(text, spans, start-1) {
				break
			}
			start--
		}

		end := i
		for j := i + 1; j < len(words) && !consumed[j]; {
			if sentenceBreak(text, spans, j-1) {
				break
			}
			if isCapitalized(words[j]) {
				end = j
				j++
				continue
			}
			// A run of connectors counts only when a capitalised word follows.
			k := j
			for k < len(words) && !consumed[k] && g.isConnector(words[k]) {
				k++
			}
			if k > j && k < len(words) && !consumed[k] && isCapitalized(words[k]) && !sentenceBreak(text, spans, k-1) {
				end = k
				j = k + 1
				continue
			}
			break
		}

		if end == start {
			continue
		}
		out = append(out, Entity{
			Text:  spanText(text, spans, words, start, end),
			Label: LabelORG,
			Start: spans[start][0],
			End:   spans[end][1],
		})
		for k := start; k <= end; k++ {
			consumed[k] = true
		}
		i = end
	}
	return out
}

func (g *Gazetteer) matchDates(text string) []Entity {
	var out []Entity
	var taken [][2]int
	overlaps := func(s, e int) bool {
		for _, t := range taken {
			if s < t[1] && e > t[0] {
				return true
			}
		}
		return false
	}
	emit := func(s, e int) {
		out = append(out, Entity{Text: text[s:e], Label: LabelDATE, Start: s, End: e})
		taken = append(taken, [2]int{s, e})
	}

	for _, re := range g.datePatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if !overlaps(loc[0], loc[1]) {
				emit(loc[0], loc[1])
			}
		}
	}
	for _, loc := range g.monthYear.FindAllStringIndex(text, -1) {
		if overlaps(loc[0], loc[1]) {
			continue
		}
		// "May 2024" is a date, "may 2024" in running text usually is not.
		if first, _ := utf8.DecodeRuneInString(text[loc[0]:]); !unicode.IsUpper(first) && !g.isFrenchMonth(text[loc[0]:loc[1]]) {
			continue
		}
		emit(loc[0], loc[1])
	}
	return out
}

func (g *Gazetteer) isFrenchMonth(span string) bool {
	word := strings.Fields(span)[0]
	m, ok := g.months[strings.ToLower(strings.TrimSuffix(word, "."))]
	return ok && !strings.EqualFold(m, word) && !strings.EqualFold(m[:3], word)
}

func (g *Gazetteer) lemma(word string) string {
	w := strings.ToLower(word)
	if l, ok := g.lemmas[w]; ok {
		return l
	}
	if _, ok := g.invariant[w]; ok {
		return w
	}
	n := utf8.RuneCountInString(w)
	switch {
	case n > 4 && strings.HasSuffix(w, "ies"):
		return strings.TrimSuffix(w, "ies") + "y"
	case n > 4 && (strings.HasSuffix(w, "ches") || strings.HasSuffix(w, "shes") ||
		strings.HasSuffix(w, "xes") || strings.HasSuffix(w, "sses")):
		return strings.TrimSuffix(w, "es")
	case n > 3 && strings.HasSuffix(w, "s") &&
		!strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is"):
		return strings.TrimSuffix(w, "s")
	}
	return w
}

func (g *Gazetteer) isConnector(word string) bool {
	_, ok := g.connectors[word]
	return ok
}

func spanText(text string, spans [][]int, words []string, from, to int) string {
	s := text[spans[from][0]:spans[to][1]]
	// Drop a trailing sentence period picked up by the token pattern.
	if strings.HasSuffix(s, ".") && !strings.Contains(words[to], ".") {
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// sentenceBreak reports whether the text between token i and token i+1
// ends a sentence.
func sentenceBreak(text string, spans [][]int, i int) bool {
	if i+1 >= len(spans) {
		return true
	}
	between := text[spans[i][1]:spans[i+1][0]]
	if strings.ContainsAny(between, ".!?;:,\n") {
		return true
	}
	tok := text[spans[i][0]:spans[i][1]]
	return strings.HasSuffix(tok, ".") && len(tok) > 3
}

func splitWords(s string) []string {
	words := tokenPattern.FindAllString(s, -1)
	for i, w := range words {
		words[i] = strings.TrimSuffix(w, ".")
	}
	return words
}

func isCapitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
