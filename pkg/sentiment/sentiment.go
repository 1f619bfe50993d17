// Package sentiment scores the polarity of a text in [-1, 1].
package sentiment

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// Scorer returns a polarity in [-1, 1].
type Scorer interface {
	Polarity(text string) (float64, error)
}

// Score runs s over text and returns exactly 0.0 for empty text, scorer
// errors, panics or NaN.
func Score(s Scorer, text string) (score float64) {
	if s == nil || strings.TrimSpace(text) == "" {
		return 0.0
	}
	defer func() {
		if recover() != nil {
			score = 0.0
		}
	}()

	p, err := s.Polarity(text)
	if err != nil || math.IsNaN(p) {
		return 0.0
	}
	return clamp(p)
}

// LexiconSpec is the on-disk lexicon format.
type LexiconSpec struct {
	Polarity     map[string]float64 `yaml:"polarity"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Negations    []string           `yaml:"negations"`
}

// Lexicon is a word-list scorer: the mean polarity of the words it knows,
// scaled by a preceding intensifier and flipped by a preceding negation.
type Lexicon struct {
	polarity     map[string]float64
	intensifiers map[string]float64
	negations    map[string]struct{}
}

// negationWindow is how many tokens a negation reaches forward.
const negationWindow = 3

// negationFactor is applied to a negated polarity.
const negationFactor = -0.5

var wordPattern = regexp.MustCompile(`[\p{L}\p{M}]+(?:'[\p{L}]+)?`)

// Default returns the embedded English/French/Arabic lexicon.
func Default() (*Lexicon, error) {
	return Parse(defaultLexicon)
}

// Load reads a lexicon from path; an empty path loads the embedded one.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Lexicon, error) {
	var spec LexiconSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	if len(spec.Polarity) == 0 {
		return nil, errors.New("lexicon has no polarity entries")
	}

	l := &Lexicon{
		polarity:     make(map[string]float64, len(spec.Polarity)),
		intensifiers: make(map[string]float64, len(spec.Intensifiers)),
		negations:    make(map[string]struct{}, len(spec.Negations)),
	}
	for w, p := range spec.Polarity {
		l.polarity[strings.ToLower(w)] = clamp(p)
	}
	for w, m := range spec.Intensifiers {
		l.intensifiers[strings.ToLower(w)] = m
	}
	for _, w := range spec.Negations {
		l.negations[strings.ToLower(w)] = struct{}{}
	}
	return l, nil
}

// Polarity implements Scorer. Text with no known words scores 0.
func (l *Lexicon) Polarity(text string) (float64, error) {
	var (
		sum       float64
		matched   int
		intensity = 1.0
		negatedAt = -negationWindow - 1
	)

	for i, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if l.isNegation(word) {
			negatedAt = i
			continue
		}
		if m, ok := l.intensifiers[word]; ok {
			intensity *= m
			continue
		}
		p, ok := l.polarity[word]
		if !ok {
			continue
		}

		p = clamp(p * intensity)
		if i-negatedAt <= negationWindow {
			p *= negationFactor
			negatedAt = -negationWindow - 1
		}
		sum += p
		matched++
		intensity = 1.0
	}

	if matched == 0 {
		return 0.0, nil
	}
	return clamp(sum / float64(matched)), nil
}

func (l *Lexicon) isNegation(word string) bool {
	if _, ok := l.negations[word]; ok {
		return true
	}
	return strings.HasSuffix(word, "n't")
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
