// Package analytics holds the text utilities shared by the pipeline:
// whitespace cleaning, word and character counts, word-truncated summaries
// and keyword frequencies.
package analytics

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)

// CleanText collapses every whitespace run to a single space, trims the
// result and normalises it to NFC so composed and decomposed accents match.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Words splits text on whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// WordCount returns the number of whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CharCount returns the number of characters (runes), not bytes.
func CharCount(text string) int {
	return utf8.RuneCountInString(text)
}

// Summarize returns the first limit words of text, or text unchanged when
// it has no more than limit words.
func Summarize(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return text
	}
	return strings.Join(words[:limit], " ")
}

// HasArabic reports whether text contains a rune in U+0600–U+06FF.
func HasArabic(text string) bool {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

// stopwords covers the languages the pipeline sees most: English, French
// and the commonest Arabic particles.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {}, "and": {},
	"are": {}, "as": {}, "at": {}, "be": {}, "been": {}, "but": {}, "by": {},
	"can": {}, "could": {}, "did": {}, "do": {}, "for": {}, "from": {}, "had": {},
	"has": {}, "have": {}, "he": {}, "her": {}, "his": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "more": {}, "new": {}, "no": {},
	"not": {}, "of": {}, "on": {}, "one": {}, "or": {}, "our": {}, "out": {},
	"said": {}, "she": {}, "so": {}, "than": {}, "that": {}, "the": {},
	"their": {}, "them": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"to": {}, "up": {}, "was": {}, "we": {}, "were": {}, "what": {}, "when": {},
	"which": {}, "who": {}, "will": {}, "with": {}, "would": {}, "you": {},

	"au": {}, "aux": {}, "avec": {}, "ce": {}, "ces": {}, "dans": {}, "de": {},
	"des": {}, "du": {}, "elle": {}, "en": {}, "est": {}, "et": {}, "il": {},
	"ils": {}, "la": {}, "le": {}, "les": {}, "leur": {}, "lui": {}, "mais": {},
	"ne": {}, "nous": {}, "ou": {}, "par": {}, "pas": {}, "plus": {}, "pour": {},
	"qui": {}, "que": {}, "sa": {}, "se": {}, "ses": {}, "son": {}, "sont": {},
	"sur": {}, "un": {}, "une": {}, "été": {}, "être": {},

	"في": {}, "من": {}, "على": {}, "إلى": {}, "الى": {}, "عن": {}, "أن": {},
	"ان": {}, "التي": {}, "الذي": {}, "هذا": {}, "هذه": {}, "مع": {}, "كما": {},
}

// IsStopword checks if a word is a common stopword that should be filtered out.
func IsStopword(word string) bool {
	_, exists := stopwords[strings.ToLower(word)]
	return exists
}

// WordFrequency counts lowercased words of at least three letters,
// ignoring stopwords and surrounding punctuation.
func WordFrequency(text string) map[string]int {
	frequencies := make(map[string]int)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if utf8.RuneCountInString(word) < 3 {
			continue
		}
		if _, exists := stopwords[word]; exists {
			continue
		}
		frequencies[word]++
	}

	return frequencies
}
