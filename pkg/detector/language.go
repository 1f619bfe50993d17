// Package detector classifies article text: its language and the kind of
// source it came from.
package detector

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pemistahl/lingua-go"
)

// Unknown is returned when a language cannot be determined.
const Unknown = "unknown"

// LanguageDetector identifies the language of a text among a fixed set.
// It is safe for concurrent use.
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

// AllLanguages selects every language lingua knows.
const AllLanguages = "all"

// NewLanguageDetector builds a detector for the given ISO-639-1 codes, or
// for every supported language when codes contains AllLanguages. At least
// two languages are required. Models are preloaded for an explicit list and
// loaded on first use for AllLanguages.
func NewLanguageDetector(codes []string) (*LanguageDetector, error) {
	languages, err := parseLanguages(codes)
	if err != nil {
		return nil, err
	}
	if len(languages) < 2 {
		return nil, fmt.Errorf("language detection needs at least 2 languages, got %d", len(languages))
	}

	builder := lingua.NewLanguageDetectorBuilder().FromLanguages(languages...)
	if !hasAll(codes) {
		builder = builder.WithPreloadedLanguageModels()
	}
	detector := builder.Build()

	return &LanguageDetector{detector: detector}, nil
}

// Detect returns the lowercase ISO-639-1 code of text, or Unknown.
func (d *LanguageDetector) Detect(text string) string {
	if !hasLetter(text) {
		return Unknown
	}
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return Unknown
	}
	return strings.ToLower(language.IsoCode639_1().String())
}

func parseLanguages(codes []string) ([]lingua.Language, error) {
	if hasAll(codes) {
		return lingua.AllLanguages(), nil
	}

	byCode := make(map[string]lingua.Language)
	for _, l := range lingua.AllLanguages() {
		byCode[strings.ToLower(l.IsoCode639_1().String())] = l
	}

	seen := make(map[lingua.Language]struct{})
	var languages []lingua.Language
	for _, code := range codes {
		l, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
		if !ok {
			return nil, fmt.Errorf("unsupported language code: %q", code)
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		languages = append(languages, l)
	}
	return languages, nil
}

func hasAll(codes []string) bool {
	for _, code := range codes {
		if strings.EqualFold(strings.TrimSpace(code), AllLanguages) {
			return true
		}
	}
	return false
}

func hasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
