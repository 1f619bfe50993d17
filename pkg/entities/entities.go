// Package entities detects diseases, animals, locations, organisations and
// dates in article text. Dictionary lookups go through pkg/terms; everything
// else is read from an injected nlp.Model.
package entities

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/dtnitsch/news-enricher/models"
	"github.com/dtnitsch/news-enricher/pkg/analytics"
	"github.com/dtnitsch/news-enricher/pkg/nlp"
	"github.com/dtnitsch/news-enricher/pkg/terms"
)

// MonthNamer maps a month form in any supported language to its English
// name. Models that know month names implement it so dates like
// "12 mars 2024" can be parsed.
type MonthNamer interface {
	MonthName(form string) (string, bool)
}

// Detector runs the entity detections. It is safe for concurrent use as long
// as the model is.
type Detector struct {
	model      nlp.Model
	diseases   *terms.Table
	animals    *terms.Table
	vocabulary map[string]struct{}
	countries  []terms.CountryAlias
}

// New builds a Detector from a loaded model and dictionaries.
func New(model nlp.Model, dicts *terms.Dictionaries) (*Detector, error) {
	if model == nil {
		return nil, fmt.Errorf("nlp model is required")
	}
	if dicts == nil {
		return nil, fmt.Errorf("dictionaries are required")
	}

	vocabulary := make(map[string]struct{}, len(dicts.DiseaseVocabulary))
	for _, w := range dicts.DiseaseVocabulary {
		vocabulary[strings.ToLower(w)] = struct{}{}
	}

	return &Detector{
		model:      model,
		diseases:   terms.NewTable(dicts.Diseases),
		animals:    terms.NewTable(dicts.Animals),
		vocabulary: vocabulary,
		countries:  dicts.ArabicCountries,
	}, nil
}

// DetectDiseases returns canonical disease names. The lemma fallback only
// runs when the dictionary finds nothing.
func (d *Detector) DetectDiseases(text string) []string {
	found := d.diseases.Canonicalize(text)
	if len(found) > 0 || text == "" {
		return found
	}

	doc, err := d.model.Analyze(strings.ToLower(text))
	if err != nil {
		return found
	}
	set := make(map[string]struct{})
	for _, lemma := range doc.Lemmas() {
		if _, ok := d.vocabulary[lemma]; ok {
			set[lemma] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// DetectAnimals returns canonical animal names found by dictionary.
func (d *Detector) DetectAnimals(text string) []string {
	return d.animals.Canonicalize(text)
}

// DetectLocations returns GPE and LOC entities. Text in Arabic script is
// also checked against the Arabic country table.
func (d *Detector) DetectLocations(text string) []string {
	set := make(map[string]struct{})
	if doc, err := d.model.Analyze(text); err == nil {
		for _, name := range doc.EntitiesOf(nlp.LabelGPE, nlp.LabelLOC) {
			set[name] = struct{}{}
		}
	}

	if analytics.HasArabic(text) {
		for _, c := range d.countries {
			if strings.Contains(text, c.Variant) {
				set[c.Name] = struct{}{}
			}
		}
	}
	return sortedKeys(set)
}

// DetectOrganisations returns ORG entities.
func (d *Detector) DetectOrganisations(text string) []string {
	set := make(map[string]struct{})
	if doc, err := d.model.Analyze(text); err == nil {
		for _, name := range doc.EntitiesOf(nlp.LabelORG) {
			set[name] = struct{}{}
		}
	}
	return sortedKeys(set)
}

var bareYear = regexp.MustCompile(`^\d{4}$`)

// DetectDates returns DATE entities normalised to DD-MM-YYYY. Ambiguous
// numeric dates are read day first; candidates that do not parse are dropped.
func (d *Detector) DetectDates(text string) []string {
	doc, err := d.model.Analyze(text)
	if err != nil {
		return []string{}
	}

	namer, _ := d.model.(MonthNamer)
	set := make(map[string]struct{})
	for _, candidate := range doc.EntitiesOf(nlp.LabelDATE) {
		if formatted, ok := ParseDate(candidate, namer); ok {
			set[formatted] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// ParseDate parses a date expression day first and formats it as DD-MM-YYYY.
// A bare year is not a date. namer may be nil.
func ParseDate(expr string, namer MonthNamer) (string, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" || bareYear.MatchString(expr) {
		return "", false
	}

	t, err := dateparse.ParseAny(normalizeDate(expr, namer), dateparse.PreferMonthFirst(false))
	if err != nil {
		return "", false
	}
	return t.Format(models.DateLayout), true
}

var (
	ordinalSuffix = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th|er)$`)
	// dateparse only honours PreferMonthFirst(false) for slash dates.
	dottedDate = regexp.MustCompile(`^(\d{1,2})[.\-](\d{1,2})[.\-](\d{2,4})$`)
)

// normalizeDate rewrites month names to English, strips ordinal suffixes,
// turns dotted and dashed numeric dates into slash dates and expands
// "Month YYYY" to the first of the month.
func normalizeDate(expr string, namer MonthNamer) string {
	fields := strings.Fields(expr)
	sawMonth := false
	for i, f := range fields {
		if m := dottedDate.FindStringSubmatch(f); m != nil {
			fields[i] = m[1] + "/" + m[2] + "/" + m[3]
			continue
		}
		core := strings.TrimRight(f, ",.")
		trail := f[len(core):]
		if m := ordinalSuffix.FindStringSubmatch(strings.ToLower(core)); m != nil {
			fields[i] = m[1] + trail
			continue
		}
		if namer != nil {
			if month, ok := namer.MonthName(core); ok {
				fields[i] = month + strings.TrimPrefix(trail, ".")
				sawMonth = true
			}
		}
	}
	if sawMonth && len(fields) == 2 && bareYear.MatchString(fields[1]) {
		return "1 " + fields[0] + " " + fields[1]
	}
	return strings.Join(fields, " ")
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
