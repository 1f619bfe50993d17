package models

import (
	"strconv"
	"strings"
	"time"
)

// Status is the outcome classification of a single URL.
type Status string

const (
	StatusOK           Status = "ok"
	StatusScrapeFailed Status = "scrape_failed"
	StatusTooShort     Status = "too_short"
)

// ListSeparator joins list-valued record fields in tabular output.
const ListSeparator = ";"

// DateLayout is the DD-MM-YYYY layout used for every date written to a record.
const DateLayout = "02-01-2006"

// SourceURL is one row of the input URL list.
type SourceURL struct {
	URL  string `json:"url" yaml:"url"`
	Code string `json:"code,omitempty" yaml:"code,omitempty"` // optional grouping code
	Row  int    `json:"row" yaml:"row"`                       // 1-based data row
}

// ExtractionResult is what a text extraction strategy produced for one URL.
// An empty Body means no usable body was extracted.
type ExtractionResult struct {
	Title       string
	Body        string
	PublishDate *time.Time
	Strategy    string
}

// HasBody reports whether extraction yielded a body.
func (r ExtractionResult) HasBody() bool {
	return r.Body != ""
}

// Record is the enriched output row for one URL. Pointer fields are null
// when the stage that fills them did not run.
type Record struct {
	URL             string   `json:"url" yaml:"url"`
	Code            string   `json:"code,omitempty" yaml:"code,omitempty"`
	Title           *string  `json:"title" yaml:"title"`
	Text            *string  `json:"text" yaml:"text"`
	Language        *string  `json:"language" yaml:"language"`
	CharCount       *int     `json:"char_count" yaml:"char_count"`
	WordCount       *int     `json:"word_count" yaml:"word_count"`
	PublicationDate *string  `json:"publication_date_detected" yaml:"publication_date_detected"`
	DatesMentioned  []string `json:"dates_mentioned" yaml:"dates_mentioned"`
	Locations       []string `json:"locations" yaml:"locations"`
	Organisations   []string `json:"organisations" yaml:"organisations"`
	Animals         []string `json:"animals" yaml:"animals"`
	Diseases        []string `json:"diseases" yaml:"diseases"`
	SourceNLP       *string  `json:"source_nlp" yaml:"source_nlp"`
	Sentiment       *float64 `json:"sentiment" yaml:"sentiment"`
	Summary50       *string  `json:"summary_50" yaml:"summary_50"`
	Summary100      *string  `json:"summary_100" yaml:"summary_100"`
	Summary150      *string  `json:"summary_150" yaml:"summary_150"`
	Status          Status   `json:"scrape_status" yaml:"scrape_status"`
}

// RecordColumns is the column order of the tabular dataset.
var RecordColumns = []string{
	"url", "title", "text", "language", "char_count", "word_count",
	"publication_date_detected", "dates_mentioned", "locations",
	"organisations", "animals", "diseases", "source_nlp", "sentiment",
	"summary_50", "summary_100", "summary_150", "scrape_status",
}

// Row renders the record as a tabular row following RecordColumns.
// Null values become empty cells.
func (r Record) Row() []string {
	return []string{
		r.URL,
		deref(r.Title),
		deref(r.Text),
		deref(r.Language),
		formatInt(r.CharCount),
		formatInt(r.WordCount),
		deref(r.PublicationDate),
		strings.Join(r.DatesMentioned, ListSeparator),
		strings.Join(r.Locations, ListSeparator),
		strings.Join(r.Organisations, ListSeparator),
		strings.Join(r.Animals, ListSeparator),
		strings.Join(r.Diseases, ListSeparator),
		deref(r.SourceNLP),
		formatFloat(r.Sentiment),
		deref(r.Summary50),
		deref(r.Summary100),
		deref(r.Summary150),
		string(r.Status),
	}
}

// RecordFromRow is the inverse of Row. Empty cells become nulls.
func RecordFromRow(header, row []string) Record {
	get := func(name string) string {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) && i < len(row) {
				return row[i]
			}
		}
		return ""
	}

	return Record{
		URL:             get("url"),
		Title:           OptionalString(get("title")),
		Text:            OptionalString(get("text")),
		Language:        OptionalString(get("language")),
		CharCount:       parseInt(get("char_count")),
		WordCount:       parseInt(get("word_count")),
		PublicationDate: OptionalString(get("publication_date_detected")),
		DatesMentioned:  splitList(get("dates_mentioned")),
		Locations:       splitList(get("locations")),
		Organisations:   splitList(get("organisations")),
		Animals:         splitList(get("animals")),
		Diseases:        splitList(get("diseases")),
		SourceNLP:       OptionalString(get("source_nlp")),
		Sentiment:       parseFloat(get("sentiment")),
		Summary50:       OptionalString(get("summary_50")),
		Summary100:      OptionalString(get("summary_100")),
		Summary150:      OptionalString(get("summary_150")),
		Status:          Status(get("scrape_status")),
	}
}

// OptionalString returns nil for the empty string.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func parseInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ListSeparator)
}
