// Package summary reports on a finished dataset: row and URL counts, the
// status breakdown and the most frequent languages, diseases and places.
package summary

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/news-enricher/models"
	"github.com/dtnitsch/news-enricher/pkg/dataset"
	dbpkg "github.com/dtnitsch/news-enricher/pkg/db"
	"github.com/dtnitsch/news-enricher/pkg/mapreduce"
)

// Report aggregates a set of records.
type Report struct {
	Rows       int
	UniqueURLs int
	Statuses   map[string]int
	Languages  map[string]int
	Sources    map[string]int
	Diseases   map[string]int
	Locations  map[string]int
}

// Build counts records. Null values are reported as "(none)".
func Build(records []models.Record) Report {
	r := Report{
		Rows:      len(records),
		Statuses:  map[string]int{},
		Languages: map[string]int{},
		Sources:   map[string]int{},
		Diseases:  map[string]int{},
		Locations: map[string]int{},
	}

	urls := make(map[string]struct{}, len(records))
	for _, rec := range records {
		urls[rec.URL] = struct{}{}
		r.Statuses[orNone(string(rec.Status))]++
		if rec.Status != models.StatusOK {
			continue
		}
		r.Languages[orNone(deref(rec.Language))]++
		r.Sources[orNone(deref(rec.SourceNLP))]++
		for _, d := range rec.Diseases {
			r.Diseases[d]++
		}
		for _, l := range rec.Locations {
			r.Locations[l]++
		}
	}
	r.UniqueURLs = len(urls)
	return r
}

// Render writes the report as tables.
func Render(w io.Writer, r Report, top int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Total rows", "Unique URLs"})
	t.AppendRow(table.Row{r.Rows, r.UniqueURLs})
	t.Render()

	renderCounts(w, "Status", r.Statuses, len(r.Statuses))
	renderCounts(w, "Language", r.Languages, top)
	renderCounts(w, "Source", r.Sources, top)
	renderCounts(w, "Disease", r.Diseases, top)
	renderCounts(w, "Location", r.Locations, top)
}

func renderCounts(w io.Writer, title string, counts map[string]int, top int) {
	if len(counts) == 0 {
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{title, "Count", "Share"})
	for _, kc := range mapreduce.TopCounts(counts, top) {
		t.AppendRow(table.Row{kc.Key, kc.Value, fmt.Sprintf("%.1f%%", 100*float64(kc.Value)/float64(total))})
	}
	fmt.Fprintln(w)
	t.Render()
}

// SummaryAction reports on a dataset file given as the first argument, or
// on a stored run with --run.
func SummaryAction(c *cli.Context) error {
	records, source, err := loadRecords(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	fmt.Fprintf(os.Stdout, "Summary of %s\n", source)
	Render(os.Stdout, Build(records), c.Int("top"))
	return nil
}

func loadRecords(c *cli.Context) ([]models.Record, string, error) {
	if c.IsSet("run") {
		database, err := dbpkg.Open(c.String("db"))
		if err != nil {
			return nil, "", fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		runID := c.Int64("run")
		if _, err := database.GetRun(runID); err != nil {
			return nil, "", err
		}
		records, err := database.RunRecords(runID)
		if err != nil {
			return nil, "", err
		}
		return records, "run " + strconv.FormatInt(runID, 10), nil
	}

	path := c.Args().First()
	if path == "" {
		path = models.DefaultConfig().Output
	}
	records, err := dataset.ReadRecords(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not read %s: %w", path, err)
	}
	return records, path, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
