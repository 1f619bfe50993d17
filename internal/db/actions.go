// Package db holds the commands that inspect the sqlite run store.
package db

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/news-enricher/models"
)

const timeLayout = "2006-01-02 15:04:05"

// RunsAction lists stored runs, newest first.
func RunsAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Started", "Duration", "URLs", "OK", "Too Short", "Failed", "Dupes", "Output"})
	for _, r := range runs {
		duration := "running"
		if r.FinishedAt.Valid {
			duration = r.FinishedAt.Time.Sub(r.StartedAt).Round(100 * time.Millisecond).String()
		}
		t.AppendRow(table.Row{
			r.RunID,
			r.StartedAt.Local().Format(timeLayout),
			duration,
			r.URLCount,
			r.OKCount,
			r.TooShortCount,
			r.FailedCount,
			r.DuplicateCount,
			r.OutputPath,
		})
	}
	t.Render()

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'news-enricher db records <id>' to see a run's records\n")
	return nil
}

// RunAction shows details for one run, the latest when no id is given.
func RunAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}
	counts, err := database.StatusCounts(runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Started:     %s\n", run.StartedAt.Local().Format(timeLayout))
	if run.FinishedAt.Valid {
		fmt.Printf("Finished:    %s\n", run.FinishedAt.Time.Local().Format(timeLayout))
	}
	fmt.Printf("Input:       %s\n", run.InputPath)
	fmt.Printf("Output:      %s\n", run.OutputPath)
	fmt.Printf("URLs:        %d total (%d ok, %d too short, %d failed, %d duplicates)\n",
		run.URLCount, run.OKCount, run.TooShortCount, run.FailedCount, run.DuplicateCount)
	fmt.Printf("Stored:      %d ok, %d too short, %d failed\n",
		counts[models.StatusOK], counts[models.StatusTooShort], counts[models.StatusScrapeFailed])
	if len(run.TopKeywords) > 0 {
		fmt.Printf("Keywords:    %s\n", strings.Join(run.TopKeywords, ", "))
	}
	return nil
}

// RecordsAction prints the records of a run, the latest when no id is given.
func RecordsAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}
	if _, err := database.GetRun(runID); err != nil {
		return err
	}

	records, err := database.RunRecords(runID)
	if err != nil {
		return fmt.Errorf("failed to get run records: %w", err)
	}

	status := models.Status(c.String("status"))
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "URL", WidthMax: 60},
		{Name: "Title", WidthMax: 40},
		{Name: "Diseases", WidthMax: 30},
		{Name: "Locations", WidthMax: 30},
		{Name: "Sentiment", Align: text.AlignRight},
	})
	t.AppendHeader(table.Row{"#", "Status", "URL", "Title", "Lang", "Words", "Diseases", "Locations", "Sentiment"})

	shown := 0
	for i, r := range records {
		if status != "" && r.Status != status {
			continue
		}
		shown++
		sentiment := ""
		if r.Sentiment != nil {
			sentiment = fmt.Sprintf("%.3f", *r.Sentiment)
		}
		words := ""
		if r.WordCount != nil {
			words = fmt.Sprint(*r.WordCount)
		}
		t.AppendRow(table.Row{
			i + 1,
			r.Status,
			r.URL,
			deref(r.Title),
			deref(r.Language),
			words,
			strings.Join(r.Diseases, models.ListSeparator),
			strings.Join(r.Locations, models.ListSeparator),
			sentiment,
		})
	}
	t.Render()

	fmt.Printf("\nRun %d: %d of %d records\n", runID, shown, len(records))
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
