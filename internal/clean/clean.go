// Package clean filters a CSV dataset down to rows with a usable URL and
// drops repeated URLs.
package clean

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/news-enricher/internal/common"
	"github.com/dtnitsch/news-enricher/pkg/mapreduce"
)

// urlColumns and statusColumns are tried in order.
var (
	urlColumns    = []string{"url", "lien"}
	statusColumns = []string{"scrape_status", "status_code"}
)

// Result describes one cleaning pass.
type Result struct {
	Total    int
	Kept     int
	Statuses map[string]int // of the kept rows, when a status column exists
}

// Clean copies r to w keeping the header and the first row for each URL that
// starts with http://, https:// or www. URLs are sanitized before comparison.
func Clean(r io.Reader, w io.Writer) (Result, error) {
	res := Result{Statuses: map[string]int{}}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return res, errors.New("dataset is empty")
		}
		return res, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	urlCol := column(header, urlColumns)
	if urlCol < 0 {
		return res, fmt.Errorf("no url column (expected one of %s)", strings.Join(urlColumns, ", "))
	}
	statusCol := column(header, statusColumns)

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return res, fmt.Errorf("failed to write header: %w", err)
	}

	seen := map[string]struct{}{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("failed to read row %d: %w", res.Total+1, err)
		}
		res.Total++

		if urlCol >= len(row) || !common.LooksLikeURL(row[urlCol]) {
			continue
		}
		url := common.SanitizeURL(row[urlCol])
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		row[urlCol] = url

		if err := writer.Write(row); err != nil {
			return res, fmt.Errorf("failed to write row: %w", err)
		}
		res.Kept++
		if statusCol >= 0 && statusCol < len(row) {
			status := row[statusCol]
			if status == "" {
				status = "(none)"
			}
			res.Statuses[status]++
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return res, fmt.Errorf("failed to flush output: %w", err)
	}
	return res, nil
}

// DefaultOutput maps data/dataset.csv to data/dataset_cleaned.csv.
func DefaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_cleaned" + ext
}

func CleanAction(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		return cli.Exit("usage: news-enricher clean <dataset.csv> [--output cleaned.csv]", 2)
	}
	output := c.String("output")
	if output == "" {
		output = DefaultOutput(input)
	}

	in, err := os.Open(input)
	if err != nil {
		return cli.Exit(fmt.Sprintf("could not read %s: %v", input, err), 2)
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		return cli.Exit(fmt.Sprintf("could not create %s: %v", output, err), 2)
	}

	res, err := Clean(in, out)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		os.Remove(output)
		return cli.Exit(fmt.Sprintf("failed to clean %s: %v", input, err), 2)
	}

	fmt.Printf("Wrote %s\n", output)
	fmt.Printf("Total rows original: %d\n", res.Total)
	fmt.Printf("Kept rows: %d\n", res.Kept)
	if len(res.Statuses) > 0 {
		fmt.Printf("\nStatus counts (cleaned):\n")
		for _, kc := range mapreduce.TopCounts(res.Statuses, len(res.Statuses)) {
			fmt.Printf("  %-15s %d\n", kc.Key, kc.Value)
		}
	}
	return nil
}

func column(header, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}
