// Package dataset reads the input URL list and reads and writes the
// enriched dataset in CSV, NDJSON or YAML.
package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/news-enricher/models"
)

// URL and grouping-code column names accepted in a CSV header, by priority.
var (
	urlColumns  = []string{"lien", "url"}
	codeColumns = []string{"code", "groupe"}
)

// ReadSources reads URLs from a CSV file (header with a "lien" or "url"
// column) or an NDJSON file. Rows with an empty URL are skipped.
func ReadSources(path string) ([]models.SourceURL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return ParseNDJSONSources(f)
	default:
		return ParseCSVSources(f)
	}
}

// ParseCSVSources reads a CSV URL list. When both "lien" and "url" exist,
// "url" is used for rows whose "lien" cell is empty.
func ParseCSVSources(r io.Reader) ([]models.SourceURL, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("input csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	urlCols := columnIndexes(header, urlColumns)
	if len(urlCols) == 0 {
		return nil, fmt.Errorf("input csv must have a %q or %q column", urlColumns[0], urlColumns[1])
	}
	codeCols := columnIndexes(header, codeColumns)

	var out []models.SourceURL
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", row, err)
		}

		url := firstCell(record, urlCols)
		if url == "" {
			continue
		}
		out = append(out, models.SourceURL{URL: url, Code: firstCell(record, codeCols), Row: row})
	}
	return out, nil
}

// ParseNDJSONSources reads one URL per line, either as {"url": ...} objects
// (with an optional "code") or as bare strings.
func ParseNDJSONSources(r io.Reader) ([]models.SourceURL, error) {
	var out []models.SourceURL
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	row := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		row++

		if strings.HasPrefix(line, "{") {
			var obj struct {
				URL  string `json:"url"`
				Lien string `json:"lien"`
				Code string `json:"code"`
			}
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				return nil, fmt.Errorf("failed to parse ndjson line %d: %w", row, err)
			}
			url := strings.TrimSpace(obj.Lien)
			if url == "" {
				url = strings.TrimSpace(obj.URL)
			}
			if url != "" {
				out = append(out, models.SourceURL{URL: url, Code: obj.Code, Row: row})
			}
			continue
		}

		out = append(out, models.SourceURL{URL: strings.Trim(line, `"`), Row: row})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ndjson: %w", err)
	}
	return out, nil
}

func columnIndexes(header, names []string) []int {
	var idx []int
	for _, name := range names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

func firstCell(record []string, cols []int) string {
	for _, c := range cols {
		if c < len(record) {
			if v := strings.TrimSpace(record[c]); v != "" {
				return v
			}
		}
	}
	return ""
}
