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

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/news-enricher/models"
)

// Output formats.
const (
	FormatCSV    = "csv"
	FormatNDJSON = "ndjson"
	FormatYAML   = "yaml"
)

// FormatFromPath guesses the format from a file extension, defaulting to CSV.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

// WriteFile writes records to path in the given format.
func WriteFile(path, format string, records []models.Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := Write(w, format, records); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return f.Close()
}

// Write encodes records to w in the given format.
func Write(w io.Writer, format string, records []models.Record) error {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return WriteCSV(w, records)
	case FormatNDJSON:
		return WriteNDJSON(w, records)
	case FormatYAML:
		return WriteYAML(w, records)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// WriteCSV writes a header of models.RecordColumns then one row per record.
func WriteCSV(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.RecordColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.URL, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteNDJSON writes one JSON object per record.
func WriteNDJSON(w io.Writer, records []models.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode record %s: %w", r.URL, err)
		}
	}
	return nil
}

// WriteYAML writes the records as a single YAML sequence.
func WriteYAML(w io.Writer, records []models.Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// ReadRecords reads a dataset written by WriteFile.
func ReadRecords(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	switch FormatFromPath(path) {
	case FormatNDJSON:
		return readNDJSONRecords(f)
	case FormatYAML:
		var records []models.Record
		if err := yaml.NewDecoder(f).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode yaml dataset: %w", err)
		}
		return records, nil
	default:
		return ReadCSVRecords(f)
	}
}

// ReadCSVRecords reads a CSV dataset by header name, so column order and
// extra columns do not matter.
func ReadCSVRecords(r io.Reader) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records []models.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		records = append(records, models.RecordFromRow(header, row))
	}
	return records, nil
}

func readNDJSONRecords(r io.Reader) ([]models.Record, error) {
	var records []models.Record
	dec := json.NewDecoder(r)
	for {
		var rec models.Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode ndjson record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
