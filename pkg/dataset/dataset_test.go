package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/news-enricher/models"
)

func TestParseCSVSources(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []models.SourceURL
		wantErr bool
	}{
		{
			name:  "lien column with groupe",
			input: "groupe,lien\n19,https://a.example/1\n19, https://a.example/2 \n",
			want: []models.SourceURL{
				{URL: "https://a.example/1", Code: "19", Row: 1},
				{URL: "https://a.example/2", Code: "19", Row: 2},
			},
		},
		{
			name:  "url column case insensitive, empty rows skipped",
			input: "URL,Code\nhttps://b.example,x\n,y\nhttps://c.example,\n",
			want: []models.SourceURL{
				{URL: "https://b.example", Code: "x", Row: 1},
				{URL: "https://c.example", Row: 3},
			},
		},
		{
			name:  "url used when lien is empty",
			input: "lien,url\n,https://d.example\nhttps://e.example,https://ignored\n",
			want: []models.SourceURL{
				{URL: "https://d.example", Row: 1},
				{URL: "https://e.example", Row: 2},
			},
		},
		{
			name:  "byte order mark",
			input: "\ufeffurl\nhttps://f.example\n",
			want:  []models.SourceURL{{URL: "https://f.example", Row: 1}},
		},
		{name: "header only", input: "url\n", want: nil},
		{name: "no url column", input: "link\nhttps://g.example\n", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCSVSources(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNDJSONSources(t *testing.T) {
	input := `{"url": "https://a.example", "code": "g1"}

https://b.example
{"lien": "https://c.example"}
{"url": ""}
`
	got, err := ParseNDJSONSources(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []models.SourceURL{
		{URL: "https://a.example", Code: "g1", Row: 1},
		{URL: "https://b.example", Row: 2},
		{URL: "https://c.example", Row: 3},
	}, got)

	_, err = ParseNDJSONSources(strings.NewReader("{broken\n"))
	assert.Error(t, err)
}

func TestReadSources_ByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "urls.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("lien\nhttps://a.example\n"), 0o644))
	got, err := ReadSources(csvPath)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	ndPath := filepath.Join(dir, "urls.ndjson")
	require.NoError(t, os.WriteFile(ndPath, []byte("https://a.example\nhttps://b.example\n"), 0o644))
	got, err = ReadSources(ndPath)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = ReadSources(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func sampleRecords() []models.Record {
	text := "Avian flu outbreak, \"confirmed\"\nby the ministry"
	lang := "en"
	words, chars := 7, len(text)
	source := "Official Source"
	score := -0.15
	return []models.Record{
		{
			URL:            "https://a.example",
			Title:          models.OptionalString("Outbreak"),
			Text:           &text,
			Language:       &lang,
			WordCount:      &words,
			CharCount:      &chars,
			DatesMentioned: []string{"12-03-2024"},
			Locations:      []string{"Cairo", "Egypt"},
			Organisations:  []string{},
			Animals:        []string{"chicken", "cow"},
			Diseases:       []string{"avian flu", "flu"},
			SourceNLP:      &source,
			Sentiment:      &score,
			Summary50:      &text,
			Summary100:     &text,
			Summary150:     &text,
			Status:         models.StatusOK,
		},
		{
			URL:            "https://b.example",
			DatesMentioned: []string{},
			Locations:      []string{},
			Organisations:  []string{},
			Animals:        []string{},
			Diseases:       []string{},
			Status:         models.StatusScrapeFailed,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	lines := strings.SplitN(buf.String(), "\n", 2)
	assert.Equal(t, strings.Join(models.RecordColumns, ","), lines[0])
	assert.Contains(t, buf.String(), "Cairo;Egypt")
	assert.Contains(t, buf.String(), "https://b.example,,,,,,,,,,,,,,,,,scrape_failed")

	got, err := ReadCSVRecords(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://a.example", got[0].URL)
	assert.Equal(t, *sampleRecords()[0].Text, *got[0].Text)
	assert.Equal(t, []string{"avian flu", "flu"}, got[0].Diseases)
	assert.Equal(t, -0.15, *got[0].Sentiment)
	assert.Nil(t, got[1].Text)
	assert.Equal(t, models.StatusScrapeFailed, got[1].Status)
}

func TestWriteFile_Formats(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []string{FormatCSV, FormatNDJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, "out", "dataset."+format)
			require.NoError(t, WriteFile(path, format, sampleRecords()))

			got, err := ReadRecords(path)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, models.StatusOK, got[0].Status)
			assert.Equal(t, []string{"chicken", "cow"}, got[0].Animals)
			assert.Equal(t, "Official Source", *got[0].SourceNLP)
			assert.Nil(t, got[1].Title)
		})
	}

	assert.Error(t, WriteFile(filepath.Join(dir, "x.txt"), "xml", nil))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatFromPath("a.csv"))
	assert.Equal(t, FormatNDJSON, FormatFromPath("a.jsonl"))
	assert.Equal(t, FormatYAML, FormatFromPath("a.YML"))
	assert.Equal(t, FormatCSV, FormatFromPath("noext"))
}
