package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dtnitsch/news-enricher/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func strPtr(s string) *string { return &s }

func testRecords() []models.Record {
	words, chars := 12, 80
	score := 0.25
	return []models.Record{
		{
			URL:            "https://news.example.com/a",
			Code:           "19",
			Title:          strPtr("Outbreak"),
			Text:           strPtr("Avian flu outbreak reported near Cairo"),
			Language:       strPtr("en"),
			CharCount:      &chars,
			WordCount:      &words,
			DatesMentioned: []string{"12-03-2024"},
			Locations:      []string{"Cairo", "Egypt"},
			Organisations:  []string{},
			Animals:        []string{"chicken"},
			Diseases:       []string{"avian flu", "flu"},
			SourceNLP:      strPtr("Official Source"),
			Sentiment:      &score,
			Summary50:      strPtr("Avian flu"),
			Status:         models.StatusOK,
		},
		{
			URL:    "https://news.example.com/b",
			Title:  strPtr("Short"),
			Status: models.StatusScrapeFailed,
		},
	}
}

func TestInsertURL(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	id1, err := db.InsertURL("https://example.com/path?q=1")
	if err != nil {
		t.Fatalf("InsertURL() error = %v", err)
	}
	id2, err := db.InsertURL("https://example.com/path?q=1")
	if err != nil {
		t.Fatalf("InsertURL() second call error = %v", err)
	}
	if id1 != id2 {
		t.Errorf("InsertURL() returned %d then %d for the same URL", id1, id2)
	}

	var domain string
	if err := db.QueryRow("SELECT domain FROM urls WHERE url_id = ?", id1).Scan(&domain); err != nil {
		t.Fatal(err)
	}
	if domain != "example.com" {
		t.Errorf("domain = %q, want example.com", domain)
	}
}

func TestRunLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	started := time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)
	runID, err := db.CreateRun("urls.csv", "out.csv", started)
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	if err := db.SaveRecords(runID, testRecords()); err != nil {
		t.Fatalf("SaveRecords() error = %v", err)
	}

	stats := RunStats{URLCount: 3, OKCount: 1, FailedCount: 1, DuplicateCount: 1, TopKeywords: []string{"flu:3"}}
	if err := db.FinishRun(runID, stats, started.Add(time.Minute)); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.URLCount != 3 || run.OKCount != 1 || run.FailedCount != 1 || run.DuplicateCount != 1 {
		t.Errorf("unexpected run totals: %+v", run)
	}
	if !run.FinishedAt.Valid {
		t.Error("FinishedAt not set")
	}
	if len(run.TopKeywords) != 1 || run.TopKeywords[0] != "flu:3" {
		t.Errorf("TopKeywords = %v", run.TopKeywords)
	}
	if run.OutputPath != "out.csv" {
		t.Errorf("OutputPath = %q", run.OutputPath)
	}

	records, err := db.RunRecords(runID)
	if err != nil {
		t.Fatalf("RunRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("RunRecords() returned %d records, want 2", len(records))
	}
	first := records[0]
	if first.URL != "https://news.example.com/a" || first.Code != "19" {
		t.Errorf("first record = %+v", first)
	}
	if len(first.Diseases) != 2 || first.Diseases[0] != "avian flu" {
		t.Errorf("Diseases = %v", first.Diseases)
	}
	if first.Sentiment == nil || *first.Sentiment != 0.25 {
		t.Errorf("Sentiment = %v", first.Sentiment)
	}
	if len(first.Organisations) != 0 {
		t.Errorf("Organisations = %v, want empty", first.Organisations)
	}
	second := records[1]
	if second.Text != nil || second.WordCount != nil || second.Status != models.StatusScrapeFailed {
		t.Errorf("failed record not stored as a stub: %+v", second)
	}

	counts, err := db.StatusCounts(runID)
	if err != nil {
		t.Fatalf("StatusCounts() error = %v", err)
	}
	if counts[models.StatusOK] != 1 || counts[models.StatusScrapeFailed] != 1 {
		t.Errorf("StatusCounts() = %v", counts)
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := db.CreateRun("urls.csv", "", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns(2) returned %d runs", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Error("runs not ordered most recent first")
	}

	all, err := db.ListRuns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("ListRuns(0) returned %d runs, want 3", len(all))
	}
}

func TestFinishRun_Unknown(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.FinishRun(42, RunStats{}, time.Now()); err == nil {
		t.Error("FinishRun() on a missing run should fail")
	}
	if _, err := db.GetRun(42); err == nil {
		t.Error("GetRun() on a missing run should fail")
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := db.CreateRun("urls.csv", "", time.Now()); err != nil {
		t.Fatal(err)
	}
	db.Close()

	// Reopening keeps the schema and data.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()
	if db.Path() != path {
		t.Errorf("Path() = %q", db.Path())
	}
	runs, err := db.ListRuns(0)
	if err != nil || len(runs) != 1 {
		t.Errorf("ListRuns() = %v, %v", runs, err)
	}
}
