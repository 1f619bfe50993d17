package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dtnitsch/news-enricher/internal/common"
	"github.com/dtnitsch/news-enricher/models"
)

// SaveRecords stores the records of a run in one transaction, keeping
// their order as position.
func (db *DB) SaveRecords(runID int64, records []models.Record) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO records (
			run_id, url_id, position, code, status, title, text, content_hash,
			language, char_count, word_count, publication_date, dates_mentioned,
			locations, organisations, animals, diseases, source_nlp, sentiment,
			summary_50, summary_100, summary_150
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		urlID, err := insertURL(tx, r.URL)
		if err != nil {
			return fmt.Errorf("failed to insert URL %s: %w", r.URL, err)
		}

		hash := sql.NullString{}
		if r.Text != nil {
			hash = NewNullString(common.ContentHash([]byte(*r.Text)))
		}

		if _, err := stmt.Exec(
			runID, urlID, i, NewNullString(r.Code), string(r.Status),
			nullString(r.Title), nullString(r.Text), hash,
			nullString(r.Language), nullInt(r.CharCount), nullInt(r.WordCount),
			nullString(r.PublicationDate),
			joinList(r.DatesMentioned), joinList(r.Locations), joinList(r.Organisations),
			joinList(r.Animals), joinList(r.Diseases),
			nullString(r.SourceNLP), nullFloat(r.Sentiment),
			nullString(r.Summary50), nullString(r.Summary100), nullString(r.Summary150),
		); err != nil {
			return fmt.Errorf("failed to insert record for %s: %w", r.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// RunRecords returns the records of a run in output order.
func (db *DB) RunRecords(runID int64) ([]models.Record, error) {
	rows, err := db.Query(`
		SELECT u.original_url, r.code, r.status, r.title, r.text, r.language,
		       r.char_count, r.word_count, r.publication_date, r.dates_mentioned,
		       r.locations, r.organisations, r.animals, r.diseases, r.source_nlp,
		       r.sentiment, r.summary_50, r.summary_100, r.summary_150
		FROM records r
		JOIN urls u ON u.url_id = r.url_id
		WHERE r.run_id = ?
		ORDER BY r.position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var (
			rec                                            models.Record
			status                                         string
			code, title, text, language, published, source sql.NullString
			dates, locations, orgs, animals, diseases      sql.NullString
			sum50, sum100, sum150                          sql.NullString
			charCount, wordCount                           sql.NullInt64
			sentiment                                      sql.NullFloat64
		)
		if err := rows.Scan(&rec.URL, &code, &status, &title, &text, &language,
			&charCount, &wordCount, &published, &dates,
			&locations, &orgs, &animals, &diseases, &source,
			&sentiment, &sum50, &sum100, &sum150); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec.Code = code.String
		rec.Status = models.Status(status)
		rec.Title = stringPtr(title)
		rec.Text = stringPtr(text)
		rec.Language = stringPtr(language)
		rec.CharCount = intPtr(charCount)
		rec.WordCount = intPtr(wordCount)
		rec.PublicationDate = stringPtr(published)
		rec.DatesMentioned = splitList(dates)
		rec.Locations = splitList(locations)
		rec.Organisations = splitList(orgs)
		rec.Animals = splitList(animals)
		rec.Diseases = splitList(diseases)
		rec.SourceNLP = stringPtr(source)
		if sentiment.Valid {
			rec.Sentiment = &sentiment.Float64
		}
		rec.Summary50 = stringPtr(sum50)
		rec.Summary100 = stringPtr(sum100)
		rec.Summary150 = stringPtr(sum150)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// StatusCounts returns how many records of a run have each status.
func (db *DB) StatusCounts(runID int64) (map[models.Status]int, error) {
	rows, err := db.Query(`SELECT status, COUNT(*) FROM records WHERE run_id = ? GROUP BY status`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[models.Status(status)] = n
	}
	return counts, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func joinList(items []string) string {
	return strings.Join(items, models.ListSeparator)
}

func splitList(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return []string{}
	}
	return strings.Split(s.String, models.ListSeparator)
}
