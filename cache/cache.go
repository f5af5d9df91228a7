package cache

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/scipunch/newspulse/fetcher/types"
	"github.com/scipunch/newspulse/pipeline"
	"github.com/scipunch/newspulse/sentiment"
)

//go:embed schema.sql
var schemaSQL string

// Cache keeps a snapshot of the current result set in sqlite so that it
// survives between invocations
type Cache struct {
	db *sql.DB
}

// CacheStats contains cache statistics
type CacheStats struct {
	ResultID  string
	Query     string
	Items     int
	FetchedAt time.Time
}

// NewCache initializes cache database at the given path
func NewCache(dbPath string) (*Cache, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	c, err := NewCacheFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// NewCacheFromDB initializes the schema on an already open database
func NewCacheFromDB(db *sql.DB) (*Cache, error) {
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Load returns the stored result set
// Returns: (result set, found, error)
func (c *Cache) Load() (pipeline.ResultSet, bool, error) {
	var rs pipeline.ResultSet
	var fetchedAt int64

	err := c.db.QueryRow(
		"SELECT id, query, fetched_at FROM result_set LIMIT 1",
	).Scan(&rs.ID, &rs.Query, &fetchedAt)
	if err == sql.ErrNoRows {
		return rs, false, nil
	}
	if err != nil {
		return rs, false, fmt.Errorf("failed to read result set: %w", err)
	}
	rs.FetchedAt = time.Unix(0, fetchedAt)

	rows, err := c.db.Query(`
		SELECT title, link, description, published_at, normalized_text, sentiment
		FROM result_item WHERE result_id = ? ORDER BY position
	`, rs.ID)
	if err != nil {
		return rs, false, fmt.Errorf("failed to read result items: %w", err)
	}
	defer rows.Close()

	rs.Items = []pipeline.ClassifiedItem{}
	for rows.Next() {
		var item pipeline.ClassifiedItem
		var published sql.NullInt64
		var label string
		if err := rows.Scan(&item.Title, &item.Link, &item.Description, &published, &item.NormalizedText, &label); err != nil {
			return rs, false, fmt.Errorf("failed to scan result item: %w", err)
		}
		if published.Valid {
			t := time.Unix(published.Int64, 0).UTC()
			item.Published = &t
		}
		item.Sentiment = sentiment.Label(label)
		rs.Items = append(rs.Items, item)
	}
	if err := rows.Err(); err != nil {
		return rs, false, fmt.Errorf("failed to iterate result items: %w", err)
	}

	return rs, true, nil
}

// Replace swaps the stored snapshot for rs inside one transaction
func (c *Cache) Replace(rs pipeline.ResultSet) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearTx(tx); err != nil {
		return err
	}

	if _, err := tx.Exec(
		"INSERT INTO result_set (id, query, fetched_at) VALUES (?, ?, ?)",
		rs.ID, rs.Query, rs.FetchedAt.UnixNano(),
	); err != nil {
		slog.Warn("result set write error", "error", err, "query", truncate(rs.Query, 50))
		return fmt.Errorf("failed to insert result set: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO result_item
		(result_id, position, title, link, description, published_at, normalized_text, sentiment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range rs.Items {
		if _, err := stmt.Exec(rs.ID, i, item.Title, item.Link, item.Description,
			publishedUnix(item.FeedItem), item.NormalizedText, string(item.Sentiment)); err != nil {
			return fmt.Errorf("failed to insert item %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Clear removes the stored snapshot
func (c *Cache) Clear() error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearTx(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func clearTx(tx *sql.Tx) error {
	if _, err := tx.Exec("DELETE FROM result_item"); err != nil {
		return fmt.Errorf("failed to clear result items: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM result_set"); err != nil {
		return fmt.Errorf("failed to clear result set: %w", err)
	}
	return nil
}

// Stats returns cache statistics
func (c *Cache) Stats() (CacheStats, error) {
	var stats CacheStats
	var fetchedAt sql.NullInt64

	err := c.db.QueryRow(`
		SELECT s.id, s.query, s.fetched_at, COUNT(i.position)
		FROM result_set s LEFT JOIN result_item i ON i.result_id = s.id
		GROUP BY s.id
	`).Scan(&stats.ResultID, &stats.Query, &fetchedAt, &stats.Items)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return stats, err
	}
	if fetchedAt.Valid && fetchedAt.Int64 > 0 {
		stats.FetchedAt = time.Unix(0, fetchedAt.Int64)
	}

	return stats, nil
}

// Close closes the cache database
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func publishedUnix(item types.FeedItem) sql.NullInt64 {
	if !item.HasDate() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: item.Published.Unix(), Valid: true}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
