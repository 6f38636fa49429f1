// Package store materializes the loaded dataset in SQLite. The table is
// replaced wholesale at startup; after that the database is read-only and
// row order (rowid) preserves the order rows appeared in the source file.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ozfires/firedash/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ReplaceRecords swaps the entire fire_records table for the given rows in a
// single transaction, recording the source and ingest time in dataset_meta.
func (s *Store) ReplaceRecords(records []models.FireRecord, source string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM fire_records`); err != nil {
		return fmt.Errorf("clear fire_records: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO fire_records (region, year, month_name, estimated_fire_area, pixel_count, mean_brightness, mean_frp, mean_confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.Region, rec.Year, rec.MonthName, rec.EstimatedFireArea, rec.PixelCount, rec.MeanBrightness, rec.MeanFRP, rec.MeanConfidence); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range map[string]string{"source": source, "loaded_at": now} {
		if _, err := tx.Exec(`
			INSERT INTO dataset_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, v); err != nil {
			return fmt.Errorf("set meta %s: %w", k, err)
		}
	}

	return tx.Commit()
}

// AllRecords returns every record in insertion order, which matches the
// order of rows in the source file. The aggregator depends on this: month
// grouping is keyed to first appearance, not calendar position.
func (s *Store) AllRecords() ([]models.FireRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, region, year, month_name, estimated_fire_area, pixel_count, mean_brightness, mean_frp, mean_confidence
		FROM fire_records
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.FireRecord
	for rows.Next() {
		var rec models.FireRecord
		if err := rows.Scan(&rec.ID, &rec.Region, &rec.Year, &rec.MonthName, &rec.EstimatedFireArea, &rec.PixelCount, &rec.MeanBrightness, &rec.MeanFRP, &rec.MeanConfidence); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RecordCount returns the number of stored records.
func (s *Store) RecordCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM fire_records`).Scan(&n)
	return n, err
}

// DatasetInfo returns ingest metadata for /health. Returns nil when no
// ingest has completed yet.
func (s *Store) DatasetInfo() (*models.DatasetInfo, error) {
	n, err := s.RecordCount()
	if err != nil {
		return nil, err
	}

	info := &models.DatasetInfo{RecordCount: n}

	var source, loadedAt string
	err = s.db.QueryRow(`SELECT value FROM dataset_meta WHERE key = 'source'`).Scan(&source)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	info.Source = source

	if err := s.db.QueryRow(`SELECT value FROM dataset_meta WHERE key = 'loaded_at'`).Scan(&loadedAt); err == nil {
		if t, perr := time.Parse(time.RFC3339, loadedAt); perr == nil {
			info.LoadedAt = t
		}
	}

	return info, nil
}
