// Package store persists the downloaded airport dataset and small pieces of
// application state in SQLite, so the app can come up without network access.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"voiceatis/pkg/db"
	"voiceatis/pkg/model"
)

// Store composes all sub-interfaces for full store access.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	AirportStore
	StateStore

	// Close closes the store connection.
	Close() error
}

// AirportStore caches the merged airport dataset between runs.
type AirportStore interface {
	ReplaceAirports(ctx context.Context, airports []model.AirportRecord) error
	LoadAirports(ctx context.Context) ([]model.AirportRecord, error)
	AirportCount(ctx context.Context) (int, error)
}

// StateStore is a simple persistent key/value store.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Airports ---

// ReplaceAirports swaps the cached dataset for a new one in a single
// transaction, so readers never observe a half-written dataset.
func (s *SQLiteStore) ReplaceAirports(ctx context.Context, airports []model.AirportRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM airports"); err != nil {
		return fmt.Errorf("failed to clear airports: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO airports (icao, name, lat, lon, elevation_ft, frequencies, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i := range airports {
		a := &airports[i]
		freqs, err := json.Marshal(a.Frequencies)
		if err != nil {
			return fmt.Errorf("failed to encode frequencies for %s: %w", a.ICAO, err)
		}
		if _, err := stmt.ExecContext(ctx, a.ICAO, a.Name, a.Lat, a.Lon, a.ElevationFt, string(freqs), now); err != nil {
			return fmt.Errorf("failed to insert airport %s: %w", a.ICAO, err)
		}
	}

	return tx.Commit()
}

// LoadAirports returns the cached dataset, or an empty slice when the cache
// has never been populated.
func (s *SQLiteStore) LoadAirports(ctx context.Context) ([]model.AirportRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT icao, name, lat, lon, elevation_ft, frequencies FROM airports")
	if err != nil {
		return nil, fmt.Errorf("failed to query airports: %w", err)
	}
	defer rows.Close()

	var airports []model.AirportRecord
	for rows.Next() {
		var a model.AirportRecord
		var freqs string
		if err := rows.Scan(&a.ICAO, &a.Name, &a.Lat, &a.Lon, &a.ElevationFt, &freqs); err != nil {
			return nil, err
		}
		if freqs != "" {
			if err := json.Unmarshal([]byte(freqs), &a.Frequencies); err != nil {
				return nil, fmt.Errorf("failed to decode frequencies for %s: %w", a.ICAO, err)
			}
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (s *SQLiteStore) AirportCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM airports").Scan(&n)
	return n, err
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	query := `INSERT OR REPLACE INTO persistent_state (key, value, created_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val, time.Now())
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}
