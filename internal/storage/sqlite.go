// Package storage provides SQLite-based persistence for leak scan history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for scan history.
type Store struct {
	db *sql.DB
}

// ScanRecord is one finished scan.
type ScanRecord struct {
	ID         int64
	ShipID     string
	Start      string // "x,y,z"
	Exit       string // "x,y,z", empty unless a leak was found
	Outcome    string // "found", "sealed", "cancelled", "failed"
	Moves      int
	Expansions int
	DurationMs int64
	CreatedAt  time.Time
}

// Duration returns how long the search ran.
func (r ScanRecord) Duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

// ShipStats contains aggregated scan statistics for a ship.
type ShipStats struct {
	ShipID      string
	Scans       int
	Leaks       int
	MaxMoves    int
	LastScanned time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ship_id TEXT NOT NULL,
			start_cell TEXT NOT NULL,
			exit_cell TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			expansions INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scans_ship_id ON scans(ship_id);
		CREATE INDEX IF NOT EXISTS idx_scans_outcome ON scans(ship_id, outcome);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScan records a finished scan.
// Returns the ID of the inserted record.
func (s *Store) SaveScan(rec ScanRecord) (int64, error) {
	if rec.ShipID == "" {
		return 0, errors.New("storage: scan has no ship id")
	}

	result, err := s.db.Exec(
		`INSERT INTO scans (ship_id, start_cell, exit_cell, outcome, moves, expansions, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ShipID, rec.Start, rec.Exit, rec.Outcome, rec.Moves, rec.Expansions, rec.DurationMs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save scan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const scanColumns = `id, ship_id, start_cell, exit_cell, outcome, moves, expansions, duration_ms, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (ScanRecord, error) {
	var rec ScanRecord
	var createdAt any
	err := row.Scan(
		&rec.ID,
		&rec.ShipID,
		&rec.Start,
		&rec.Exit,
		&rec.Outcome,
		&rec.Moves,
		&rec.Expansions,
		&rec.DurationMs,
		&createdAt,
	)
	if err != nil {
		return rec, err
	}
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// RecentScans retrieves the newest scans, most recent first.
// An empty shipID returns scans of every ship.
func (s *Store) RecentScans(shipID string, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows *sql.Rows
		err  error
	)
	if shipID == "" {
		rows, err = s.db.Query(
			`SELECT `+scanColumns+` FROM scans ORDER BY id DESC LIMIT ?`,
			limit,
		)
	} else {
		rows, err = s.db.Query(
			`SELECT `+scanColumns+` FROM scans WHERE ship_id = ? ORDER BY id DESC LIMIT ?`,
			shipID, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scans: %w", err)
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// LastScan returns the most recent scan of a ship, or nil if it was never scanned.
func (s *Store) LastScan(shipID string) (*ScanRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+scanColumns+` FROM scans WHERE ship_id = ? ORDER BY id DESC LIMIT 1`,
		shipID,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query last scan: %w", err)
	}
	return &rec, nil
}

// CountByOutcome returns how many scans of a ship ended in each outcome.
func (s *Store) CountByOutcome(shipID string) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT outcome, COUNT(*) FROM scans WHERE ship_id = ? GROUP BY outcome`,
		shipID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		counts[outcome] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return counts, nil
}

// AllShipStats retrieves statistics for every ship that has been scanned.
func (s *Store) AllShipStats() (map[string]*ShipStats, error) {
	rows, err := s.db.Query(
		`SELECT ship_id, COUNT(*),
		        SUM(CASE WHEN outcome = 'found' THEN 1 ELSE 0 END),
		        MAX(moves), MAX(created_at)
		 FROM scans
		 GROUP BY ship_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get ship stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ShipStats)
	for rows.Next() {
		var st ShipStats
		var lastScanned any
		if err := rows.Scan(&st.ShipID, &st.Scans, &st.Leaks, &st.MaxMoves, &lastScanned); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastScanned = parseTime(lastScanned)
		stats[st.ShipID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearScans deletes the history of a ship. An empty shipID clears everything.
func (s *Store) ClearScans(shipID string) error {
	var err error
	if shipID == "" {
		_, err = s.db.Exec("DELETE FROM scans")
	} else {
		_, err = s.db.Exec("DELETE FROM scans WHERE ship_id = ?", shipID)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear scans: %w", err)
	}
	return nil
}
