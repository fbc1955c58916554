// Package history provides the audit trail of finished command cycles
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/soroush/shazam/internal/types"
)

// Store manages command history storage
type Store struct {
	db *sql.DB
}

// Stats summarizes the stored history
type Stats struct {
	Total     int
	Executed  int
	Dangerous int
	ByState   map[string]int
	ByModel   map[string]int
}

const entryColumns = `id, timestamp, prompt, command, dangerous, danger_reason, state, executed,
	exit_code, duration_ms, message, working_dir, provider, model`

// NewStore opens (and if needed creates) the history database at dbPath
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the database schema
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commands (
		id TEXT PRIMARY KEY,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		prompt TEXT NOT NULL,
		command TEXT NOT NULL DEFAULT '',
		dangerous INTEGER DEFAULT 0,
		danger_reason TEXT DEFAULT '',
		state TEXT NOT NULL,
		executed INTEGER DEFAULT 0,
		exit_code INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		message TEXT DEFAULT '',
		working_dir TEXT DEFAULT '',
		provider TEXT DEFAULT '',
		model TEXT DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_commands_timestamp ON commands(timestamp);
	CREATE INDEX IF NOT EXISTS idx_commands_state ON commands(state);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Add stores a finished cycle, assigning an ID and timestamp when missing
func (s *Store) Add(entry *types.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO commands (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.Timestamp,
		entry.Prompt,
		entry.Command,
		entry.Dangerous,
		entry.DangerReason,
		entry.State.String(),
		entry.Executed,
		entry.ExitCode,
		entry.DurationMs,
		entry.Message,
		entry.WorkingDir,
		entry.Provider,
		entry.Model,
	)
	if err != nil {
		return fmt.Errorf("failed to add history entry: %w", err)
	}
	return nil
}

// Get retrieves an entry by ID
func (s *Store) Get(id string) (*types.HistoryEntry, error) {
	row := s.db.QueryRow(`SELECT `+entryColumns+` FROM commands WHERE id = ?`, id)
	return scanEntry(row)
}

// List returns entries newest first. A non-empty stateFilter keeps only
// entries that ended in that state.
func (s *Store) List(limit, offset int, stateFilter string) ([]*types.HistoryEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM commands`

	var args []interface{}
	if stateFilter != "" {
		query += " WHERE state = ?"
		args = append(args, stateFilter)
	}

	query += " ORDER BY timestamp DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search finds entries whose prompt or command contains query
func (s *Store) Search(query string, limit int) ([]*types.HistoryEntry, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT `+entryColumns+`
		FROM commands
		WHERE prompt LIKE ? OR command LIKE ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Stats returns statistics about the stored history
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{
		ByState: make(map[string]int),
		ByModel: make(map[string]int),
	}

	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(executed), 0), COALESCE(SUM(dangerous), 0) FROM commands
	`).Scan(&stats.Total, &stats.Executed, &stats.Dangerous)
	if err != nil {
		return nil, err
	}

	if err := s.countBy("state", stats.ByState); err != nil {
		return nil, err
	}
	if err := s.countBy("provider || '/' || model", stats.ByModel); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *Store) countBy(expr string, into map[string]int) error {
	rows, err := s.db.Query("SELECT " + expr + ", COUNT(*) FROM commands GROUP BY 1")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}

// Cleanup removes entries older than retentionDays and returns how many were
// removed
func (s *Store) Cleanup(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res, err := s.db.Exec("DELETE FROM commands WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Clear removes every entry
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM commands")
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*types.HistoryEntry, error) {
	entry := &types.HistoryEntry{}
	var state string
	err := row.Scan(
		&entry.ID,
		&entry.Timestamp,
		&entry.Prompt,
		&entry.Command,
		&entry.Dangerous,
		&entry.DangerReason,
		&state,
		&entry.Executed,
		&entry.ExitCode,
		&entry.DurationMs,
		&entry.Message,
		&entry.WorkingDir,
		&entry.Provider,
		&entry.Model,
	)
	if err != nil {
		return nil, err
	}

	entry.State = types.ParseCycleState(state)
	return entry, nil
}

func scanEntries(rows *sql.Rows) ([]*types.HistoryEntry, error) {
	var entries []*types.HistoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
