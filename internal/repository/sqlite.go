package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS agents (
			name TEXT PRIMARY KEY,
			status TEXT NOT NULL DEFAULT 'offline',
			is_system INTEGER NOT NULL DEFAULT 0,
			autonomy_enabled INTEGER NOT NULL DEFAULT 0,
			context_percent REAL NOT NULL DEFAULT 0,
			execution_stats TEXT,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			source_agent TEXT NOT NULL,
			target_agent TEXT,
			ts INTEGER NOT NULL,
			duration_ms INTEGER,
			status TEXT NOT NULL,
			activity_type TEXT,
			triggered_by TEXT,
			execution_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_events_execution ON events(execution_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_source ON events(source_agent, ts)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertAgent registers or updates an agent row.
func (s *SQLiteStore) UpsertAgent(ctx context.Context, agent *domain.Agent) error {
	stats := ""
	if agent.ExecutionStats != nil {
		stats = string(agent.ExecutionStats)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO agents (name, status, is_system, autonomy_enabled, context_percent, execution_stats, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		agent.Name, agent.Status, agent.IsSystem, agent.AutonomyEnabled, agent.ContextPercent, nullString(stats), time.Now())
	return err
}

// GetAgent retrieves an agent by name.
func (s *SQLiteStore) GetAgent(ctx context.Context, name string) (*domain.Agent, error) {
	var a domain.Agent
	var stats sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT name, status, is_system, autonomy_enabled, context_percent, execution_stats FROM agents WHERE name = ?`,
		name).Scan(&a.Name, &a.Status, &a.IsSystem, &a.AutonomyEnabled, &a.ContextPercent, &stats)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if stats.Valid {
		a.ExecutionStats = json.RawMessage(stats.String)
	}
	return &a, nil
}

// ListAgents lists all agents, system agents first then alphabetical.
func (s *SQLiteStore) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, status, is_system, autonomy_enabled, context_percent, execution_stats FROM agents ORDER BY is_system DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		var a domain.Agent
		var stats sql.NullString
		if err := rows.Scan(&a.Name, &a.Status, &a.IsSystem, &a.AutonomyEnabled, &a.ContextPercent, &stats); err != nil {
			return nil, err
		}
		if stats.Valid {
			a.ExecutionStats = json.RawMessage(stats.String)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// SetAgentAutonomy flips the autonomy flag. Returns false when the agent
// does not exist.
func (s *SQLiteStore) SetAgentAutonomy(ctx context.Context, name string, enabled bool) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE agents SET autonomy_enabled = ?, updated_at = ? WHERE name = ?`,
		enabled, time.Now(), name)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// InsertEvent stores one feed event.
func (s *SQLiteStore) InsertEvent(ctx context.Context, event *domain.Event) error {
	var durationMs sql.NullInt64
	if event.DurationMs != nil {
		durationMs = sql.NullInt64{Int64: *event.DurationMs, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO events (event_id, source_agent, target_agent, ts, duration_ms, status, activity_type, triggered_by, execution_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.EventID, event.SourceAgent, nullString(event.TargetAgent), event.Timestamp.UnixMilli(),
		durationMs, event.Status, nullString(event.ActivityType), nullString(string(event.TriggeredBy)), nullString(event.ExecutionID))
	return err
}

// ListEventsDesc retrieves events newest-first, optionally before a cutoff.
func (s *SQLiteStore) ListEventsDesc(ctx context.Context, limit int, before time.Time) ([]domain.Event, error) {
	query := `SELECT event_id, source_agent, target_agent, ts, duration_ms, status, activity_type, triggered_by, execution_id FROM events`
	args := []interface{}{}

	if !before.IsZero() {
		query += ` WHERE ts < ?`
		args = append(args, before.UnixMilli())
	}
	query += ` ORDER BY ts DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetEventByExecutionID retrieves the event backing an execution detail view.
func (s *SQLiteStore) GetEventByExecutionID(ctx context.Context, executionID string) (*domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT event_id, source_agent, target_agent, ts, duration_ms, status, activity_type, triggered_by, execution_id
		 FROM events WHERE execution_id = ? ORDER BY ts DESC LIMIT 1`, executionID)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CountEvents returns the total number of stored events.
func (s *SQLiteStore) CountEvents(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(r rowScanner) (domain.Event, error) {
	var e domain.Event
	var target, activityType, triggeredBy, executionID sql.NullString
	var ts int64
	var durationMs sql.NullInt64
	if err := r.Scan(&e.EventID, &e.SourceAgent, &target, &ts, &durationMs, &e.Status, &activityType, &triggeredBy, &executionID); err != nil {
		return domain.Event{}, err
	}
	e.Timestamp = time.UnixMilli(ts).UTC()
	if target.Valid {
		e.TargetAgent = target.String
	}
	if durationMs.Valid {
		v := durationMs.Int64
		e.DurationMs = &v
	}
	if activityType.Valid {
		e.ActivityType = activityType.String
	}
	if triggeredBy.Valid {
		e.TriggeredBy = domain.TriggeredBy(triggeredBy.String)
	}
	if executionID.Valid {
		e.ExecutionID = executionID.String
	}
	return e, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
