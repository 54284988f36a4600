// Package sqlite persists the tracker in a single SQLite database file.
// The schema is created idempotently on open; all ownership enforcement
// happens here through plan-scoped WHERE clauses.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("sqlite")

// Store wraps the database handle shared by all aggregate stores.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an ephemeral database in tests.
func Open(path string, logger *zap.Logger) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent request load.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	logger.Info("database ready", zap.String("path", path))
	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable; used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'admin' CHECK (role IN ('admin','collaborator')),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS launch_plans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			timezone TEXT NOT NULL DEFAULT 'UTC',
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			strategy_tags TEXT NOT NULL DEFAULT '[]',
			notes TEXT,
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('draft','active','completed','archived')),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id INTEGER NOT NULL REFERENCES launch_plans(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT,
			due_date TEXT NOT NULL,
			due_time TEXT,
			estimated_minutes INTEGER,
			status TEXT NOT NULL DEFAULT 'not_started' CHECK (status IN ('not_started','in_progress','blocked','complete','skipped')),
			priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low','medium','high')),
			category TEXT NOT NULL DEFAULT 'other' CHECK (category IN ('product','funnel','outreach','email','ads','analytics','support','other')),
			owner_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			links TEXT NOT NULL DEFAULT '[]',
			completion_notes TEXT,
			completed_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_plan_date ON tasks(plan_id, due_date)`,

		`CREATE TABLE IF NOT EXISTS task_dependencies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			depends_on_task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			UNIQUE (task_id, depends_on_task_id)
		)`,

		`CREATE TABLE IF NOT EXISTS kpis (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id INTEGER NOT NULL REFERENCES launch_plans(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			category TEXT NOT NULL CHECK (category IN ('email_deliverability','funnel_conversion','revenue','activation','ads')),
			unit TEXT NOT NULL CHECK (unit IN ('percent','count','currency','ratio')),
			target_type TEXT NOT NULL CHECK (target_type IN ('minimum','maximum')),
			target_value REAL NOT NULL,
			calculation_type TEXT NOT NULL DEFAULT 'manual' CHECK (calculation_type IN ('manual','calculated')),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_kpis_plan ON kpis(plan_id)`,

		`CREATE TABLE IF NOT EXISTS kpi_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id INTEGER NOT NULL REFERENCES launch_plans(id) ON DELETE CASCADE,
			kpi_id INTEGER NOT NULL REFERENCES kpis(id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			value REAL NOT NULL,
			notes TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (kpi_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id INTEGER NOT NULL REFERENCES launch_plans(id) ON DELETE CASCADE,
			kpi_id INTEGER REFERENCES kpis(id) ON DELETE SET NULL,
			date_triggered TEXT NOT NULL,
			severity TEXT NOT NULL DEFAULT 'warning' CHECK (severity IN ('info','warning','critical')),
			message TEXT NOT NULL,
			resolved_at DATETIME,
			resolution_notes TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_plan ON alerts(plan_id)`,

		`CREATE TABLE IF NOT EXISTS contacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id INTEGER NOT NULL REFERENCES launch_plans(id) ON DELETE CASCADE,
			email TEXT NOT NULL,
			name TEXT,
			segment TEXT NOT NULL CHECK (segment IN ('past_payer','cold_list')),
			status TEXT NOT NULL DEFAULT 'not_contacted' CHECK (status IN ('not_contacted','contacted','replied','booked_call','started_trial','paid_starter','paid_pro','unsubscribed')),
			tags TEXT NOT NULL DEFAULT '[]',
			notes TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (plan_id, email)
		)`,

		`CREATE TABLE IF NOT EXISTS outreach_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id INTEGER NOT NULL REFERENCES launch_plans(id) ON DELETE CASCADE,
			contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			channel TEXT NOT NULL CHECK (channel IN ('email','dm','call')),
			template_key TEXT,
			outcome TEXT NOT NULL CHECK (outcome IN ('delivered','replied','clicked','converted')),
			notes TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outreach_plan ON outreach_events(plan_id)`,

		`CREATE TABLE IF NOT EXISTS assets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id INTEGER NOT NULL REFERENCES launch_plans(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			url TEXT,
			linked_task_id INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
			linked_date TEXT,
			notes TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id INTEGER NOT NULL REFERENCES launch_plans(id) ON DELETE CASCADE,
			linked_type TEXT NOT NULL CHECK (linked_type IN ('day','task','kpi','contact')),
			linked_id TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// --- JSON list columns ---

// encodeList stores a string slice as a JSON array; nil becomes "[]".
func encodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeList parses a JSON array column back into a slice, never nil.
func decodeList(raw string) []string {
	items := []string{}
	if raw == "" {
		return items
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	return items
}

// --- SQL dialect fragments ---

// countWhere counts rows matching cond inside an aggregate query.
func countWhere(cond string) string {
	return fmt.Sprintf("sum(case when %s then 1 else 0 end)", cond)
}

// boolOr is true when any row in the group matches cond.
func boolOr(cond string) string {
	return fmt.Sprintf("max(case when %s then 1 else 0 end) = 1", cond)
}

// placeholders returns "?,?,..." for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, n*2-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}
