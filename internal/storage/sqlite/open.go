package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Config struct {
	Path string
}

func Open(cfg Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL DEFAULT '',
			query TEXT NOT NULL,
			filters TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			search_id TEXT NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			snippet TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT 'Unknown',
			language TEXT NOT NULL DEFAULT 'Unknown',
			date TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT 'Web',
			status TEXT NOT NULL DEFAULT 'Activo',
			source TEXT NOT NULL DEFAULT 'Unknown',
			score INTEGER NOT NULL DEFAULT 0,
			metadata TEXT,
			created_at TEXT NOT NULL,
			UNIQUE (search_id, url),
			FOREIGN KEY (search_id) REFERENCES searches(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS columns (
			id TEXT PRIMARY KEY,
			search_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			generated_by_ai INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			FOREIGN KEY (search_id) REFERENCES searches(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS column_values (
			id TEXT PRIMARY KEY,
			column_id TEXT NOT NULL,
			result_id TEXT NOT NULL,
			value TEXT,
			created_at TEXT NOT NULL,
			FOREIGN KEY (column_id) REFERENCES columns(id) ON DELETE CASCADE,
			FOREIGN KEY (result_id) REFERENCES results(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS automations (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL DEFAULT '',
			search_id TEXT NOT NULL,
			frequency TEXT NOT NULL,
			last_run TEXT,
			next_run TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			FOREIGN KEY (search_id) REFERENCES searches(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_searches_owner_created ON searches(owner, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_automations_due ON automations(is_active, next_run);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
