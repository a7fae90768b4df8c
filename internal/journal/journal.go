// Package journal records successful service starts in SQLite.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"bootd/internal/platform/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Boot is one successful start of the service.
type Boot struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Addr      string    `json:"addr"`
	Env       string    `json:"env"`
	PID       int       `json:"pid"`
}

// Journal stores Boot records.
type Journal struct {
	db *sql.DB
}

// Migrate brings the schema of the database file at path up to date.
func Migrate(path string) (uint, error) {
	return sqlite.Migrate(path, migrations, "migrations")
}

// New wraps an already migrated database.
func New(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Record stores b and returns its id.
func (j *Journal) Record(ctx context.Context, b Boot) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		"INSERT INTO boots (started_at, addr, env, pid) VALUES (?, ?, ?, ?)",
		b.StartedAt.UTC(), b.Addr, b.Env, b.PID)
	if err != nil {
		return 0, fmt.Errorf("record boot: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit boots, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Boot, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, started_at, addr, env, pid FROM boots ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list boots: %w", err)
	}
	defer rows.Close()

	var out []Boot
	for rows.Next() {
		var b Boot
		if err := rows.Scan(&b.ID, &b.StartedAt, &b.Addr, &b.Env, &b.PID); err != nil {
			return nil, fmt.Errorf("scan boot: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
