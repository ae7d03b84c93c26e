package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CreateSchema creates the appeals table. Safe to call on every start.
func CreateSchema(conn *sqlx.DB) error {
	schema := postgresSchema
	if conn.DriverName() == "sqlite" {
		schema = sqliteSchema
	}

	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("db.CreateSchema: %w", err)
	}

	return nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS appeals (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    locale TEXT NOT NULL,
    chat_id BIGINT NOT NULL,
    full_name TEXT NOT NULL,
    date_of_birth TEXT NOT NULL,
    region TEXT NOT NULL,
    district TEXT NOT NULL,
    participation_mode TEXT NOT NULL CHECK (participation_mode IN ('offline', 'online')),
    phone TEXT NOT NULL,
    appeal_type TEXT NOT NULL DEFAULT '',
    appeal_text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_appeals_created_at ON appeals(created_at);
CREATE INDEX IF NOT EXISTS idx_appeals_chat_id ON appeals(chat_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS appeals (
    id TEXT PRIMARY KEY,
    created_at DATETIME NOT NULL,
    locale TEXT NOT NULL,
    chat_id INTEGER NOT NULL,
    full_name TEXT NOT NULL,
    date_of_birth TEXT NOT NULL,
    region TEXT NOT NULL,
    district TEXT NOT NULL,
    participation_mode TEXT NOT NULL CHECK (participation_mode IN ('offline', 'online')),
    phone TEXT NOT NULL,
    appeal_type TEXT NOT NULL DEFAULT '',
    appeal_text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_appeals_created_at ON appeals(created_at);
CREATE INDEX IF NOT EXISTS idx_appeals_chat_id ON appeals(chat_id);
`
