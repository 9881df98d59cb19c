package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type migration struct {
	version int
	stmts   []string
}

// {{TIME}} is replaced with the dialect's timestamp column type.
var migrations = []migration{
	{
		version: 1,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS compounds (
				id                TEXT PRIMARY KEY,
				slug              TEXT NOT NULL UNIQUE,
				name              TEXT NOT NULL,
				description       TEXT NOT NULL DEFAULT '',
				routes            TEXT NOT NULL DEFAULT '[]',
				tags              TEXT NOT NULL DEFAULT '[]',
				typical_dose_min  DOUBLE PRECISION NOT NULL DEFAULT 0,
				typical_dose_max  DOUBLE PRECISION NOT NULL DEFAULT 0,
				dose_unit         TEXT NOT NULL DEFAULT '',
				half_life_hours   DOUBLE PRECISION,
				default_frequency TEXT NOT NULL DEFAULT '',
				created_at        {{TIME}} NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS dose_events (
				id               TEXT PRIMARY KEY,
				user_id          TEXT NOT NULL,
				compound_id      TEXT NOT NULL REFERENCES compounds(id),
				protocol_item_id TEXT NOT NULL DEFAULT '',
				logged_at        {{TIME}} NOT NULL,
				amount           DOUBLE PRECISION NOT NULL,
				unit             TEXT NOT NULL DEFAULT '',
				route            TEXT NOT NULL DEFAULT '',
				injection_site   TEXT NOT NULL DEFAULT '',
				lot_number       TEXT NOT NULL DEFAULT '',
				provider         TEXT NOT NULL DEFAULT '',
				notes            TEXT NOT NULL DEFAULT '',
				created_at       {{TIME}} NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_dose_events_user_logged ON dose_events (user_id, logged_at)`,
			`CREATE TABLE IF NOT EXISTS protocols (
				id              TEXT PRIMARY KEY,
				user_id         TEXT NOT NULL,
				name            TEXT NOT NULL,
				active          BOOLEAN NOT NULL DEFAULT FALSE,
				start_date      TEXT,
				end_date        TEXT,
				cycle_on_weeks  INTEGER,
				cycle_off_weeks INTEGER,
				notes           TEXT NOT NULL DEFAULT '',
				created_at      {{TIME}} NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_protocols_user ON protocols (user_id)`,
			`CREATE TABLE IF NOT EXISTS protocol_items (
				id             TEXT PRIMARY KEY,
				protocol_id    TEXT NOT NULL REFERENCES protocols(id) ON DELETE CASCADE,
				position       INTEGER NOT NULL,
				compound_id    TEXT NOT NULL DEFAULT '',
				custom_name    TEXT NOT NULL DEFAULT '',
				dose_amount    DOUBLE PRECISION NOT NULL,
				dose_unit      TEXT NOT NULL DEFAULT '',
				route          TEXT NOT NULL DEFAULT '',
				frequency      TEXT NOT NULL,
				frequency_days TEXT NOT NULL DEFAULT '[]',
				preferred_time TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS idx_protocol_items_protocol ON protocol_items (protocol_id, position)`,
			`CREATE TABLE IF NOT EXISTS wellness_entries (
				id            TEXT PRIMARY KEY,
				user_id       TEXT NOT NULL,
				entry_date    TEXT NOT NULL,
				sleep_quality INTEGER,
				energy_level  INTEGER,
				mood          INTEGER,
				weight_kg     DOUBLE PRECISION,
				side_effects  TEXT NOT NULL DEFAULT '[]',
				notes         TEXT NOT NULL DEFAULT '',
				created_at    {{TIME}} NOT NULL,
				updated_at    {{TIME}} NOT NULL,
				UNIQUE (user_id, entry_date)
			)`,
		},
	},
}

// Migrate applies pending migrations and returns how many ran.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	if _, err := db.exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at `+db.dialect.timeType+` NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("sqlstore: schema_migrations: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		var n int
		if err := db.queryRow(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, m.version).Scan(&n); err != nil {
			return applied, err
		}
		if n > 0 {
			continue
		}

		err := db.inTx(ctx, func(tx *sql.Tx) error {
			for _, stmt := range m.stmts {
				stmt = strings.ReplaceAll(stmt, "{{TIME}}", db.dialect.timeType)
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx, db.dialect.rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`),
				m.version, db.t(time.Now()))
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("sqlstore: migration %d: %w", m.version, err)
		}
		applied++
	}
	return applied, nil
}
