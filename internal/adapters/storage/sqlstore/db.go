package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DB is a pool bound to its dialect. Repositories share one DB.
type DB struct {
	*sql.DB
	dialect Dialect
}

func (db *DB) Dialect() Dialect { return db.dialect }

// Open connects and pings. For sqlite, dsn is a file path.
func Open(ctx context.Context, d Dialect, dsn string) (*DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("sqlstore: empty dsn for %s", d.Name)
	}
	if d.Name == SQLite.Name {
		var err error
		if dsn, err = sqliteDSN(dsn); err != nil {
			return nil, err
		}
	}

	raw, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}

	if d.Name == SQLite.Name {
		// single writer; WAL lets readers through
		raw.SetMaxOpenConns(1)
	} else {
		raw.SetMaxOpenConns(10)
		raw.SetMaxIdleConns(5)
		raw.SetConnMaxIdleTime(5 * time.Minute)
		raw.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := raw.PingContext(pingCtx); err != nil {
		_ = raw.Close()
		return nil, err
	}

	return &DB{DB: raw, dialect: d}, nil
}

func sqliteDSN(path string) (string, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("sqlstore: create dir: %w", err)
			}
		}
	}
	return path + "?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", nil
}

func (db *DB) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return db.ExecContext(ctx, db.dialect.rebind(q), args...)
}

func (db *DB) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return db.QueryContext(ctx, db.dialect.rebind(q), args...)
}

func (db *DB) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return db.QueryRowContext(ctx, db.dialect.rebind(q), args...)
}

func (db *DB) t(v time.Time) any { return db.dialect.timeArg(v) }

// inTx runs fn in a transaction, rolling back on error.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
