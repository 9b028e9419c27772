// Package offline implements the client-side stores for offline PDF
// access: a SQLite blob store keyed by record id, paired with a local
// catalog copy, kept consistent on every add and remove.
package offline

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	_ "modernc.org/sqlite"
)

var sqlOpen = sql.Open

const blobSchema = `
	CREATE TABLE IF NOT EXISTS blobs (
		id       INTEGER PRIMARY KEY,
		filename TEXT NOT NULL,
		data     BLOB NOT NULL,
		saved_at TIMESTAMP NOT NULL
	)
`

// OpenBlobDB opens (creating if needed) the SQLite blob database at
// path and ensures the schema. Use ":memory:" for an ephemeral store.
func OpenBlobDB(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("blob database path is required")
	}

	// Register the otelsql driver wrapper
	driverName, err := otelsql.Register("sqlite",
		otelsql.WithAttributes(semconv.DBSystemSqlite),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}

	// SQLite allows a single writer; a second connection would only
	// trade errors for lock contention.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, blobSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure blob schema: %w", err)
	}

	return db, nil
}
