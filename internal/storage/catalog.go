/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "draftview/internal/log"
	"draftview/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	CatalogFileName = "catalog.sqlite"

	// catalogSchemaVersion tracks the local SQLite schema. Bump on breaking
	// changes and extend ensureCatalogSchema accordingly.
	catalogSchemaVersion = 1
)

// DefaultCatalogDir returns the per-user directory holding the catalog database.
func DefaultCatalogDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "draftview"), nil
}

// OpenCatalog opens (creating if needed) the SQLite catalog in dir, enables
// WAL mode, and ensures the schema exists. Callers close the returned DB.
func OpenCatalog(dir string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "catalog_open").With(
		slog.String("dir", dir),
	)
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("catalog dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.Error("create catalog dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}

	path := filepath.Join(dir, CatalogFileName)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureCatalogSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure catalog schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("catalog ready", slog.String("path", path))
	return db, nil
}

func ensureCatalogSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recents (
			path       TEXT PRIMARY KEY,
			opened_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS save_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			path          TEXT NOT NULL,
			saved_at      TEXT NOT NULL,
			entity_count  INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_save_history_path ON save_history(path, saved_at DESC);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES('schema', ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		fmt.Sprintf("%d", catalogSchemaVersion)); err != nil {
		return fmt.Errorf("seed schema version: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES('app', ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		version.String()); err != nil {
		return fmt.Errorf("seed app version: %w", err)
	}
	return nil
}

// RecordOpen upserts a drawing path into the recents list.
func RecordOpen(ctx context.Context, db *sql.DB, path string, ts time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO recents(path, opened_at) VALUES(?, ?)
		 ON CONFLICT(path) DO UPDATE SET opened_at=excluded.opened_at`,
		path, ts.UTC().Format(time.RFC3339Nano))
	return err
}

// RecentDrawings returns up to limit paths, most recently opened first.
func RecentDrawings(ctx context.Context, db *sql.DB, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.QueryContext(ctx,
		`SELECT path FROM recents ORDER BY opened_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecordSave appends a save event for a drawing.
func RecordSave(ctx context.Context, db *sql.DB, path string, entityCount int, ts time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO save_history(path, saved_at, entity_count) VALUES(?, ?, ?)`,
		path, ts.UTC().Format(time.RFC3339Nano), entityCount)
	return err
}

// SaveEvent is one row of a drawing's save history.
type SaveEvent struct {
	SavedAt     time.Time
	EntityCount int
}

// SaveHistory returns up to limit save events for a path, newest first.
func SaveHistory(ctx context.Context, db *sql.DB, path string, limit int) ([]SaveEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx,
		`SELECT saved_at, entity_count FROM save_history WHERE path = ? ORDER BY saved_at DESC LIMIT ?`,
		path, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []SaveEvent
	for rows.Next() {
		var tsStr string
		var ev SaveEvent
		if err := rows.Scan(&tsStr, &ev.EntityCount); err != nil {
			return nil, err
		}
		ev.SavedAt, _ = time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// PruneSaveHistory keeps at most keepLast save events per path.
func PruneSaveHistory(ctx context.Context, db *sql.DB, path string, keepLast int) (int64, error) {
	if keepLast <= 0 {
		return 0, nil
	}
	res, err := db.ExecContext(ctx,
		`DELETE FROM save_history WHERE path = ? AND id NOT IN (
			SELECT id FROM save_history WHERE path = ? ORDER BY saved_at DESC LIMIT ?
		)`, path, path, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
