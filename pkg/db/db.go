// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package db opens the sqlite database that holds content values and settings
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// 🗄️ Open opens (and creates if needed) the database at path and migrates it
func Open(ctx context.Context, path string) (*sql.DB, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("opening database")

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Errorf("creating database directory: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Errorf("opening database: %w", err)
	}

	if err := verifyWALMode(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// migrate applies schema migrations based on user_version
func migrate(ctx context.Context, db *sql.DB) error {
	version, err := UserVersion(ctx, db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS contents (
		  name         TEXT PRIMARY KEY,
		  content_type TEXT NOT NULL,
		  data         BLOB NOT NULL DEFAULT x'',
		  size         INTEGER NOT NULL DEFAULT 0,
		  created_at   INTEGER NOT NULL,
		  updated_at   INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS settings (
		  key   TEXT PRIMARY KEY,
		  value TEXT NOT NULL
		);
		`
		if _, err := db.ExecContext(ctx, schema); err != nil {
			return errors.Errorf("migration 1: %w", err)
		}
		if err := setUserVersion(ctx, db, 1); err != nil {
			return err
		}
	}

	return nil
}

func verifyWALMode(ctx context.Context, db *sql.DB) error {
	var journalMode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return errors.Errorf("verifying journal mode: %w", err)
	}
	if journalMode != "wal" {
		return errors.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// UserVersion returns the current schema version (user_version pragma)
func UserVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&version); err != nil {
		return 0, errors.Errorf("getting user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(ctx context.Context, db *sql.DB, version int) error {
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return errors.Errorf("setting user_version: %w", err)
	}
	return nil
}
