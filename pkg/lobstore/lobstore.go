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

// Package lobstore keeps named large object values in the contents table.
package lobstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/contentxfer/pkg/content"
	"github.com/walteh/contentxfer/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrNotFound = errors.Base("value not found")
	ErrExists   = errors.Base("value already exists")
)

// 💾 Store reads and writes values in sqlite
type Store struct {
	db         *sql.DB
	bufferSize int
}

// Info describes a stored value without loading its payload
type Info struct {
	Name        string
	ContentType string
	Size        int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Kind classifies the stored content type
func (i Info) Kind() content.Kind {
	return content.ClassifyType(i.ContentType)
}

// New creates a store over a database opened with db.Open
func New(db *sql.DB, bufferSize int) *Store {
	if bufferSize <= 0 {
		bufferSize = content.DefaultBufferSize
	}
	return &Store{db: db, bufferSize: bufferSize}
}

// Create inserts a new value
func (s *Store) Create(ctx context.Context, name, contentType string, data []byte) (*Value, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("value name must not be empty")
	}
	if data == nil {
		data = []byte{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Errorf("creating value %s: %w", name, err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM contents WHERE name = ?", name).Scan(&exists); err != nil {
		return nil, errors.Errorf("creating value %s: %w", name, err)
	}
	if exists > 0 {
		return nil, errors.Errorf("%s: %w", name, ErrExists)
	}

	now := time.Now().UnixMilli()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO contents (name, content_type, data, size, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, name, contentType, data, len(data), now, now)
	if err != nil {
		return nil, errors.Errorf("creating value %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Errorf("creating value %s: %w", name, err)
	}

	zerolog.Ctx(ctx).Debug().Str("value", name).Str("content_type", contentType).Int("size", len(data)).Msg("value created")
	return &Value{store: s, name: name, contentType: contentType}, nil
}

// Get returns a handle to an existing value
func (s *Store) Get(ctx context.Context, name string) (*Value, error) {
	info, err := s.info(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Value{store: s, name: info.Name, contentType: info.ContentType}, nil
}

// List returns all values ordered by name
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, content_type, size, created_at, updated_at
		FROM contents ORDER BY name
	`)
	if err != nil {
		return nil, errors.Errorf("listing values: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("listing values: %w", err)
	}
	return out, nil
}

// Delete removes a value
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM contents WHERE name = ?", name)
	if err != nil {
		return errors.Errorf("deleting value %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Errorf("deleting value %s: %w", name, err)
	}
	if n == 0 {
		return errors.Errorf("%s: %w", name, ErrNotFound)
	}
	return nil
}

func (s *Store) info(ctx context.Context, name string) (Info, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, content_type, size, created_at, updated_at
		FROM contents WHERE name = ?
	`, name)
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, errors.Errorf("%s: %w", name, ErrNotFound)
	}
	return info, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(row scanner) (Info, error) {
	var (
		info             Info
		created, updated int64
	)
	if err := row.Scan(&info.Name, &info.ContentType, &info.Size, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Info{}, err
		}
		return Info{}, errors.Errorf("scanning value: %w", err)
	}
	info.CreatedAt = time.UnixMilli(created)
	info.UpdatedAt = time.UnixMilli(updated)
	return info, nil
}

// 📦 Value is a stored value that can take part in transfers
type Value struct {
	store       *Store
	name        string
	contentType string
}

var _ content.Content = (*Value)(nil)

func (v *Value) Name() string        { return v.name }
func (v *Value) ContentType() string { return v.contentType }

// Contents loads the payload into memory. The fetch is reported to mon.
func (v *Value) Contents(ctx context.Context, mon status.Monitor) (content.Storage, error) {
	if mon == nil {
		mon = status.Nop()
	}

	info, err := v.store.info(ctx, v.name)
	if err != nil {
		return nil, err
	}

	mon.StartOperation(ctx, "fetch "+v.name, info.Size)
	defer mon.FinishOperation(ctx)

	var data []byte
	err = v.store.db.QueryRowContext(ctx, "SELECT data FROM contents WHERE name = ?", v.name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Errorf("%s: %w", v.name, ErrNotFound)
	}
	if err != nil {
		return nil, errors.Errorf("fetching value %s: %w", v.name, err)
	}
	mon.UpdateProgress(ctx, int64(len(data)))

	return content.NewMemoryStorage(data, content.ClassifyType(v.contentType)), nil
}

// UpdateContents reads s to the end and commits it with a single UPDATE.
// The stored payload is untouched if reading fails or is cancelled.
func (v *Value) UpdateContents(ctx context.Context, mon status.Monitor, s content.Storage) error {
	data, err := content.ReadAll(ctx, mon, s, content.ClassifyType(v.contentType), v.store.bufferSize)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("updating value %s: %w", v.name, err)
	}

	res, err := v.store.db.ExecContext(ctx, `
		UPDATE contents SET data = ?, size = ?, updated_at = ? WHERE name = ?
	`, data, len(data), time.Now().UnixMilli(), v.name)
	if err != nil {
		return errors.Errorf("updating value %s: %w", v.name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Errorf("%s: %w", v.name, ErrNotFound)
	}

	return s.Release()
}
