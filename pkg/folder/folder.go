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

// Package folder remembers the directory the user last picked a file from.
package folder

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/contentxfer/pkg/settings"
)

// Key is the settings key the last used folder is stored under
const Key = "dialog.default.folder"

// 📁 Memory holds the last used folder. It is read before a chooser opens
// and written after a chooser returns.
type Memory struct {
	store settings.Store

	mu   sync.RWMutex
	path string
}

// Load reads the last used folder from the store, falling back to the
// user's home directory when unset or unreadable.
func Load(ctx context.Context, store settings.Store) *Memory {
	logger := zerolog.Ctx(ctx)

	m := &Memory{store: store}

	path, ok, err := store.Get(ctx, Key)
	if err != nil {
		logger.Warn().Err(err).Str("key", Key).Msg("reading default folder, using home directory")
	}
	if err != nil || !ok || path == "" {
		path = homeDir(ctx)
	}

	m.path = path
	return m
}

// Get returns the remembered folder
func (m *Memory) Get() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Set remembers path and writes it through to the store. Store errors are
// logged; the in-memory value is updated either way.
func (m *Memory) Set(ctx context.Context, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.path = path
	if err := m.store.Set(ctx, Key, path); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("path", path).Msg("persisting default folder")
		return
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("default folder updated")
}

func homeDir(ctx context.Context) string {
	home, err := os.UserHomeDir()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("resolving home directory")
		return "."
	}
	return home
}
