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

// Package chooser resolves user supplied file names into validated paths,
// starting from and updating the remembered folder.
package chooser

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/contentxfer/pkg/folder"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrNoName       = errors.Base("no file name given")
	ErrNotFound     = errors.Base("file does not exist")
	ErrIsDirectory  = errors.Base("path is a directory")
	ErrNotDirectory = errors.Base("path is not a directory")
	ErrNotRegular   = errors.Base("not a regular file")
	ErrNoParent     = errors.Base("parent directory does not exist")
	ErrFiltered     = errors.Base("file does not match any filter")
)

// 🗂️ Chooser picks files relative to the remembered folder
type Chooser struct {
	folders *folder.Memory
	filters []string
}

// New creates a chooser. filters are doublestar globs an opened file must
// match; patterns without a slash match the base name only.
func New(folders *folder.Memory, filters []string) (*Chooser, error) {
	for _, f := range filters {
		if !doublestar.ValidatePattern(f) {
			return nil, errors.Errorf("invalid filter pattern %q", f)
		}
	}
	return &Chooser{folders: folders, filters: filters}, nil
}

// Open returns the absolute path of an existing regular file and
// remembers its directory
func (c *Chooser) Open(ctx context.Context, name string) (string, error) {
	path, err := c.resolve(name)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Errorf("%s: %w", path, ErrNotFound)
		}
		return "", errors.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return "", errors.Errorf("%s: %w", path, ErrIsDirectory)
	}
	if !info.Mode().IsRegular() {
		return "", errors.Errorf("%s: %w", path, ErrNotRegular)
	}

	if !c.matches(path) {
		return "", errors.Errorf("%s: %w", path, ErrFiltered)
	}

	c.remember(ctx, filepath.Dir(path))
	return path, nil
}

// Save returns the absolute destination path for name. The file may not
// exist yet, its parent directory must.
func (c *Chooser) Save(ctx context.Context, name string) (string, error) {
	path, err := c.resolve(name)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", errors.Errorf("%s: %w", dir, ErrNoParent)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "", errors.Errorf("%s: %w", path, ErrIsDirectory)
	}

	c.remember(ctx, dir)
	return path, nil
}

// Directory picks an output folder. An empty current starts from the
// remembered folder.
func (c *Chooser) Directory(ctx context.Context, current string) (string, error) {
	if current == "" {
		current = c.folders.Get()
	}
	path, err := c.resolve(current)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Errorf("%s: %w", path, ErrNotFound)
		}
		return "", errors.Errorf("checking %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", errors.Errorf("%s: %w", path, ErrNotDirectory)
	}

	c.remember(ctx, path)
	return path, nil
}

func (c *Chooser) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNoName
	}
	if strings.HasPrefix(name, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			name = filepath.Join(home, name[2:])
		}
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(c.folders.Get(), name)
	}
	return filepath.Clean(name), nil
}

func (c *Chooser) matches(path string) bool {
	if len(c.filters) == 0 {
		return true
	}
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, f := range c.filters {
		target := base
		switch {
		case strings.HasPrefix(f, "/"):
			target = slashed
		case strings.Contains(f, "/"):
			// relative path patterns may match at any depth
			f = "**/" + f
			target = strings.TrimPrefix(slashed, "/")
		}
		if ok, _ := doublestar.Match(f, target); ok {
			return true
		}
	}
	return false
}

func (c *Chooser) remember(ctx context.Context, dir string) {
	zerolog.Ctx(ctx).Debug().Str("folder", dir).Msg("remembering folder")
	c.folders.Set(ctx, dir)
}
