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

// Package github exposes files in GitHub repositories as read-only content values.
package github

import (
	"context"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/contentxfer/pkg/content"
	"github.com/walteh/contentxfer/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrReadOnly      = errors.Base("github values are read-only")
	ErrNotAFile      = errors.Base("path is not a file")
	ErrInvalidSource = errors.Base("invalid github source")
)

// 🔗 Source points at one file: owner/repo/path[@ref]
type Source struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
}

// ParseSource parses owner/repo/path[@ref]
func ParseSource(s string) (Source, error) {
	var src Source
	raw := strings.TrimSpace(s)
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		src.Ref = raw[i+1:]
		raw = raw[:i]
		if src.Ref == "" {
			return Source{}, errors.Errorf("%q: empty ref: %w", s, ErrInvalidSource)
		}
	}

	parts := strings.SplitN(strings.Trim(raw, "/"), "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Source{}, errors.Errorf("%q: want owner/repo/path[@ref]: %w", s, ErrInvalidSource)
	}
	src.Owner, src.Repo, src.Path = parts[0], parts[1], parts[2]
	return src, nil
}

func (s Source) String() string {
	out := s.Owner + "/" + s.Repo + "/" + s.Path
	if s.Ref != "" {
		out += "@" + s.Ref
	}
	return out
}

// 🏭 NewClient creates a GitHub client. The token falls back to GITHUB_TOKEN;
// without one requests are anonymous.
func NewClient(token string) *github.Client {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	client := github.NewClient(http.DefaultClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return client
}

// 📄 Value is a file in a repository. It can be exported, not imported into.
type Value struct {
	client *github.Client
	source Source
}

var _ content.Content = (*Value)(nil)

// NewValue creates a value for source
func NewValue(client *github.Client, source Source) *Value {
	return &Value{client: client, source: source}
}

// Name is the file's base name, used as the default save name
func (v *Value) Name() string {
	return path.Base(v.source.Path)
}

func (v *Value) ContentType() string {
	return content.TypeForName(v.source.Path)
}

// Source returns where the value lives
func (v *Value) Source() Source {
	return v.source
}

// Contents fetches the file through the contents API
func (v *Value) Contents(ctx context.Context, mon status.Monitor) (content.Storage, error) {
	if mon == nil {
		mon = status.Nop()
	}
	logger := zerolog.Ctx(ctx).With().Str("source", v.source.String()).Logger()

	mon.StartOperation(ctx, "fetch "+v.source.String(), -1)
	defer mon.FinishOperation(ctx)

	logger.Debug().Msg("fetching remote content")

	file, dir, _, err := v.client.Repositories.GetContents(ctx, v.source.Owner, v.source.Repo, v.source.Path, &github.RepositoryContentGetOptions{
		Ref: v.source.Ref,
	})
	if err != nil {
		return nil, errors.Errorf("getting file content: %w", err)
	}
	if file == nil || dir != nil {
		return nil, errors.Errorf("%s: %w", v.source, ErrNotAFile)
	}

	data, err := file.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}
	mon.UpdateProgress(ctx, int64(len(data)))

	logger.Debug().Int("size", len(data)).Str("sha", file.GetSHA()).Msg("fetched remote content")

	return content.NewMemoryStorage([]byte(data), content.ClassifyType(v.ContentType())), nil
}

// UpdateContents always fails; s is released
func (v *Value) UpdateContents(ctx context.Context, mon status.Monitor, s content.Storage) error {
	if s != nil {
		s.Release()
	}
	return errors.Errorf("%s: %w", v.source, ErrReadOnly)
}
