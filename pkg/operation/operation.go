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

package operation

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/walteh/contentxfer/pkg/content"
	"github.com/walteh/contentxfer/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔀 Direction of a transfer
type Direction int

const (
	Import Direction = iota // file -> value
	Export                  // value -> file
)

// String returns a string representation of Direction
func (d Direction) String() string {
	if d == Export {
		return "export"
	}
	return "import"
}

// 🧹 PartialPolicy decides what happens to a partly written export file
type PartialPolicy int

const (
	PartialKeep   PartialPolicy = iota // leave whatever was written
	PartialRemove                      // delete the destination file
)

// ParsePartialPolicy parses "keep" or "remove"
func ParsePartialPolicy(s string) (PartialPolicy, error) {
	switch s {
	case "", "keep":
		return PartialKeep, nil
	case "remove":
		return PartialRemove, nil
	default:
		return PartialKeep, errors.Errorf("unknown partial output policy %q", s)
	}
}

// 🎯 Transferer is the single entry point for moving content
type Transferer interface {
	// Import replaces the value's content with the file at path
	Import(ctx context.Context, mon status.Monitor, v content.Value, path string) (*Result, error)
	// Export writes the value's content to the file at path
	Export(ctx context.Context, mon status.Monitor, v content.Value, path string) (*Result, error)
}

// 🔧 Options contains configuration for the transferer
type Options struct {
	// BufferSize is the streaming chunk size, 0 for content.DefaultBufferSize
	BufferSize int
	// Partial decides what happens to the destination of a failed export
	Partial PartialPolicy
}

// 📦 Request is one transfer, handy for callers that queue work
type Request struct {
	Direction Direction
	Path      string
	Value     content.Value
}

// ✅ Result describes a completed transfer
type Result struct {
	ID        ulid.ULID
	Direction Direction
	Value     string
	Path      string
	Kind      content.Kind
	Bytes     int64
	// Checksum is the xxhash64 of the bytes written to the file, export only
	Checksum uint64
}

// 🏭 New creates a new transferer with the given options
func New(opts Options) (Transferer, error) {
	if opts.BufferSize < 0 {
		return nil, errors.Errorf("buffer size must not be negative, got %d", opts.BufferSize)
	}
	if opts.Partial != PartialKeep && opts.Partial != PartialRemove {
		return nil, errors.Errorf("unknown partial output policy %d", opts.Partial)
	}
	if opts.BufferSize == 0 {
		opts.BufferSize = content.DefaultBufferSize
	}
	return &transferer{
		bufferSize: opts.BufferSize,
		partial:    opts.Partial,
	}, nil
}

// 🎮 transferer implements the Transferer interface
type transferer struct {
	bufferSize int
	partial    PartialPolicy
}

// Do runs a request with the matching direction
func Do(ctx context.Context, t Transferer, mon status.Monitor, req Request) (*Result, error) {
	if req.Direction == Export {
		return t.Export(ctx, mon, req.Value, req.Path)
	}
	return t.Import(ctx, mon, req.Value, req.Path)
}

func valueName(v content.Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.Name()
}
