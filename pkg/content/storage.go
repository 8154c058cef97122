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

package content

import (
	"context"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultCharset is the encoding of every text transfer
const DefaultCharset = "UTF-8"

var (
	// ErrReleased is returned when a released storage is read
	ErrReleased = errors.Base("storage released")
	// ErrNotRegularFile is returned when a file storage wraps a directory or device
	ErrNotRegularFile = errors.Base("not a regular file")
)

// 💾 Storage is where the bytes of a value live.
//
// Exactly one variant is active per instance: a text storage carries a
// charset, a binary storage does not.
type Storage interface {
	// Kind is the variant of this storage
	Kind() Kind
	// Charset is the character encoding of a text storage, empty for binary
	Charset() string
	// Length is the size of the raw payload in bytes, -1 when unknown
	Length(ctx context.Context) (int64, error)
	// Stream opens the raw bytes
	Stream(ctx context.Context) (io.ReadCloser, error)
	// TextReader opens the payload decoded to UTF-8 characters. A binary
	// storage is decoded as DefaultCharset.
	TextReader(ctx context.Context) (io.ReadCloser, error)
	// Release frees whatever the storage holds. It is safe to call twice.
	Release() error
}

// lookupEncoding resolves a charset name, falling back to DefaultCharset
func lookupEncoding(charset string) (encoding.Encoding, error) {
	if charset == "" {
		charset = DefaultCharset
	}
	enc, err := htmlindex.Get(strings.ToLower(charset))
	if err != nil {
		return nil, errors.Errorf("unknown charset %q: %w", charset, err)
	}
	return enc, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// decodeReader wraps a raw stream so it yields UTF-8 characters
func decodeReader(raw io.ReadCloser, charset string) (io.ReadCloser, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		raw.Close()
		return nil, err
	}
	return readCloser{Reader: enc.NewDecoder().Reader(raw), Closer: raw}, nil
}

type writeCloser struct {
	io.Writer
	close func() error
}

func (w writeCloser) Close() error { return w.close() }

// EncodeWriter wraps w so that UTF-8 characters written to it land in w
// encoded with charset. Close flushes the encoder but does not close w.
func EncodeWriter(w io.Writer, charset string) (io.WriteCloser, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	ew := enc.NewEncoder().Writer(w)
	return writeCloser{
		Writer: ew,
		close: func() error {
			if c, ok := ew.(io.Closer); ok {
				return c.Close()
			}
			return nil
		},
	}, nil
}
