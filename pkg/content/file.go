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
	"os"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// 📄 FileStorage wraps an existing file chosen by the user. The file is
// opened when the storage is built and stays open until Release.
type FileStorage struct {
	path    string
	kind    Kind
	charset string

	mu   sync.Mutex
	file *os.File
	size int64
}

var _ Storage = (*FileStorage)(nil)

// 🏭 OpenFile wraps path as a storage of the given kind. Text storages use
// DefaultCharset.
func OpenFile(path string, kind Kind) (*FileStorage, error) {
	if kind == KindText {
		return NewTextFileStorage(path, DefaultCharset)
	}
	return NewBinaryFileStorage(path)
}

// NewTextFileStorage wraps path as text in charset
func NewTextFileStorage(path string, charset string) (*FileStorage, error) {
	if _, err := lookupEncoding(charset); err != nil {
		return nil, err
	}
	s, err := openFileStorage(path)
	if err != nil {
		return nil, err
	}
	s.kind = KindText
	s.charset = charset
	return s, nil
}

// NewBinaryFileStorage wraps path as raw bytes
func NewBinaryFileStorage(path string) (*FileStorage, error) {
	s, err := openFileStorage(path)
	if err != nil {
		return nil, err
	}
	s.kind = KindBinary
	return s, nil
}

func openFileStorage(path string) (*FileStorage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, errors.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	return &FileStorage{
		path: path,
		file: f,
		size: info.Size(),
	}, nil
}

// Path returns the wrapped file path
func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) Kind() Kind {
	return s.kind
}

func (s *FileStorage) Charset() string {
	return s.charset
}

func (s *FileStorage) Length(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return 0, ErrReleased
	}
	return s.size, nil
}

// Stream returns an independent reader over the whole file. Closing it does
// not release the storage.
func (s *FileStorage) Stream(ctx context.Context) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil, errors.Errorf("%s: %w", s.path, ErrReleased)
	}
	return io.NopCloser(io.NewSectionReader(s.file, 0, s.size)), nil
}

func (s *FileStorage) TextReader(ctx context.Context) (io.ReadCloser, error) {
	raw, err := s.Stream(ctx)
	if err != nil {
		return nil, err
	}
	return decodeReader(raw, s.charset)
}

func (s *FileStorage) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return errors.Errorf("closing %s: %w", s.path, err)
	}
	return nil
}
