package content

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/walteh/contentxfer/pkg/status"
)

// MemoryStorage holds a payload in memory
type MemoryStorage struct {
	kind    Kind
	charset string

	mu       sync.RWMutex
	data     []byte
	released bool
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates a storage over data. Text storages are UTF-8.
func NewMemoryStorage(data []byte, kind Kind) *MemoryStorage {
	s := &MemoryStorage{kind: kind, data: data}
	if kind == KindText {
		s.charset = DefaultCharset
	}
	return s
}

func (s *MemoryStorage) Kind() Kind      { return s.kind }
func (s *MemoryStorage) Charset() string { return s.charset }

func (s *MemoryStorage) Length(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.released {
		return 0, ErrReleased
	}
	return int64(len(s.data)), nil
}

func (s *MemoryStorage) Stream(ctx context.Context) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.released {
		return nil, ErrReleased
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *MemoryStorage) TextReader(ctx context.Context) (io.ReadCloser, error) {
	raw, err := s.Stream(ctx)
	if err != nil {
		return nil, err
	}
	return decodeReader(raw, s.charset)
}

func (s *MemoryStorage) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	s.data = nil
	return nil
}

// 🧠 MemoryValue is a Content held entirely in memory
type MemoryValue struct {
	name        string
	contentType string
	bufferSize  int

	mu      sync.RWMutex
	storage *MemoryStorage
}

var _ Content = (*MemoryValue)(nil)

// NewMemoryValue creates a value with an initial payload
func NewMemoryValue(name, contentType string, data []byte) *MemoryValue {
	return &MemoryValue{
		name:        name,
		contentType: contentType,
		bufferSize:  DefaultBufferSize,
		storage:     NewMemoryStorage(data, ClassifyType(contentType)),
	}
}

func (v *MemoryValue) Name() string        { return v.name }
func (v *MemoryValue) ContentType() string { return v.contentType }

func (v *MemoryValue) Contents(ctx context.Context, mon status.Monitor) (Storage, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.storage, nil
}

// UpdateContents reads s to the end and swaps it in. s is released once consumed.
func (v *MemoryValue) UpdateContents(ctx context.Context, mon status.Monitor, s Storage) error {
	data, err := ReadAll(ctx, mon, s, ClassifyType(v.contentType), v.bufferSize)
	if err != nil {
		return err
	}

	next := NewMemoryStorage(data, ClassifyType(v.contentType))
	v.mu.Lock()
	prev := v.storage
	v.storage = next
	v.mu.Unlock()

	if prev != nil {
		prev.Release()
	}
	return s.Release()
}

// Bytes returns a copy of the current payload
func (v *MemoryValue) Bytes() []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	v.storage.mu.RLock()
	defer v.storage.mu.RUnlock()
	return bytes.Clone(v.storage.data)
}

// Storage returns the storage currently attached
func (v *MemoryValue) Storage() Storage {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.storage
}
