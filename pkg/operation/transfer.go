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
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/contentxfer/pkg/content"
	"github.com/walteh/contentxfer/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func transferLogger(ctx context.Context, id ulid.ULID, dir Direction, v content.Value, path string) zerolog.Logger {
	return zerolog.Ctx(ctx).With().
		Str("transfer_id", id.String()).
		Stringer("direction", dir).
		Str("value", valueName(v)).
		Str("path", path).
		Logger()
}

// 📥 Import replaces the value's content with the file at path.
//
// The value is only touched by UpdateContents; any failure before or inside
// it leaves the previous storage attached.
func (t *transferer) Import(ctx context.Context, mon status.Monitor, v content.Value, path string) (*Result, error) {
	id := ulid.Make()
	logger := transferLogger(ctx, id, Import, v, path)
	if mon == nil {
		mon = status.Nop()
	}

	c, ok := content.AsContent(v)
	if !ok {
		logger.Error().Msg("bad content value")
		return nil, failure(ctx, KindUnsupportedValue, Import, valueName(v), path, nil)
	}

	kind := content.Classify(c)
	logger.Debug().Stringer("kind", kind).Msg("classified value")

	storage, err := content.OpenFile(path, kind)
	if err != nil {
		logger.Debug().Err(err).Msg("opening source file")
		return nil, failure(ctx, KindStorageOpen, Import, c.Name(), path, err)
	}

	size, err := storage.Length(ctx)
	if err != nil {
		size = -1
	}

	if err := c.UpdateContents(ctx, mon, storage); err != nil {
		// the value did not adopt it
		if rerr := storage.Release(); rerr != nil {
			logger.Debug().Err(rerr).Msg("releasing source file")
		}
		terr := failure(ctx, KindTransferFailed, Import, c.Name(), path, errors.Errorf("updating contents: %w", err))
		logger.Debug().Err(err).Stringer("outcome", terr.Kind).Msg("import stopped")
		return nil, terr
	}

	logger.Debug().Int64("bytes", size).Msg("import complete")
	return &Result{
		ID:        id,
		Direction: Import,
		Value:     c.Name(),
		Path:      path,
		Kind:      kind,
		Bytes:     size,
	}, nil
}

// 📤 Export writes the value's content to the file at path.
//
// The source is acquired before the destination is created, so a value that
// cannot be read never leaves an empty file behind.
func (t *transferer) Export(ctx context.Context, mon status.Monitor, v content.Value, path string) (*Result, error) {
	id := ulid.Make()
	logger := transferLogger(ctx, id, Export, v, path)
	if mon == nil {
		mon = status.Nop()
	}

	c, ok := content.AsContent(v)
	if !ok {
		logger.Error().Msg("bad content value")
		return nil, failure(ctx, KindUnsupportedValue, Export, valueName(v), path, nil)
	}

	kind := content.Classify(c)
	logger.Debug().Stringer("kind", kind).Msg("classified value")

	storage, err := c.Contents(ctx, mon)
	if err != nil {
		return nil, failure(ctx, KindStorageOpen, Export, c.Name(), path, errors.Errorf("getting contents: %w", err))
	}

	src, err := content.OpenReader(ctx, storage, kind)
	if err != nil {
		return nil, failure(ctx, KindStorageOpen, Export, c.Name(), path, err)
	}
	defer src.Close()

	total, err := storage.Length(ctx)
	if err != nil {
		total = -1
	}

	dst, err := os.Create(path)
	if err != nil {
		return nil, failure(ctx, KindStorageOpen, Export, c.Name(), path, errors.Errorf("creating destination: %w", err))
	}

	mon.StartOperation(ctx, "export "+c.Name(), total)
	written, sum, copyErr := t.writeTo(ctx, mon, dst, src, kind)
	mon.FinishOperation(ctx)

	if cerr := dst.Close(); cerr != nil && copyErr == nil {
		copyErr = errors.Errorf("closing destination: %w", cerr)
	}

	if copyErr != nil {
		t.discardPartial(logger, path)
		terr := failure(ctx, KindTransferFailed, Export, c.Name(), path, copyErr)
		logger.Debug().Err(copyErr).Int64("bytes", written).Stringer("outcome", terr.Kind).Msg("export stopped")
		return nil, terr
	}

	logger.Debug().Int64("bytes", written).Uint64("xxhash", sum).Msg("export complete")
	return &Result{
		ID:        id,
		Direction: Export,
		Value:     c.Name(),
		Path:      path,
		Kind:      kind,
		Bytes:     written,
		Checksum:  sum,
	}, nil
}

// writeTo copies src into dst, encoding characters for text transfers
func (t *transferer) writeTo(ctx context.Context, mon status.Monitor, dst io.Writer, src io.Reader, kind content.Kind) (int64, uint64, error) {
	hasher := xxhash.New()
	counter := &countingWriter{w: io.MultiWriter(dst, hasher)}

	if kind != content.KindText {
		if _, err := content.Copy(ctx, mon, counter, src, t.bufferSize); err != nil {
			return counter.n, hasher.Sum64(), err
		}
		return counter.n, hasher.Sum64(), nil
	}

	ew, err := content.EncodeWriter(counter, content.DefaultCharset)
	if err != nil {
		return 0, 0, err
	}
	_, copyErr := content.Copy(ctx, mon, ew, src, t.bufferSize)
	if cerr := ew.Close(); cerr != nil && copyErr == nil {
		copyErr = errors.Errorf("flushing encoder: %w", cerr)
	}
	return counter.n, hasher.Sum64(), copyErr
}

func (t *transferer) discardPartial(logger zerolog.Logger, path string) {
	if t.partial != PartialRemove {
		logger.Debug().Msg("leaving partial output in place")
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("removing partial output")
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
