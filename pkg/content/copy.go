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
	"bytes"
	"context"
	"io"

	"github.com/walteh/contentxfer/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// DefaultBufferSize is the chunk size of a streaming copy
const DefaultBufferSize = 64 * 1024

// 🔄 Copy streams src into dst one buffer at a time. The context is checked
// before every read, so a cancelled transfer stops after at most one buffer.
func Copy(ctx context.Context, mon status.Monitor, dst io.Writer, src io.Reader, bufSize int) (int64, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	if mon == nil {
		mon = status.Nop()
	}

	buf := make([]byte, bufSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, errors.Errorf("copy interrupted after %d bytes: %w", written, err)
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, errors.Errorf("writing: %w", werr)
			}
			if wn != n {
				return written, errors.Errorf("writing: %w", io.ErrShortWrite)
			}
			mon.UpdateProgress(ctx, written)
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, errors.Errorf("reading: %w", rerr)
		}
	}
}

// 📥 ReadAll reads a storage to the end as kind. Text is returned as UTF-8
// characters, binary as the raw bytes.
func ReadAll(ctx context.Context, mon status.Monitor, s Storage, kind Kind, bufSize int) ([]byte, error) {
	if mon == nil {
		mon = status.Nop()
	}

	r, err := OpenReader(ctx, s, kind)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	total, err := s.Length(ctx)
	if err != nil {
		total = -1
	}

	mon.StartOperation(ctx, "read "+kind.String()+" content", total)
	defer mon.FinishOperation(ctx)

	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}
	if _, err := Copy(ctx, mon, &buf, r, bufSize); err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}
	return buf.Bytes(), nil
}

// OpenReader opens the character reader of a text transfer or the byte
// stream of a binary one
func OpenReader(ctx context.Context, s Storage, kind Kind) (io.ReadCloser, error) {
	if kind == KindText {
		r, err := s.TextReader(ctx)
		if err != nil {
			return nil, errors.Errorf("opening content reader: %w", err)
		}
		return r, nil
	}
	r, err := s.Stream(ctx)
	if err != nil {
		return nil, errors.Errorf("opening content stream: %w", err)
	}
	return r, nil
}
