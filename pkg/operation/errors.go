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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 🚨 Outcome sentinels. Match them with errors.Is.
var (
	// ErrUnsupportedValue means the value carries no content. Not retryable;
	// no file should be chosen for it.
	ErrUnsupportedValue = errors.Base("value does not carry content")
	// ErrStorageOpen means a source or destination could not be opened.
	// Retryable with another path.
	ErrStorageOpen = errors.Base("could not open storage")
	// ErrTransferFailed means I/O failed mid-copy. Retryable.
	ErrTransferFailed = errors.Base("transfer failed")
	// ErrCancelled means the transfer was stopped on request. Not a failure.
	ErrCancelled = errors.Base("transfer cancelled")
	// ErrBusy means another transfer for the same value is still running
	ErrBusy = errors.Base("transfer already in flight")
)

// 📊 ErrorKind classifies a TransferError
type ErrorKind int

const (
	KindTransferFailed ErrorKind = iota
	KindUnsupportedValue
	KindStorageOpen
	KindCancelled
)

// String returns a string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedValue:
		return "unsupported_value"
	case KindStorageOpen:
		return "storage_open"
	case KindCancelled:
		return "cancelled"
	default:
		return "transfer_failed"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindUnsupportedValue:
		return ErrUnsupportedValue
	case KindStorageOpen:
		return ErrStorageOpen
	case KindCancelled:
		return ErrCancelled
	default:
		return ErrTransferFailed
	}
}

// Retryable reports whether choosing another path or trying again can help
func (k ErrorKind) Retryable() bool {
	return k == KindStorageOpen || k == KindTransferFailed
}

// 🚨 TransferError is the single error type returned by Import and Export
type TransferError struct {
	Kind      ErrorKind
	Direction Direction
	Value     string // display name of the value
	Path      string // file on the other side of the transfer
	Err       error  // underlying cause, may be nil
}

func (e *TransferError) Error() string {
	msg := fmt.Sprintf("%s %q <-> %s: %s", e.Direction, e.Value, e.Path, e.Kind.sentinel())
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind
func (e *TransferError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// IsCancelled reports whether err is a cancelled outcome
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// KindOf returns the kind of a transfer error, false for any other error
func KindOf(err error) (ErrorKind, bool) {
	var te *TransferError
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}

// failure builds a TransferError, promoting context cancellation to KindCancelled
func failure(ctx context.Context, kind ErrorKind, dir Direction, value, path string, err error) *TransferError {
	if kind != KindUnsupportedValue && isContextDone(ctx, err) {
		kind = KindCancelled
	}
	return &TransferError{
		Kind:      kind,
		Direction: dir,
		Value:     value,
		Path:      path,
		Err:       err,
	}
}

func isContextDone(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return ctx.Err() != nil
}
