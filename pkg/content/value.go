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

	"github.com/walteh/contentxfer/pkg/status"
)

// 🎯 Value is anything a viewer holds in a cell
type Value interface {
	// Name is the display name, only used for UI and diagnostics
	Name() string
}

// 📦 Content is a Value that carries a transferable payload.
//
// A Content exclusively owns its current Storage. Callers must not run two
// transfers against the same Content at once.
type Content interface {
	Value

	// ContentType is the media type of the payload, used for classification
	ContentType() string

	// Contents returns the current storage. This may fetch the payload from
	// a remote source and reports progress on mon.
	Contents(ctx context.Context, mon status.Monitor) (Storage, error)

	// UpdateContents replaces the current storage with s. It is the only
	// mutation point of a transfer: on error the previous storage stays
	// attached. On success the value owns s.
	UpdateContents(ctx context.Context, mon status.Monitor, s Storage) error
}

// AsContent reports whether v carries a payload
func AsContent(v Value) (Content, bool) {
	if v == nil {
		return nil, false
	}
	c, ok := v.(Content)
	return c, ok
}
