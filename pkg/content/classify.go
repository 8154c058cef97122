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
	"mime"
	"path/filepath"
	"strings"
)

// 📊 Kind tells whether a payload is streamed as characters or as bytes
type Kind int

const (
	KindBinary Kind = iota // opaque byte stream
	KindText               // characters in a fixed encoding
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	default:
		return "binary"
	}
}

// media types outside text/* that still carry characters
var textMediaTypes = map[string]bool{
	"application/json":       true,
	"application/xml":        true,
	"application/javascript": true,
	"application/x-yaml":     true,
	"application/yaml":       true,
	"application/sql":        true,
	"application/x-sh":       true,
	"application/toml":       true,
	"application/xhtml+xml":  true,
}

// ClassifyType classifies a media type. Unparseable or unknown types are binary.
func ClassifyType(contentType string) Kind {
	if contentType == "" {
		return KindBinary
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return KindBinary
	}
	if strings.HasPrefix(mediaType, "text/") || textMediaTypes[mediaType] {
		return KindText
	}
	if strings.HasSuffix(mediaType, "+json") || strings.HasSuffix(mediaType, "+xml") {
		return KindText
	}
	return KindBinary
}

// 🔍 Classify decides how a value's payload is streamed. Values without
// content are binary.
func Classify(v Value) Kind {
	c, ok := AsContent(v)
	if !ok {
		return KindBinary
	}
	return ClassifyType(c.ContentType())
}

// IsText reports whether v should be transferred as text
func IsText(v Value) bool {
	return Classify(v) == KindText
}

// extensions the platform mime table often lacks
var textExtensions = map[string]string{
	".txt":  "text/plain; charset=utf-8",
	".md":   "text/markdown; charset=utf-8",
	".go":   "text/x-go; charset=utf-8",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".toml": "application/toml",
	".csv":  "text/csv; charset=utf-8",
	".sh":   "application/x-sh",
	".sql":  "application/sql",
	".log":  "text/plain; charset=utf-8",
}

// TypeForName guesses a content type from a file name's extension,
// application/octet-stream when nothing matches
func TypeForName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "application/octet-stream"
	}
	if t, ok := textExtensions[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
