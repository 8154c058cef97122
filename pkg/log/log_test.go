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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_transfer",
			op: func(t *testing.T, logger *Logger) {
				logger.LogTransfer(context.Background(), TransferOperation{
					Direction: "import",
					Value:     "notes",
					Path:      "notes.txt",
					Kind:      "text",
					Bytes:     11,
				})
			},
			wantLogs: []string{
				"✓ import   notes.txt                           done       text 11 B",
			},
		},
		{
			name: "log_value_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartValue(context.Background(), ValueOperation{
					Name:        "notes",
					ContentType: "text/plain",
					Source:      "database",
				})
			},
			wantLogs: []string{
				"◆ notes • text/plain",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("exporting notes")
			},
			wantLogs: []string{
				"contentxfer • exporting notes",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			// Perform operation
			tt.op(t, logger)

			// Check output
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	// Create logger
	logger := New(io.Discard, zerolog.InfoLevel)

	// Add to context
	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	// Get from context
	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	// Check panic on missing logger
	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestTransferFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   TransferOperation
		want string
	}{
		{
			name: "import_done",
			op: TransferOperation{
				Direction: "import",
				Path:      "notes.txt",
				Kind:      "text",
				Bytes:     11,
				Outcome:   OutcomeDone,
			},
			want: "    ✓ import   notes.txt                           done       text 11 B",
		},
		{
			name: "export_failed",
			op: TransferOperation{
				Direction: "export",
				Path:      "/tmp/out.bin",
				Kind:      "binary",
				Bytes:     2048,
				Outcome:   OutcomeFailed,
			},
			want: "    ✗ export   /tmp/out.bin                        failed     binary 2.0 KiB",
		},
		{
			name: "export_cancelled",
			op: TransferOperation{
				Direction: "export",
				Path:      "/tmp/out.txt",
				Kind:      "text",
				Bytes:     512,
				Outcome:   OutcomeCancel,
			},
			want: "    ⊘ export   /tmp/out.txt                        cancelled  text 512 B",
		},
		{
			name: "unknown_size",
			op: TransferOperation{
				Direction: "export",
				Path:      "a.txt",
				Kind:      "binary",
				Bytes:     -1,
			},
			want: "    ✓ export   a.txt                               done       binary ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			// Log operation
			logger.LogTransfer(context.Background(), tt.op)

			// Check output
			output := strings.TrimRight(buf.String(), "\n")
			assert.Equal(t, tt.want, output, "formatted output should match")
		})
	}
}

func TestEndValueReturnsTransfers(t *testing.T) {
	ctx := context.Background()
	logger := New(io.Discard, zerolog.InfoLevel)

	assert.Nil(t, logger.EndValue(ctx), "no value started")

	logger.StartValue(ctx, ValueOperation{Name: "notes"})
	logger.LogTransfer(ctx, TransferOperation{Direction: "export", Path: "a.txt"})
	logger.LogTransfer(ctx, TransferOperation{Direction: "export", Path: "b.txt", Outcome: OutcomeFailed})

	ops := logger.EndValue(ctx)
	require.Len(t, ops, 2)
	assert.Equal(t, OutcomeDone, ops[0].Outcome, "empty outcome defaults to done")
	assert.Equal(t, OutcomeFailed, ops[1].Outcome)
	assert.Nil(t, logger.EndValue(ctx), "value group is reset")
}
