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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent transfer entries
	nameWidth    = 35 // Base width for the file path
	dirWidth     = 8  // Width for the direction
	outcomeWidth = 10 // Width for outcome text
)

// Transfer outcomes
const (
	OutcomeDone   = "done"
	OutcomeFailed = "failed"
	OutcomeCancel = "cancelled"
)

// 🎯 TransferOperation represents a finished transfer for logging
type TransferOperation struct {
	Direction string // import or export
	Value     string // Value name
	Path      string // File path
	Kind      string // text or binary
	Bytes     int64  // Bytes moved, -1 when unknown
	Outcome   string // done, failed or cancelled
	Err       error  // Cause of a failure
}

// 📦 ValueOperation represents the value a group of transfers works on
type ValueOperation struct {
	Name        string // Value name
	ContentType string // Value content type
	Source      string // Where the value lives (database, github source)
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *ValueOperation
	operations []TransferOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatTransfer formats a transfer for display
func (l *Logger) formatTransfer(op TransferOperation) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch op.Outcome {
	case OutcomeFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case OutcomeCancel:
		symbol = '⊘'
		symbolColor = color.FgYellow
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	// Format direction with color
	var dirColor color.Attribute
	switch op.Direction {
	case "import":
		dirColor = color.FgCyan
	default:
		dirColor = color.FgBlue
	}

	size := "?"
	if op.Bytes >= 0 {
		size = humanize.IBytes(uint64(op.Bytes))
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		color.New(dirColor).Sprint(fmt.Sprintf("%-*s", dirWidth, op.Direction)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		fmt.Sprintf("%-*s", outcomeWidth, op.Outcome),
		color.New(color.Faint).Sprint(op.Kind+" "+size))
}

// 📝 LogTransfer logs a finished transfer
func (l *Logger) LogTransfer(ctx context.Context, op TransferOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if op.Outcome == "" {
		op.Outcome = OutcomeDone
	}

	// Add to operations list
	l.operations = append(l.operations, op)

	// Format and print
	fmt.Fprintln(l.console, l.formatTransfer(op))

	// Log to zerolog
	ev := l.zlog.Info()
	if op.Outcome == OutcomeFailed {
		ev = l.zlog.Error().Err(op.Err)
	}
	ev.
		Str("direction", op.Direction).
		Str("value", op.Value).
		Str("file", op.Path).
		Str("kind", op.Kind).
		Int64("bytes", op.Bytes).
		Str("outcome", op.Outcome).
		Msg("transfer")
}

// 📝 StartValue starts a group of transfers on one value
func (l *Logger) StartValue(ctx context.Context, op ValueOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	// Print value header
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.ContentType))

	// Log to zerolog
	l.zlog.Debug().
		Str("value", op.Name).
		Str("content_type", op.ContentType).
		Str("source", op.Source).
		Msg("starting value operation")
}

// 📝 EndValue ends the current value group and returns its transfers
func (l *Logger) EndValue(ctx context.Context) []TransferOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return nil
	}

	ops := l.operations
	l.zlog.Debug().
		Str("value", l.currentOp.Name).
		Int("transfers", len(ops)).
		Msg("value operation complete")

	l.currentOp = nil
	l.operations = nil
	return ops
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	appText := color.New(color.Bold, color.FgCyan).Sprint("contentxfer")
	fmt.Fprintf(l.console, "\n%s %s\n\n", appText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
