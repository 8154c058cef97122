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

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// 📈 Monitor receives progress for a long running transfer step.
// Cancellation is not part of the monitor; it travels in the context.
type Monitor interface {
	// StartOperation begins a named step. total is in bytes, -1 when unknown.
	StartOperation(ctx context.Context, name string, total int64)
	// UpdateProgress reports the number of bytes processed so far.
	UpdateProgress(ctx context.Context, processed int64)
	// FinishOperation ends the current step.
	FinishOperation(ctx context.Context)
}

// 🔧 Manager is a Monitor that writes progress through zerolog
type Manager struct {
	logger    *zerolog.Logger
	formatter ProgressFormatter

	mu        sync.Mutex
	name      string
	total     int64
	processed int64
	steps     int

	// only every reportEvery bytes is logged, the counters are always current
	reportEvery  int64
	lastReported int64
}

// 🏭 New creates a new status manager
func New(logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		logger:      logger,
		formatter:   NewDefaultProgressFormatter(),
		reportEvery: 1 << 20,
	}
}

// WithFormatter replaces the progress formatter
func (m *Manager) WithFormatter(f ProgressFormatter) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formatter = f
	return m
}

func (m *Manager) StartOperation(ctx context.Context, name string, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.name = name
	m.total = total
	m.processed = 0
	m.lastReported = 0
	m.steps++
	m.logger.Debug().
		Str("step", name).
		Int64("total", total).
		Msg(m.formatter.FormatProgress(name, 0, total))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	if processed-m.lastReported < m.reportEvery && processed != m.total {
		return
	}
	m.lastReported = processed
	m.logger.Debug().
		Str("step", m.name).
		Int64("processed", processed).
		Int64("total", m.total).
		Msg(m.formatter.FormatProgress(m.name, processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.total < 0 {
		m.total = m.processed
	}
	m.logger.Debug().
		Str("step", m.name).
		Int64("processed", m.processed).
		Int64("total", m.total).
		Msg(m.formatter.FormatProgress(m.name, m.processed, m.total))
}

// 📊 Progress returns the current step and its counters
func (m *Manager) Progress() (name string, processed, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name, m.processed, m.total
}

// Steps returns how many steps were started on this manager
func (m *Manager) Steps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steps
}

type nopMonitor struct{}

func (nopMonitor) StartOperation(context.Context, string, int64) {}
func (nopMonitor) UpdateProgress(context.Context, int64)         {}
func (nopMonitor) FinishOperation(context.Context)               {}

// Nop returns a Monitor that discards everything
func Nop() Monitor {
	return nopMonitor{}
}
