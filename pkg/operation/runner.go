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
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/contentxfer/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🧵 Task is a unit of work run by the Runner. It must watch ctx for
// cancellation and report progress on mon.
type Task func(ctx context.Context, mon status.Monitor) error

// MonitorFactory builds the progress monitor for a task key
type MonitorFactory func(key string) status.Monitor

// 🏃 Runner runs tasks off the calling goroutine.
//
// Tasks are keyed by the value they work on; a second task for a key that is
// still running is rejected with ErrBusy.
type Runner struct {
	logger   *zerolog.Logger
	monitors MonitorFactory

	mu       sync.Mutex
	inflight map[string]*Handle
	group    errgroup.Group
}

// 🏗️ NewRunner creates a new runner. A nil factory gives every task a status.Manager.
func NewRunner(logger *zerolog.Logger, monitors MonitorFactory) *Runner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if monitors == nil {
		monitors = func(key string) status.Monitor {
			l := logger.With().Str("task", key).Logger()
			return status.New(&l)
		}
	}
	return &Runner{
		logger:   logger,
		monitors: monitors,
		inflight: make(map[string]*Handle),
	}
}

// 🔄 Run executes a task in the background and waits for it to finish.
// Cancelling ctx asks the task to stop; Run still waits for it to let go of
// its resources.
func (r *Runner) Run(ctx context.Context, key string, task Task) error {
	h, err := r.Go(ctx, key, task)
	if err != nil {
		return err
	}
	return h.Wait()
}

// ⚡ Go starts a task and returns without waiting
func (r *Runner) Go(ctx context.Context, key string, task Task) (*Handle, error) {
	r.mu.Lock()
	if _, busy := r.inflight[key]; busy {
		r.mu.Unlock()
		return nil, errors.Errorf("%s: %w", key, ErrBusy)
	}
	tctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		key:    key,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.inflight[key] = h
	r.mu.Unlock()

	mon := r.monitors(key)
	r.logger.Debug().Str("task", key).Msg("task started")

	r.group.Go(func() error {
		err := task(tctx, mon)
		cancel()
		r.finish(h, err)
		if err != nil && !IsCancelled(err) {
			return errors.Errorf("running %s: %w", key, err)
		}
		return nil
	})

	return h, nil
}

func (r *Runner) finish(h *Handle, err error) {
	r.mu.Lock()
	delete(r.inflight, h.key)
	r.mu.Unlock()

	h.err = err
	close(h.done)

	switch {
	case err == nil:
		r.logger.Debug().Str("task", h.key).Msg("task finished")
	case IsCancelled(err):
		r.logger.Debug().Str("task", h.key).Msg("task cancelled")
	default:
		r.logger.Debug().Str("task", h.key).Err(err).Msg("task failed")
	}
}

// Busy reports whether a task for key is running
func (r *Runner) Busy(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inflight[key]
	return ok
}

// Wait blocks until every task started with Go has finished and returns the
// first failure. Cancelled tasks do not count as failures.
func (r *Runner) Wait() error {
	return r.group.Wait()
}

// 🎫 Handle tracks one background task
type Handle struct {
	key    string
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Key returns the key the task was started with
func (h *Handle) Key() string {
	return h.key
}

// Cancel asks the task to stop
func (h *Handle) Cancel() {
	h.cancel()
}

// Done is closed when the task has finished
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task has finished and returns its error
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}
