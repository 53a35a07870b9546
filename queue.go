// Copyright 2023 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package achan

import (
	"runtime"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Queue is an execution context a Promise's continuations, and a Channel's
// back-pressure/receive waiters, are scheduled onto. It stands in for
// whatever the caller already has: a dispatcher, a reactor loop, a thread
// pool. Post must not block the calling goroutine.
type Queue interface {
	Post(task func())
}

// DispatcherConfig configures a Dispatcher. The zero value is valid and
// selects GOMAXPROCS workers with a no-op logger.
type DispatcherConfig struct {
	// Size is the number of goroutines always available to run posted
	// tasks. If it's 0 or less, runtime.GOMAXPROCS(0) is used.
	Size int

	// Logger receives a structured event for every task that panics. The
	// zero value logs nothing.
	Logger zerolog.Logger
}

// Dispatcher is a fixed-size worker pool Queue. Post never blocks the
// caller: it hands the task to an idle worker if one is free, or spins up
// a one-shot overflow goroutine if the pool is saturated, so Post cannot
// deadlock against a caller that is itself running inside the pool.
//
// A task that panics is recovered and logged rather than crashing the
// dispatcher.
type Dispatcher struct {
	queue  chan dispatchedTask
	logger zerolog.Logger
}

type dispatchedTask struct {
	id   uuid.UUID
	task func()
}

// NewDispatcher creates a Dispatcher and starts its fixed pool of workers.
func NewDispatcher(c ...*DispatcherConfig) *Dispatcher {
	size := runtime.GOMAXPROCS(0)
	logger := zerolog.Nop()
	if len(c) != 0 && c[0] != nil {
		if c[0].Size > 0 {
			size = c[0].Size
		}
		logger = c[0].Logger
	}

	d := &Dispatcher{
		queue:  make(chan dispatchedTask),
		logger: logger,
	}
	for i := 0; i < size; i++ {
		go d.worker()
	}
	return d
}

// Post schedules task for execution. It never blocks: if every worker is
// busy, Post starts a one-shot goroutine to run task instead of queueing
// indefinitely.
func (d *Dispatcher) Post(task func()) {
	if task == nil {
		return
	}
	dt := dispatchedTask{id: uuid.New(), task: task}
	select {
	case d.queue <- dt:
	default:
		go d.run(dt)
	}
}

// Close stops accepting further scheduling and shuts down the fixed
// workers once each finishes its current task. It does not wait for
// overflow goroutines started by Post.
func (d *Dispatcher) Close() {
	close(d.queue)
}

func (d *Dispatcher) worker() {
	for dt := range d.queue {
		d.run(dt)
	}
}

func (d *Dispatcher) run(dt dispatchedTask) {
	defer func() {
		if v := recover(); v != nil {
			d.logger.Error().
				Str("task_id", dt.id.String()).
				Str("panic", newTaskPanic(v).Error()).
				Bytes("stack", debug.Stack()).
				Msg("achan: recovered panic in dispatched task")
		}
	}()
	dt.task()
}
