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

import "sync"

// Writable is a reference-counted producer endpoint of a Channel. Clone it
// to hand out an independent reference; call Release exactly once per
// handle (including the one returned by Channel.Writable or a prior
// Clone) when done with it.
type Writable[T any] struct {
	c *core[T]

	mu       sync.Mutex
	released bool
}

// Clone returns a new Writable referencing the same channel, incrementing
// its writable reference count.
func (w *Writable[T]) Clone() *Writable[T] {
	w.c.mu.Lock()
	w.c.writableCount++
	w.c.mu.Unlock()
	return &Writable[T]{c: w.c}
}

// Send offers v to the channel. It returns false, without buffering or
// waking a waiter, if the channel is already closed. Sending beyond
// capacity is permitted; the element is still buffered, but Send returns
// false to signal the producer should consider awaiting Drain.
func (w *Writable[T]) Send(v T) bool {
	return w.c.send(v) == sendAccepted
}

// EnsureSend is like Send, but reports the close as an error instead of a
// boolean, and does not signal back-pressure: it only fails when the
// channel is closed.
func (w *Writable[T]) EnsureSend(v T) error {
	switch w.c.send(v) {
	case sendRefusedClosed:
		return ErrChannelClosed
	default:
		return nil
	}
}

// Close closes the channel: pending Receive promises reject with
// ErrChannelClosed (or a prior terminal, if one was already set), pending
// ReceiveFast calls run onClosed (or reject with that prior terminal), and
// all back-pressure waiters are resolved. It is idempotent.
func (w *Writable[T]) Close() {
	w.c.closeWith(nil)
}

// CloseWithError is like Close, but records err as the channel's terminal
// failure, observed by receives once the buffer has drained. If a terminal
// was already recorded, err is ignored: the first close-with-error wins.
func (w *Writable[T]) CloseWithError(err error) {
	tok, e := NewErrToken(err)
	if e != nil {
		return
	}
	w.c.closeWith(&tok)
}

// IsClosed reports whether the channel has been closed.
func (w *Writable[T]) IsClosed() bool {
	w.c.mu.Lock()
	defer w.c.mu.Unlock()
	return w.c.closed
}

// Drain returns a promise that fulfills immediately if the buffer is
// already below capacity. Otherwise it fulfills when a receive leaves the
// buffer below capacity; each such receive wakes one pending Drain promise,
// in the order they were registered, and closing the channel wakes them all.
// This is the concrete "await drainage" mechanism a producer that got a
// false back-pressure signal from Send can use before retrying.
func (w *Writable[T]) Drain() *Promise[Unit] {
	return w.c.drain()
}

// Release drops this handle's reference to the channel. Once every
// Writable handle has been released, the channel closes as if Close had
// been called, without overriding an already-recorded terminal. Release is
// safe to call more than once; only the first call has any effect.
func (w *Writable[T]) Release() {
	w.mu.Lock()
	if w.released {
		w.mu.Unlock()
		return
	}
	w.released = true
	w.mu.Unlock()
	w.c.releaseWritable()
}
