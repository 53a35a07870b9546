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

// Readable is a reference-counted consumer endpoint of a Channel. Clone it
// to hand out an independent reference; call Release exactly once per
// handle when done with it.
type Readable[T any] struct {
	c *core[T]

	mu       sync.Mutex
	released bool
}

// Clone returns a new Readable referencing the same channel, incrementing
// its readable reference count.
func (r *Readable[T]) Clone() *Readable[T] {
	r.c.mu.Lock()
	r.c.readableCount++
	r.c.mu.Unlock()
	return &Readable[T]{c: r.c}
}

// Receive returns a promise for the next element. It fulfills immediately
// if an element is already buffered, rejects immediately with the
// channel's terminal (or ErrChannelClosed) if the channel is closed and
// the buffer is empty, and otherwise fulfills or rejects once an element
// arrives or the channel closes, whichever happens first.
func (r *Readable[T]) Receive() *Promise[T] {
	return r.c.receive()
}

// ReceiveFast is the fast path: instead of allocating an element promise,
// it resolves directly into onValue or onClosed, both scheduled on the
// channel's Queue. If onValue returns a non-nil error, the returned
// promise rejects with that error and the channel closes with it; a
// terminal failure recorded this way (or already recorded) is observed by
// a later ReceiveFast as a rejection of its returned promise, not as a
// call to onClosed — onClosed only fires for a plain close.
func (r *Readable[T]) ReceiveFast(onValue func(T) error, onClosed func(ErrToken)) *Promise[Unit] {
	return r.c.receiveFast(onValue, onClosed)
}

// IsClosed reports whether the channel has been closed.
func (r *Readable[T]) IsClosed() bool {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	return r.c.closed
}

// Release drops this handle's reference to the channel. Once every
// Readable handle has been released, the channel closes immediately, even
// if writable endpoints remain: subsequent sends refuse. Release is safe
// to call more than once; only the first call has any effect.
func (r *Readable[T]) Release() {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.released = true
	r.mu.Unlock()
	r.c.releaseReadable()
}
