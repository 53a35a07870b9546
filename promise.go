// Copyright 2020 Ahmad Sameh(asmsh)
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
	"context"
	"sync"
)

type promState uint8

const (
	pending promState = iota
	fulfilled
	rejected
)

// Promise is a single-assignment future. It starts Pending and settles
// exactly once, to either Fulfilled(T) or Rejected(ErrToken). Its internal
// state machine is guarded by a mutex: transitions publish under the lock,
// and any scheduling of waiting continuations happens after the lock is
// released.
//
// The zero value is not usable; create one with NewPromise.
type Promise[T any] struct {
	mu    sync.Mutex
	state promState
	val   T
	fail  ErrToken

	queue Queue
	done  chan struct{}
	subs  []func(outcome Outcome[T])
}

// Resolver is the producer-side handle for a Promise, returned alongside it
// from NewPromise. Fulfill and Reject are idempotent: only the first call,
// whichever it is, resolves the promise; later calls are no-ops.
type Resolver[T any] struct {
	p *Promise[T]
}

// NewPromise creates a Pending Promise and returns it along with the
// Resolver used to settle it. Continuations registered on the returned
// Promise (via Then, Fail, etc.) are always scheduled on q, never invoked
// synchronously on the resolving goroutine.
func NewPromise[T any](q Queue) (*Promise[T], Resolver[T]) {
	p := &Promise[T]{
		queue: q,
		done:  make(chan struct{}),
	}
	return p, Resolver[T]{p: p}
}

// ResolvedValue returns an already-Fulfilled Promise carrying v.
func ResolvedValue[T any](q Queue, v T) *Promise[T] {
	p, r := NewPromise[T](q)
	r.Fulfill(v)
	return p
}

// ResolvedFailure returns an already-Rejected Promise carrying tok.
func ResolvedFailure[T any](q Queue, tok ErrToken) *Promise[T] {
	p, r := NewPromise[T](q)
	r.Reject(tok)
	return p
}

// Fulfill resolves the promise with v. It returns false if the promise was
// already resolved.
func (r Resolver[T]) Fulfill(v T) bool {
	return r.p.resolve(fulfilled, v, ErrToken{})
}

// Reject resolves the promise with tok. A zero ErrToken (e.g. an
// uninitialized ErrToken{}) is replaced with a token wrapping
// ErrInvalidErrorToken, so a Rejected promise always carries a usable
// failure. It returns false if the promise was already resolved.
func (r Resolver[T]) Reject(tok ErrToken) bool {
	if tok.IsZero() {
		tok, _ = NewErrToken(ErrInvalidErrorToken)
	}
	return r.p.resolve(rejected, *new(T), tok)
}

func (p *Promise[T]) resolve(state promState, val T, fail ErrToken) bool {
	p.mu.Lock()
	if p.state != pending {
		p.mu.Unlock()
		return false
	}
	p.state = state
	p.val = val
	p.fail = fail
	subs := p.subs
	p.subs = nil
	close(p.done)
	p.mu.Unlock()

	out := p.outcomeLocked(state, val, fail)
	for _, sub := range subs {
		sub := sub
		p.queue.Post(func() { sub(out) })
	}
	return true
}

func (p *Promise[T]) outcomeLocked(state promState, val T, fail ErrToken) Outcome[T] {
	if state == fulfilled {
		return NewValue(val)
	}
	out, err := NewFailure[T](fail)
	if err != nil {
		// fail should never be zero by the time a promise reaches the
		// Rejected state (Reject substitutes a sentinel token); fall back
		// to one here too, rather than ever handing out a nil Outcome.
		fallback, _ := NewErrToken(ErrInvalidErrorToken)
		out, _ = NewFailure[T](fallback)
	}
	return out
}

// subscribe registers cb to run, on the promise's Queue, once p settles. If
// p is already settled, cb is scheduled immediately (still asynchronously,
// never on the calling goroutine).
func (p *Promise[T]) subscribe(cb func(Outcome[T])) {
	p.mu.Lock()
	if p.state == pending {
		p.subs = append(p.subs, cb)
		p.mu.Unlock()
		return
	}
	out := p.outcomeLocked(p.state, p.val, p.fail)
	p.mu.Unlock()
	p.queue.Post(func() { cb(out) })
}

// Wait blocks until p settles or ctx is done, whichever happens first. It
// is a convenience for synchronous callers; the channel core never calls
// it.
func (p *Promise[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		p.mu.Lock()
		state, val, fail := p.state, p.val, p.fail
		p.mu.Unlock()
		if state == fulfilled {
			return val, nil
		}
		return *new(T), fail
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Share returns a SharedPromise over p, allowing more than one independent
// consumer to observe the same eventual outcome.
func (p *Promise[T]) Share() SharedPromise[T] {
	return SharedPromise[T]{p: p}
}
