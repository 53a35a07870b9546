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
	"sync"

	"github.com/asmsh/achan/internal/fifo"
)

// waiterFunc delivers a pending receive's outcome once one becomes
// available: either a value arrived (explicit is meaningless in that case),
// or the channel closed, in which case explicit reports whether a terminal
// failure was recorded by CloseWithError or a value-callback error (true)
// versus a close with no terminal recorded, such as Close or the release of
// the last endpoint (false) —
// the same distinction effectiveTerminalLocked's caller already knows at the
// point closeWith runs, passed through so a waiter doesn't have to
// re-derive it from the failure token's identity.
type waiterFunc[T any] func(out Outcome[T], explicit bool)

// sendOutcome classifies the result of a single send against the core.
type sendOutcome int

const (
	sendAccepted sendOutcome = iota
	sendFullButAccepted
	sendRefusedClosed
)

// core is the shared, mutex-guarded state behind a Channel. It buffers raw
// T values; the promise- and shared-promise-flattening behavior lives one
// layer up, in PromiseReadable/SharedPromiseReadable (see flatten.go),
// built from this core's plain T values.
type core[T any] struct {
	mu sync.Mutex

	queue    Queue
	capacity int

	buffer       fifo.Queue[T]
	waiters      fifo.Queue[waiterFunc[T]]
	backPressure fifo.Queue[Resolver[Unit]]

	closed   bool
	terminal ErrToken
	termSet  bool

	readableCount int
	writableCount int
}

// Channel is a bounded, typed, multi-producer/multi-consumer hand-off. It
// has no operations of its own: callers mint Writable and Readable
// endpoints from it, which hold a shared reference to the core.
type Channel[T any] struct {
	c *core[T]
}

// NewChannel creates a Channel bound to q, with the given back-pressure
// threshold. capacity must be positive.
func NewChannel[T any](q Queue, capacity int) *Channel[T] {
	return &Channel[T]{c: &core[T]{queue: q, capacity: capacity}}
}

// Writable mints a new writable endpoint, incrementing the channel's
// writable reference count.
func (ch *Channel[T]) Writable() *Writable[T] {
	ch.c.mu.Lock()
	ch.c.writableCount++
	ch.c.mu.Unlock()
	return &Writable[T]{c: ch.c}
}

// Readable mints a new readable endpoint, incrementing the channel's
// readable reference count.
func (ch *Channel[T]) Readable() *Readable[T] {
	ch.c.mu.Lock()
	ch.c.readableCount++
	ch.c.mu.Unlock()
	return &Readable[T]{c: ch.c}
}

// send implements Writable.Send: it accepts v unless the channel is
// closed, completing a pending waiter directly, buffering otherwise.
func (c *core[T]) send(v T) sendOutcome {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return sendRefusedClosed
	}

	if deliver, ok := c.waiters.Pop(); ok {
		c.mu.Unlock()
		deliver(NewValue(v), false)
		return sendAccepted
	}

	before := c.buffer.Len()
	c.buffer.Push(v)
	c.mu.Unlock()

	if before < c.capacity {
		return sendAccepted
	}
	return sendFullButAccepted
}

// receive implements Readable.Receive.
func (c *core[T]) receive() *Promise[T] {
	c.mu.Lock()
	if v, ok := c.buffer.Pop(); ok {
		wake := c.popBackPressureIfDrainedLocked()
		c.mu.Unlock()
		p, resolver := NewPromise[T](c.queue)
		resolver.Fulfill(v)
		if wake != nil {
			wake.Fulfill(Unit{})
		}
		return p
	}

	if c.closed {
		tok := c.effectiveTerminalLocked()
		c.mu.Unlock()
		return ResolvedFailure[T](c.queue, tok)
	}

	p, resolver := NewPromise[T](c.queue)
	c.waiters.Push(func(out Outcome[T], explicit bool) {
		if out.IsValue() {
			resolver.Fulfill(out.Value())
			return
		}
		resolver.Reject(out.Failure())
	})
	c.mu.Unlock()
	return p
}

// receiveFast implements Readable.ReceiveFast.
func (c *core[T]) receiveFast(onValue func(T) error, onClosed func(ErrToken)) *Promise[Unit] {
	c.mu.Lock()
	if v, ok := c.buffer.Pop(); ok {
		wake := c.popBackPressureIfDrainedLocked()
		c.mu.Unlock()
		if wake != nil {
			wake.Fulfill(Unit{})
		}
		p, resolver := NewPromise[Unit](c.queue)
		c.queue.Post(func() {
			c.deliverFastValue(v, onValue, resolver)
		})
		return p
	}

	if c.closed {
		tok := c.effectiveTerminalLocked()
		explicit := c.termSet
		c.mu.Unlock()
		return c.resolveFastClosed(tok, explicit, onClosed)
	}

	p, resolver := NewPromise[Unit](c.queue)
	c.waiters.Push(func(out Outcome[T], explicit bool) {
		if out.IsValue() {
			c.queue.Post(func() {
				c.deliverFastValue(out.Value(), onValue, resolver)
			})
			return
		}
		// the outcome arrived via closeWith; explicit is the same signal
		// the immediate-close branch above reads directly off c.termSet.
		if !explicit {
			c.queue.Post(func() {
				onClosed(out.Failure())
				resolver.Fulfill(Unit{})
			})
			return
		}
		resolver.Reject(out.Failure())
	})
	c.mu.Unlock()
	return p
}

func (c *core[T]) resolveFastClosed(tok ErrToken, explicit bool, onClosed func(ErrToken)) *Promise[Unit] {
	p, resolver := NewPromise[Unit](c.queue)
	if explicit {
		resolver.Reject(tok)
		return p
	}
	c.queue.Post(func() {
		onClosed(tok)
		resolver.Fulfill(Unit{})
	})
	return p
}

func (c *core[T]) deliverFastValue(v T, onValue func(T) error, resolver Resolver[Unit]) {
	if err := onValue(v); err != nil {
		tok, _ := NewErrToken(err)
		resolver.Reject(tok)
		c.closeWith(&tok)
		return
	}
	resolver.Fulfill(Unit{})
}

// drain implements Writable.Drain: a promise that fulfills once a pop
// leaves the buffer below capacity, one pending drain per pop, in
// registration order.
func (c *core[T]) drain() *Promise[Unit] {
	c.mu.Lock()
	if c.buffer.Len() < c.capacity {
		c.mu.Unlock()
		return ResolvedValue[Unit](c.queue, Unit{})
	}
	p, resolver := NewPromise[Unit](c.queue)
	c.backPressure.Push(resolver)
	c.mu.Unlock()
	return p
}

// closeWith closes the channel. If tok is non-nil and no terminal has been
// recorded yet, it becomes the terminal. Idempotent: later calls (or a
// call after the channel is already closed) still apply a not-yet-set
// terminal, since close-with-error racing a fast-path value is exactly
// scenario 6's case.
func (c *core[T]) closeWith(tok *ErrToken) {
	c.mu.Lock()
	c.closed = true
	if tok != nil && !c.termSet {
		c.terminal = *tok
		c.termSet = true
	}
	waiters := c.waiters.Drain()
	backPressure := c.backPressure.Drain()
	termTok := c.effectiveTerminalLocked()
	explicit := c.termSet
	c.mu.Unlock()

	failure, _ := NewFailure[T](termTok)
	for _, deliver := range waiters {
		deliver(failure, explicit)
	}
	for _, resolver := range backPressure {
		resolver.Fulfill(Unit{})
	}
}

// effectiveTerminalLocked must be called with c.mu held.
func (c *core[T]) effectiveTerminalLocked() ErrToken {
	if c.termSet {
		return c.terminal
	}
	return ClosedToken()
}

// popBackPressureIfDrainedLocked must be called with c.mu held, immediately
// after popping the buffer. It returns the next back-pressure waiter if
// the pop dropped the buffer level below capacity, or nil.
func (c *core[T]) popBackPressureIfDrainedLocked() *Resolver[Unit] {
	// the length observed here is the length *after* the pop. Each pop that
	// leaves the buffer below capacity wakes one waiter, so when several
	// waiters registered while the buffer was full, the later ones are
	// woken by later pops, after the level is already below capacity.
	if c.buffer.Len() >= c.capacity {
		return nil
	}
	resolver, ok := c.backPressure.Pop()
	if !ok {
		return nil
	}
	return &resolver
}

func (c *core[T]) releaseWritable() {
	c.mu.Lock()
	c.writableCount--
	last := c.writableCount == 0
	c.mu.Unlock()
	if last {
		c.closeWith(nil)
	}
}

func (c *core[T]) releaseReadable() {
	c.mu.Lock()
	c.readableCount--
	last := c.readableCount == 0
	c.mu.Unlock()
	if last {
		c.closeWith(nil)
	}
}
