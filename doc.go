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

// Package achan provides a bounded, typed, multi-producer/multi-consumer
// channel built on top of a minimal single-assignment promise.
//
// A Promise has three states, and it can be in only one of them, at any
// time:
// Pending: the promise has not been resolved yet.
// Fulfilled: the promise was resolved with a value.
// Rejected: the promise was resolved with a failure, carried as an ErrToken.
//
// A Channel hands out two kinds of endpoints, Writable and Readable, both
// reference-counted: once every Writable clone of a channel is released,
// the channel closes as if Close had been called; once every Readable
// clone is released, the channel closes too: later sends are refused and no
// further values are buffered.
//
//
// General Notes:-
//
// * Once a Promise is resolved, its outcome never changes.
//
// * Continuations registered with Then, ThenChain, Fail, FailChain, FailAs,
// or FailAsChain never run synchronously on the calling goroutine; they are
// always handed to the Queue the promise was created against, in
// registration order.
//
// * An ErrToken is this package's failure identity. It always wraps a plain
// error and supports errors.As/errors.Is through its Unwrap method, so a
// FailAs handler can recover a specific error type without this package
// needing its own type-switch registry.
//
// * A channel never blocks the goroutine that calls Send, Receive, or
// ReceiveFast; back-pressure and empty-buffer waits are expressed as
// promises a caller may choose to wait on, through Drain, Receive, and
// ReceiveFast's returned promises.
//
//
// Queue Notes:-
//
// * The Queue interface stands in for whatever execution context a caller
// already has (a dispatcher, a reactor loop, a thread pool). This package
// ships one implementation, Dispatcher, a small fixed-size worker pool
// whose Post method never blocks the caller.
package achan
