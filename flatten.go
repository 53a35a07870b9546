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

// PromiseReadable wraps a Readable[*Promise[U]] so that Receive yields the
// inner promise's eventual outcome directly, instead of a promise of a
// promise. This is the "promise-flatten" adapter of the channel: a channel
// whose element type is itself a promise is a natural async
// producer/consumer pattern, and flattening preserves the invariant that
// Receive always yields the same shape regardless of how values entered
// the channel.
type PromiseReadable[U any] struct {
	r *Readable[*Promise[U]]
}

// FlattenPromise adapts r into a PromiseReadable.
func FlattenPromise[U any](r *Readable[*Promise[U]]) *PromiseReadable[U] {
	return &PromiseReadable[U]{r: r}
}

// Receive returns a promise for the next element's eventual outcome. A
// channel-closed rejection and an inner-promise rejection both surface as
// this promise's rejection.
func (pr *PromiseReadable[U]) Receive() *Promise[U] {
	outer := pr.r.Receive()
	return ThenChain(outer, func(inner *Promise[U]) *Promise[U] { return inner })
}

// IsClosed reports whether the underlying channel has been closed.
func (pr *PromiseReadable[U]) IsClosed() bool {
	return pr.r.IsClosed()
}

// Release releases the underlying Readable handle.
func (pr *PromiseReadable[U]) Release() {
	pr.r.Release()
}

// SharedPromiseReadable wraps a Readable[SharedPromise[U]], deriving a
// fresh inner promise (via SharedPromise.Promise) each time Receive is
// called, so a single SharedPromise sent into the channel may be observed
// by more than one subsystem without being consumed.
type SharedPromiseReadable[U any] struct {
	r *Readable[SharedPromise[U]]
}

// FlattenShared adapts r into a SharedPromiseReadable.
func FlattenShared[U any](r *Readable[SharedPromise[U]]) *SharedPromiseReadable[U] {
	return &SharedPromiseReadable[U]{r: r}
}

// Receive returns a promise for the next element's eventual outcome.
func (sr *SharedPromiseReadable[U]) Receive() *Promise[U] {
	outer := sr.r.Receive()
	return ThenChain(outer, func(sp SharedPromise[U]) *Promise[U] { return sp.Promise() })
}

// IsClosed reports whether the underlying channel has been closed.
func (sr *SharedPromiseReadable[U]) IsClosed() bool {
	return sr.r.IsClosed()
}

// Release releases the underlying Readable handle.
func (sr *SharedPromiseReadable[U]) Release() {
	sr.r.Release()
}
