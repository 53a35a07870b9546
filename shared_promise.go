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

// SharedPromise is a clonable handle over a Promise's eventual outcome.
// Cloning is free: no new subscription is created until Promise is called,
// so a SharedPromise can be passed around and cloned freely without
// growing the number of live subscriptions on the underlying Promise.
type SharedPromise[T any] struct {
	p *Promise[T]
}

// Clone returns an independent SharedPromise observing the same eventual
// outcome as s.
func (s SharedPromise[T]) Clone() SharedPromise[T] {
	return SharedPromise[T]{p: s.p}
}

// Promise derives a fresh Promise that mirrors s's eventual outcome. Every
// clone of a SharedPromise may call Promise independently, and each
// returned Promise settles with the same value or failure.
func (s SharedPromise[T]) Promise() *Promise[T] {
	next, resolver := NewPromise[T](s.p.queue)
	s.p.subscribe(func(out Outcome[T]) {
		if out.IsValue() {
			resolver.Fulfill(out.Value())
			return
		}
		resolver.Reject(out.Failure())
	})
	return next
}
