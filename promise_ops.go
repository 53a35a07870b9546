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

import "errors"

// Then registers f to run, on p's Queue, once p is Fulfilled, and returns a
// Promise for its result. A Rejected p passes its failure through
// unchanged to the returned Promise, without running f.
//
// Then is a package-level function, not a method, because a Go method
// cannot introduce a type parameter beyond its receiver's.
func Then[T, U any](p *Promise[T], f func(T) U) *Promise[U] {
	next, resolver := NewPromise[U](p.queue)
	p.subscribe(func(out Outcome[T]) {
		if !out.IsValue() {
			resolver.Reject(out.Failure())
			return
		}
		resolver.Fulfill(f(out.Value()))
	})
	return next
}

// ThenChain is like Then, but f itself returns a Promise[U]; the returned
// Promise settles with that inner promise's eventual outcome, flattening
// one level of nesting.
func ThenChain[T, U any](p *Promise[T], f func(T) *Promise[U]) *Promise[U] {
	next, resolver := NewPromise[U](p.queue)
	p.subscribe(func(out Outcome[T]) {
		if !out.IsValue() {
			resolver.Reject(out.Failure())
			return
		}
		inner := f(out.Value())
		inner.subscribe(func(innerOut Outcome[U]) {
			if !innerOut.IsValue() {
				resolver.Reject(innerOut.Failure())
				return
			}
			resolver.Fulfill(innerOut.Value())
		})
	})
	return next
}

// Fail registers h to run, on p's Queue, once p is Rejected, and returns a
// Promise that fulfills with h's return value. A Fulfilled p passes its
// value through unchanged, without running h.
func Fail[T any](p *Promise[T], h func(ErrToken) T) *Promise[T] {
	next, resolver := NewPromise[T](p.queue)
	p.subscribe(func(out Outcome[T]) {
		if out.IsValue() {
			resolver.Fulfill(out.Value())
			return
		}
		resolver.Fulfill(h(out.Failure()))
	})
	return next
}

// FailChain is like Fail, but h itself returns a Promise[T].
func FailChain[T any](p *Promise[T], h func(ErrToken) *Promise[T]) *Promise[T] {
	next, resolver := NewPromise[T](p.queue)
	p.subscribe(func(out Outcome[T]) {
		if out.IsValue() {
			resolver.Fulfill(out.Value())
			return
		}
		inner := h(out.Failure())
		inner.subscribe(func(innerOut Outcome[T]) {
			if !innerOut.IsValue() {
				resolver.Reject(innerOut.Failure())
				return
			}
			resolver.Fulfill(innerOut.Value())
		})
	})
	return next
}

// FailAs registers h to run only when p is Rejected with a failure whose
// wrapped error matches target type F, via errors.As. Any other rejection,
// and any fulfillment, passes through unchanged.
func FailAs[T any, F error](p *Promise[T], h func(F) T) *Promise[T] {
	next, resolver := NewPromise[T](p.queue)
	p.subscribe(func(out Outcome[T]) {
		if out.IsValue() {
			resolver.Fulfill(out.Value())
			return
		}
		var target F
		if errors.As(out.Failure(), &target) {
			resolver.Fulfill(h(target))
			return
		}
		resolver.Reject(out.Failure())
	})
	return next
}

// FailAsChain is like FailAs, but h itself returns a Promise[T].
func FailAsChain[T any, F error](p *Promise[T], h func(F) *Promise[T]) *Promise[T] {
	next, resolver := NewPromise[T](p.queue)
	p.subscribe(func(out Outcome[T]) {
		if out.IsValue() {
			resolver.Fulfill(out.Value())
			return
		}
		var target F
		if !errors.As(out.Failure(), &target) {
			resolver.Reject(out.Failure())
			return
		}
		inner := h(target)
		inner.subscribe(func(innerOut Outcome[T]) {
			if !innerOut.IsValue() {
				resolver.Reject(innerOut.Failure())
				return
			}
			resolver.Fulfill(innerOut.Value())
		})
	})
	return next
}
