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
	"errors"
	"testing"
)

// testStrError is an error implementation that's used only for testing.
// it's a string to allow comparing its values.
type testStrError string

func (t testStrError) Error() string {
	return string(t)
}

func newStrError() error {
	return testStrError("str_test_error")
}

// testPtrError is an error implementation that's used only for testing.
// it's a pointer-based error, to mimick most error structures in real-scenarios.
type testPtrError struct {
	txt string
}

func (t *testPtrError) Error() string {
	return t.txt
}

func newPtrError() error {
	return &testPtrError{txt: "ptr_test_error"}
}

func TestPromiseFulfill(t *testing.T) {
	q := NewDispatcher()
	p, r := NewPromise[int](q)

	r.Fulfill(42)

	v, err := p.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() err = %v, want nil", err)
	}
	if v != 42 {
		t.Fatalf("Wait() v = %d, want 42", v)
	}
}

func TestPromiseRejectAfterFulfillIsNoOp(t *testing.T) {
	q := NewDispatcher()
	p, r := NewPromise[int](q)

	if ok := r.Fulfill(1); !ok {
		t.Fatalf("first Fulfill() = false, want true")
	}
	if ok := r.Fulfill(2); ok {
		t.Fatalf("second Fulfill() = true, want false")
	}
	tok, _ := NewErrToken(newStrError())
	if ok := r.Reject(tok); ok {
		t.Fatalf("Reject() after Fulfill() = true, want false")
	}

	v, err := p.Wait(context.Background())
	if err != nil || v != 1 {
		t.Fatalf("Wait() = (%d, %v), want (1, nil)", v, err)
	}
}

func TestPromiseReject(t *testing.T) {
	q := NewDispatcher()
	p, r := NewPromise[int](q)

	tok, err := NewErrToken(newStrError())
	if err != nil {
		t.Fatalf("NewErrToken() err = %v, want nil", err)
	}
	r.Reject(tok)

	_, gotErr := p.Wait(context.Background())
	if gotErr == nil {
		t.Fatalf("Wait() err = nil, want non-nil")
	}
	if gotErr.Error() != newStrError().Error() {
		t.Fatalf("Wait() err = %q, want %q", gotErr, newStrError())
	}
}

func TestThenMapsFulfilledValue(t *testing.T) {
	q := NewDispatcher()
	p, r := NewPromise[int](q)
	r.Fulfill(10)

	next := Then(p, func(v int) int { return v * 2 })

	v, err := next.Wait(context.Background())
	if err != nil || v != 20 {
		t.Fatalf("Wait() = (%d, %v), want (20, nil)", v, err)
	}
}

func TestThenPassesRejectionThrough(t *testing.T) {
	q := NewDispatcher()
	p, r := NewPromise[int](q)
	tok, _ := NewErrToken(newStrError())
	r.Reject(tok)

	called := false
	next := Then(p, func(v int) int {
		called = true
		return v
	})

	_, err := next.Wait(context.Background())
	if err == nil {
		t.Fatalf("Wait() err = nil, want non-nil")
	}
	if called {
		t.Fatalf("Then callback ran on a rejected promise")
	}
}

func TestThenChainFlattensInnerPromise(t *testing.T) {
	q := NewDispatcher()
	p, r := NewPromise[int](q)
	r.Fulfill(3)

	next := ThenChain(p, func(v int) *Promise[string] {
		return ResolvedValue(q, "got-3")
	})

	v, err := next.Wait(context.Background())
	if err != nil || v != "got-3" {
		t.Fatalf("Wait() = (%q, %v), want (\"got-3\", nil)", v, err)
	}
}

func TestFailMapsRejectionAndSkipsOnFulfilled(t *testing.T) {
	q := NewDispatcher()

	p1, r1 := NewPromise[int](q)
	r1.Fulfill(7)
	called := false
	next1 := Fail(p1, func(tok ErrToken) int {
		called = true
		return -1
	})
	v, err := next1.Wait(context.Background())
	if err != nil || v != 7 || called {
		t.Fatalf("Fail() on fulfilled promise = (%d, %v, called=%v), want (7, nil, false)", v, err, called)
	}

	p2, r2 := NewPromise[int](q)
	tok, _ := NewErrToken(newStrError())
	r2.Reject(tok)
	next2 := Fail(p2, func(tok ErrToken) int { return -1 })
	v, err = next2.Wait(context.Background())
	if err != nil || v != -1 {
		t.Fatalf("Fail() on rejected promise = (%d, %v), want (-1, nil)", v, err)
	}
}

func TestFailAsMatchesOnlyTargetType(t *testing.T) {
	q := NewDispatcher()

	p1, r1 := NewPromise[int](q)
	tok1, _ := NewErrToken(newPtrError())
	r1.Reject(tok1)
	next1 := FailAs(p1, func(e *testPtrError) int { return 100 })
	v, err := next1.Wait(context.Background())
	if err != nil || v != 100 {
		t.Fatalf("FailAs() matching type = (%d, %v), want (100, nil)", v, err)
	}

	p2, r2 := NewPromise[int](q)
	tok2, _ := NewErrToken(newStrError())
	r2.Reject(tok2)
	next2 := FailAs(p2, func(e *testPtrError) int { return 100 })
	_, err = next2.Wait(context.Background())
	if err == nil {
		t.Fatalf("FailAs() non-matching type: err = nil, want non-nil")
	}
	var target *testPtrError
	if errors.As(err, &target) {
		t.Fatalf("FailAs() non-matching type: err unexpectedly matched *testPtrError")
	}
}

func TestSharedPromiseClonesObserveSameOutcome(t *testing.T) {
	q := NewDispatcher()
	p, r := NewPromise[int](q)
	shared := p.Share()

	clone1 := shared.Clone()
	clone2 := shared.Clone()
	r.Fulfill(9)

	v1, err1 := clone1.Promise().Wait(context.Background())
	v2, err2 := clone2.Promise().Wait(context.Background())
	if err1 != nil || err2 != nil || v1 != 9 || v2 != 9 {
		t.Fatalf("clone outcomes = (%d, %v), (%d, %v), want (9, nil), (9, nil)", v1, err1, v2, err2)
	}
}

func TestPromiseWaitRespectsContextCancellation(t *testing.T) {
	q := NewDispatcher()
	p, _ := NewPromise[int](q)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() err = %v, want context.Canceled", err)
	}
}
