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
	"context"
	"errors"
	"testing"
)

func TestFlattenPromiseYieldsInnerOutcomeDirectly(t *testing.T) {
	q := NewDispatcher()
	ch := NewChannel[*Promise[string]](q, 2)
	w := ch.Writable()
	r := FlattenPromise[string](ch.Readable())

	w.Send(ResolvedValue(q, "hello"))
	w.Close()

	v, err := r.Receive().Wait(context.Background())
	if err != nil || v != "hello" {
		t.Fatalf("Receive() = (%q, %v), want (\"hello\", nil)", v, err)
	}

	if _, err := r.Receive().Wait(context.Background()); !errors.Is(err, ErrChannelClosed) {
		t.Fatalf("Receive() after drain err = %v, want ErrChannelClosed", err)
	}
}

func TestFlattenPromiseIsClosedAndRelease(t *testing.T) {
	q := NewDispatcher()
	ch := NewChannel[*Promise[int]](q, 2)
	w := ch.Writable()
	r := FlattenPromise[int](ch.Readable())

	if r.IsClosed() {
		t.Fatalf("IsClosed() = true, want false")
	}
	w.Close()
	if !r.IsClosed() {
		t.Fatalf("IsClosed() = false, want true")
	}

	// Release must be safe to call, and must not panic on an
	// already-closed channel.
	r.Release()
}

func TestSharedPromiseChannelAllowsMultipleIndependentObservers(t *testing.T) {
	q := NewDispatcher()
	ch := NewChannel[SharedPromise[int]](q, 2)
	w := ch.Writable()
	r := ch.Readable()

	inner, resolver := NewPromise[int](q)
	shared := inner.Share()
	w.Send(shared)
	w.Close()

	// a single SharedPromise is sent once; receiving it yields the one
	// SharedPromise value, which can then be cloned and observed
	// independently any number of times via Promise().
	got, err := r.Receive().Wait(context.Background())
	if err != nil {
		t.Fatalf("Receive() err = %v, want nil", err)
	}

	clone1 := got.Clone()
	clone2 := got.Clone()
	resolver.Fulfill(99)

	v1, err1 := clone1.Promise().Wait(context.Background())
	v2, err2 := clone2.Promise().Wait(context.Background())
	if err1 != nil || v1 != 99 {
		t.Fatalf("clone1.Promise() = (%d, %v), want (99, nil)", v1, err1)
	}
	if err2 != nil || v2 != 99 {
		t.Fatalf("clone2.Promise() = (%d, %v), want (99, nil)", v2, err2)
	}
}

func TestFlattenSharedYieldsInnerOutcomeDirectly(t *testing.T) {
	q := NewDispatcher()
	ch := NewChannel[SharedPromise[int]](q, 2)
	w := ch.Writable()
	r := FlattenShared[int](ch.Readable())

	w.Send(ResolvedValue(q, 7).Share())
	w.Close()

	v, err := r.Receive().Wait(context.Background())
	if err != nil || v != 7 {
		t.Fatalf("Receive() = (%d, %v), want (7, nil)", v, err)
	}

	if _, err := r.Receive().Wait(context.Background()); !errors.Is(err, ErrChannelClosed) {
		t.Fatalf("Receive() after drain err = %v, want ErrChannelClosed", err)
	}
}

func TestFlattenPromisePropagatesInnerRejection(t *testing.T) {
	q := NewDispatcher()
	ch := NewChannel[*Promise[int]](q, 2)
	w := ch.Writable()
	r := FlattenPromise[int](ch.Readable())

	tok, _ := NewErrToken(testStrError("inner failure"))
	w.Send(ResolvedFailure[int](q, tok))
	w.Close()

	_, err := r.Receive().Wait(context.Background())
	if err == nil || err.Error() != "inner failure" {
		t.Fatalf("Receive() err = %v, want \"inner failure\"", err)
	}
}
