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
	"errors"
	"fmt"
)

var (
	// ErrChannelClosed is wrapped into the default ErrToken used whenever a
	// channel closes without an explicit error (Close, or the last Writable
	// being released).
	ErrChannelClosed = errors.New("achan: channel closed")

	// ErrInvalidErrorToken is returned by NewErrToken and NewFailure when
	// given a nil error.
	ErrInvalidErrorToken = errors.New("achan: invalid error token")
)

// taskPanic wraps a value recovered from a task that panicked while running
// on a Dispatcher.
type taskPanic struct {
	v any
}

func (e *taskPanic) Error() string {
	return fmt.Sprintf("achan: task panicked: %v", e.v)
}

func (e *taskPanic) V() any {
	return e.v
}

func newTaskPanic(v any) *taskPanic {
	return &taskPanic{v: v}
}
