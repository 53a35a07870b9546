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

// ErrToken is the opaque identity carried by a Rejected Promise or a closed
// Channel. It always wraps a plain error, and it implements error and
// Unwrap, so errors.As and errors.Is work against it directly: that's the
// "dynamic downcast" a typed fail handler needs, expressed with the
// standard library's own mechanism instead of a bespoke type registry.
type ErrToken struct {
	err error
}

// NewErrToken wraps err in an ErrToken. It returns ErrInvalidErrorToken if
// err is nil.
func NewErrToken(err error) (ErrToken, error) {
	if err == nil {
		return ErrToken{}, ErrInvalidErrorToken
	}
	return ErrToken{err: err}, nil
}

// ClosedToken returns the canonical ErrToken used when a channel closes
// without an explicit error.
func ClosedToken() ErrToken {
	return ErrToken{err: ErrChannelClosed}
}

// IsZero reports whether tok carries no error.
func (tok ErrToken) IsZero() bool {
	return tok.err == nil
}

// Error implements error.
func (tok ErrToken) Error() string {
	if tok.err == nil {
		return "achan: empty error token"
	}
	return tok.err.Error()
}

// Unwrap returns the wrapped error, enabling errors.As and errors.Is.
func (tok ErrToken) Unwrap() error {
	return tok.err
}
