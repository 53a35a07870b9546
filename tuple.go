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

// Tuple2 is a two-element tuple, the Go stand-in for the variadic element
// lists a Channel<T...> would carry in languages with variadic generics.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

// Unit is the zero-element payload, for channels that only ever signal
// occurrence, never carry data.
type Unit = struct{}
