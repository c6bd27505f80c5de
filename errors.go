// Copyright 2026 The Sparsehash Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sparsehash

import "errors"

// Sentinel errors surfaced by the container. Callers should compare against
// these with errors.Is rather than matching on message text.
//
// The underlying spec's storage layer can report a failed allocation as an
// ordinary return value; Go's runtime instead panics (or is killed by the
// OS) on allocation failure, with no recoverable error path for make/append
// to return. There is consequently no ErrAllocation sentinel here — wiring
// one would have nothing real to return it from.
var (
	// ErrMaxCapacity is returned by a growth policy that has no next capacity
	// to offer.
	ErrMaxCapacity = errors.New("sparsehash: max capacity exceeded")

	// ErrInvalidArgument is returned for out-of-range configuration, such as a
	// max load factor outside (0.0, 1.0).
	ErrInvalidArgument = errors.New("sparsehash: invalid argument")

	// ErrDeserializationMismatch is returned when restored growth-policy state
	// does not match the policy currently configured on the destination
	// container.
	ErrDeserializationMismatch = errors.New("sparsehash: deserialization mismatch")
)
