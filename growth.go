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

import (
	"encoding/binary"
	"math"
)

// GrowthPolicy maps a hash to an initial bucket and chooses the sequence of
// capacities a table grows through. Initialize, BucketForHash, and
// NextBucketCount must all agree on the policy's current capacity; the
// engine never calls BucketForHash with a stale policy.
//
// Kind/MarshalState/UnmarshalState support the serialization hooks of §6:
// restoring a table replays its growth-policy state directly rather than
// re-deriving it from the restored bucket_count.
type GrowthPolicy interface {
	// Initialize chooses the actual initial capacity >= minBucketCount and
	// returns it.
	Initialize(minBucketCount int) int
	// BucketForHash maps a hash to a bucket index in [0, BucketCount()).
	BucketForHash(h uint64) int
	// NextBucketCount returns the next larger capacity this policy
	// supports, strictly exceeding the current one, or ErrMaxCapacity.
	NextBucketCount() (int, error)
	// BucketCount returns the capacity chosen by the most recent
	// Initialize or NextBucketCount call.
	BucketCount() int

	Kind() string
	MarshalState() []byte
	UnmarshalState(data []byte) error
}

// PowerOfTwoPolicy rounds capacity up to the next power of two and maps
// hashes with a mask, bucket_for_hash(h) = h & (N-1). Fast but sensitive to
// hashes with correlated low bits.
type PowerOfTwoPolicy struct {
	n int
}

func (p *PowerOfTwoPolicy) Initialize(min int) int {
	n := 1
	for n < min {
		n <<= 1
	}
	p.n = n
	return n
}

func (p *PowerOfTwoPolicy) BucketForHash(h uint64) int {
	return int(h & uint64(p.n-1))
}

func (p *PowerOfTwoPolicy) NextBucketCount() (int, error) {
	if p.n >= (1 << 62) {
		return 0, ErrMaxCapacity
	}
	p.n <<= 1
	return p.n, nil
}

func (p *PowerOfTwoPolicy) BucketCount() int { return p.n }

func (p *PowerOfTwoPolicy) Kind() string { return "pow2" }

func (p *PowerOfTwoPolicy) MarshalState() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(p.n))
	return buf
}

func (p *PowerOfTwoPolicy) UnmarshalState(data []byte) error {
	if len(data) != 8 {
		return ErrDeserializationMismatch
	}
	p.n = int(binary.LittleEndian.Uint64(data))
	return nil
}

// primeTable is a monotonically increasing table of primes used by
// PrimeModuloPolicy, taken from the classic libstdc++ unordered-container
// growth table: each roughly 2x the previous, which keeps the number of
// rehashes logarithmic in the final size while avoiding the power-of-two's
// correlated-low-bits weakness (§8 scenario 6).
var primeTable = []int{
	11, 23, 47, 97, 197, 397, 797, 1597, 3209, 6421,
	12853, 25717, 51437, 102877, 205759, 411527, 823117, 1646237, 3292489, 6584983,
	13169977, 26339969, 52679969, 105359939, 210719881, 421439783, 842879579, 1685759167,
}

// PrimeModuloPolicy chooses capacities from primeTable and maps hashes with
// bucket_for_hash(h) = h mod P[i]. BucketForHash dispatches through a switch
// over the table index so each case divides by a literal constant, letting
// the compiler strength-reduce the modulo into a multiply-and-shift instead
// of emitting a variable-divisor DIV instruction (the "compile-time
// specialized modulo" of §4.3, expressed the idiomatic-Go way rather than as
// a C++ template instantiation).
type PrimeModuloPolicy struct {
	idx int
}

func (p *PrimeModuloPolicy) Initialize(min int) int {
	for i, prime := range primeTable {
		if prime >= min {
			p.idx = i
			return prime
		}
	}
	p.idx = len(primeTable) - 1
	return primeTable[p.idx]
}

func (p *PrimeModuloPolicy) BucketForHash(h uint64) int {
	switch p.idx {
	case 0:
		return int(h % 11)
	case 1:
		return int(h % 23)
	case 2:
		return int(h % 47)
	case 3:
		return int(h % 97)
	case 4:
		return int(h % 197)
	case 5:
		return int(h % 397)
	case 6:
		return int(h % 797)
	case 7:
		return int(h % 1597)
	case 8:
		return int(h % 3209)
	case 9:
		return int(h % 6421)
	case 10:
		return int(h % 12853)
	case 11:
		return int(h % 25717)
	case 12:
		return int(h % 51437)
	case 13:
		return int(h % 102877)
	case 14:
		return int(h % 205759)
	case 15:
		return int(h % 411527)
	case 16:
		return int(h % 823117)
	case 17:
		return int(h % 1646237)
	case 18:
		return int(h % 3292489)
	case 19:
		return int(h % 6584983)
	case 20:
		return int(h % 13169977)
	case 21:
		return int(h % 26339969)
	case 22:
		return int(h % 52679969)
	case 23:
		return int(h % 105359939)
	case 24:
		return int(h % 210719881)
	case 25:
		return int(h % 421439783)
	case 26:
		return int(h % 842879579)
	case 27:
		return int(h % 1685759167)
	default:
		// Unreachable: Initialize, NextBucketCount and UnmarshalState all
		// keep idx within primeTable.
		return int(h % uint64(primeTable[p.idx]))
	}
}

func (p *PrimeModuloPolicy) NextBucketCount() (int, error) {
	if p.idx+1 >= len(primeTable) {
		return 0, ErrMaxCapacity
	}
	p.idx++
	return primeTable[p.idx], nil
}

func (p *PrimeModuloPolicy) BucketCount() int { return primeTable[p.idx] }

func (p *PrimeModuloPolicy) Kind() string { return "prime" }

func (p *PrimeModuloPolicy) MarshalState() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(p.idx))
	return buf
}

func (p *PrimeModuloPolicy) UnmarshalState(data []byte) error {
	if len(data) != 4 {
		return ErrDeserializationMismatch
	}
	idx := int(binary.LittleEndian.Uint32(data))
	if idx < 0 || idx >= len(primeTable) {
		return ErrDeserializationMismatch
	}
	p.idx = idx
	return nil
}

// ArbitraryFactorPolicy grows capacity by a configurable multiplicative
// factor and maps hashes with a plain runtime modulo.
//
// The triangular-number probe sequence of probe.go (b_{k+1} = b_k + (k+1)
// mod N) only visits every residue mod N when N is a power of two; for any
// other N it can cycle through a strict subset of buckets, which would let
// find/insert run off the end of the probe budget even with free buckets
// remaining. So despite the configurable factor, every capacity this policy
// produces is rounded up to a power of two — the factor controls how many
// doublings a single growth step advances through, not the raw multiplier.
type ArbitraryFactorPolicy struct {
	n      int
	factor float64
}

// NewArbitraryFactorPolicy constructs a policy that grows capacity by
// approximately factor each time NextBucketCount is called, rounded up to
// the next power of two. factor <= 1.0 is invalid and is replaced by a
// default of 1.5.
func NewArbitraryFactorPolicy(factor float64) *ArbitraryFactorPolicy {
	if factor <= 1.0 {
		factor = 1.5
	}
	return &ArbitraryFactorPolicy{factor: factor}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p > 0 && p < n {
		p <<= 1
	}
	return p
}

func (p *ArbitraryFactorPolicy) Initialize(min int) int {
	n := nextPowerOfTwo(min)
	if n < 1 {
		n = 1
	}
	p.n = n
	return n
}

func (p *ArbitraryFactorPolicy) BucketForHash(h uint64) int {
	return int(h % uint64(p.n))
}

func (p *ArbitraryFactorPolicy) NextBucketCount() (int, error) {
	desired := int(math.Ceil(float64(p.n) * p.factor))
	next := nextPowerOfTwo(desired)
	if next <= p.n {
		next = p.n << 1
	}
	if next <= 0 {
		// Overflowed int; there is nowhere further to grow.
		return 0, ErrMaxCapacity
	}
	p.n = next
	return next, nil
}

func (p *ArbitraryFactorPolicy) BucketCount() int { return p.n }

func (p *ArbitraryFactorPolicy) Kind() string { return "factor" }

func (p *ArbitraryFactorPolicy) MarshalState() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[:8], uint64(p.n))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(p.factor))
	return buf
}

func (p *ArbitraryFactorPolicy) UnmarshalState(data []byte) error {
	if len(data) != 16 {
		return ErrDeserializationMismatch
	}
	p.n = int(binary.LittleEndian.Uint64(data[:8]))
	p.factor = math.Float64frombits(binary.LittleEndian.Uint64(data[8:]))
	return nil
}
