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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPowerOfTwoPolicy(t *testing.T) {
	p := &PowerOfTwoPolicy{}
	require.Equal(t, 16, p.Initialize(10))
	require.Equal(t, 16, p.BucketCount())
	require.Equal(t, int(5), p.BucketForHash(5))
	require.Equal(t, int(5), p.BucketForHash(5+16))

	next, err := p.NextBucketCount()
	require.NoError(t, err)
	require.Equal(t, 32, next)
	require.Equal(t, 32, p.BucketCount())
}

func TestPowerOfTwoPolicyRoundTrip(t *testing.T) {
	p := &PowerOfTwoPolicy{}
	p.Initialize(100)
	data := p.MarshalState()

	q := &PowerOfTwoPolicy{}
	require.NoError(t, q.UnmarshalState(data))
	require.Equal(t, p.BucketCount(), q.BucketCount())
	require.Equal(t, p.BucketForHash(12345), q.BucketForHash(12345))
}

func TestPrimeModuloPolicy(t *testing.T) {
	p := &PrimeModuloPolicy{}
	n := p.Initialize(100)
	require.Equal(t, 197, n)
	require.Equal(t, int(100%197), p.BucketForHash(100))

	next, err := p.NextBucketCount()
	require.NoError(t, err)
	require.Equal(t, 397, next)
	require.Equal(t, int(100%397), p.BucketForHash(100))
}

func TestPrimeModuloPolicyExhaustion(t *testing.T) {
	p := &PrimeModuloPolicy{}
	p.Initialize(primeTable[len(primeTable)-1])
	_, err := p.NextBucketCount()
	require.True(t, errors.Is(err, ErrMaxCapacity))
}

func TestPrimeModuloPolicyRoundTrip(t *testing.T) {
	p := &PrimeModuloPolicy{}
	p.Initialize(50000)
	data := p.MarshalState()

	q := &PrimeModuloPolicy{}
	require.NoError(t, q.UnmarshalState(data))
	require.Equal(t, p.BucketCount(), q.BucketCount())
}

func TestArbitraryFactorPolicy(t *testing.T) {
	p := NewArbitraryFactorPolicy(2.0)
	n := p.Initialize(10)
	require.Equal(t, 16, n)

	next, err := p.NextBucketCount()
	require.NoError(t, err)
	require.Equal(t, 32, next)

	next, err = p.NextBucketCount()
	require.NoError(t, err)
	require.Equal(t, 64, next)
}

func TestArbitraryFactorPolicyProducesPowersOfTwo(t *testing.T) {
	// Triangular-number probing only visits every bucket when the capacity
	// is a power of two, so every capacity this policy produces must be one
	// regardless of the configured factor.
	p := NewArbitraryFactorPolicy(1.3)
	n := p.Initialize(50)
	require.Equal(t, n&(n-1), 0)
	for i := 0; i < 10; i++ {
		next, err := p.NextBucketCount()
		require.NoError(t, err)
		require.Equal(t, next&(next-1), 0)
	}
}

func TestArbitraryFactorPolicyRejectsSmallFactor(t *testing.T) {
	p := NewArbitraryFactorPolicy(1.0)
	require.Equal(t, 1.5, p.factor)
	p = NewArbitraryFactorPolicy(0)
	require.Equal(t, 1.5, p.factor)
}

func TestArbitraryFactorPolicyAlwaysGrows(t *testing.T) {
	// A factor close to 1.0 must still strictly increase capacity every
	// call, since the engine relies on NextBucketCount never stalling.
	p := NewArbitraryFactorPolicy(1.01)
	n0 := p.Initialize(3)
	seen := map[int]bool{n0: true}
	n := n0
	for i := 0; i < 20; i++ {
		next, err := p.NextBucketCount()
		require.NoError(t, err)
		require.Greater(t, next, n)
		require.False(t, seen[next])
		seen[next] = true
		n = next
	}
}

func TestArbitraryFactorPolicyRoundTrip(t *testing.T) {
	p := NewArbitraryFactorPolicy(1.75)
	p.Initialize(40)
	data := p.MarshalState()

	q := &ArbitraryFactorPolicy{}
	require.NoError(t, q.UnmarshalState(data))
	require.Equal(t, p.BucketCount(), q.BucketCount())
	require.Equal(t, p.factor, q.factor)
}

func TestGrowthPolicyKinds(t *testing.T) {
	require.Equal(t, "pow2", (&PowerOfTwoPolicy{}).Kind())
	require.Equal(t, "prime", (&PrimeModuloPolicy{}).Kind())
	require.Equal(t, "factor", NewArbitraryFactorPolicy(1.5).Kind())
}
