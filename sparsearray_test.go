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
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

// denseLenInvariant checks that each group's dense array length equals the
// popcount of its occupied|deleted bitmap, per §1's dense-length invariant.
func denseLenInvariant(t *testing.T, a *sparseArray[int, int]) {
	for gi := range a.groups {
		g := &a.groups[gi]
		want := bits.OnesCount64(g.occupied | g.deleted)
		require.Equal(t, want, len(g.dense), "group %d", gi)
	}
}

func TestSparseArraySetGetUnset(t *testing.T) {
	a := newSparseArray[int, int](128, 4)
	denseLenInvariant(t, a)

	for i := 0; i < 128; i += 3 {
		a.set(i, i, i*10, uint64(i), true)
	}
	denseLenInvariant(t, a)

	for i := 0; i < 128; i += 3 {
		require.True(t, a.has(i))
		s := a.get(i)
		require.Equal(t, i, s.key)
		require.Equal(t, i*10, s.value)
		require.Equal(t, uint64(i), s.cachedHash)
	}

	for i := 0; i < 128; i += 3 {
		a.unset(i)
	}
	denseLenInvariant(t, a)
	for i := 0; i < 128; i += 3 {
		require.False(t, a.has(i))
		require.True(t, a.isDeleted(i))
	}
}

func TestSparseArrayReuseTombstone(t *testing.T) {
	a := newSparseArray[int, int](64, 2)
	a.set(5, 5, 50, 0, false)
	a.set(10, 10, 100, 0, false)
	a.unset(5)
	denseLenInvariant(t, a)

	// Re-setting the tombstoned bucket must reuse its dense slot rather than
	// grow the array.
	before := len(a.groups[0].dense)
	a.set(5, 5, 500, 0, false)
	require.Equal(t, before, len(a.groups[0].dense))
	require.True(t, a.has(5))
	require.False(t, a.isDeleted(5))
	require.Equal(t, 500, a.get(5).value)
	denseLenInvariant(t, a)
}

func TestSparseArrayDenseGrowthInBlocks(t *testing.T) {
	sparsity := 4
	a := newSparseArray[int, int](64, sparsity)
	for i := 0; i < 64; i++ {
		a.set(i, i, i, 0, false)
		require.Equal(t, 0, cap(a.groups[0].dense)%sparsity, "cap must stay a multiple of sparsity at size %d", i+1)
	}
}

func TestSparseArrayNonEmptyGroupIndex(t *testing.T) {
	a := newSparseArray[int, int](groupSize*8, 4)
	a.set(groupSize*3+1, 1, 1, 0, false)
	a.set(groupSize*6+2, 2, 2, 0, false)
	require.Equal(t, []int{3, 6}, a.nonEmpty.sortedIndices())
}
