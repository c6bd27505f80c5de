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

import "math/bits"

// groupSize is G from the sparse-array design: the number of logical
// buckets that share one occupied/deleted bitmap. 64 keeps each bitmap a
// single machine word so popcount and trailing-zero bit tricks map directly
// onto math/bits, which the Go compiler lowers to the CPU's POPCNT/TZCNT
// instructions where available and falls back to a software implementation
// otherwise.
const groupSize = 64

// slot holds one entry in a group's dense array. cachedHash holds the full
// hash of key when hash caching is enabled, used as a fast prefilter ahead
// of the equality predicate and to skip re-hashing on rehash.
type slot[K comparable, V any] struct {
	key           K
	value         V
	cachedHash    uint64
	hasCachedHash bool
}

// group is a sparse group of groupSize logical buckets: an occupied bitmap,
// a deleted (tombstone) bitmap, and a dense array holding exactly
// popcount(occupied|deleted) entries, in ascending bit order.
type group[K comparable, V any] struct {
	occupied uint64
	deleted  uint64
	dense    []slot[K, V]
}

// denseIndex returns the dense-array index for the logical bit position bit,
// whether or not that position is currently occupied-or-deleted. Callers
// that want the index of an existing entry rely on the slot-indexing
// invariant: the dense index equals the popcount of occupied-or-deleted bits
// strictly below bit.
func (g *group[K, V]) denseIndex(bit uint) int {
	below := (g.occupied | g.deleted) & (uint64(1)<<bit - 1)
	return bits.OnesCount64(below)
}

// growIfFull grows the dense array by sparsity slots if it has no spare
// capacity, preserving the invariant that capacity is always a multiple of
// sparsity.
func (g *group[K, V]) growIfFull(sparsity int) {
	if len(g.dense) < cap(g.dense) {
		return
	}
	grown := make([]slot[K, V], len(g.dense), cap(g.dense)+sparsity)
	copy(grown, g.dense)
	g.dense = grown
}

// insertAt grows the dense array if needed and shifts entries at and after
// idx up by one slot to make room for a new entry at idx.
func (g *group[K, V]) insertAt(idx int, sparsity int, s slot[K, V]) {
	g.growIfFull(sparsity)
	g.dense = g.dense[:len(g.dense)+1]
	copy(g.dense[idx+1:], g.dense[idx:len(g.dense)-1])
	g.dense[idx] = s
}

// sparseArray is the two-level storage structure of §1: a slice of groups
// indexed by bucket/groupSize, plus a roaring-bitmap index of which groups
// are non-empty so iteration and rehash need not scan every group at low
// load factor.
type sparseArray[K comparable, V any] struct {
	groups      []group[K, V]
	bucketCount int
	sparsity    int
	nonEmpty    *groupIndex
}

func newSparseArray[K comparable, V any](bucketCount, sparsity int) *sparseArray[K, V] {
	numGroups := (bucketCount + groupSize - 1) / groupSize
	return &sparseArray[K, V]{
		groups:      make([]group[K, V], numGroups),
		bucketCount: bucketCount,
		sparsity:    sparsity,
		nonEmpty:    newGroupIndex(),
	}
}

func (a *sparseArray[K, V]) has(i int) bool {
	g := &a.groups[i/groupSize]
	bit := uint(i % groupSize)
	return (g.occupied>>bit)&1 == 1
}

func (a *sparseArray[K, V]) isDeleted(i int) bool {
	g := &a.groups[i/groupSize]
	bit := uint(i % groupSize)
	return (g.deleted>>bit)&1 == 1
}

// get returns a pointer to the entry stored at bucket i. Precondition:
// has(i). The pointer is only valid until the next mutation of the group.
func (a *sparseArray[K, V]) get(i int) *slot[K, V] {
	g := &a.groups[i/groupSize]
	bit := uint(i % groupSize)
	return &g.dense[g.denseIndex(bit)]
}

// set stores an entry at bucket i, which must currently be empty or
// deleted. A deleted slot is reused in place; an empty slot grows the dense
// array (by sparsity, if full) and shifts later entries to make room.
func (a *sparseArray[K, V]) set(i int, key K, value V, cachedHash uint64, hasCachedHash bool) {
	gi := i / groupSize
	g := &a.groups[gi]
	bit := uint(i % groupSize)
	mask := uint64(1) << bit
	wasEmptyGroup := g.occupied == 0 && g.deleted == 0

	s := slot[K, V]{key: key, value: value, cachedHash: cachedHash, hasCachedHash: hasCachedHash}
	if g.deleted&mask != 0 {
		g.dense[g.denseIndex(bit)] = s
		g.deleted &^= mask
	} else {
		g.insertAt(g.denseIndex(bit), a.sparsity, s)
	}
	g.occupied |= mask

	if wasEmptyGroup {
		a.nonEmpty.add(gi)
	}
}

// unset destroys the entry at bucket i, which must be occupied, clears the
// occupied bit, and sets the deleted bit. The dense slot is retained so
// neighbouring entries' dense indices are unaffected.
func (a *sparseArray[K, V]) unset(i int) {
	gi := i / groupSize
	g := &a.groups[gi]
	bit := uint(i % groupSize)
	mask := uint64(1) << bit

	idx := g.denseIndex(bit)
	g.dense[idx] = slot[K, V]{}
	g.occupied &^= mask
	g.deleted |= mask
}
