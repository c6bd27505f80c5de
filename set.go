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

// Set is an unordered key-only container sharing the same sparse,
// bit-indexed bucket array and probing engine as Map, with the value type
// fixed to struct{} so it costs nothing per entry. A Set is NOT
// goroutine-safe.
type Set[K comparable] struct {
	t *Table[K, struct{}]
}

// NewSet constructs a Set with at least minCapacity buckets.
func NewSet[K comparable](minCapacity int, hasher func(K) uint64, equal func(a, b K) bool, opts ...Option[K, struct{}]) (*Set[K], error) {
	t, err := newTableWithOptions[K, struct{}](minCapacity, &PowerOfTwoPolicy{}, hasher, equal, opts)
	if err != nil {
		return nil, err
	}
	return &Set[K]{t: t}, nil
}

// Add inserts key, returning true if it was not already present. err is
// non-nil only if a post-insert rehash failed to grow the table further
// (§7: "no error is recovered silently") — key is still added either way.
func (s *Set[K]) Add(key K) (inserted bool, err error) {
	_, inserted, err = s.t.insert(key, struct{}{}, s.t.hasher(key))
	return inserted, err
}

func (s *Set[K]) Contains(key K) bool {
	_, found := s.t.find(key, s.t.hasher(key))
	return found
}

// Remove erases key, returning 1 if it was present, 0 otherwise.
func (s *Set[K]) Remove(key K) int {
	return s.t.erase(key, s.t.hasher(key))
}

func (s *Set[K]) Size() int { return s.t.size }
func (s *Set[K]) BucketCount() int { return s.t.sparse.bucketCount }
func (s *Set[K]) LoadFactor() float64 { return s.t.loadFactor() }
func (s *Set[K]) MaxLoadFactor() float64 { return s.t.maxLoadFactor }

func (s *Set[K]) Reserve(n int) error { return s.t.reserve(n) }
func (s *Set[K]) Rehash(n int) error { return s.t.rehashExplicit(n) }
func (s *Set[K]) Clear() { s.t.clear() }

// All yields every key in ascending bucket order. If yield returns false,
// iteration stops.
func (s *Set[K]) All(yield func(key K) bool) {
	it := newBucketIterator(s.t.sparse)
	for !it.Done() {
		sl := it.Slot()
		if !yield(sl.key) {
			return
		}
		it.Next()
	}
}
