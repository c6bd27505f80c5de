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

// Map is an unordered key/value container built on a sparse, bit-indexed
// bucket array with quadratic probing (§3-4). A Map is NOT goroutine-safe,
// and any mutation invalidates every outstanding MapIterator.
type Map[K comparable, V any] struct {
	t *Table[K, V]
}

// NewMap constructs a Map with at least minCapacity buckets. hasher must be
// deterministic and agree with equal: equal keys must hash equal. The
// default growth policy is power-of-two; override with WithGrowthPolicy.
func NewMap[K comparable, V any](minCapacity int, hasher func(K) uint64, equal func(a, b K) bool, opts ...Option[K, V]) (*Map[K, V], error) {
	t, err := newTableWithOptions[K, V](minCapacity, &PowerOfTwoPolicy{}, hasher, equal, opts)
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{t: t}, nil
}

// MapIterator is a handle to a single bucket of a Map, re-deriving its slot
// address on every Key/Value/SetValue call rather than caching a pointer,
// so it survives any mutation that does not itself invalidate iterators (see
// §9 "Iterator as a handle"). All iterators are invalidated by any
// subsequent mutation of the Map; using one after that is undefined.
type MapIterator[K comparable, V any] struct {
	m      *Map[K, V]
	bucket int
	valid  bool
}

func (it MapIterator[K, V]) Valid() bool { return it.valid }

func (it MapIterator[K, V]) Key() K {
	return it.m.t.sparse.get(it.bucket).key
}

func (it MapIterator[K, V]) Value() V {
	return it.m.t.sparse.get(it.bucket).value
}

// SetValue mutates the value in place through the dedicated value-accessor
// described in §6; the key is immutable through a MapIterator.
func (it MapIterator[K, V]) SetValue(v V) {
	it.m.t.sparse.get(it.bucket).value = v
}

// Insert implements §6's insert(entry) -> (iterator, bool). If key is
// already present, the returned iterator refers to the existing entry and
// inserted is false; value is discarded in that case, matching §4.2 insert's
// "already present" outcome. Use Set to insert-or-overwrite. err is
// non-nil only if a post-insert rehash failed to grow the table further
// (§7: "no error is recovered silently") — the entry is placed and findable
// either way.
func (m *Map[K, V]) Insert(key K, value V) (it MapIterator[K, V], inserted bool, err error) {
	h := m.t.hasher(key)
	b, inserted, err := m.t.insert(key, value, h)
	return MapIterator[K, V]{m: m, bucket: b, valid: true}, inserted, err
}

// Set inserts key/value, or overwrites the value of an existing entry via
// the value-accessor (§8 scenario 1: "assign map[key] = v").
func (m *Map[K, V]) Set(key K, value V) error {
	it, inserted, err := m.Insert(key, value)
	if !inserted {
		it.SetValue(value)
	}
	return err
}

// Get retrieves the value for key, returning ok=false if absent.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	b, found := m.t.find(key, m.t.hasher(key))
	if !found {
		var zero V
		return zero, false
	}
	return m.t.sparse.get(b).value, true
}

// Find implements §6's find(key) -> iterator.
func (m *Map[K, V]) Find(key K) (MapIterator[K, V], bool) {
	b, found := m.t.find(key, m.t.hasher(key))
	if !found {
		return MapIterator[K, V]{}, false
	}
	return MapIterator[K, V]{m: m, bucket: b, valid: true}, true
}

func (m *Map[K, V]) Contains(key K) bool {
	_, found := m.t.find(key, m.t.hasher(key))
	return found
}

// Erase implements §6's erase(key) -> count.
func (m *Map[K, V]) Erase(key K) int {
	return m.t.erase(key, m.t.hasher(key))
}

// EraseIterator implements §6's erase(iterator) -> iterator, returning a
// handle to the next occupied bucket after the erased one.
func (m *Map[K, V]) EraseIterator(it MapIterator[K, V]) MapIterator[K, V] {
	bucket := it.bucket
	key := it.Key()
	m.t.erase(key, m.t.hasher(key))
	next := newBucketIteratorFrom(m.t.sparse, bucket)
	if next.Done() {
		return MapIterator[K, V]{}
	}
	return MapIterator[K, V]{m: m, bucket: next.Bucket(), valid: true}
}

func (m *Map[K, V]) Size() int { return m.t.size }
func (m *Map[K, V]) BucketCount() int { return m.t.sparse.bucketCount }
func (m *Map[K, V]) LoadFactor() float64 { return m.t.loadFactor() }
func (m *Map[K, V]) MaxLoadFactor() float64 { return m.t.maxLoadFactor }

// Reserve grows the Map, if necessary, so that n further inserts perform no
// intermediate rehash (§8).
func (m *Map[K, V]) Reserve(n int) error { return m.t.reserve(n) }

// Rehash forces the Map to at least n buckets, or sweeps tombstones in
// place if n does not exceed the current bucket_count.
func (m *Map[K, V]) Rehash(n int) error { return m.t.rehashExplicit(n) }

// Clear empties the Map. bucket_count is retained.
func (m *Map[K, V]) Clear() { m.t.clear() }

// All yields every (key, value) pair in ascending bucket order, in the
// range-over-func style the teacher itself uses for its own All method. If
// yield returns false, iteration stops.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	it := newBucketIterator(m.t.sparse)
	for !it.Done() {
		s := it.Slot()
		if !yield(s.key, s.value) {
			return
		}
		it.Next()
	}
}
