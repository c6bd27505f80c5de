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
	"fmt"

	"go.uber.org/zap"
)

// debug gates verbose probe tracing, the same pattern the teacher uses for
// its own probe diagnostics (a compile-time constant rather than a runtime
// flag, so the tracing calls are dead code and inlined away in production
// builds).
const debug = false

const (
	defaultMaxLoadFactor      = 0.5
	defaultTombstoneThreshold = 0.125
	defaultSparsity           = 4
	defaultMinBucketCount     = 16
)

// Table is the hash-table engine shared by Map and Set: it translates key
// operations into bucket probes over a sparseArray, manages tombstones, and
// triggers rehash when load or tombstone thresholds are crossed. A Table is
// NOT goroutine-safe.
type Table[K comparable, V any] struct {
	sparse *sparseArray[K, V]

	policy GrowthPolicy
	hasher func(K) uint64
	equal  func(a, b K) bool

	size               int
	tombstoneCount     int
	maxLoadFactor      float64
	tombstoneThreshold float64
	cacheHashes        bool
	sparsity           int
	logger             *zap.Logger

	configErr error
}

func newTableWithOptions[K comparable, V any](minBucketCount int, policy GrowthPolicy, hasher func(K) uint64, equal func(a, b K) bool, opts []Option[K, V]) (*Table[K, V], error) {
	t := &Table[K, V]{
		policy:             policy,
		hasher:             hasher,
		equal:              equal,
		maxLoadFactor:      defaultMaxLoadFactor,
		tombstoneThreshold: defaultTombstoneThreshold,
		cacheHashes:        true,
		sparsity:           defaultSparsity,
		logger:             zap.NewNop(),
	}
	for _, op := range opts {
		op.apply(t)
	}
	if t.configErr != nil {
		return nil, t.configErr
	}
	if minBucketCount < 1 {
		minBucketCount = defaultMinBucketCount
	}
	n := t.policy.Initialize(minBucketCount)
	t.sparse = newSparseArray[K, V](n, t.sparsity)
	return t, nil
}

// matches tests whether slot s holds key, consulting the cached hash first
// as a cheap prefilter when hash caching is enabled (§4.2 "Optional hash
// caching").
func (t *Table[K, V]) matches(s *slot[K, V], key K, h uint64) bool {
	if t.cacheHashes && s.hasCachedHash && s.cachedHash != h {
		return false
	}
	return t.equal(s.key, key)
}

// find implements §4.2 find(key, h): walk the probe sequence, returning the
// bucket on a match, or ok=false once an empty bucket is reached.
func (t *Table[K, V]) find(key K, h uint64) (bucket int, ok bool) {
	n := t.sparse.bucketCount
	seq := makeProbeSequence(uint64(t.policy.BucketForHash(h)), n)
	for step := 0; step <= n; step++ {
		b := int(seq.bucket)
		if debug {
			fmt.Printf("find(%v): step=%d bucket=%d\n", key, step, b)
		}
		switch {
		case t.sparse.has(b):
			if t.matches(t.sparse.get(b), key, h) {
				return b, true
			}
		case !t.sparse.isDeleted(b):
			return 0, false
		}
		seq = seq.next()
	}
	panic("sparsehash: probe sequence exceeded bucket_count without terminating")
}

// insert implements §4.2 insert(key, value, h). It returns the bucket the
// entry occupies (whether newly inserted or already present), whether an
// insertion actually happened, and any error growing the table past the
// insert (§7: "no error is recovered silently" — a failed post-insert
// rehash is reported rather than swallowed, even though the entry itself
// was placed successfully and remains findable).
func (t *Table[K, V]) insert(key K, value V, h uint64) (bucket int, inserted bool, err error) {
	n := t.sparse.bucketCount
	seq := makeProbeSequence(uint64(t.policy.BucketForHash(h)), n)
	firstTombstone := -1

	for step := 0; step <= n; step++ {
		b := int(seq.bucket)
		switch {
		case t.sparse.has(b):
			if t.matches(t.sparse.get(b), key, h) {
				return b, false, nil
			}
		case t.sparse.isDeleted(b):
			if firstTombstone < 0 {
				firstTombstone = b
			}
		default:
			target := b
			reused := firstTombstone >= 0
			if reused {
				target = firstTombstone
			}
			t.placeAt(target, key, value, h)
			if reused {
				t.tombstoneCount--
			}
			t.size++
			before := t.sparse
			err := t.maybeRehash()
			if t.sparse != before {
				// The rehash relocated every entry; look the new one up again.
				target, _ = t.find(key, h)
			}
			return target, true, err
		}
		seq = seq.next()
	}
	panic("sparsehash: probe sequence exceeded bucket_count without terminating")
}

func (t *Table[K, V]) placeAt(b int, key K, value V, h uint64) {
	t.sparse.set(b, key, value, h, t.cacheHashes)
}

// erase implements §4.2 erase(key, h).
func (t *Table[K, V]) erase(key K, h uint64) int {
	b, ok := t.find(key, h)
	if !ok {
		return 0
	}
	t.sparse.unset(b)
	t.size--
	t.tombstoneCount++
	return 1
}

// maybeRehash applies the load-factor and tombstone-factor thresholds of
// §4.2. Because every GrowthPolicy here guarantees NextBucketCount()
// strictly exceeds the current capacity, a tombstone-triggered rehash always
// grows the table rather than reusing the same capacity — the "acceptable"
// outcome §9 calls out explicitly.
func (t *Table[K, V]) maybeRehash() error {
	n := t.sparse.bucketCount
	overLoad := float64(t.size+t.tombstoneCount) > t.maxLoadFactor*float64(n)
	overTombstones := float64(t.tombstoneCount) > t.tombstoneThreshold*float64(n)
	if !overLoad && !overTombstones {
		return nil
	}
	next, err := t.policy.NextBucketCount()
	if err != nil {
		return fmt.Errorf("sparsehash: growing past %d buckets: %w", n, err)
	}
	return t.rehashTo(next)
}

// rehashTo allocates a fresh sparseArray at newCount and relocates every
// occupied entry into it via the tombstone-free insert fast path, then
// releases the old array. Matches §4.2 Rehash.
func (t *Table[K, V]) rehashTo(newCount int) error {
	old := t.sparse
	t.logger.Info("rehash",
		zap.Int("old_bucket_count", old.bucketCount),
		zap.Int("new_bucket_count", newCount),
		zap.Int("size", t.size),
		zap.Int("tombstones", t.tombstoneCount),
	)

	fresh := newSparseArray[K, V](newCount, t.sparsity)
	it := newBucketIterator(old)
	for !it.Done() {
		s := it.Slot()
		h := s.cachedHash
		if !(t.cacheHashes && s.hasCachedHash) {
			h = t.hasher(s.key)
		}
		t.uncheckedInsert(fresh, s.key, s.value, h)
		it.Next()
	}

	t.sparse = fresh
	t.tombstoneCount = 0
	return nil
}

// uncheckedInsert places an entry known not to already be present into arr,
// skipping the deleted-slot bookkeeping that insert() needs: a freshly
// rehashed array has no tombstones.
func (t *Table[K, V]) uncheckedInsert(arr *sparseArray[K, V], key K, value V, h uint64) {
	n := arr.bucketCount
	seq := makeProbeSequence(uint64(t.policy.BucketForHash(h)), n)
	for {
		b := int(seq.bucket)
		if !arr.has(b) {
			arr.set(b, key, value, h, t.cacheHashes)
			return
		}
		seq = seq.next()
	}
}

// reserve grows the table, if necessary, so that n further inserts cross
// neither threshold: size+tombstones+n must fit under the load factor (an
// insert need not land on a tombstone), and tombstones already over the
// tombstone threshold are swept. This satisfies §8's "reserve(n) followed
// by n inserts performs no intermediate rehash".
func (t *Table[K, V]) reserve(n int) error {
	for float64(t.size+t.tombstoneCount+n) > t.maxLoadFactor*float64(t.sparse.bucketCount) ||
		float64(t.tombstoneCount) > t.tombstoneThreshold*float64(t.sparse.bucketCount) {
		next, err := t.policy.NextBucketCount()
		if err != nil {
			return fmt.Errorf("sparsehash: reserving %d entries: %w", n, err)
		}
		if err := t.rehashTo(next); err != nil {
			return err
		}
	}
	return nil
}

// rehashExplicit implements the external rehash(n) operation: grow until
// capacity is at least n, or if already there, rehash in place at the
// current capacity to sweep tombstones.
func (t *Table[K, V]) rehashExplicit(n int) error {
	if n <= t.sparse.bucketCount {
		return t.rehashTo(t.sparse.bucketCount)
	}
	for t.sparse.bucketCount < n {
		next, err := t.policy.NextBucketCount()
		if err != nil {
			return fmt.Errorf("sparsehash: rehashing to %d buckets: %w", n, err)
		}
		if err := t.rehashTo(next); err != nil {
			return err
		}
	}
	return nil
}

// clear empties the table. bucket_count is retained (§9's open question is
// resolved that way here; see DESIGN.md).
func (t *Table[K, V]) clear() {
	t.sparse = newSparseArray[K, V](t.sparse.bucketCount, t.sparsity)
	t.size = 0
	t.tombstoneCount = 0
}

func (t *Table[K, V]) loadFactor() float64 {
	return float64(t.size) / float64(t.sparse.bucketCount)
}
