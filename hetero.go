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

// findHetero is the single generic lookup routine that every heterogeneous
// lookup dispatches to (§9 "Transparent lookup"). It walks the same probe
// sequence as Table.find, which typed lookups use.
func findHetero[K comparable, V any, L any](t *Table[K, V], lookup L, h uint64, equal func(K, L) bool) (int, bool) {
	n := t.sparse.bucketCount
	seq := makeProbeSequence(uint64(t.policy.BucketForHash(h)), n)
	for step := 0; step <= n; step++ {
		b := int(seq.bucket)
		switch {
		case t.sparse.has(b):
			s := t.sparse.get(b)
			if (!t.cacheHashes || !s.hasCachedHash || s.cachedHash == h) && equal(s.key, lookup) {
				return b, true
			}
		case !t.sparse.isDeleted(b):
			return 0, false
		}
		seq = seq.next()
	}
	panic("sparsehash: probe sequence exceeded bucket_count without terminating")
}

// FindHetero looks up a key of a different type L than the Map's stored key
// type K, succeeding iff hash(lookup) agrees with the Map's own hasher on
// any stored key equal (per equal) to lookup. hash and equal must be
// transparent: equal keys of type K and L must hash equal.
func FindHetero[K comparable, V any, L any](m *Map[K, V], lookup L, hash func(L) uint64, equal func(K, L) bool) (MapIterator[K, V], bool) {
	b, found := findHetero[K, V, L](m.t, lookup, hash(lookup), equal)
	if !found {
		return MapIterator[K, V]{}, false
	}
	return MapIterator[K, V]{m: m, bucket: b, valid: true}, true
}

// ContainsHetero is FindHetero without constructing an iterator.
func ContainsHetero[K comparable, V any, L any](m *Map[K, V], lookup L, hash func(L) uint64, equal func(K, L) bool) bool {
	_, found := findHetero[K, V, L](m.t, lookup, hash(lookup), equal)
	return found
}

// SetContainsHetero is ContainsHetero for a Set.
func SetContainsHetero[K comparable, L any](s *Set[K], lookup L, hash func(L) uint64, equal func(K, L) bool) bool {
	_, found := findHetero[K, struct{}, L](s.t, lookup, hash(lookup), equal)
	return found
}
