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

// Option configures a Table at construction time, applied by NewMap/NewSet
// before the growth policy's Initialize is called. Modelled directly on the
// teacher's own option[K,V] interface and apply method.
type Option[K comparable, V any] interface {
	apply(t *Table[K, V])
}

type funcOption[K comparable, V any] func(t *Table[K, V])

func (f funcOption[K, V]) apply(t *Table[K, V]) { f(t) }

// WithGrowthPolicy overrides the default power-of-two growth policy.
func WithGrowthPolicy[K comparable, V any](p GrowthPolicy) Option[K, V] {
	return funcOption[K, V](func(t *Table[K, V]) {
		t.policy = p
	})
}

// WithMaxLoadFactor sets the load factor above which an insert triggers a
// rehash. f must be in (0.0, 1.0); anything else is reported as
// InvalidArgument once the Table is constructed.
func WithMaxLoadFactor[K comparable, V any](f float64) Option[K, V] {
	return funcOption[K, V](func(t *Table[K, V]) {
		if f <= 0 || f >= 1 {
			t.configErr = fmt.Errorf("sparsehash: max load factor %v: %w", f, ErrInvalidArgument)
			return
		}
		t.maxLoadFactor = f
	})
}

// WithTombstoneThreshold sets the fraction of bucket_count that
// tombstone_count may reach before a rehash is triggered to sweep them.
func WithTombstoneThreshold[K comparable, V any](f float64) Option[K, V] {
	return funcOption[K, V](func(t *Table[K, V]) {
		if f <= 0 || f >= 1 {
			t.configErr = fmt.Errorf("sparsehash: tombstone threshold %v: %w", f, ErrInvalidArgument)
			return
		}
		t.tombstoneThreshold = f
	})
}

// WithSparsity sets the block size S by which a group's dense array grows.
// Only 2, 4, and 8 are accepted per §3's sparsity parameter.
func WithSparsity[K comparable, V any](s int) Option[K, V] {
	return funcOption[K, V](func(t *Table[K, V]) {
		if s != 2 && s != 4 && s != 8 {
			t.configErr = fmt.Errorf("sparsehash: sparsity %d: %w", s, ErrInvalidArgument)
			return
		}
		t.sparsity = s
	})
}

// WithHashCaching toggles storing a copy of each entry's hash alongside it,
// used as an equality prefilter and to skip re-hashing during rehash.
func WithHashCaching[K comparable, V any](enabled bool) Option[K, V] {
	return funcOption[K, V](func(t *Table[K, V]) {
		t.cacheHashes = enabled
	})
}

// WithLogger attaches a structured logger for informational diagnostics
// outside the hot path; the only event logged is the start of each rehash. The default is
// a no-op logger, so the core performs no I/O unless a caller opts in.
func WithLogger[K comparable, V any](logger *zap.Logger) Option[K, V] {
	return funcOption[K, V](func(t *Table[K, V]) {
		if logger != nil {
			t.logger = logger
		}
	})
}
