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
	"testing"

	"github.com/stretchr/testify/require"
)

func newIntSet(minCap int, opts ...Option[int, struct{}]) *Set[int] {
	s, err := NewSet[int](minCap, intHash, intEqual, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func toBuiltinSet(s *Set[int]) map[int]struct{} {
	out := make(map[int]struct{})
	s.All(func(k int) bool {
		out[k] = struct{}{}
		return true
	})
	return out
}

func TestSetBasic(t *testing.T) {
	s := newIntSet(0)
	added, err := s.Add(1)
	require.NoError(t, err)
	require.True(t, added)
	added, err = s.Add(1)
	require.NoError(t, err)
	require.False(t, added)
	require.True(t, s.Contains(1))
	require.False(t, s.Contains(2))
	require.Equal(t, 1, s.Size())

	require.Equal(t, 1, s.Remove(1))
	require.Equal(t, 0, s.Remove(1))
	require.False(t, s.Contains(1))
	require.Equal(t, 0, s.Size())
}

func TestSetIterationCompleteness(t *testing.T) {
	s := newIntSet(0)
	want := make(map[int]struct{})
	for i := 0; i < 1000; i++ {
		s.Add(i)
		want[i] = struct{}{}
	}
	require.Equal(t, want, toBuiltinSet(s))
}

func TestSetClearRetainsBucketCount(t *testing.T) {
	s := newIntSet(0)
	for i := 0; i < 500; i++ {
		s.Add(i)
	}
	bucketCount := s.BucketCount()
	s.Clear()
	require.Equal(t, 0, s.Size())
	require.Equal(t, bucketCount, s.BucketCount())
}
