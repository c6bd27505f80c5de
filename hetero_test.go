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

type userID struct {
	namespace string
	id        int
}

func userIDHash(u userID) uint64 {
	return fnvString(u.namespace) ^ (uint64(u.id) * 0x9E3779B97F4A7C15)
}

func fnvString(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

// lookupKey is a distinct type from userID that the same values hash and
// compare equal to, exercising transparent lookup (§9).
type lookupKey struct {
	namespace string
	id        int
}

func lookupHash(l lookupKey) uint64 {
	return fnvString(l.namespace) ^ (uint64(l.id) * 0x9E3779B97F4A7C15)
}

func userEqualsLookup(u userID, l lookupKey) bool {
	return u.namespace == l.namespace && u.id == l.id
}

func TestFindHetero(t *testing.T) {
	m, err := NewMap[userID, string](0,
		userIDHash,
		func(a, b userID) bool { return a == b },
	)
	require.NoError(t, err)

	m.Set(userID{"a", 1}, "alice")
	m.Set(userID{"b", 2}, "bob")

	it, found := FindHetero[userID, string, lookupKey](m, lookupKey{"a", 1}, lookupHash, userEqualsLookup)
	require.True(t, found)
	require.Equal(t, "alice", it.Value())

	_, found = FindHetero[userID, string, lookupKey](m, lookupKey{"z", 9}, lookupHash, userEqualsLookup)
	require.False(t, found)

	require.True(t, ContainsHetero[userID, string, lookupKey](m, lookupKey{"b", 2}, lookupHash, userEqualsLookup))
	require.False(t, ContainsHetero[userID, string, lookupKey](m, lookupKey{"b", 3}, lookupHash, userEqualsLookup))
}

func TestSetContainsHetero(t *testing.T) {
	s, err := NewSet[userID](0, userIDHash, func(a, b userID) bool { return a == b })
	require.NoError(t, err)
	s.Add(userID{"a", 1})

	require.True(t, SetContainsHetero[userID, lookupKey](s, lookupKey{"a", 1}, lookupHash, userEqualsLookup))
	require.False(t, SetContainsHetero[userID, lookupKey](s, lookupKey{"a", 2}, lookupHash, userEqualsLookup))
}
