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
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// EntryCodec supplies the byte encoding for a Map's keys and values, since
// the core cannot know how to serialize an arbitrary K/V on its own. This is
// the idiomatic-Go shape of §6's "pair of callbacks" serialization hook.
type EntryCodec[K comparable, V any] struct {
	EncodeKey   func(K) []byte
	DecodeKey   func([]byte) (K, error)
	EncodeValue func(V) []byte
	DecodeValue func([]byte) (V, error)
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func writeBytes(w io.Writer, b []byte) error {
	if err := writeUint64(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBytes(r io.Reader) ([]byte, error) {
	n, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteTo serializes the Map per §6: bucket_count, size, tombstone_count,
// max_load_factor, growth-policy kind and state, then each occupied
// bucket's (bucket_index, entry).
func (m *Map[K, V]) WriteTo(w io.Writer, codec EntryCodec[K, V]) error {
	t := m.t
	if err := writeUint64(w, uint64(t.sparse.bucketCount)); err != nil {
		return err
	}
	if err := writeUint64(w, uint64(t.size)); err != nil {
		return err
	}
	if err := writeUint64(w, uint64(t.tombstoneCount)); err != nil {
		return err
	}
	if err := writeUint64(w, math.Float64bits(t.maxLoadFactor)); err != nil {
		return err
	}
	if err := writeBytes(w, []byte(t.policy.Kind())); err != nil {
		return err
	}
	if err := writeBytes(w, t.policy.MarshalState()); err != nil {
		return err
	}

	it := newBucketIterator(t.sparse)
	for !it.Done() {
		s := it.Slot()
		if err := writeUint64(w, uint64(it.Bucket())); err != nil {
			return err
		}
		if err := writeBytes(w, codec.EncodeKey(s.key)); err != nil {
			return err
		}
		if err := writeBytes(w, codec.EncodeValue(s.value)); err != nil {
			return err
		}
		it.Next()
	}
	return nil
}

// ReadFrom restores a Map serialized by WriteTo, replacing its current
// contents. The destination Map's growth policy must be the same Kind as
// the one persisted; otherwise ErrDeserializationMismatch is returned
// without mutating the Map. Restoring re-probes every persisted entry
// through the same tombstone-free fast path rehashTo uses
// (uncheckedInsert), rather than placing it at its serialized bucket index
// directly: if a tombstone sat on an entry's probe chain at serialize time,
// that bucket is simply absent from the stream, so placing by index alone
// would leave find() walking into an empty bucket before reaching the
// entry. Entries are written in ascending bucket order by WriteTo, so
// re-probing in that same order reproduces identical placement when no
// tombstone was on the chain and repairs it when one was.
func (m *Map[K, V]) ReadFrom(r io.Reader, codec EntryCodec[K, V]) error {
	t := m.t

	bucketCount, err := readUint64(r)
	if err != nil {
		return err
	}
	size, err := readUint64(r)
	if err != nil {
		return err
	}
	tombstones, err := readUint64(r)
	if err != nil {
		return err
	}
	maxLoadBits, err := readUint64(r)
	if err != nil {
		return err
	}
	kindBytes, err := readBytes(r)
	if err != nil {
		return err
	}
	if string(kindBytes) != t.policy.Kind() {
		return fmt.Errorf("sparsehash: serialized growth policy %q, have %q: %w", kindBytes, t.policy.Kind(), ErrDeserializationMismatch)
	}
	stateBytes, err := readBytes(r)
	if err != nil {
		return err
	}
	prevState := t.policy.MarshalState()
	if err := t.policy.UnmarshalState(stateBytes); err != nil {
		return fmt.Errorf("sparsehash: restoring growth policy state: %w", err)
	}
	if t.policy.BucketCount() != int(bucketCount) {
		_ = t.policy.UnmarshalState(prevState)
		return fmt.Errorf("sparsehash: growth policy reports %d buckets, serialized %d: %w", t.policy.BucketCount(), bucketCount, ErrDeserializationMismatch)
	}

	fresh := newSparseArray[K, V](int(bucketCount), t.sparsity)
	for i := uint64(0); i < size; i++ {
		// bucket is the slot the entry occupied at serialize time. It is
		// read to advance the stream and is otherwise unused: placement is
		// recomputed by probing fresh below, not by trusting this index.
		bucket, err := readUint64(r)
		if err != nil {
			return err
		}
		keyBytes, err := readBytes(r)
		if err != nil {
			return err
		}
		valueBytes, err := readBytes(r)
		if err != nil {
			return err
		}
		key, err := codec.DecodeKey(keyBytes)
		if err != nil {
			return fmt.Errorf("sparsehash: decoding key at bucket %d: %w", bucket, err)
		}
		value, err := codec.DecodeValue(valueBytes)
		if err != nil {
			return fmt.Errorf("sparsehash: decoding value at bucket %d: %w", bucket, err)
		}
		h := t.hasher(key)
		t.uncheckedInsert(fresh, key, value, h)
	}

	// fresh holds only the occupied entries just replayed above — no bucket
	// in it is marked deleted, so the live tombstone count is 0 regardless
	// of what was persisted. The persisted count above is read only to keep
	// the stream format self-describing; using it here would desync
	// t.tombstoneCount from the §3 invariant tombstone_count =
	// Σpopcount(deleted_bitmap) and could trigger a spurious tombstone
	// rehash on the next insert.
	_ = tombstones
	t.sparse = fresh
	t.size = int(size)
	t.tombstoneCount = 0
	t.maxLoadFactor = math.Float64frombits(maxLoadBits)
	return nil
}
