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

import "github.com/RoaringBitmap/roaring"

// groupIndex tracks which sparse-group indices currently hold at least one
// occupied-or-deleted bucket. At low load factor most groups are empty;
// without this index, iteration and rehash would have to scan every group
// (O(bucket_count/groupSize)) to find the occupied ones. Backed by
// github.com/RoaringBitmap/roaring, the same library matrixorigin/matrixone
// uses for compact sparse membership sets over integer domains (its
// aggregation and block-metadata packages), which is a good fit here since
// group indices are a sparse subset of [0, bucket_count/groupSize).
type groupIndex struct {
	bmp *roaring.Bitmap
}

func newGroupIndex() *groupIndex {
	return &groupIndex{bmp: roaring.New()}
}

func (g *groupIndex) add(i int) {
	g.bmp.Add(uint32(i))
}

// sortedIndices returns the non-empty group indices in ascending order.
// roaring.Bitmap stores its entries in sorted runs already, so this is a
// straight drain of its iterator.
func (g *groupIndex) sortedIndices() []int {
	out := make([]int, 0, g.bmp.GetCardinality())
	it := g.bmp.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}
