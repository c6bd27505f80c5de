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

// probeSequence walks the quadratic, triangular-number probe sequence of
// §4.2: b_k = (b0 + T(k)) mod N, generated incrementally as
// b_{k+1} = (b_k + (k+1)) mod N so each step is an add and a mod rather than
// a multiply. Modelled on the teacher's probeSeq (mask/offset/index fields,
// a next() step), but advancing one bucket at a time instead of one
// SIMD-group at a time, since our groups are storage groups, not probe
// groups: every bucket must be individually reachable.
type probeSequence struct {
	n      uint64
	bucket uint64
	step   uint64
}

func makeProbeSequence(initial uint64, bucketCount int) probeSequence {
	n := uint64(bucketCount)
	return probeSequence{n: n, bucket: initial % n}
}

func (s probeSequence) next() probeSequence {
	s.step++
	s.bucket = (s.bucket + s.step) % s.n
	return s
}
