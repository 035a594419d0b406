/*
 * Copyright 2025 TRENT-OS authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package ring provides the index arithmetic of fixed-capacity circular
// byte buffers and a single-address-space byte FIFO built on it.
//
// The same arithmetic backs the cross-process dataport FIFO, where the two
// sides of the ring live in different address spaces. The rules encoded
// here (in particular how contiguous runs are derived, see Index) are what
// makes that single-producer/single-consumer sharing safe without a lock,
// so they are written once in this package and reused everywhere.
package ring

import "fmt"

// Index is the bookkeeping of a circular byte buffer of fixed capacity.
//
// In and Out are unbounded monotonic counts of bytes ever written and read;
// at every observation point In >= Out and In-Out <= Cap. First and Last
// are the wrapped positions of the oldest unread byte and the next free
// byte (Out mod Cap and In mod Cap), maintained incrementally so the hot
// path never divides.
//
// When an Index is a snapshot of a buffer shared with another execution
// context, only the fields owned by the snapshotting side are exact; the
// opposite side's fields may already be stale. The contiguous-run methods
// are written for that situation: they derive the wrap boundary from the
// opposite side's *count*, never from its cached cursor, because a cursor
// can be observed mid-update relative to its count while a count alone is
// always safe to act on (it only grows, so the run computed from it can
// only be an underestimate).
type Index struct {
	Cap   uint64
	In    uint64 // bytes ever written, owned by the producer
	Out   uint64 // bytes ever read, owned by the consumer
	Last  uint64 // In mod Cap, owned by the producer
	First uint64 // Out mod Cap, owned by the consumer
}

// NewIndex returns an empty Index over the given capacity.
func NewIndex(capacity uint64) Index {
	return Index{Cap: capacity}
}

// Used returns the number of unread bytes in the buffer.
func (x *Index) Used() uint64 { return x.In - x.Out }

// Free returns the number of bytes that can still be written.
func (x *Index) Free() uint64 { return x.Cap - x.Used() }

// IsEmpty reports whether the buffer holds no unread bytes.
func (x *Index) IsEmpty() bool { return x.In == x.Out }

// IsFull reports whether no more bytes can be written.
func (x *Index) IsFull() bool { return x.Used() == x.Cap }

// ContiguousReadable returns the offset of the oldest unread byte and the
// length of the unread run before the buffer wraps. Both are zero when the
// buffer is empty. Consumer-side: First is exact, In is a snapshot.
func (x *Index) ContiguousReadable() (offset, n uint64) {
	if x.In == x.Out {
		return 0, 0
	}
	// The boundary must come from the snapshotted count; the producer's
	// cached Last may not yet agree with In.
	last := x.In % x.Cap
	if x.First < last {
		return x.First, last - x.First
	}
	return x.First, x.Cap - x.First
}

// ContiguousWritable returns the offset of the next free byte and the
// length of the free run before the buffer wraps. Both are zero when the
// buffer is full. Producer-side: Last is exact, Out is a snapshot.
func (x *Index) ContiguousWritable() (offset, n uint64) {
	if x.Out+x.Cap == x.In {
		return 0, 0
	}
	// Same rule as ContiguousReadable, mirrored: derive the boundary from
	// the snapshotted Out, not from the consumer's cached First.
	first := x.Out % x.Cap
	if first > x.Last {
		return x.Last, first - x.Last
	}
	return x.Last, x.Cap - x.Last
}

// AdvanceRead consumes n bytes. It panics if n exceeds Used; that can only
// happen when the consumer miscounts against its own fields, never through
// any action of the producer.
func (x *Index) AdvanceRead(n uint64) {
	if used := x.Used(); n > used {
		panic(fmt.Sprintf("ring: read advance %d exceeds %d used bytes", n, used))
	}
	x.Out += n
	// First stays below Cap, so one subtraction replaces the modulo.
	x.First += n
	if x.First >= x.Cap {
		x.First -= x.Cap
	}
}

// AdvanceWrite produces n bytes. It panics if n exceeds Free.
func (x *Index) AdvanceWrite(n uint64) {
	if free := x.Free(); n > free {
		panic(fmt.Sprintf("ring: write advance %d exceeds %d free bytes", n, free))
	}
	x.In += n
	x.Last += n
	if x.Last >= x.Cap {
		x.Last -= x.Cap
	}
}
