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

package ring

import (
	"errors"
	"sync/atomic"
)

// ErrZeroCapacity is returned when a FIFO is constructed over no storage.
var ErrZeroCapacity = errors.New("ring: capacity must be positive")

// Fifo is a fixed-capacity byte FIFO confined to one address space.
//
// It is safe for one producer goroutine (Write, PushByte, PeekContiguousFree,
// CommitWrite) and one consumer goroutine (Read, PopByte, PeekContiguous,
// CommitRead, Clear) concurrently; the index fields are published
// atomically so a count never advertises bytes before they are stored.
// Anything beyond one context per side is the embedding component's call
// discipline to prevent.
//
// Operations never fail: writes into a full FIFO and reads from an empty
// one transfer fewer bytes than requested, possibly zero.
type Fifo struct {
	idx  Index
	data []byte
}

// NewFifo returns a Fifo with the given capacity in bytes.
func NewFifo(capacity int) (*Fifo, error) {
	if capacity <= 0 {
		return nil, ErrZeroCapacity
	}
	return &Fifo{
		idx:  NewIndex(uint64(capacity)),
		data: make([]byte, capacity),
	}, nil
}

// snapshot atomically loads the index fields. The caller's own side is
// exact, the opposite side momentary.
func (f *Fifo) snapshot() Index {
	return Index{
		Cap:   f.idx.Cap,
		In:    atomic.LoadUint64(&f.idx.In),
		Out:   atomic.LoadUint64(&f.idx.Out),
		Last:  atomic.LoadUint64(&f.idx.Last),
		First: atomic.LoadUint64(&f.idx.First),
	}
}

// publishWrite advances the producer-owned fields by n; the data bytes
// must already be in place.
func (f *Fifo) publishWrite(idx Index, n uint64) {
	idx.AdvanceWrite(n)
	atomic.StoreUint64(&f.idx.Last, idx.Last)
	atomic.StoreUint64(&f.idx.In, idx.In)
}

// publishRead advances the consumer-owned fields by n, releasing space.
func (f *Fifo) publishRead(idx Index, n uint64) {
	idx.AdvanceRead(n)
	atomic.StoreUint64(&f.idx.First, idx.First)
	atomic.StoreUint64(&f.idx.Out, idx.Out)
}

// Capacity returns the fixed capacity in bytes.
func (f *Fifo) Capacity() int { return int(f.idx.Cap) }

// Size returns the number of unread bytes. Stale on return when the other
// side is active.
func (f *Fifo) Size() int {
	idx := f.snapshot()
	return int(idx.Used())
}

// Free returns the number of bytes that can still be written.
func (f *Fifo) Free() int {
	idx := f.snapshot()
	return int(idx.Free())
}

// IsEmpty reports whether the FIFO held no unread bytes at the snapshot.
func (f *Fifo) IsEmpty() bool {
	idx := f.snapshot()
	return idx.IsEmpty()
}

// IsFull reports whether the FIFO was full at the snapshot.
func (f *Fifo) IsFull() bool {
	idx := f.snapshot()
	return idx.IsFull()
}

// Write copies min(len(p), Free()) bytes from p into the FIFO and returns
// the number copied. A zero return signals backpressure, not an error.
func (f *Fifo) Write(p []byte) int {
	total := 0
	for len(p) > 0 {
		idx := f.snapshot()
		off, n := idx.ContiguousWritable()
		if n == 0 {
			break
		}
		if n > uint64(len(p)) {
			n = uint64(len(p))
		}
		copy(f.data[off:off+n], p[:n])
		f.publishWrite(idx, n)
		p = p[n:]
		total += int(n)
	}
	return total
}

// Read copies min(len(p), Size()) bytes from the FIFO into p and returns
// the number copied, zero when the FIFO is empty.
func (f *Fifo) Read(p []byte) int {
	total := 0
	for len(p) > 0 {
		idx := f.snapshot()
		off, n := idx.ContiguousReadable()
		if n == 0 {
			break
		}
		if n > uint64(len(p)) {
			n = uint64(len(p))
		}
		copy(p[:n], f.data[off:off+n])
		f.publishRead(idx, n)
		p = p[n:]
		total += int(n)
	}
	return total
}

// PushByte appends a single byte. It reports false when the FIFO is full.
func (f *Fifo) PushByte(c byte) bool {
	idx := f.snapshot()
	if idx.IsFull() {
		return false
	}
	f.data[idx.Last] = c
	f.publishWrite(idx, 1)
	return true
}

// PopByte removes and returns the oldest byte. It reports false when the
// FIFO is empty.
func (f *Fifo) PopByte() (byte, bool) {
	idx := f.snapshot()
	if idx.IsEmpty() {
		return 0, false
	}
	c := f.data[idx.First]
	f.publishRead(idx, 1)
	return c, true
}

// PeekContiguous returns a view of the unread bytes up to the wrap
// boundary without consuming them, nil when the FIFO is empty. Consumer
// side; pair with CommitRead. The view stays valid until committed: the
// producer cannot touch unread bytes.
func (f *Fifo) PeekContiguous() []byte {
	idx := f.snapshot()
	off, n := idx.ContiguousReadable()
	if n == 0 {
		return nil
	}
	return f.data[off : off+n]
}

// PeekContiguousFree returns a view of the free bytes up to the wrap
// boundary, nil when the FIFO is full. Producer side; fill front to back,
// then call CommitWrite with the number of bytes produced.
func (f *Fifo) PeekContiguousFree() []byte {
	idx := f.snapshot()
	off, n := idx.ContiguousWritable()
	if n == 0 {
		return nil
	}
	return f.data[off : off+n]
}

// CommitRead consumes n bytes previously observed through PeekContiguous.
// Committing more than Size() panics.
func (f *Fifo) CommitRead(n int) {
	idx := f.snapshot()
	f.publishRead(idx, uint64(n))
}

// CommitWrite publishes n bytes previously placed through
// PeekContiguousFree. Committing more than Free() panics.
func (f *Fifo) CommitWrite(n int) {
	idx := f.snapshot()
	f.publishWrite(idx, uint64(n))
}

// Clear drops all bytes that were unread at the call. Consumer side; a
// concurrent producer may land new bytes right after the snapshot, which
// survive.
func (f *Fifo) Clear() {
	idx := f.snapshot()
	f.publishRead(idx, idx.Used())
}
