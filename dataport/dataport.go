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

package dataport

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/TRENT-OS/lib-io/ring"
)

// Dataport is one side's handle on a shared FIFO region.
//
// The producer process calls Create once over a zeroed region and then
// only Write, PeekContiguousFree and CommitWrite. The consumer process
// calls Attach and then only Read, PeekContiguous and CommitRead. The
// observation methods are safe from either side but stale on return.
// Neither side may have more than one execution context operating on its
// side of the handle at a time.
type Dataport struct {
	hdr  *Header
	data []byte
}

// Create initializes a dataport over a region. Producer only; the region
// must not be in use by a consumer yet. It fails when capacity is zero or
// the region cannot hold the control block plus capacity payload bytes.
func Create(region *Region, capacity uint64) (*Dataport, error) {
	if capacity == 0 {
		return nil, errors.New("dataport: capacity must be positive")
	}
	// Compared this way round so a huge capacity cannot wrap the sum.
	if uint64(len(region.Mem)) < HeaderSize || capacity > uint64(len(region.Mem))-HeaderSize {
		return nil, errors.Errorf("dataport: region of %d bytes cannot hold header plus %d payload bytes", len(region.Mem), capacity)
	}

	hdr := headerView(region.Mem)
	hdr.SetIn(0)
	hdr.SetOut(0)
	hdr.SetLast(0)
	hdr.SetFirst(0)
	hdr.SetCapacity(capacity)
	hdr.SetVersion(Version)
	// Magic goes last so a concurrently attaching consumer never validates
	// a half-initialized header.
	hdr.SetMagic(magicBytes())

	return &Dataport{
		hdr:  hdr,
		data: region.Mem[HeaderSize : HeaderSize+capacity],
	}, nil
}

// Attach opens an already created dataport in a region. Consumer side; it
// validates the control block before trusting any of it.
func Attach(region *Region) (*Dataport, error) {
	if len(region.Mem) < HeaderSize {
		return nil, errors.Errorf("dataport: region of %d bytes is smaller than the %d byte control block", len(region.Mem), HeaderSize)
	}
	hdr := headerView(region.Mem)
	if err := validateHeader(hdr, len(region.Mem)); err != nil {
		return nil, errors.Wrap(err, "dataport: attach")
	}
	capacity := hdr.Capacity()
	return &Dataport{
		hdr:  hdr,
		data: region.Mem[HeaderSize : HeaderSize+capacity],
	}, nil
}

// snapshot loads the control block into a local Index. The caller's own
// fields are exact; the opposite side's fields are a momentary snapshot.
func (d *Dataport) snapshot() ring.Index {
	return ring.Index{
		Cap:   d.hdr.Capacity(),
		In:    d.hdr.In(),
		Out:   d.hdr.Out(),
		Last:  d.hdr.Last(),
		First: d.hdr.First(),
	}
}

// Capacity returns the payload capacity in bytes.
func (d *Dataport) Capacity() int { return len(d.data) }

// Size returns the number of unread bytes. Stale on return.
func (d *Dataport) Size() int {
	idx := d.snapshot()
	return int(idx.Used())
}

// Free returns the number of writable bytes. Stale on return.
func (d *Dataport) Free() int {
	idx := d.snapshot()
	return int(idx.Free())
}

// IsEmpty reports whether the FIFO held no unread bytes at the snapshot.
func (d *Dataport) IsEmpty() bool {
	idx := d.snapshot()
	return idx.IsEmpty()
}

// IsFull reports whether the FIFO was full at the snapshot.
func (d *Dataport) IsFull() bool {
	idx := d.snapshot()
	return idx.IsFull()
}

// Write copies min(len(p), Free()) bytes into the FIFO and returns the
// number copied. Producer only. A zero return means the consumer has not
// freed space yet; it is backpressure, never an error.
func (d *Dataport) Write(p []byte) int {
	total := 0
	// Two rounds at most: the free span can split into a run before the
	// wrap and one after it.
	for len(p) > 0 {
		idx := d.snapshot()
		off, n := idx.ContiguousWritable()
		if n == 0 {
			break
		}
		if n > uint64(len(p)) {
			n = uint64(len(p))
		}
		copy(d.data[off:off+n], p[:n])
		d.publishWrite(idx, n)
		p = p[n:]
		total += int(n)
	}
	return total
}

// Read copies min(len(p), Size()) bytes out of the FIFO and returns the
// number copied, zero when the FIFO is empty. Consumer only.
func (d *Dataport) Read(p []byte) int {
	total := 0
	for len(p) > 0 {
		idx := d.snapshot()
		off, n := idx.ContiguousReadable()
		if n == 0 {
			break
		}
		if n > uint64(len(p)) {
			n = uint64(len(p))
		}
		copy(p[:n], d.data[off:off+n])
		d.publishRead(idx, n)
		p = p[n:]
		total += int(n)
	}
	return total
}

// PeekContiguous returns a view of the unread bytes up to the wrap
// boundary without consuming them, nil when the FIFO is empty. Consumer
// only; pair with CommitRead. The view is safe to use while uncommitted:
// the producer cannot touch unread bytes.
func (d *Dataport) PeekContiguous() []byte {
	idx := d.snapshot()
	off, n := idx.ContiguousReadable()
	if n == 0 {
		return nil
	}
	return d.data[off : off+n]
}

// PeekContiguousFree returns a view of the free bytes up to the wrap
// boundary, nil when the FIFO is full. Producer only; fill front to back,
// then CommitWrite the number of bytes produced. Useful for DMA-style or
// bulk transfers straight into the shared region.
func (d *Dataport) PeekContiguousFree() []byte {
	idx := d.snapshot()
	off, n := idx.ContiguousWritable()
	if n == 0 {
		return nil
	}
	return d.data[off : off+n]
}

// CommitRead consumes n bytes previously observed through PeekContiguous.
// Consumer only. Committing more than Size() is a contract violation and
// panics: only the consumer's own miscounting can cause it, the producer
// can only have grown the readable span in the meantime.
func (d *Dataport) CommitRead(n int) {
	idx := d.snapshot()
	if used := idx.Used(); uint64(n) > used {
		panic(fmt.Sprintf("dataport: CommitRead(%d) exceeds %d used bytes", n, used))
	}
	d.publishRead(idx, uint64(n))
}

// CommitWrite publishes n bytes previously placed through
// PeekContiguousFree. Producer only. Committing more than Free() panics.
func (d *Dataport) CommitWrite(n int) {
	idx := d.snapshot()
	if free := idx.Free(); uint64(n) > free {
		panic(fmt.Sprintf("dataport: CommitWrite(%d) exceeds %d free bytes", n, free))
	}
	d.publishWrite(idx, uint64(n))
}

// publishWrite advances the producer-owned fields by n. The payload copy
// must be complete before the call: the atomic count store is what makes
// the bytes visible to the consumer.
func (d *Dataport) publishWrite(idx ring.Index, n uint64) {
	idx.AdvanceWrite(n)
	d.hdr.SetLast(idx.Last)
	d.hdr.SetIn(idx.In)
}

// publishRead advances the consumer-owned fields by n, releasing the space
// back to the producer.
func (d *Dataport) publishRead(idx ring.Index, n uint64) {
	idx.AdvanceRead(n)
	d.hdr.SetFirst(idx.First)
	d.hdr.SetOut(idx.Out)
}
