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

// Package dataport implements a single-producer/single-consumer byte FIFO
// whose control block and storage live in a memory region shared between
// two processes. No mutex or cross-process wakeup is involved: the producer
// only ever advances the write-side fields, the consumer only ever advances
// the read-side fields, and each side treats the other's fields as
// eventually-consistent snapshots.
package dataport

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

const (
	// Magic identifies an initialized dataport region.
	Magic = "TOSFIFO\x00"

	// Version is the current control-block layout version.
	Version = uint32(1)

	// HeaderSize is the size of the control block preceding the payload.
	// The layout below is a wire format: both processes must be compiled
	// with the same field order, integer width and byte order.
	HeaderSize = 64
)

// Header is the dataport control block. It occupies the first HeaderSize
// bytes of the shared region; the payload follows immediately.
//
// in/out are the monotonic write/read byte counts, last/first the cached
// wrapped cursors (see ring.Index). The producer owns in and last, the
// consumer owns out and first. All four are accessed atomically so an
// index store never becomes visible before the payload bytes it
// advertises.
type Header struct {
	magic    [8]byte  // 0x00: "TOSFIFO\0"
	version  uint32   // 0x08: layout version
	_        uint32   // 0x0C: padding
	capacity uint64   // 0x10: payload capacity, immutable after Create
	in       uint64   // 0x18: bytes ever written (producer)
	out      uint64   // 0x20: bytes ever read (consumer)
	last     uint64   // 0x28: in mod capacity (producer)
	first    uint64   // 0x30: out mod capacity (consumer)
	reserved [8]byte  // 0x38-0x3F: reserved
}

// Magic returns the magic bytes.
func (h *Header) Magic() [8]byte { return h.magic }

// SetMagic sets the magic bytes.
func (h *Header) SetMagic(magic [8]byte) { h.magic = magic }

// Version returns the layout version.
func (h *Header) Version() uint32 { return atomic.LoadUint32(&h.version) }

// SetVersion sets the layout version.
func (h *Header) SetVersion(v uint32) { atomic.StoreUint32(&h.version, v) }

// Capacity returns the payload capacity.
func (h *Header) Capacity() uint64 { return atomic.LoadUint64(&h.capacity) }

// SetCapacity sets the payload capacity. Producer, once, during Create.
func (h *Header) SetCapacity(c uint64) { atomic.StoreUint64(&h.capacity, c) }

// In returns the monotonic write count.
func (h *Header) In() uint64 { return atomic.LoadUint64(&h.in) }

// SetIn publishes the monotonic write count. Producer only.
func (h *Header) SetIn(v uint64) { atomic.StoreUint64(&h.in, v) }

// Out returns the monotonic read count.
func (h *Header) Out() uint64 { return atomic.LoadUint64(&h.out) }

// SetOut publishes the monotonic read count. Consumer only.
func (h *Header) SetOut(v uint64) { atomic.StoreUint64(&h.out, v) }

// Last returns the producer's cached write cursor.
func (h *Header) Last() uint64 { return atomic.LoadUint64(&h.last) }

// SetLast updates the producer's cached write cursor. Producer only.
func (h *Header) SetLast(v uint64) { atomic.StoreUint64(&h.last, v) }

// First returns the consumer's cached read cursor.
func (h *Header) First() uint64 { return atomic.LoadUint64(&h.first) }

// SetFirst updates the consumer's cached read cursor. Consumer only.
func (h *Header) SetFirst(v uint64) { atomic.StoreUint64(&h.first, v) }

// magicBytes is Magic as an array, for initialization and comparison.
func magicBytes() [8]byte {
	return [8]byte{'T', 'O', 'S', 'F', 'I', 'F', 'O', 0}
}

// validateHeader checks that a region holds an initialized, compatible
// dataport whose payload fits the region.
func validateHeader(h *Header, regionLen int) error {
	if h.Magic() != magicBytes() {
		return fmt.Errorf("dataport: invalid magic bytes")
	}
	if v := h.Version(); v != Version {
		return fmt.Errorf("dataport: unsupported version %d, expected %d", v, Version)
	}
	capacity := h.Capacity()
	if capacity == 0 {
		return fmt.Errorf("dataport: zero capacity")
	}
	// Compared this way round so a huge capacity cannot wrap the sum.
	if uint64(regionLen) < HeaderSize || capacity > uint64(regionLen)-HeaderSize {
		return fmt.Errorf("dataport: region of %d bytes cannot hold header plus %d payload bytes", regionLen, capacity)
	}
	return nil
}

// headerView interprets the start of a region as a Header.
func headerView(mem []byte) *Header {
	return (*Header)(unsafe.Pointer(&mem[0]))
}
