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

// Package stream defines the uniform byte-stream contract used across
// components and provides its buffered (FIFO-backed) and file-backed
// implementations.
package stream

import (
	"fmt"
	"io"
	"time"
)

// DefaultTick is the tick duration used by blocking operations when the
// stream was constructed without an explicit one.
const DefaultTick = time.Millisecond

// Stream is the uniform read/write contract. Write and Read never block
// and may transfer fewer bytes than requested, down to zero; callers must
// treat short transfers as backpressure, not as failure. Get is the only
// blocking operation and reports end-of-stream as io.EOF. Flush
// synchronizes pending writes (implementation-defined, see the concrete
// types); Skip is its read-side mirror and discards all currently
// available unread bytes. Close releases whatever the stream owns.
type Stream interface {
	Write(p []byte) int
	Read(p []byte) int

	// Get accumulates bytes into p until p is full, a delimiter byte is
	// hit (consumed but not copied), or timeoutTicks ticks elapse without
	// data. timeoutTicks == 0 waits indefinitely. Returns the number of
	// bytes copied and io.EOF when the timeout hit.
	Get(p []byte, delims []byte, timeoutTicks uint) (int, error)

	Available() int
	Flush()
	Skip()
	Close()
}

// WriteAll keeps writing until all of p is accepted, flushing between
// attempts to push pending bytes out.
func WriteAll(s Stream, p []byte) {
	for len(p) > 0 {
		n := s.Write(p)
		p = p[n:]
		if len(p) > 0 {
			s.Flush()
		}
	}
}

// WriteSync writes once and flushes, returning the accepted count.
func WriteSync(s Stream, p []byte) int {
	n := s.Write(p)
	s.Flush()
	return n
}

// WriteAllSync writes all of p, flushing after every attempt.
func WriteAllSync(s Stream, p []byte) {
	for len(p) > 0 {
		p = p[WriteSync(s, p):]
	}
}

// ReadAll blocks until p is completely filled, yielding between short
// reads.
func ReadAll(s Stream, p []byte) {
	for len(p) > 0 {
		n := s.Read(p)
		p = p[n:]
		if len(p) > 0 {
			time.Sleep(DefaultTick)
		}
	}
}

// PutChar writes a single byte and flushes.
func PutChar(s Stream, c byte) {
	s.Write([]byte{c})
	s.Flush()
}

// PutString writes a complete string, flushing as needed.
func PutString(s Stream, str string) {
	WriteAllSync(s, []byte(str))
}

// GetChar blocks until one byte is available and returns it, or io.EOF if
// the stream ends first.
func GetChar(s Stream) (byte, error) {
	var buf [1]byte
	n, err := s.Get(buf[:], nil, 0)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return buf[0], nil
}

// Printf formats into the stream, writing everything out synchronously,
// and returns the number of bytes produced.
func Printf(s Stream, format string, args ...any) int {
	p := fmt.Appendf(nil, format, args...)
	WriteAllSync(s, p)
	return len(p)
}
