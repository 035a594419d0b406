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

package stream

import (
	"time"

	"github.com/TRENT-OS/lib-io/ring"
)

// FlushPolicy selects what Flush does on a DuplexStream. The two behaviors
// are mutually exclusive and fixed per instantiation; which one is valid
// depends on whether some independent collaborator drains the outbound
// buffer.
type FlushPolicy int

const (
	// FlushDrain blocks the caller, sleeping one tick per round, until the
	// outbound buffer is empty. Valid only when the other end is known to
	// drain it independently; otherwise Flush never returns.
	FlushDrain FlushPolicy = iota

	// FlushUnsupported makes Flush panic. Pick this when no independent
	// drain exists, so a flush call is a caller bug rather than a wait.
	FlushUnsupported
)

// DuplexStream extends InputStream with an outbound buffer, completing the
// stream contract for bidirectional component plumbing. The inbound side
// behaves exactly like InputStream; the outbound side accepts writes up to
// its free space and leaves delivery to whoever consumes Outbound().
type DuplexStream struct {
	InputStream

	out    *ring.Fifo
	policy FlushPolicy
}

// NewDuplexStream returns a DuplexStream with separate inbound and
// outbound capacities and the given flush policy.
func NewDuplexStream(readCapacity, writeCapacity int, policy FlushPolicy, opts ...Option) (*DuplexStream, error) {
	in, err := NewInputStream(readCapacity, opts...)
	if err != nil {
		return nil, err
	}
	out, err := ring.NewFifo(writeCapacity)
	if err != nil {
		return nil, err
	}
	return &DuplexStream{
		InputStream: *in,
		out:         out,
		policy:      policy,
	}, nil
}

// Write copies min(len(p), free) bytes into the outbound buffer and
// returns the count. It never blocks and never fails; callers needing a
// delivery guarantee combine it with Flush (under FlushDrain) or check
// the count and retry.
func (s *DuplexStream) Write(p []byte) int { return s.out.Write(p) }

// Flush behaves per the stream's FlushPolicy: FlushDrain blocks until the
// outbound buffer empties, FlushUnsupported panics.
func (s *DuplexStream) Flush() {
	switch s.policy {
	case FlushDrain:
		for !s.out.IsEmpty() {
			time.Sleep(s.tick)
		}
	default:
		panic("stream: flushing this fifo stream is not supported")
	}
}

// Outbound exposes the outbound buffer so the collaborating component can
// drain it. Only one such consumer may exist at a time.
func (s *DuplexStream) Outbound() *ring.Fifo { return s.out }

// Close drains pending output when the policy allows waiting for it and
// otherwise abandons it.
func (s *DuplexStream) Close() {
	if s.policy == FlushDrain {
		s.Flush()
	}
}
