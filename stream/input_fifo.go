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
	"bytes"
	"io"
	"time"

	"github.com/TRENT-OS/lib-io/ring"
)

// InputStream is the receive side of the stream contract over an owned
// byte FIFO. The component feeding the stream (a driver, an interrupt
// handler, the drain loop of a dataport) pushes bytes in through Feed;
// stream callers take them out through Read and Get.
//
// Writes are not supported and accept nothing.
type InputStream struct {
	fifo *ring.Fifo
	tick time.Duration
}

// Option configures a buffered stream at construction.
type Option func(*config)

type config struct {
	tick time.Duration
}

// WithTick sets the tick duration that Get and Flush use for one unit of
// waiting. The default is DefaultTick.
func WithTick(d time.Duration) Option {
	return func(c *config) { c.tick = d }
}

func applyOptions(opts []Option) config {
	c := config{tick: DefaultTick}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewInputStream returns an InputStream buffering up to capacity bytes.
func NewInputStream(capacity int, opts ...Option) (*InputStream, error) {
	fifo, err := ring.NewFifo(capacity)
	if err != nil {
		return nil, err
	}
	c := applyOptions(opts)
	return &InputStream{fifo: fifo, tick: c.tick}, nil
}

// Feed makes bytes available to the stream's readers. It copies
// min(len(p), free) bytes and returns the count; zero means the buffer is
// full and the feeder has to retry later.
func (s *InputStream) Feed(p []byte) int { return s.fifo.Write(p) }

// FeedByte makes a single byte available, reporting false when full.
func (s *InputStream) FeedByte(c byte) bool { return s.fifo.PushByte(c) }

// Write accepts nothing: an input stream does not know how to write.
func (s *InputStream) Write(p []byte) int { return 0 }

// Read copies up to len(p) buffered bytes into p without blocking.
func (s *InputStream) Read(p []byte) int { return s.fifo.Read(p) }

// Get accumulates bytes into p until p is full, a delimiter is hit, or
// the timeout elapses. A delimiter byte is consumed but not copied. When
// the buffer runs empty, Get sleeps one tick and retries; after
// timeoutTicks ticks without data it returns io.EOF along with whatever
// was accumulated. timeoutTicks == 0 waits indefinitely.
func (s *InputStream) Get(p []byte, delims []byte, timeoutTicks uint) (int, error) {
	start := time.Now()
	n := 0
	for n < len(p) {
		c, ok := s.fifo.PopByte()
		if !ok {
			if timeoutTicks != 0 && time.Since(start) >= time.Duration(timeoutTicks)*s.tick {
				return n, io.EOF
			}
			time.Sleep(s.tick)
			continue
		}
		if len(delims) > 0 && bytes.IndexByte(delims, c) >= 0 {
			return n, nil
		}
		p[n] = c
		n++
	}
	return n, nil
}

// Available returns the number of buffered unread bytes.
func (s *InputStream) Available() int { return s.fifo.Size() }

// Flush is a no-op: an input stream has no pending writes.
func (s *InputStream) Flush() {}

// Skip discards all currently buffered bytes.
func (s *InputStream) Skip() { s.fifo.Clear() }

// Close releases nothing; the FIFO dies with the stream.
func (s *InputStream) Close() {}
