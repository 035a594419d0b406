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
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputStreamReadIsNonBlocking(t *testing.T) {
	s, err := NewInputStream(16)
	require.NoError(t, err)

	buf := make([]byte, 4)
	assert.Equal(t, 0, s.Read(buf), "read from an empty stream must return 0")

	require.Equal(t, 3, s.Feed([]byte("abc")))
	assert.Equal(t, 3, s.Available())
	assert.Equal(t, 3, s.Read(buf))
	assert.Equal(t, "abc", string(buf[:3]))
}

func TestInputStreamWriteRejected(t *testing.T) {
	s, err := NewInputStream(16)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Write([]byte("nope")))
}

func TestGetStopsAtDelimiter(t *testing.T) {
	s, err := NewInputStream(16)
	require.NoError(t, err)
	require.Equal(t, 5, s.Feed([]byte("ab\ncd")))

	buf := make([]byte, 5)
	n, err := s.Get(buf, []byte("\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "ab", string(buf[:n]))

	// The delimiter is consumed but not copied: exactly "cd" is left.
	assert.Equal(t, 2, s.Available())
	n = s.Read(buf)
	assert.Equal(t, 2, n)
	assert.Equal(t, "cd", string(buf[:n]))
}

func TestGetStopsAtMaxLen(t *testing.T) {
	s, err := NewInputStream(16)
	require.NoError(t, err)
	s.Feed([]byte("abcdef"))

	buf := make([]byte, 4)
	n, err := s.Get(buf, []byte("\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcd", string(buf))
	assert.Equal(t, 2, s.Available())
}

func TestGetTimesOut(t *testing.T) {
	const tick = time.Millisecond
	s, err := NewInputStream(16, WithTick(tick))
	require.NoError(t, err)

	const ticks = 20
	start := time.Now()
	buf := make([]byte, 4)
	n, err := s.Get(buf, nil, ticks)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, n)
	assert.GreaterOrEqual(t, elapsed, ticks*tick, "returned before the timeout")
	assert.Less(t, elapsed, 50*ticks*tick, "returned far after the timeout")
}

func TestGetWaitsForLateBytes(t *testing.T) {
	s, err := NewInputStream(16, WithTick(time.Millisecond))
	require.NoError(t, err)

	go func() {
		time.Sleep(5 * time.Millisecond)
		s.Feed([]byte("ok\n"))
	}()

	buf := make([]byte, 8)
	n, err := s.Get(buf, []byte("\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(buf[:n]))
}

func TestGetReturnsPartialOnTimeout(t *testing.T) {
	s, err := NewInputStream(16, WithTick(time.Millisecond))
	require.NoError(t, err)
	s.Feed([]byte("ab"))

	buf := make([]byte, 8)
	n, err := s.Get(buf, nil, 5)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "ab", string(buf[:n]))
}

func TestSkipDiscardsBufferedBytes(t *testing.T) {
	s, err := NewInputStream(16)
	require.NoError(t, err)
	s.Feed([]byte("garbage"))
	s.Skip()
	assert.Equal(t, 0, s.Available())
}

func TestFeedBackpressure(t *testing.T) {
	s, err := NewInputStream(4)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Feed([]byte("abcdef")), "feed truncates at capacity")
	assert.Equal(t, 0, s.Feed([]byte("x")), "feed into a full buffer returns 0")
	assert.False(t, s.FeedByte('x'))
}

func TestGetChar(t *testing.T) {
	s, err := NewInputStream(4)
	require.NoError(t, err)
	s.FeedByte('q')

	c, err := GetChar(s)
	require.NoError(t, err)
	assert.Equal(t, byte('q'), c)
}
