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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFifoZeroCapacity(t *testing.T) {
	_, err := NewFifo(0)
	require.ErrorIs(t, err, ErrZeroCapacity)
	_, err = NewFifo(-3)
	require.ErrorIs(t, err, ErrZeroCapacity)
}

const (
	doRead = iota
	doWrite
)

type fifoStep struct {
	op   int
	data string // written, or expected to be read
	n    int    // expected transfer count
	size int    // expected Size() afterwards
}

func TestFifoSequence(t *testing.T) {
	f, err := NewFifo(5)
	require.NoError(t, err)

	steps := []fifoStep{
		{doWrite, "abc", 3, 3},
		{doWrite, "d", 1, 4},
		{doRead, "abcd", 4, 0},
		{doWrite, "ef", 2, 2},
		{doRead, "ef", 2, 0},
		{doWrite, "abcdefg", 5, 5}, // truncated at capacity
		{doWrite, "x", 0, 5},       // full: backpressure, not an error
		{doRead, "abcde", 5, 0},
		{doRead, "", 0, 0}, // empty: zero transfer
	}

	for i, step := range steps {
		switch step.op {
		case doWrite:
			n := f.Write([]byte(step.data))
			assert.Equalf(t, step.n, n, "step %d: write count", i)
		case doRead:
			buf := make([]byte, len(step.data)+1)
			n := f.Read(buf)
			assert.Equalf(t, step.n, n, "step %d: read count", i)
			assert.Equalf(t, step.data, string(buf[:n]), "step %d: read data", i)
		}
		assert.Equalf(t, step.size, f.Size(), "step %d: size", i)
		assert.Equalf(t, f.Capacity(), f.Size()+f.Free(), "step %d: used+free", i)
	}
}

func TestFifoWrapPreservesOldestByte(t *testing.T) {
	const capacity = 8
	f, err := NewFifo(capacity)
	require.NoError(t, err)

	// Write C-1, read C-2, then write 3 more: the write must split at the
	// wrap without touching the one unread byte.
	require.Equal(t, capacity-1, f.Write([]byte("abcdefg")))
	buf := make([]byte, capacity-2)
	require.Equal(t, capacity-2, f.Read(buf))
	require.Equal(t, "abcdef", string(buf))

	require.Equal(t, 3, f.Write([]byte("xyz")))

	out := make([]byte, 4)
	require.Equal(t, 4, f.Read(out))
	assert.Equal(t, "gxyz", string(out))
	assert.True(t, f.IsEmpty())
}

func TestFifoPeekCommitMatchesRead(t *testing.T) {
	mk := func() *Fifo {
		f, err := NewFifo(8)
		require.NoError(t, err)
		// Leave the indices mid-ring so the readable span wraps.
		f.Write([]byte("......"))
		f.Read(make([]byte, 6))
		f.Write([]byte("abcdefgh"))
		return f
	}

	// Reference: plain Read.
	ref := mk()
	want := make([]byte, 8)
	require.Equal(t, 8, ref.Read(want))

	// Peek/commit in arbitrary chunks must observe the same bytes.
	f := mk()
	var got []byte
	for {
		run := f.PeekContiguous()
		if run == nil {
			break
		}
		n := len(run)
		if n > 3 {
			n = 3
		}
		got = append(got, run[:n]...)
		f.CommitRead(n)
	}
	assert.True(t, bytes.Equal(want, got), "peek/commit read %q, plain read %q", got, want)
}

func TestFifoPeekFreeCommitWrite(t *testing.T) {
	f, err := NewFifo(4)
	require.NoError(t, err)

	run := f.PeekContiguousFree()
	require.Len(t, run, 4)
	copy(run, "ab")
	f.CommitWrite(2)

	assert.Equal(t, 2, f.Size())
	buf := make([]byte, 4)
	assert.Equal(t, 2, f.Read(buf))
	assert.Equal(t, "ab", string(buf[:2]))

	assert.Nil(t, f.PeekContiguous(), "empty fifo must peek nil")
}

func TestFifoPeekFreeNilWhenFull(t *testing.T) {
	f, err := NewFifo(2)
	require.NoError(t, err)
	f.Write([]byte("ab"))
	assert.Nil(t, f.PeekContiguousFree())
}

func TestFifoPushPopClear(t *testing.T) {
	f, err := NewFifo(2)
	require.NoError(t, err)

	require.True(t, f.PushByte('a'))
	require.True(t, f.PushByte('b'))
	require.False(t, f.PushByte('c'), "push into a full fifo must fail")

	c, ok := f.PopByte()
	require.True(t, ok)
	assert.Equal(t, byte('a'), c)

	f.Clear()
	assert.True(t, f.IsEmpty())
	_, ok = f.PopByte()
	assert.False(t, ok, "pop from a cleared fifo must fail")

	// The fifo stays usable after Clear.
	require.True(t, f.PushByte('z'))
	c, ok = f.PopByte()
	require.True(t, ok)
	assert.Equal(t, byte('z'), c)
}

func TestFifoCommitPanics(t *testing.T) {
	f, err := NewFifo(4)
	require.NoError(t, err)
	f.Write([]byte("ab"))

	assert.Panics(t, func() { f.CommitRead(3) })
	assert.Panics(t, func() { f.CommitWrite(3) })
}
