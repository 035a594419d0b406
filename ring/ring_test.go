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

import "testing"

func TestIndexEmptyAndFull(t *testing.T) {
	x := NewIndex(8)

	if !x.IsEmpty() {
		t.Fatal("new index should be empty")
	}
	if x.IsFull() {
		t.Fatal("new index should not be full")
	}
	if x.Used() != 0 || x.Free() != 8 {
		t.Fatalf("used=%d free=%d, want 0 and 8", x.Used(), x.Free())
	}

	x.AdvanceWrite(8)
	if !x.IsFull() || x.IsEmpty() {
		t.Fatal("index should be full after writing capacity bytes")
	}
	if x.Used()+x.Free() != x.Cap {
		t.Fatalf("used+free=%d, want %d", x.Used()+x.Free(), x.Cap)
	}

	x.AdvanceRead(8)
	if !x.IsEmpty() {
		t.Fatal("index should be empty after reading everything back")
	}
}

func TestIndexContiguousRuns(t *testing.T) {
	x := NewIndex(8)

	off, n := x.ContiguousReadable()
	if off != 0 || n != 0 {
		t.Fatalf("empty index readable run = (%d,%d), want (0,0)", off, n)
	}
	off, n = x.ContiguousWritable()
	if off != 0 || n != 8 {
		t.Fatalf("empty index writable run = (%d,%d), want (0,8)", off, n)
	}

	// Fill 6, drain 4: the unread run [4,6) is contiguous, the free span
	// wraps and only the tail [6,8) is contiguous.
	x.AdvanceWrite(6)
	x.AdvanceRead(4)

	off, n = x.ContiguousReadable()
	if off != 4 || n != 2 {
		t.Fatalf("readable run = (%d,%d), want (4,2)", off, n)
	}
	off, n = x.ContiguousWritable()
	if off != 6 || n != 2 {
		t.Fatalf("writable run = (%d,%d), want (6,2)", off, n)
	}

	// Wrap the writer: free span is now [0,4) only.
	x.AdvanceWrite(2)
	off, n = x.ContiguousWritable()
	if off != 0 || n != 4 {
		t.Fatalf("wrapped writable run = (%d,%d), want (0,4)", off, n)
	}

	// Reader still sees its run up to the wrap first.
	off, n = x.ContiguousReadable()
	if off != 4 || n != 4 {
		t.Fatalf("readable run before wrap = (%d,%d), want (4,4)", off, n)
	}
	x.AdvanceRead(4)
	off, n = x.ContiguousReadable()
	if off != 0 || n != 0 {
		t.Fatalf("drained index readable run = (%d,%d), want (0,0)", off, n)
	}
}

func TestIndexSnapshotBoundaryFromCount(t *testing.T) {
	// Model a consumer snapshot taken while the producer's cached cursor
	// is behind its count: the run must follow the count, not the cursor.
	x := Index{Cap: 8, In: 5, Out: 1, Last: 0 /* stale */, First: 1}

	off, n := x.ContiguousReadable()
	if off != 1 || n != 4 {
		t.Fatalf("readable run = (%d,%d), want (1,4) derived from In", off, n)
	}

	// Mirror case for a producer snapshot with a stale consumer cursor.
	y := Index{Cap: 8, In: 5, Out: 3, Last: 5, First: 0 /* stale */}
	off, n = y.ContiguousWritable()
	if off != 5 || n != 3 {
		t.Fatalf("writable run = (%d,%d), want (5,3) derived from Out", off, n)
	}
}

func TestIndexCursorWrapWithoutModulo(t *testing.T) {
	x := NewIndex(5)
	for i := 0; i < 23; i++ {
		x.AdvanceWrite(1)
		if x.Last != x.In%x.Cap {
			t.Fatalf("after %d writes Last=%d, want %d", i+1, x.Last, x.In%x.Cap)
		}
		x.AdvanceRead(1)
		if x.First != x.Out%x.Cap {
			t.Fatalf("after %d reads First=%d, want %d", i+1, x.First, x.Out%x.Cap)
		}
	}
}

func TestIndexAdvancePanics(t *testing.T) {
	assertPanics := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s should panic", name)
			}
		}()
		fn()
	}

	x := NewIndex(4)
	assertPanics("AdvanceRead past empty", func() { x.AdvanceRead(1) })

	x.AdvanceWrite(4)
	assertPanics("AdvanceWrite past full", func() { x.AdvanceWrite(1) })
}
