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
	"os"

	"github.com/pkg/errors"
)

// OpenMode enumerates how a file stream opens its backing file.
type OpenMode int

const (
	// OpenDefault behaves like OpenRead.
	OpenDefault OpenMode = iota
	// OpenRead opens an existing file for reading.
	OpenRead
	// OpenWrite creates or truncates a file for writing.
	OpenWrite
	// OpenAppend opens or creates a file; writes go to the end.
	OpenAppend
	// OpenReadWrite opens an existing file for reading and writing.
	OpenReadWrite
	// OpenReadWriteTrunc creates or truncates a file for reading and
	// writing.
	OpenReadWriteTrunc
	// OpenReadAppend opens or creates a file for reading anywhere and
	// writing at the end.
	OpenReadAppend
)

func (m OpenMode) flags() (int, error) {
	switch m {
	case OpenDefault, OpenRead:
		return os.O_RDONLY, nil
	case OpenWrite:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case OpenAppend:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	case OpenReadWrite:
		return os.O_RDWR, nil
	case OpenReadWriteTrunc:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	case OpenReadAppend:
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, nil
	}
	return 0, errors.Errorf("stream: unknown open mode %d", int(m))
}

// SeekMode enumerates the reference points for FileStream.Seek.
type SeekMode int

const (
	SeekBegin SeekMode = iota
	SeekEnd
	SeekCurrent
)

func (m SeekMode) whence() int {
	switch m {
	case SeekEnd:
		return io.SeekEnd
	case SeekCurrent:
		return io.SeekCurrent
	default:
		return io.SeekStart
	}
}

// FileStream adapts a host file to the stream contract. Host errors do not
// surface through the contract's counts; they are recorded on the stream,
// stdio-style, and inspected through Err / cleared through ClearErr.
type FileStream struct {
	f    *os.File
	path string
	mode OpenMode
	err  error
}

// record keeps the first host error; later failures do not replace it
// until ClearErr resets the stream.
func (s *FileStream) record(err error) {
	if s.err == nil {
		s.err = err
	}
}

// NewFileStream opens path in the given mode.
func NewFileStream(path string, mode OpenMode) (*FileStream, error) {
	flags, err := mode.flags()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "stream: open %s", path)
	}
	return &FileStream{f: f, path: path, mode: mode}, nil
}

// Write writes p to the file and returns the number of bytes accepted. A
// host write error is recorded and shortens the count.
func (s *FileStream) Write(p []byte) int {
	n, err := s.f.Write(p)
	if err != nil {
		s.record(err)
	}
	return n
}

// Read reads up to len(p) bytes from the file. End of file is not an
// error: it just yields a short count.
func (s *FileStream) Read(p []byte) int {
	n, err := s.f.Read(p)
	if err != nil && err != io.EOF {
		s.record(err)
	}
	return n
}

// Get accumulates bytes until p is full, a delimiter is hit (consumed,
// not copied), or the file ends. Files deliver no late arrivals, so
// timeoutTicks is ignored and end of file reports io.EOF immediately when
// nothing was accumulated.
func (s *FileStream) Get(p []byte, delims []byte, timeoutTicks uint) (int, error) {
	var one [1]byte
	n := 0
	for n < len(p) {
		rd, err := s.f.Read(one[:])
		if rd == 0 {
			if err != nil && err != io.EOF {
				s.record(err)
			}
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		}
		if len(delims) > 0 && bytes.IndexByte(delims, one[0]) >= 0 {
			return n, nil
		}
		p[n] = one[0]
		n++
	}
	return n, nil
}

// Available returns the number of bytes between the current position and
// the end of the file, zero when that cannot be determined.
func (s *FileStream) Available() int {
	pos, err := s.f.Seek(0, io.SeekCurrent)
	if err != nil {
		s.record(err)
		return 0
	}
	info, err := s.f.Stat()
	if err != nil {
		s.record(err)
		return 0
	}
	if info.Size() <= pos {
		return 0
	}
	return int(info.Size() - pos)
}

// Flush forces buffered file contents to stable storage.
func (s *FileStream) Flush() {
	if err := s.f.Sync(); err != nil {
		s.record(err)
	}
}

// Skip discards everything left to read by seeking to the end of file.
func (s *FileStream) Skip() {
	if _, err := s.f.Seek(0, io.SeekEnd); err != nil {
		s.record(err)
	}
}

// Close closes the backing file, recording any host error.
func (s *FileStream) Close() {
	if s.f == nil {
		return
	}
	if err := s.f.Close(); err != nil {
		s.record(err)
	}
	s.f = nil
}

// Seek moves the file position and returns the new offset from the start
// of the file, -1 when the host rejects the seek.
func (s *FileStream) Seek(offset int64, mode SeekMode) int64 {
	pos, err := s.f.Seek(offset, mode.whence())
	if err != nil {
		s.record(err)
		return -1
	}
	return pos
}

// Reopen closes and reopens the same path in a new mode, reusing the
// stream. It fails without losing the original stream state beyond the
// closed file.
func (s *FileStream) Reopen(mode OpenMode) error {
	flags, err := mode.flags()
	if err != nil {
		return err
	}
	if s.f != nil {
		if err := s.f.Close(); err != nil {
			s.record(err)
		}
		s.f = nil
	}
	f, err := os.OpenFile(s.path, flags, 0o644)
	if err != nil {
		s.record(err)
		return errors.Wrapf(err, "stream: reopen %s", s.path)
	}
	s.f = f
	s.mode = mode
	return nil
}

// Err returns the first host error recorded since the last ClearErr.
func (s *FileStream) Err() error { return s.err }

// ClearErr resets the recorded host error.
func (s *FileStream) ClearErr() { s.err = nil }

// FileFactory builds and tears down file streams, for call sites that
// want an explicit create/destroy pairing rather than direct
// construction.
type FileFactory struct{}

// Create opens path in the given mode.
func (FileFactory) Create(path string, mode OpenMode) (*FileStream, error) {
	return NewFileStream(path, mode)
}

// Destroy closes the stream. Safe on an already closed stream.
func (FileFactory) Destroy(s *FileStream) {
	if s != nil {
		s.Close()
	}
}
