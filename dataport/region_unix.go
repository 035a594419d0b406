//go:build unix

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
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// CreateFileRegion creates a file large enough for a dataport of the given
// payload capacity and maps it shared. Producer side; the file must not
// exist yet. The caller still has to run Create over the region.
func CreateFileRegion(path string, capacity uint64) (*Region, error) {
	if capacity == 0 {
		return nil, errors.New("dataport: capacity must be positive")
	}
	size := int64(HeaderSize) + int64(capacity)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "dataport: create region file %s", path)
	}
	cleanup := func() {
		file.Close()
		os.Remove(path)
	}

	if err := file.Truncate(size); err != nil {
		cleanup()
		return nil, errors.Wrap(err, "dataport: resize region file")
	}

	mem, err := mapRegion(file, int(size))
	if err != nil {
		cleanup()
		return nil, err
	}

	return &Region{Mem: mem, file: file, path: path, mapped: true}, nil
}

// OpenFileRegion maps an existing region file shared. Consumer side; the
// caller still has to run Attach over the region, which validates the
// control block.
func OpenFileRegion(path string) (*Region, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "dataport: open region file %s", path)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "dataport: stat region file")
	}
	if info.Size() < HeaderSize {
		file.Close()
		return nil, errors.Errorf("dataport: region file %s holds %d bytes, less than the control block", path, info.Size())
	}

	mem, err := mapRegion(file, int(info.Size()))
	if err != nil {
		file.Close()
		return nil, err
	}

	return &Region{Mem: mem, file: file, path: path, mapped: true}, nil
}

// DefaultRegionPath places a named region under /dev/shm when available,
// falling back to the system temporary directory.
func DefaultRegionPath(name string) string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return filepath.Join("/dev/shm", "tos_fifo_"+name)
	}
	return filepath.Join(os.TempDir(), "tos_fifo_"+name)
}

// RemoveRegion deletes a named region file created via DefaultRegionPath.
func RemoveRegion(name string) error {
	paths := []string{
		filepath.Join("/dev/shm", "tos_fifo_"+name),
		filepath.Join(os.TempDir(), "tos_fifo_"+name),
	}
	var lastErr error
	for _, path := range paths {
		if err := os.Remove(path); err == nil {
			return nil
		} else if !os.IsNotExist(err) {
			lastErr = err
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return os.ErrNotExist
}

func mapRegion(file *os.File, size int) ([]byte, error) {
	mem, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "dataport: mmap region")
	}
	return mem, nil
}

func unmapRegion(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	if err := unix.Munmap(mem); err != nil {
		return errors.Wrap(err, "dataport: munmap region")
	}
	return nil
}
