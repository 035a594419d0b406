//go:build !unix

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
)

// File-backed regions need mmap and are only supported on unix platforms.
// Plain memory regions work everywhere; the file helpers report an error
// so callers degrade cleanly instead of failing to link.

var errFileRegions = errors.New("dataport: file-backed regions are not supported on this platform")

func CreateFileRegion(path string, capacity uint64) (*Region, error) {
	return nil, errFileRegions
}

func OpenFileRegion(path string) (*Region, error) {
	return nil, errFileRegions
}

func DefaultRegionPath(name string) string {
	return filepath.Join(os.TempDir(), "tos_fifo_"+name)
}

func RemoveRegion(name string) error {
	return errFileRegions
}

func unmapRegion([]byte) error { return nil }
