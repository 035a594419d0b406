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

import "os"

// Region describes the memory a dataport lives in: a base byte slice that
// both processes can see. The embedding component supplies it explicitly;
// nothing in this package looks up shared memory implicitly.
//
// A Region backed by a mapped file additionally tracks the mapping and the
// file so Close can release them. A Region over ordinary process memory
// (useful for the local tests) has nothing to release.
type Region struct {
	Mem []byte

	// Set only for file-backed regions.
	file   *os.File
	path   string
	mapped bool
}

// NewRegion wraps an existing byte slice as a region descriptor.
func NewRegion(mem []byte) *Region {
	return &Region{Mem: mem}
}

// Path returns the backing file path, empty for plain memory regions.
func (r *Region) Path() string { return r.path }

// Close releases the mapping and backing file, if any. The caller must
// guarantee both sides have detached before the region is reclaimed.
func (r *Region) Close() error {
	var firstErr error

	if r.mapped && r.Mem != nil {
		if err := unmapRegion(r.Mem); err != nil {
			firstErr = err
		}
	}
	r.Mem = nil

	if r.file != nil {
		if err := r.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		r.file = nil
	}

	return firstErr
}
