// Copyright © chuidcopy contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package hardlinkset provides the shared, mutex-guarded set of
// (device, inode) pairs used to rewrite each hardlinked regular file
// exactly once per run.
package hardlinkset

import "sync"

// Set is a thread-safe set of (dev, ino) pairs. The zero value is ready to
// use. TestAndInsert holds the mutex across the whole test-and-set
// operation so two workers racing on the same hardlinked file can never
// both observe "not seen yet".
type Set struct {
	mu   sync.Mutex
	seen map[uint64]map[uint64]struct{}
}

// New returns an empty Set.
func New() *Set {
	return &Set{seen: make(map[uint64]map[uint64]struct{})}
}

// TestAndInsert returns true if (dev, ino) was not previously recorded, and
// records it. It returns false if the pair was already present. The whole
// operation is atomic.
func (s *Set) TestAndInsert(dev, ino uint64) (firstSeen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen == nil {
		s.seen = make(map[uint64]map[uint64]struct{})
	}
	inodes, ok := s.seen[dev]
	if !ok {
		inodes = make(map[uint64]struct{})
		s.seen[dev] = inodes
	}
	if _, present := inodes[ino]; present {
		return false
	}
	inodes[ino] = struct{}{}
	return true
}

// Len reports the number of distinct (dev, ino) pairs recorded so far.
// Intended for diagnostics only.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, inodes := range s.seen {
		n += len(inodes)
	}
	return n
}
