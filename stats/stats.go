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

// Package stats holds the per-worker, owner-exclusive traversal counters
// that statsreporter periodically sums into a progress snapshot.
package stats

import "sync/atomic"

// Counters is owned by exactly one worker; only that worker ever
// increments it. The atomic operations exist so statsreporter can read a
// relaxed, eventually-consistent snapshot from another goroutine without
// taking any lock.
type Counters struct {
	files  uint64
	dirs   uint64
	links  uint64
	others uint64
}

func (c *Counters) IncFiles()  { atomic.AddUint64(&c.files, 1) }
func (c *Counters) IncDirs()   { atomic.AddUint64(&c.dirs, 1) }
func (c *Counters) IncLinks()  { atomic.AddUint64(&c.links, 1) }
func (c *Counters) IncOthers() { atomic.AddUint64(&c.others, 1) }

// Snapshot is a point-in-time, relaxed read of all four counters.
type Snapshot struct {
	Files, Dirs, Links, Others uint64
}

// Load takes a relaxed snapshot of the counters.
func (c *Counters) Load() Snapshot {
	return Snapshot{
		Files:  atomic.LoadUint64(&c.files),
		Dirs:   atomic.LoadUint64(&c.dirs),
		Links:  atomic.LoadUint64(&c.links),
		Others: atomic.LoadUint64(&c.others),
	}
}

// Add returns the element-wise sum of two snapshots.
func (s Snapshot) Add(o Snapshot) Snapshot {
	return Snapshot{
		Files:  s.Files + o.Files,
		Dirs:   s.Dirs + o.Dirs,
		Links:  s.Links + o.Links,
		Others: s.Others + o.Others,
	}
}

// Sub returns the element-wise difference s - o, used to compute
// per-interval deltas for rate reporting. Each field saturates at zero
// rather than wrapping, since a shrinking total should never occur but a
// defensive read should not produce a misleadingly huge rate if it does.
func (s Snapshot) Sub(o Snapshot) Snapshot {
	sub := func(a, b uint64) uint64 {
		if a < b {
			return 0
		}
		return a - b
	}
	return Snapshot{
		Files:  sub(s.Files, o.Files),
		Dirs:   sub(s.Dirs, o.Dirs),
		Links:  sub(s.Links, o.Links),
		Others: sub(s.Others, o.Others),
	}
}
