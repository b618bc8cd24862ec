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

// Package scheduler implements the dual-queue work distributor shared by
// every worker: two deques (fast, slow), a speed-weighted dispatch ratio,
// and the handback policy that routes a worker's donated subtrees to
// whichever deque matches the donor's measured scan rate.
package scheduler

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/fritzkink/chuidcopy/deque"
	"github.com/fritzkink/chuidcopy/workitem"
)

// Mode selects LIFO (stack, depth-first) or FIFO (queue, breadth-first)
// growth for private deques and for shared-deque splicing.
type Mode int

const (
	ModeStack Mode = iota // LIFO: push_front / depth-first
	ModeQueue             // FIFO: push_back / breadth-first
)

// Scheduler is the shared state every worker dispatches from and hands
// work back to. The zero value is not usable; construct with New.
type Scheduler struct {
	mu   sync.Mutex
	cond *sync.Cond

	fast, slow deque.Deque
	fastCredit int

	busyCount   int
	numWorkers  int
	notFinished bool

	singleQueue bool
	mode        Mode

	// Shadow copies of busyCount, notFinished, and the deques' Len/Speed,
	// updated under s.mu alongside the fields they mirror, but read via
	// atomic loads only so the stats reporter never takes s.mu and can
	// never block on or be blocked by a worker.
	snapBusyCount int64
	snapFinished  int32
	snapFastLen   int64
	snapFastSpeed uint64 // math.Float64bits
	snapSlowLen   int64
	snapSlowSpeed uint64 // math.Float64bits
}

// Config configures a new Scheduler.
type Config struct {
	NumWorkers  int
	SingleQueue bool // -o: collapse dispatch/handback onto fast only
	Mode        Mode // -q selects ModeQueue; default is ModeStack
}

// New constructs a Scheduler ready to accept Seed and Dispatch calls.
func New(cfg Config) *Scheduler {
	s := &Scheduler{
		numWorkers:  cfg.NumWorkers,
		notFinished: true,
		singleQueue: cfg.SingleQueue,
		mode:        cfg.Mode,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Seed pushes one WorkItem per traversal root onto the fast deque before
// any worker starts, establishing the initial work set. Any worker already
// waiting in Dispatch is woken.
func (s *Scheduler) Seed(items []*workitem.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.fast.PushBack(it)
	}
	s.publishSnapshotLocked()
	s.cond.Broadcast()
}

// Dispatch gives one WorkItem to a waiting worker. It returns (nil, false)
// only once global quiescence (or external shutdown) has been signaled,
// telling the caller to exit.
func (s *Scheduler) Dispatch() (*workitem.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.fast.Empty() && s.slow.Empty() && s.notFinished {
		s.cond.Wait()
	}
	if !s.notFinished {
		return nil, false
	}

	item := s.selectLocked()

	// If either deque became empty, its speed decays to the other's
	// (both-empty -> both zero).
	if s.fast.Empty() {
		s.fast.Speed = s.slow.Speed
	}
	if s.slow.Empty() {
		s.slow.Speed = s.fast.Speed
	}
	if s.fast.Empty() && s.slow.Empty() {
		s.fast.Speed, s.slow.Speed = 0, 0
	}

	s.busyCount++
	s.publishSnapshotLocked()
	return item, true
}

// publishSnapshotLocked refreshes the atomic shadow fields Snapshot and
// Finished read. Must be called with s.mu held.
func (s *Scheduler) publishSnapshotLocked() {
	atomic.StoreInt64(&s.snapBusyCount, int64(s.busyCount))
	var finished int32
	if !s.notFinished {
		finished = 1
	}
	atomic.StoreInt32(&s.snapFinished, finished)
	atomic.StoreInt64(&s.snapFastLen, int64(s.fast.Len()))
	atomic.StoreUint64(&s.snapFastSpeed, math.Float64bits(s.fast.Speed))
	atomic.StoreInt64(&s.snapSlowLen, int64(s.slow.Len()))
	atomic.StoreUint64(&s.snapSlowSpeed, math.Float64bits(s.slow.Speed))
}

// selectLocked picks one item under s.mu per the fast/slow credit policy.
// In single-queue mode only fast is ever consulted.
func (s *Scheduler) selectLocked() *workitem.Item {
	if s.singleQueue {
		return s.fast.PopFront()
	}

	recomputeCredit := func() {
		if s.slow.Speed > 0 {
			ratio := s.fast.Speed / s.slow.Speed
			s.fastCredit = int(ceilPositive(ratio))
		} else {
			s.fastCredit = 0
		}
	}

	if s.fastCredit > 0 {
		if item := s.fast.PopFront(); item != nil {
			s.fastCredit--
			return item
		}
		if item := s.slow.PopFront(); item != nil {
			recomputeCredit()
			return item
		}
		return nil
	}

	if item := s.slow.PopFront(); item != nil {
		recomputeCredit()
		return item
	}
	return s.fast.PopFront() // credit stays 0
}

func ceilPositive(x float64) float64 {
	i := float64(int64(x))
	if x > i {
		return i + 1
	}
	return i
}

// Handback moves every item in a worker's private deque onto the chosen
// shared deque and empties private (an empty private deque is a no-op).
// The directory the worker is still reading is not in private, so it is
// never donated. scanRate is directories scanned since the worker's last
// dispatch divided by wall-clock elapsed since then (0 if elapsed was 0).
func (s *Scheduler) Handback(private *deque.Deque, scanRate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := private.Len()
	if n == 0 {
		return
	}

	target := &s.fast
	if !s.singleQueue {
		mean := (s.fast.Speed + s.slow.Speed) / 2
		if scanRate < mean {
			target = &s.slow
		}
	}

	if s.mode == ModeQueue {
		target.SpliceBack(private)
	} else {
		target.SpliceFront(private)
	}
	target.Speed = scanRate
	s.publishSnapshotLocked()

	// Broadcast once per item added (or once per item minus one, to
	// match the number of potentially-awakened peers).
	wakeups := n - 1
	if wakeups < 1 {
		wakeups = 1
	}
	for i := 0; i < wakeups; i++ {
		s.cond.Broadcast()
	}
}

// Release is called by a worker when it has nothing left to do: it
// decrements busyCount and, if that reaches zero with both shared deques
// empty, flips notFinished and wakes every other worker for good.
func (s *Scheduler) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.busyCount--
	if s.busyCount == 0 && s.fast.Empty() && s.slow.Empty() {
		s.notFinished = false
		s.cond.Broadcast()
	}
	s.publishSnapshotLocked()
}

// Shutdown is the signal-handler path: it forces notFinished to false and
// wakes every waiting worker immediately, regardless of outstanding work.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notFinished = false
	s.publishSnapshotLocked()
	s.cond.Broadcast()
}

// Snapshot is a relaxed read of scheduler state for the stats reporter.
type Snapshot struct {
	BusyCount int
	FastLen   int
	FastSpeed float64
	SlowLen   int
	SlowSpeed float64
}

// Snapshot reads the current scheduler state via atomic loads only. It
// never takes s.mu, so it can never block on or be blocked by a worker.
func (s *Scheduler) Snapshot() Snapshot {
	return Snapshot{
		BusyCount: int(atomic.LoadInt64(&s.snapBusyCount)),
		FastLen:   int(atomic.LoadInt64(&s.snapFastLen)),
		FastSpeed: math.Float64frombits(atomic.LoadUint64(&s.snapFastSpeed)),
		SlowLen:   int(atomic.LoadInt64(&s.snapSlowLen)),
		SlowSpeed: math.Float64frombits(atomic.LoadUint64(&s.snapSlowSpeed)),
	}
}

// Finished reports whether quiescence (or shutdown) has been reached. Like
// Snapshot, it reads an atomic shadow field and never takes s.mu, so the
// stats reporter can poll it every tick without contending with any
// worker's Dispatch, Handback, or Release.
func (s *Scheduler) Finished() bool {
	return atomic.LoadInt32(&s.snapFinished) != 0
}

// BusyRatioUnsynced returns busyCount/numWorkers using the atomic shadow
// field, deliberately without taking s.mu: a worker's idle check can
// tolerate a slightly stale read, and the whole point of the check is to
// never block on the mutex the rest of the pool is contending for.
func (s *Scheduler) BusyRatioUnsynced() float64 {
	if s.numWorkers == 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&s.snapBusyCount)) / float64(s.numWorkers)
}
