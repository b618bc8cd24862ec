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

//go:build unix

// Package pool owns the worker pool's lifecycle: computing a safe worker
// count against the process's file-descriptor budget, spawning one
// goroutine per worker, and the orderly signal-initiated shutdown path.
package pool

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/fritzkink/chuidcopy/scheduler"
)

// ReservedFDs is held back from max_open_fds for the process's own stdio,
// log file, and bookkeeping descriptors, so that N worker directory
// streams never exhaust the limit.
const ReservedFDs = 20

// DefaultWorkers is used when the caller passes want <= 0.
const DefaultWorkers = 20

// ComputeWorkerCount clamps want against the process's open-file-
// descriptor budget. It raises RLIMIT_NOFILE's soft limit to the hard
// limit first (mirroring what a privileged long-running daemon typically
// does at startup) and then caps the worker count so that
// workers + ReservedFDs never exceeds it.
func ComputeWorkerCount(want int) (int, error) {
	if want <= 0 {
		want = DefaultWorkers
	}

	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return 0, err
	}
	if rlimit.Cur < rlimit.Max {
		raised := rlimit
		raised.Cur = rlimit.Max
		if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &raised); err == nil {
			rlimit = raised
		}
	}

	maxOpenFDs := int(rlimit.Cur)
	if maxOpenFDs-ReservedFDs < 1 {
		return 0, errTooFewFDs(maxOpenFDs)
	}
	if budget := maxOpenFDs - ReservedFDs; want > budget {
		want = budget
	}
	return want, nil
}

// Runner is the function signature a worker goroutine runs: it loops until
// the scheduler reports quiescence or shutdown.
type Runner func()

// Pool supervises the fixed-size set of worker goroutines (and, when
// present, the stats-reporter goroutine) via an errgroup, and provides the
// signal-initiated shutdown path.
type Pool struct {
	sch *scheduler.Scheduler
	g   *errgroup.Group

	shutdownOnce sync.Once
}

// New constructs a Pool bound to sch, with its errgroup derived from ctx,
// and returns the errgroup's context. Spawned functions do not watch
// either context, so cancelling ctx does not stop them: Wait still blocks
// until every one has returned.
func New(ctx context.Context, sch *scheduler.Scheduler) (*Pool, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	return &Pool{sch: sch, g: g}, gctx
}

// Spawn adds one more goroutine to the pool running fn. Runner never
// returns an error in this design (a worker's only failure mode is logged
// internally, and it keeps going rather than aborting the whole run), so
// Spawn adapts it to errgroup's error-returning shape.
func (p *Pool) Spawn(fn Runner) {
	p.g.Go(func() error {
		fn()
		return nil
	})
}

// Wait blocks until every spawned goroutine has returned.
func (p *Pool) Wait() error {
	return p.g.Wait()
}

// WatchSignals installs SIGINT/SIGQUIT/SIGTERM handling: the first signal
// received forces scheduler shutdown (waking every worker waiting on
// dispatch) exactly once, however many signals arrive. It returns a stop
// function the caller should defer.
func (p *Pool) WatchSignals() (stop func()) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		p.Shutdown()
	}()
	return cancel
}

// Shutdown forces the scheduler into its terminal state. Safe to call
// more than once or concurrently; only the first call has any effect.
func (p *Pool) Shutdown() {
	p.shutdownOnce.Do(p.sch.Shutdown)
}
