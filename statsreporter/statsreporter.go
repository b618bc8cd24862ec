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

// Package statsreporter implements the optional progress thread: on a
// fixed interval, it sums every worker's counters, derives per-second
// rates from the delta since the previous tick, and prints one line
// alongside a non-blocking read of the scheduler's dual deques. It never
// takes the scheduler mutex.
package statsreporter

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/fritzkink/chuidcopy/scheduler"
	"github.com/fritzkink/chuidcopy/stats"
)

// Reporter periodically renders a progress line. The zero value is not
// usable; construct with New.
type Reporter struct {
	interval time.Duration
	sch      *scheduler.Scheduler
	workers  []*stats.Counters
	out      io.Writer
	runID    uuid.UUID
}

// New constructs a Reporter that sums workers' counters every interval.
// runID tags each printed line so concurrent runs' output (e.g. captured
// into a shared log aggregator) can be told apart; it has no bearing on
// traversal behavior.
func New(interval time.Duration, sch *scheduler.Scheduler, workers []*stats.Counters, out io.Writer) *Reporter {
	return &Reporter{interval: interval, sch: sch, workers: workers, out: out, runID: uuid.New()}
}

// Run blocks, printing one line every r.interval, until the scheduler
// reports quiescence or shutdown. On exit it prints a trailing newline.
func (r *Reporter) Run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	prev := r.sum()
	prevAt := time.Now()

	for range ticker.C {
		if r.sch.Finished() {
			break
		}
		now := time.Now()
		cur := r.sum()
		elapsed := now.Sub(prevAt).Seconds()
		delta := cur.Sub(prev)

		r.printLine(delta, elapsed)

		prev, prevAt = cur, now
	}
	fmt.Fprintln(r.out)
}

func (r *Reporter) sum() stats.Snapshot {
	var total stats.Snapshot
	for _, c := range r.workers {
		total = total.Add(c.Load())
	}
	return total
}

func (r *Reporter) printLine(delta stats.Snapshot, elapsed float64) {
	filesPerSec, dirsPerSec, linksPerSec := 0.0, 0.0, 0.0
	if elapsed > 0 {
		filesPerSec = float64(delta.Files) / elapsed
		dirsPerSec = float64(delta.Dirs) / elapsed
		linksPerSec = float64(delta.Links) / elapsed
	}

	snap := r.sch.Snapshot()
	fmt.Fprintf(r.out, "%s busy=%d fast[n=%d speed=%.2f] slow[n=%d speed=%.2f] files/s=%.2f dirs/s=%.2f links/s=%.2f\n",
		r.runID, snap.BusyCount, snap.FastLen, snap.FastSpeed, snap.SlowLen, snap.SlowSpeed,
		filesPerSec, dirsPerSec, linksPerSec)
}
