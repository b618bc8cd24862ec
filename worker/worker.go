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

// Package worker implements the per-thread traversal loop: acquire a
// directory from the scheduler, walk it, rewrite ownership on every entry
// that matches the id map, and cooperatively hand back work when the rest
// of the pool is starving.
package worker

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fritzkink/chuidcopy/deque"
	"github.com/fritzkink/chuidcopy/excludeset"
	"github.com/fritzkink/chuidcopy/hardlinkset"
	"github.com/fritzkink/chuidcopy/idmap"
	"github.com/fritzkink/chuidcopy/logger"
	"github.com/fritzkink/chuidcopy/scheduler"
	"github.com/fritzkink/chuidcopy/stats"
	"github.com/fritzkink/chuidcopy/workitem"
)

// dirReadChunkSize bounds a single Readdirnames call so a directory with
// millions of entries never forces one giant slice allocation.
const dirReadChunkSize = 4096

// Config is the fixed, shared configuration every Worker in the pool reads.
// None of it changes once the pool starts.
type Config struct {
	Index         int
	Mode          scheduler.Mode
	BusyThreshold float64
	IDs           idmap.Map
	Excludes      excludeset.Set
	Hardlinks     *hardlinkset.Set
	DryRun        bool
	Verbose       bool
	VerboseXattr  bool
	DryRunOut     io.Writer
	VerboseOut    io.Writer
	Log           logger.Logger
	Counters      *stats.Counters
}

// Worker owns one private deque and runs the main traversal loop. A Worker
// is not safe for concurrent use by more than one goroutine; the pool runs
// exactly one goroutine per Worker.
type Worker struct {
	cfg  Config
	sch  *scheduler.Scheduler
	chow chowner

	private deque.Deque

	lastDispatch time.Time
	dirsScanned  int
}

// New constructs a Worker bound to sch. cfg.Counters and cfg.Hardlinks are
// shared across the whole pool; everything else in cfg is read-only.
func New(cfg Config, sch *scheduler.Scheduler) *Worker {
	return &Worker{cfg: cfg, sch: sch, chow: osChowner{}}
}

// Run executes the worker's main loop until the scheduler reports
// quiescence or shutdown. It is meant to be called as the body of one
// pool goroutine.
func (w *Worker) Run() {
	for {
		item, ok := w.sch.Dispatch()
		if !ok {
			return
		}

		w.lastDispatch = time.Now()
		w.dirsScanned = 0
		w.pushPrivate(item)
		w.drainPrivate()

		w.sch.Release()
	}
}

// pushPrivate pushes item onto the private deque in the traversal
// direction the pool is running: front (LIFO, depth-first) in stack mode,
// back (FIFO, breadth-first) in queue mode.
func (w *Worker) pushPrivate(item *workitem.Item) {
	if w.cfg.Mode == scheduler.ModeQueue {
		w.private.PushBack(item)
	} else {
		w.private.PushFront(item)
	}
}

// drainPrivate processes every item in the private deque, including any
// new directories discovered along the way. Once the scheduler reports
// shutdown it stops before opening the next directory.
func (w *Worker) drainPrivate() {
	for !w.private.Empty() && !w.sch.Finished() {
		item := w.private.PopFront()
		w.processDirectory(item)
	}
}

// processDirectory opens item.Path (skipping item.Cursor entries) and walks
// its remaining entries. When the idle check fires mid-stream it records
// the entries consumed so far in item.Cursor, hands back the private deque,
// and reopens the directory at that offset. It returns once the directory
// stream is exhausted.
func (w *Worker) processDirectory(item *workitem.Item) {
	f, consumed, err := openAtCursor(item.Path, item.Cursor)
	if err != nil {
		w.cfg.Log.Log(logger.LevelWarning, "couldn't open <"+item.Path+">: "+err.Error())
		return
	}

	for {
		names, rerr := f.Readdirnames(dirReadChunkSize)
		reopened := false
		for _, name := range names {
			consumed++
			if name == "." || name == ".." {
				continue
			}
			if w.cfg.Excludes.Contains(name) {
				continue
			}
			w.visitChild(item, name)

			if w.idleCheckTriggered() {
				item.Cursor = consumed
				f.Close()
				w.handBackExtras()
				f, consumed, err = openAtCursor(item.Path, item.Cursor)
				if err != nil {
					w.cfg.Log.Log(logger.LevelWarning, "couldn't reopen <"+item.Path+"> at cursor: "+err.Error())
					return
				}
				// The rest of this chunk is read again from the
				// reopened stream.
				reopened = true
				break
			}
		}
		if reopened {
			continue
		}
		if rerr == io.EOF || len(names) == 0 {
			break
		}
		if rerr != nil {
			w.cfg.Log.Log(logger.LevelWarning, "readdir() failed for directory <"+item.Path+">: "+rerr.Error())
			break
		}
	}

	f.Close()
	w.dirsScanned++
}

// openAtCursor opens dir and, if cursor > 0, discards that many entries
// (via repeated Readdirnames calls) before returning. Go's directory
// stream has no portable opaque-cursor API, so the cursor here is an
// entry-count offset and resuming means reopening and re-skipping.
func openAtCursor(path string, cursor uintptr) (*os.File, uintptr, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	var skipped uintptr
	for skipped < cursor {
		want := dirReadChunkSize
		if remaining := cursor - skipped; remaining < uintptr(want) {
			want = int(remaining)
		}
		names, err := f.Readdirnames(want)
		skipped += uintptr(len(names))
		if err != nil || len(names) == 0 {
			break
		}
	}
	return f, skipped, nil
}

// visitChild lstats one directory entry and dispatches it by kind.
func (w *Worker) visitChild(parent *workitem.Item, name string) {
	path := filepath.Join(parent.Path, name)
	info, st, err := lstatPosix(path)
	if err != nil {
		w.cfg.Log.Log(logger.LevelWarning, "couldn't stat <"+path+">: "+err.Error())
		return
	}

	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		w.cfg.Counters.IncLinks()
		w.rewrite(path, kindSymlink, st.UID, st.GID)
		w.logVisited(path, "link")

	case info.IsDir():
		w.cfg.Counters.IncDirs()
		parent.DirectSubdirs++
		w.rewrite(path, kindDir, st.UID, st.GID)
		w.pushPrivate(workitem.New(path, parent.RootIndex))
		w.logVisited(path, "dir")

	case mode.IsRegular():
		if st.Nlink > 1 && !w.cfg.Hardlinks.TestAndInsert(st.Dev, st.Ino) {
			return
		}
		w.cfg.Counters.IncFiles()
		w.rewrite(path, kindFile, st.UID, st.GID)
		w.logVisited(path, "file")

	default:
		w.cfg.Counters.IncOthers()
		w.logVisited(path, "other")
	}
}

func (w *Worker) rewrite(path string, kind entryKind, curUID, curGID int) {
	rewriteOwnership(path, kind, curUID, curGID, w.cfg.IDs, w.chow, w.cfg.DryRun, w.cfg.DryRunOut, w.cfg.Log, w.cfg.VerboseXattr)
}

func (w *Worker) logVisited(path, kind string) {
	if !w.cfg.Verbose {
		return
	}
	io.WriteString(w.cfg.VerboseOut, "visited "+kind+" "+path+"\n")
}

// idleCheckTriggered reports whether the rest of the pool is starving
// relative to busyThreshold, checked after visiting each child so a worker
// sitting on a deep, newly-discovered subtree notices quickly. busy_count
// is read without synchronization deliberately (see
// scheduler.BusyRatioUnsynced).
func (w *Worker) idleCheckTriggered() bool {
	return w.sch.BusyRatioUnsynced() < w.cfg.BusyThreshold
}

// handBackExtras donates everything currently queued in the private deque
// (the subdirectories discovered so far, not including the directory this
// worker is still mid-stream on, which stays held as a local variable and
// is never pushed back) to the scheduler, then resets the scan-rate
// measurement window.
func (w *Worker) handBackExtras() {
	if w.private.Empty() {
		return
	}
	w.sch.Handback(&w.private, w.scanRate())
	w.lastDispatch = time.Now()
	w.dirsScanned = 0
}

// scanRate is directories fully scanned since the worker's last dispatch,
// divided by wall-clock elapsed since then (0 if elapsed is 0).
func (w *Worker) scanRate() float64 {
	elapsed := time.Since(w.lastDispatch).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(w.dirsScanned) / elapsed
}
