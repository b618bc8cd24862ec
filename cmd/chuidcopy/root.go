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

// Package main implements the chuidcopy CLI: a cobra root command with no
// subcommands (there is exactly one operation), package-level flag
// variables, and a RunE that validates and loads the three input files
// before the worker pool starts.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fritzkink/chuidcopy/config"
	"github.com/fritzkink/chuidcopy/excludeset"
	"github.com/fritzkink/chuidcopy/exitcode"
	"github.com/fritzkink/chuidcopy/hardlinkset"
	"github.com/fritzkink/chuidcopy/idmap"
	"github.com/fritzkink/chuidcopy/logger"
	"github.com/fritzkink/chuidcopy/pool"
	"github.com/fritzkink/chuidcopy/scheduler"
	"github.com/fritzkink/chuidcopy/stats"
	"github.com/fritzkink/chuidcopy/statsreporter"
	"github.com/fritzkink/chuidcopy/worker"
	"github.com/fritzkink/chuidcopy/workitem"
)

var (
	mapFilePath     string
	rootsFilePath   string
	excludeFilePath string
	logDirPath      string
	numThreads      int
	busyThreshold   float64
	statsInterval   int
	dryRun          bool
	queueMode       bool
	singleQueue     bool
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:   "chuidcopy",
	Short: "Rewrite uid/gid ownership across one or more directory trees in parallel",
	Long: "chuidcopy walks a set of filesystem roots in parallel, rewriting the uid and/or gid\n" +
		"of every entry whose current owner appears in a supplied id map, hardlink-deduplicating\n" +
		"regular files so each (device, inode) is only rewritten once.",
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&mapFilePath, "map", "i", "", "path to the uid/gid map file (required)")
	flags.StringVarP(&rootsFilePath, "dirs", "d", "", "path to the roots file (required)")
	flags.StringVarP(&excludeFilePath, "exclude", "e", "", "path to the exclude file (required)")
	flags.StringVarP(&logDirPath, "logdir", "l", "", "directory to write chuid_log into (required)")
	flags.IntVarP(&numThreads, "threads", "t", pool.DefaultWorkers, "number of worker threads")
	flags.Float64VarP(&busyThreshold, "busy-threshold", "b", 0.9, "busy-ratio threshold (0.0-1.0) below which a worker hands back work")
	flags.IntVarP(&statsInterval, "stats-interval", "s", 0, "seconds between stats lines; 0 disables the reporter")
	flags.BoolVarP(&dryRun, "dry-run", "n", false, "report intended changes without performing them")
	flags.BoolVarP(&queueMode, "queue", "q", false, "use FIFO (breadth-first) ordering instead of the default LIFO (depth-first)")
	flags.BoolVarP(&singleQueue, "single-queue", "o", false, "collapse dual-queue scheduling onto a single shared deque")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every visited entry")

	_ = rootCmd.MarkPersistentFlagRequired("map")
	_ = rootCmd.MarkPersistentFlagRequired("dirs")
	_ = rootCmd.MarkPersistentFlagRequired("exclude")
	_ = rootCmd.MarkPersistentFlagRequired("logdir")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if busyThreshold < 0 || busyThreshold > 1 {
		return exitcode.Configuration(errors.Errorf("busy-threshold %.2f out of range [0,1]", busyThreshold))
	}

	log, err := logger.Open(logDirPath)
	if err != nil {
		return exitcode.Configuration(err)
	}
	defer log.Close()

	ids, err := config.LoadIDMap(mapFilePath, log)
	if err != nil {
		return exitcode.Configuration(err)
	}
	roots, err := config.LoadRoots(rootsFilePath, log)
	if err != nil {
		return exitcode.Configuration(err)
	}
	excludeNames, err := config.LoadExcludes(excludeFilePath, log)
	if err != nil {
		return exitcode.Configuration(err)
	}
	excludes := excludeset.New(excludeNames)

	workerCount, err := pool.ComputeWorkerCount(numThreads)
	if err != nil {
		return exitcode.Allocation(err)
	}

	mode := scheduler.ModeStack
	if queueMode {
		mode = scheduler.ModeQueue
	}

	if verbose {
		log.Log(logger.LevelInfo, fmt.Sprintf(
			"starting: threads=%d busy-threshold=%.2f mode=%s single-queue=%v dry-run=%v roots=%v",
			workerCount, busyThreshold, modeName(mode), singleQueue, dryRun, roots))
	}

	sch := scheduler.New(scheduler.Config{NumWorkers: workerCount, SingleQueue: singleQueue, Mode: mode})

	seeds := make([]*workitem.Item, len(roots))
	for i, r := range roots {
		seeds[i] = workitem.New(r, i)
	}
	sch.Seed(seeds)

	hardlinks := hardlinkset.New()
	counters := make([]*stats.Counters, workerCount)
	workers := make([]*worker.Worker, workerCount)
	for i := range workers {
		counters[i] = &stats.Counters{}
		cfg := worker.Config{
			Index:         i,
			Mode:          mode,
			BusyThreshold: busyThreshold,
			IDs:           ids,
			Excludes:      excludes,
			Hardlinks:     hardlinks,
			DryRun:        dryRun,
			Verbose:       verbose,
			VerboseXattr:  verbose,
			DryRunOut:     os.Stdout,
			VerboseOut:    os.Stdout,
			Log:           log,
			Counters:      counters[i],
		}
		workers[i] = worker.New(cfg, sch)
	}

	p, _ := pool.New(context.Background(), sch)
	stop := p.WatchSignals()
	defer stop()

	var reporter *statsreporter.Reporter
	if statsInterval > 0 {
		reporter = statsreporter.New(time.Duration(statsInterval)*time.Second, sch, counters, os.Stdout)
		p.Spawn(reporter.Run)
	}
	for _, w := range workers {
		w := w
		p.Spawn(w.Run)
	}

	return p.Wait()
}

func modeName(m scheduler.Mode) string {
	if m == scheduler.ModeQueue {
		return "queue"
	}
	return "stack"
}
