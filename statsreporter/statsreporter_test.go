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

package statsreporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fritzkink/chuidcopy/scheduler"
	"github.com/fritzkink/chuidcopy/stats"
	"github.com/fritzkink/chuidcopy/workitem"
)

func TestRunPrintsUntilQuiescenceThenTrailingNewline(t *testing.T) {
	a := assert.New(t)

	sch := scheduler.New(scheduler.Config{NumWorkers: 1})
	sch.Seed([]*workitem.Item{workitem.New("/root", 0)})
	_, ok := sch.Dispatch()
	a.True(ok)

	counters := &stats.Counters{}
	counters.IncFiles()
	counters.IncDirs()

	var out bytes.Buffer
	r := New(10*time.Millisecond, sch, []*stats.Counters{counters}, &out)

	done := make(chan struct{})
	go func() {
		r.Run()
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	sch.Release()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reporter never stopped after quiescence")
	}

	a.Contains(out.String(), "busy=")
	a.True(bytes.HasSuffix(out.Bytes(), []byte("\n")))
}

func TestSumAddsAcrossWorkers(t *testing.T) {
	a := assert.New(t)

	c1, c2 := &stats.Counters{}, &stats.Counters{}
	c1.IncFiles()
	c2.IncFiles()
	c2.IncDirs()

	sch := scheduler.New(scheduler.Config{NumWorkers: 1})
	r := New(time.Second, sch, []*stats.Counters{c1, c2}, &bytes.Buffer{})

	total := r.sum()
	a.Equal(uint64(2), total.Files)
	a.Equal(uint64(1), total.Dirs)
}
