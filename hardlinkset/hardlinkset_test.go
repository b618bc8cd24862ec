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

package hardlinkset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstSeenThenDuplicate(t *testing.T) {
	a := assert.New(t)
	s := New()

	a.True(s.TestAndInsert(1, 100))
	a.False(s.TestAndInsert(1, 100))
	a.True(s.TestAndInsert(1, 200))
	a.True(s.TestAndInsert(2, 100))
	a.Equal(3, s.Len())
}

func TestConcurrentInsertExactlyOneFirstSeen(t *testing.T) {
	a := assert.New(t)
	s := New()

	const goroutines = 64
	results := make([]bool, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(idx int) {
			defer wg.Done()
			results[idx] = s.TestAndInsert(7, 42)
		}(i)
	}
	wg.Wait()

	firstSeenCount := 0
	for _, r := range results {
		if r {
			firstSeenCount++
		}
	}
	a.Equal(1, firstSeenCount)
}

func TestZeroValueUsable(t *testing.T) {
	a := assert.New(t)
	var s Set
	a.True(s.TestAndInsert(1, 1))
	a.False(s.TestAndInsert(1, 1))
}
