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

package deque

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fritzkink/chuidcopy/workitem"
)

func TestPushPopFront(t *testing.T) {
	a := assert.New(t)
	var d Deque
	a.True(d.Empty())

	d.PushFront(workitem.New("/a", 0))
	d.PushFront(workitem.New("/b", 0))
	a.Equal(2, d.Len())

	a.Equal("/b", d.PopFront().Path)
	a.Equal("/a", d.PopFront().Path)
	a.Nil(d.PopFront())
	a.True(d.Empty())
}

func TestPushPopBack(t *testing.T) {
	a := assert.New(t)
	var d Deque
	d.PushBack(workitem.New("/a", 0))
	d.PushBack(workitem.New("/b", 0))

	a.Equal("/b", d.PopBack().Path)
	a.Equal("/a", d.PopBack().Path)
	a.Nil(d.PopBack())
}

func TestMixedEnds(t *testing.T) {
	a := assert.New(t)
	var d Deque
	d.PushBack(workitem.New("/1", 0))
	d.PushFront(workitem.New("/0", 0))
	d.PushBack(workitem.New("/2", 0))

	a.Equal("/0", d.PopFront().Path)
	a.Equal("/2", d.PopBack().Path)
	a.Equal("/1", d.PopFront().Path)
	a.True(d.Empty())
}

func TestSpliceFrontEmptiesOther(t *testing.T) {
	a := assert.New(t)
	var dst, src Deque
	dst.PushBack(workitem.New("/z", 0))
	src.PushBack(workitem.New("/x", 0))
	src.PushBack(workitem.New("/y", 0))

	dst.SpliceFront(&src)
	a.True(src.Empty())
	a.Equal(0, src.Len())
	a.Equal(3, dst.Len())

	a.Equal("/x", dst.PopFront().Path)
	a.Equal("/y", dst.PopFront().Path)
	a.Equal("/z", dst.PopFront().Path)
}

func TestSpliceBackEmptiesOther(t *testing.T) {
	a := assert.New(t)
	var dst, src Deque
	dst.PushBack(workitem.New("/z", 0))
	src.PushBack(workitem.New("/x", 0))
	src.PushBack(workitem.New("/y", 0))

	dst.SpliceBack(&src)
	a.True(src.Empty())
	a.Equal(3, dst.Len())

	a.Equal("/z", dst.PopFront().Path)
	a.Equal("/x", dst.PopFront().Path)
	a.Equal("/y", dst.PopFront().Path)
}

func TestSpliceIntoEmptyDeque(t *testing.T) {
	a := assert.New(t)
	var dst, src Deque
	src.PushBack(workitem.New("/x", 0))
	src.PushBack(workitem.New("/y", 0))

	dst.SpliceFront(&src)
	a.Equal(2, dst.Len())
	a.Equal("/x", dst.PopFront().Path)
	a.Equal("/y", dst.PopFront().Path)
}

func TestSpliceEmptyOtherIsNoop(t *testing.T) {
	a := assert.New(t)
	var dst, src Deque
	dst.PushBack(workitem.New("/a", 0))

	dst.SpliceBack(&src)
	a.Equal(1, dst.Len())
}

func TestLenEmptyInvariant(t *testing.T) {
	a := assert.New(t)
	var d Deque
	a.Equal(0, d.Len())
	d.PushFront(workitem.New("/a", 0))
	a.False(d.Empty())
	d.PopFront()
	a.Equal(0, d.Len())
	a.True(d.Empty())
}
