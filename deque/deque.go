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

// Package deque implements the doubly-anchored work queue shared between
// the scheduler and its workers. It is an intrusive doubly linked list of
// *workitem.Item nodes with O(1) push/pop at either end and O(1) splice of
// one entire deque onto another.
//
// Deque carries no locking of its own: callers hold whatever mutex encloses
// the Deque (the scheduler mutex for shared deques, nothing for a worker's
// private deque) for the duration of every method call.
package deque

import "github.com/fritzkink/chuidcopy/workitem"

type node struct {
	item       *workitem.Item
	prev, next *node
}

// Deque is a doubly-anchored list of work items, plus the two scalar
// attributes the scheduler uses to make dispatch decisions.
type Deque struct {
	front, back *node
	count       int

	// Speed is the most recent transferring worker's measured scan
	// rate (directories/second). Only meaningful on shared deques;
	// updated by whoever holds the enclosing mutex.
	Speed float64
}

// Len returns the number of items currently in the deque.
// Len() == 0 iff the deque is empty, iff both ends are nil.
func (d *Deque) Len() int {
	return d.count
}

// Empty reports whether the deque currently holds no items.
func (d *Deque) Empty() bool {
	return d.count == 0
}

// PushFront pushes item onto the front of the deque.
func (d *Deque) PushFront(item *workitem.Item) {
	n := &node{item: item, next: d.front}
	if d.front != nil {
		d.front.prev = n
	} else {
		d.back = n
	}
	d.front = n
	d.count++
}

// PushBack pushes item onto the back of the deque.
func (d *Deque) PushBack(item *workitem.Item) {
	n := &node{item: item, prev: d.back}
	if d.back != nil {
		d.back.next = n
	} else {
		d.front = n
	}
	d.back = n
	d.count++
}

// PopFront removes and returns the item at the front of the deque, or nil
// if the deque is empty.
func (d *Deque) PopFront() *workitem.Item {
	if d.front == nil {
		return nil
	}
	n := d.front
	d.front = n.next
	if d.front != nil {
		d.front.prev = nil
	} else {
		d.back = nil
	}
	d.count--
	return n.item
}

// PopBack removes and returns the item at the back of the deque, or nil if
// the deque is empty.
func (d *Deque) PopBack() *workitem.Item {
	if d.back == nil {
		return nil
	}
	n := d.back
	d.back = n.prev
	if d.back != nil {
		d.back.next = nil
	} else {
		d.front = nil
	}
	d.count--
	return n.item
}

// SpliceFront moves every item in other to the front of d, in O(1), and
// empties other. The relative order within other is preserved.
func (d *Deque) SpliceFront(other *Deque) {
	if other.count == 0 {
		return
	}
	if d.front != nil {
		d.front.prev = other.back
		other.back.next = d.front
	} else {
		d.back = other.back
	}
	d.front = other.front
	d.count += other.count
	other.front, other.back, other.count = nil, nil, 0
}

// SpliceBack moves every item in other to the back of d, in O(1), and
// empties other. The relative order within other is preserved.
func (d *Deque) SpliceBack(other *Deque) {
	if other.count == 0 {
		return
	}
	if d.back != nil {
		d.back.next = other.front
		other.front.prev = d.back
	} else {
		d.front = other.front
	}
	d.back = other.back
	d.count += other.count
	other.front, other.back, other.count = nil, nil, 0
}
