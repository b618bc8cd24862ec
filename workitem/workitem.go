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

// Package workitem defines the unit of work passed between the scheduler
// and its workers: one resumable directory traversal.
package workitem

// Item represents a directory whose children remain to be processed.
// An Item is owned by exactly one of a private deque, a shared deque, or a
// worker's local variable at any given time; it is never aliased.
type Item struct {
	Path string

	// Cursor resumes a partially-consumed directory stream: the number of
	// entries already read. Zero means "start from the beginning". Set by
	// the worker reading the directory when an idle check closes the
	// stream mid-enumeration; that same worker reopens it at this offset.
	Cursor uintptr

	// RootIndex is a non-owning back-reference into the list of
	// traversal roots. It exists solely to attribute statistics to a
	// root; it plays no part in traversal itself.
	RootIndex int

	// DirectSubdirs counts direct subdirectories discovered so far.
	// Diagnostic only; nothing reads it (not the scheduler, the
	// idle-check, or the verbose output).
	DirectSubdirs int
}

// New creates a fresh Item for a directory that has not yet been opened,
// whether seeded as a traversal root or discovered as a child.
func New(path string, rootIndex int) *Item {
	return &Item{Path: path, RootIndex: rootIndex}
}
